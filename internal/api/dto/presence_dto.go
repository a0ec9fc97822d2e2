package dto

import (
	"time"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

// PresenceRecordResponse is one row of the occupancy table.
type PresenceRecordResponse struct {
	RFIDTag            string                `json:"rfid_tag"`
	DisplayName        string                `json:"display_name"`
	ProfileImageURL    string                `json:"profile_image_url,omitempty"`
	VisitorKind        domain.VisitorKind    `json:"visitor_kind,omitempty"`
	BillingKind        domain.BillingKind    `json:"billing_kind,omitempty"`
	Status             domain.PresenceStatus `json:"status"`
	EntryTime          *time.Time            `json:"entry_time,omitempty"`
	ExitTime           *time.Time            `json:"exit_time,omitempty"`
	LastActivity       time.Time             `json:"last_activity"`
	RemainingBalance   *float64              `json:"remaining_balance,omitempty"`
	LastDeduction      *float64              `json:"last_deduction,omitempty"`
	SubscriptionExpiry *time.Time            `json:"subscription_expiry,omitempty"`
}

// SnapshotResponse is the ordered occupancy view plus derived counts.
type SnapshotResponse struct {
	Records      []PresenceRecordResponse `json:"records"`
	InsideCount  int                      `json:"inside_count"`
	OutsideCount int                      `json:"outside_count"`
}

// HighlightResponse is one "just happened" card.
type HighlightResponse struct {
	RFIDTag     string               `json:"rfid_tag"`
	DisplayName string               `json:"display_name"`
	Kind        domain.HighlightKind `json:"kind"`
	OccurredAt  time.Time            `json:"occurred_at"`
}

// HighlightsResponse holds the current entry and exit cards, either of which
// may be absent.
type HighlightsResponse struct {
	Entry *HighlightResponse `json:"entry,omitempty"`
	Exit  *HighlightResponse `json:"exit,omitempty"`
}

// IngestResultResponse reports what became of an HTTP-ingested frame.
type IngestResultResponse struct {
	Applied bool   `json:"applied"`
	Discard string `json:"discard_reason,omitempty"`
}

// VisitResponse is one access-log row.
type VisitResponse struct {
	ID          string             `json:"id"`
	RFIDTag     string             `json:"rfid_tag"`
	MemberName  string             `json:"member_name"`
	VisitorKind domain.VisitorKind `json:"visitor_kind"`
	Kind        domain.VisitKind   `json:"kind"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// FromPresenceRecord maps a ledger record onto the response shape.
func FromPresenceRecord(rec domain.PresenceRecord) PresenceRecordResponse {
	return PresenceRecordResponse{
		RFIDTag:            rec.IdentityTag,
		DisplayName:        rec.DisplayName,
		ProfileImageURL:    rec.ProfileImageURL,
		VisitorKind:        rec.VisitorKind,
		BillingKind:        rec.BillingKind,
		Status:             rec.Status,
		EntryTime:          rec.EntryTime,
		ExitTime:           rec.ExitTime,
		LastActivity:       rec.LastActivity,
		RemainingBalance:   rec.Supplemental.RemainingBalance,
		LastDeduction:      rec.Supplemental.LastDeduction,
		SubscriptionExpiry: rec.Supplemental.SubscriptionExpiry,
	}
}

// FromHighlight maps a highlight onto the response shape.
func FromHighlight(h *domain.HighlightEntry) *HighlightResponse {
	if h == nil {
		return nil
	}
	return &HighlightResponse{
		RFIDTag:     h.IdentityTag,
		DisplayName: h.DisplayName,
		Kind:        h.Kind,
		OccurredAt:  h.OccurredAt,
	}
}

// FromVisit maps an access-log row onto the response shape.
func FromVisit(v domain.Visit) VisitResponse {
	return VisitResponse{
		ID:          v.ID,
		RFIDTag:     v.RFIDTag,
		MemberName:  v.MemberName,
		VisitorKind: v.VisitorKind,
		Kind:        v.Kind,
		OccurredAt:  v.OccurredAt,
	}
}
