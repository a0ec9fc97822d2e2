package stream

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

// DiscardReason explains why a frame was dropped before reconciliation.
// The empty value means the frame was accepted.
type DiscardReason string

const (
	DiscardNone          DiscardReason = ""
	DiscardMalformed     DiscardReason = "malformed_message"
	DiscardUnknownType   DiscardReason = "unrecognized_event_type"
	DiscardMissingTag    DiscardReason = "missing_identity_tag"
	DiscardUnregistered  DiscardReason = "unregistered_status"
	DiscardWrongStation  DiscardReason = "wrong_station"
	DiscardDuplicateScan DiscardReason = "duplicate_scan_suppressed"
)

const staffStation = "STAFF"

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type memberUpdateData struct {
	RFIDTag            string   `json:"rfid_tag"`
	FullName           string   `json:"full_name"`
	ProfileImageURL    string   `json:"profile_image_url"`
	EntryTime          *string  `json:"entry_time"`
	ExitTime           *string  `json:"exit_time"`
	Status             string   `json:"status"`
	VisitorType        string   `json:"visitor_type"`
	SystemType         string   `json:"system_type"`
	DeductedAmount     *float64 `json:"deducted_amount"`
	RemainingBalance   *float64 `json:"remaining_balance"`
	SubscriptionExpiry *string  `json:"subscription_expiry"`
}

type staffScanData struct {
	RFIDTag            string   `json:"rfid_tag"`
	Status             string   `json:"status"`
	Location           string   `json:"location"`
	FullName           string   `json:"full_name"`
	SystemType         string   `json:"system_type"`
	CurrentBalance     *float64 `json:"current_balance"`
	SubscriptionExpiry *string  `json:"subscription_expiry"`
}

// Normalizer converts opaque feed frames into typed inbound events. It is a
// pure transform except for the staff-scan coalescing state, which suppresses
// double-fires from a single physical badge tap.
type Normalizer struct {
	coalesceWindow time.Duration
	now            func() time.Time

	mu        sync.Mutex
	lastScans map[string]time.Time
}

// NewNormalizer builds a normalizer with the given staff-scan coalescing
// window. A non-positive window disables duplicate suppression.
func NewNormalizer(coalesceWindow time.Duration, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{
		coalesceWindow: coalesceWindow,
		now:            now,
		lastScans:      make(map[string]time.Time),
	}
}

// Normalize parses one raw frame. A nil event with a non-empty reason means
// the frame was discarded; the stream always continues with the next frame.
func (n *Normalizer) Normalize(raw []byte) (InboundEvent, DiscardReason) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, DiscardMalformed
	}

	switch env.Type {
	case "member-update":
		return n.normalizeMemberUpdate(env.Data)
	case "staff-scan":
		return n.normalizeStaffScan(env.Data)
	default:
		return nil, DiscardUnknownType
	}
}

func (n *Normalizer) normalizeMemberUpdate(data json.RawMessage) (InboundEvent, DiscardReason) {
	var d memberUpdateData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, DiscardMalformed
	}
	if d.RFIDTag == "" {
		return nil, DiscardMissingTag
	}

	// Not a presence transition; dropped before it can reach the ledger.
	if d.Status == "unregistered" {
		return nil, DiscardUnregistered
	}

	var status *domain.PresenceStatus
	switch d.Status {
	case "inside":
		s := domain.PresenceInside
		status = &s
	case "outside":
		s := domain.PresenceOutside
		status = &s
	case "":
		// Status omitted; the reconciliation step derives it from the
		// entry/exit timestamp shape.
	default:
		return nil, DiscardMalformed
	}

	entry, ok := parseOptionalTime(d.EntryTime)
	if !ok {
		return nil, DiscardMalformed
	}
	exit, ok := parseOptionalTime(d.ExitTime)
	if !ok {
		return nil, DiscardMalformed
	}
	expiry, ok := parseOptionalTime(d.SubscriptionExpiry)
	if !ok {
		return nil, DiscardMalformed
	}

	billing, known := parseBillingField(d.SystemType)

	// visitor_type absent means "not restated in this frame", not "member";
	// the ledger must preserve the prior value in that case.
	var visitor domain.VisitorKind
	if d.VisitorType != "" {
		visitor = domain.ParseVisitorKind(d.VisitorType)
	}

	return MemberPresenceChanged{
		IdentityTag:        d.RFIDTag,
		DisplayName:        d.FullName,
		ProfileImageURL:    d.ProfileImageURL,
		Status:             status,
		EntryTime:          entry,
		ExitTime:           exit,
		VisitorKind:        visitor,
		BillingKind:        billing,
		BillingKindKnown:   known,
		DeductedAmount:     d.DeductedAmount,
		RemainingBalance:   d.RemainingBalance,
		SubscriptionExpiry: expiry,
	}, DiscardNone
}

func (n *Normalizer) normalizeStaffScan(data json.RawMessage) (InboundEvent, DiscardReason) {
	var d staffScanData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, DiscardMalformed
	}
	if d.RFIDTag == "" {
		return nil, DiscardMissingTag
	}
	if d.Location != staffStation {
		return nil, DiscardWrongStation
	}

	scannedAt := n.now()
	if n.isDuplicateScan(d.RFIDTag, scannedAt) {
		return nil, DiscardDuplicateScan
	}

	expiry, ok := parseOptionalTime(d.SubscriptionExpiry)
	if !ok {
		return nil, DiscardMalformed
	}

	billing, known := parseBillingField(d.SystemType)

	return StaffScanDetected{
		IdentityTag:        d.RFIDTag,
		DisplayName:        d.FullName,
		Station:            d.Location,
		Outcome:            d.Status,
		BillingKind:        billing,
		BillingKindKnown:   known,
		CurrentBalance:     d.CurrentBalance,
		SubscriptionExpiry: expiry,
		ScannedAt:          scannedAt,
	}, DiscardNone
}

// isDuplicateScan reports whether a scan for tag landed inside the coalescing
// window of the previous accepted scan, and records the accepted scan time.
func (n *Normalizer) isDuplicateScan(tag string, at time.Time) bool {
	if n.coalesceWindow <= 0 {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if last, ok := n.lastScans[tag]; ok && at.Sub(last) < n.coalesceWindow {
		return true
	}
	n.lastScans[tag] = at
	return false
}

// parseBillingField maps a frame's system_type onto a billing kind. An empty
// field yields the zero BillingKind (field not restated, preserve prior); an
// unrecognized value yields known=false so callers can surface it.
func parseBillingField(raw string) (domain.BillingKind, bool) {
	if raw == "" {
		return "", true
	}
	return domain.ParseBillingKind(raw)
}

// parseOptionalTime parses an ISO8601 timestamp when present. The second
// return is false when a value is present but unparseable.
func parseOptionalTime(raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
