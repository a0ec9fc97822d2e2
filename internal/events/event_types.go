package events

import (
	"time"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMemberEntered   EventType = "member_entered"
	EventMemberExited    EventType = "member_exited"
	EventPresenceUpdated EventType = "presence_updated"
	EventStaffScanRouted EventType = "staff_scan_routed"
)

// Event represents a domain event emitted after reconciliation.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	IdentityTag string      `json:"identity_tag"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// MemberEnteredPayload payload.
type MemberEnteredPayload struct {
	DisplayName      string             `json:"display_name"`
	VisitorKind      domain.VisitorKind `json:"visitor_kind"`
	BillingKind      domain.BillingKind `json:"billing_kind"`
	EntryTime        time.Time          `json:"entry_time"`
	RemainingBalance *float64           `json:"remaining_balance,omitempty"`
	Expiry           *time.Time         `json:"subscription_expiry,omitempty"`
}

// MemberExitedPayload payload.
type MemberExitedPayload struct {
	DisplayName string             `json:"display_name"`
	VisitorKind domain.VisitorKind `json:"visitor_kind"`
	ExitTime    time.Time          `json:"exit_time"`
}

// PresenceUpdatedPayload payload emitted on every reconciled ledger change.
type PresenceUpdatedPayload struct {
	InsideCount  int `json:"inside_count"`
	OutsideCount int `json:"outside_count"`
}

// StaffScanRoutedPayload payload.
type StaffScanRoutedPayload struct {
	Outcome domain.RoutingOutcome `json:"outcome"`
}
