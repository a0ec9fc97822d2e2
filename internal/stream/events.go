package stream

import (
	"time"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

// Known staff-scan outcome strings published by the scanner firmware. Other
// values are carried through verbatim so classification can surface them.
const (
	ScanOutcomeMemberFound  = "member_found"
	ScanOutcomeUnregistered = "unregistered"
)

// InboundEvent is a feed frame after normalization. Exactly one of the
// concrete types below is produced per accepted frame.
type InboundEvent interface {
	// Tag returns the identity tag the event refers to; never empty for a
	// normalized event.
	Tag() string
}

// MemberPresenceChanged is a normalized "member-update" frame: a snapshot of
// one member's presence state republished by the gate controller.
type MemberPresenceChanged struct {
	IdentityTag        string
	DisplayName        string
	ProfileImageURL    string
	Status             *domain.PresenceStatus
	EntryTime          *time.Time
	ExitTime           *time.Time
	VisitorKind        domain.VisitorKind
	BillingKind        domain.BillingKind
	BillingKindKnown   bool
	DeductedAmount     *float64
	RemainingBalance   *float64
	SubscriptionExpiry *time.Time
}

// Tag implements InboundEvent.
func (e MemberPresenceChanged) Tag() string { return e.IdentityTag }

// StaffScanDetected is a normalized "staff-scan" frame: a badge tap at the
// staff station, to be classified into a routing outcome.
type StaffScanDetected struct {
	IdentityTag        string
	DisplayName        string
	Station            string
	Outcome            string
	BillingKind        domain.BillingKind
	BillingKindKnown   bool
	CurrentBalance     *float64
	SubscriptionExpiry *time.Time
	ScannedAt          time.Time
}

// Tag implements InboundEvent.
func (e StaffScanDetected) Tag() string { return e.IdentityTag }
