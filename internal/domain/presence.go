package domain

import "time"

// PresenceStatus is the authoritative inside/outside state for one identity.
// Raw feed strings never propagate past the normalization boundary.
type PresenceStatus string

const (
	PresenceInside  PresenceStatus = "INSIDE"
	PresenceOutside PresenceStatus = "OUTSIDE"
)

// Supplemental carries the billing-kind-specific fields of a presence record:
// balance and last deduction for prepaid members, expiry for subscriptions.
type Supplemental struct {
	RemainingBalance   *float64
	LastDeduction      *float64
	SubscriptionExpiry *time.Time
}

// PresenceRecord is the current and last-known state for one identity tag.
// Records are created on the first event for a tag and updated in place on
// every subsequent event; they are never deleted.
type PresenceRecord struct {
	IdentityTag     string
	DisplayName     string
	ProfileImageURL string
	VisitorKind     VisitorKind
	BillingKind     BillingKind
	Status          PresenceStatus
	EntryTime       *time.Time
	ExitTime        *time.Time
	LastActivity    time.Time
	Supplemental    Supplemental
}

// HighlightKind distinguishes the two transient highlight slots.
type HighlightKind string

const (
	HighlightKindEntry HighlightKind = "ENTRY"
	HighlightKindExit  HighlightKind = "EXIT"
)

// HighlightEntry is an ephemeral "this identity just transitioned" record,
// held for a bounded display window independent of the ledger.
type HighlightEntry struct {
	IdentityTag string
	DisplayName string
	Kind        HighlightKind
	OccurredAt  time.Time
}

// RoutingKind classifies a staff scan for downstream screen routing.
type RoutingKind string

const (
	RoutingMemberFound        RoutingKind = "MEMBER_FOUND"
	RoutingUnregistered       RoutingKind = "UNREGISTERED"
	RoutingUnknownBillingKind RoutingKind = "UNKNOWN_BILLING_KIND"
)

// RoutingOutcome is the classification result of a staff-station scan. The
// caller decides which transaction screen (top-up, renewal, registration) to
// present; this service only classifies.
type RoutingOutcome struct {
	Kind         RoutingKind
	IdentityTag  string
	DisplayName  string
	BillingKind  BillingKind
	Supplemental Supplemental
	ScannedAt    time.Time
}
