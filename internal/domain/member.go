package domain

import (
	"strings"
	"time"
)

// VisitorKind classifies how an identity uses the facility.
type VisitorKind string

const (
	VisitorKindMember  VisitorKind = "MEMBER"
	VisitorKindDayPass VisitorKind = "DAY_PASS"
	VisitorKindStaff   VisitorKind = "STAFF"
)

// BillingKind determines which supplemental fields apply to a member.
type BillingKind string

const (
	BillingKindPrepaid      BillingKind = "PREPAID"
	BillingKindSubscription BillingKind = "SUBSCRIPTION"
	BillingKindNone         BillingKind = "NONE"
)

// Member is the aggregate for registered gym members and day-pass holders.
type Member struct {
	ID                 string
	RFIDTag            string
	Name               string
	Email              *string
	ProfileImageURL    *string
	VisitorKind        VisitorKind
	BillingKind        BillingKind
	Balance            *float64
	SubscriptionExpiry *time.Time
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ParseVisitorKind maps feed strings like "member" or "day_pass" onto the enum.
// Unknown values fall back to MEMBER rather than rejecting the event.
func ParseVisitorKind(raw string) VisitorKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "staff":
		return VisitorKindStaff
	case "day_pass", "daypass", "day-pass":
		return VisitorKindDayPass
	default:
		return VisitorKindMember
	}
}

// ParseBillingKind maps feed system_type values onto the enum. The second
// return reports whether the value was recognized; callers surface unknown
// values instead of guessing (it indicates a configuration gap upstream).
func ParseBillingKind(raw string) (BillingKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "prepaid_entry", "prepaid":
		return BillingKindPrepaid, true
	case "subscription":
		return BillingKindSubscription, true
	case "":
		return BillingKindNone, true
	default:
		return BillingKindNone, false
	}
}
