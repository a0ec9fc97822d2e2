package domain

import "time"

// VisitKind marks a logged transition as an entry or an exit.
type VisitKind string

const (
	VisitEntry VisitKind = "ENTRY"
	VisitExit  VisitKind = "EXIT"
)

// Visit is one row of the append-only access log.
type Visit struct {
	ID          string
	RFIDTag     string
	MemberName  string
	VisitorKind VisitorKind
	Kind        VisitKind
	OccurredAt  time.Time
	CreatedAt   time.Time
}
