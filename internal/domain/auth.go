package domain

import "time"

// SubjectType identifies the kind of authenticated principal. Members badge
// through the gates but do not log in; only staff hold API credentials.
type SubjectType string

const (
	SubjectTypeStaff SubjectType = "STAFF"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	Role      *StaffRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
