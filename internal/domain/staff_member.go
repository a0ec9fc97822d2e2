package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleFrontDesk StaffRole = "FRONT_DESK"
	StaffRoleTrainer   StaffRole = "TRAINER"
	StaffRoleAdmin     StaffRole = "ADMIN"
)

// StaffMember models a front-desk operator, trainer or administrator.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	RFIDTag      *string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
