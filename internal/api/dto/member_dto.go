package dto

import (
	"time"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

// CreateMemberRequest payload for registering a member.
type CreateMemberRequest struct {
	RFIDTag            string             `json:"rfid_tag"`
	Name               string             `json:"name"`
	Email              *string            `json:"email"`
	ProfileImageURL    *string            `json:"profile_image_url"`
	VisitorKind        domain.VisitorKind `json:"visitor_kind"`
	BillingKind        domain.BillingKind `json:"billing_kind"`
	Balance            *float64           `json:"balance"`
	SubscriptionExpiry *time.Time         `json:"subscription_expiry"`
}

// UpdateMemberRequest payload for partial profile updates.
type UpdateMemberRequest struct {
	Name               *string             `json:"name"`
	Email              *string             `json:"email"`
	ProfileImageURL    *string             `json:"profile_image_url"`
	BillingKind        *domain.BillingKind `json:"billing_kind"`
	Balance            *float64            `json:"balance"`
	SubscriptionExpiry *time.Time          `json:"subscription_expiry"`
	Active             *bool               `json:"active"`
}

// MemberResponse response.
type MemberResponse struct {
	ID                 string             `json:"id"`
	RFIDTag            string             `json:"rfid_tag"`
	Name               string             `json:"name"`
	Email              *string            `json:"email,omitempty"`
	ProfileImageURL    *string            `json:"profile_image_url,omitempty"`
	VisitorKind        domain.VisitorKind `json:"visitor_kind"`
	BillingKind        domain.BillingKind `json:"billing_kind"`
	Balance            *float64           `json:"balance,omitempty"`
	SubscriptionExpiry *time.Time         `json:"subscription_expiry,omitempty"`
	Active             bool               `json:"active"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// FromMember maps the domain aggregate onto the response shape.
func FromMember(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:                 m.ID,
		RFIDTag:            m.RFIDTag,
		Name:               m.Name,
		Email:              m.Email,
		ProfileImageURL:    m.ProfileImageURL,
		VisitorKind:        m.VisitorKind,
		BillingKind:        m.BillingKind,
		Balance:            m.Balance,
		SubscriptionExpiry: m.SubscriptionExpiry,
		Active:             m.Active,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
