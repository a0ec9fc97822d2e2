package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/repository"
	apperrors "github.com/spec-kit/gym-access-service/pkg/util/errorutil"
)

// MemberService coordinates member administration workflows: the screens a
// staff scan routes into (registration, top-up, renewal) land on these
// operations.
type MemberService struct {
	members repository.MemberRepository
}

// NewMemberService builds the service.
func NewMemberService(members repository.MemberRepository) *MemberService {
	return &MemberService{members: members}
}

// MemberCreateInput describes a registration payload.
type MemberCreateInput struct {
	RFIDTag            string
	Name               string
	Email              *string
	ProfileImageURL    *string
	VisitorKind        domain.VisitorKind
	BillingKind        domain.BillingKind
	Balance            *float64
	SubscriptionExpiry *time.Time
}

// Register creates a new member bound to an RFID tag.
func (s *MemberService) Register(ctx context.Context, input MemberCreateInput) (*domain.Member, error) {
	if strings.TrimSpace(input.RFIDTag) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("rfid_tag and name required", nil)
	}

	if _, err := s.members.GetByTag(ctx, input.RFIDTag); err == nil {
		return nil, apperrors.NewConflict("rfid tag already registered", map[string]any{"rfid_tag": input.RFIDTag})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	if input.VisitorKind == "" {
		input.VisitorKind = domain.VisitorKindMember
	}
	if input.BillingKind == "" {
		input.BillingKind = domain.BillingKindNone
	}

	member := &domain.Member{
		RFIDTag:            input.RFIDTag,
		Name:               input.Name,
		Email:              input.Email,
		ProfileImageURL:    input.ProfileImageURL,
		VisitorKind:        input.VisitorKind,
		BillingKind:        input.BillingKind,
		Balance:            input.Balance,
		SubscriptionExpiry: input.SubscriptionExpiry,
		Active:             true,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// MemberUpdateInput describes a partial member update.
type MemberUpdateInput struct {
	Name               *string
	Email              *string
	ProfileImageURL    *string
	BillingKind        *domain.BillingKind
	Balance            *float64
	SubscriptionExpiry *time.Time
	Active             *bool
}

// Update applies a partial update to a member profile.
func (s *MemberService) Update(ctx context.Context, id string, input MemberUpdateInput) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		member.Name = *input.Name
	}
	if input.Email != nil {
		member.Email = input.Email
	}
	if input.ProfileImageURL != nil {
		member.ProfileImageURL = input.ProfileImageURL
	}
	if input.BillingKind != nil {
		member.BillingKind = *input.BillingKind
	}
	if input.Balance != nil {
		member.Balance = input.Balance
	}
	if input.SubscriptionExpiry != nil {
		member.SubscriptionExpiry = input.SubscriptionExpiry
	}
	if input.Active != nil {
		member.Active = *input.Active
	}

	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// GetByTag looks a member up by RFID tag.
func (s *MemberService) GetByTag(ctx context.Context, rfidTag string) (*domain.Member, error) {
	member, err := s.members.GetByTag(ctx, rfidTag)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("member", map[string]any{"rfid_tag": rfidTag})
		}
		return nil, err
	}
	return member, nil
}

// List returns members matching the filter.
func (s *MemberService) List(ctx context.Context, filter repository.MemberFilter) ([]domain.Member, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.members.List(ctx, filter)
}
