package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/repository"
	apperrors "github.com/spec-kit/gym-access-service/pkg/util/errorutil"
)

// fakeMemberRepo is an in-memory MemberRepository for service tests.
type fakeMemberRepo struct {
	byID  map[string]*domain.Member
	byTag map[string]*domain.Member
	seq   int
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{
		byID:  make(map[string]*domain.Member),
		byTag: make(map[string]*domain.Member),
	}
}

func (r *fakeMemberRepo) Create(_ context.Context, member *domain.Member) error {
	r.seq++
	member.ID = string(rune('0' + r.seq))
	cp := *member
	r.byID[member.ID] = &cp
	r.byTag[member.RFIDTag] = &cp
	return nil
}

func (r *fakeMemberRepo) Update(_ context.Context, member *domain.Member) error {
	if _, ok := r.byID[member.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *member
	r.byID[member.ID] = &cp
	r.byTag[member.RFIDTag] = &cp
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id string) (*domain.Member, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) GetByTag(_ context.Context, tag string) (*domain.Member, error) {
	m, ok := r.byTag[tag]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) List(_ context.Context, _ repository.MemberFilter) ([]domain.Member, error) {
	out := make([]domain.Member, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, *m)
	}
	return out, nil
}

func TestMemberServiceRegister(t *testing.T) {
	svc := NewMemberService(newFakeMemberRepo())

	member, err := svc.Register(context.Background(), MemberCreateInput{
		RFIDTag: "TAG-1",
		Name:    "Ada Lovelace",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, member.ID)
	assert.True(t, member.Active)
	assert.Equal(t, domain.VisitorKindMember, member.VisitorKind)
	assert.Equal(t, domain.BillingKindNone, member.BillingKind)
}

func TestMemberServiceRegisterValidation(t *testing.T) {
	svc := NewMemberService(newFakeMemberRepo())

	_, err := svc.Register(context.Background(), MemberCreateInput{RFIDTag: "  ", Name: "Ada"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestMemberServiceRegisterRejectsDuplicateTag(t *testing.T) {
	svc := NewMemberService(newFakeMemberRepo())

	_, err := svc.Register(context.Background(), MemberCreateInput{RFIDTag: "TAG-1", Name: "Ada"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), MemberCreateInput{RFIDTag: "TAG-1", Name: "Grace"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestMemberServiceUpdatePartial(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	created, err := svc.Register(context.Background(), MemberCreateInput{RFIDTag: "TAG-1", Name: "Ada"})
	require.NoError(t, err)

	billing := domain.BillingKindPrepaid
	balance := 250.0
	updated, err := svc.Update(context.Background(), created.ID, MemberUpdateInput{
		BillingKind: &billing,
		Balance:     &balance,
	})
	require.NoError(t, err)

	// Untouched fields survive the partial update.
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, domain.BillingKindPrepaid, updated.BillingKind)
	require.NotNil(t, updated.Balance)
	assert.Equal(t, 250.0, *updated.Balance)
}

func TestMemberServiceGetByTagNotFound(t *testing.T) {
	svc := NewMemberService(newFakeMemberRepo())

	_, err := svc.GetByTag(context.Background(), "TAG-MISSING")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
