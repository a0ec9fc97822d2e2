package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

// MemberRepository defines persistence access for gym members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	Update(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByTag(ctx context.Context, rfidTag string) (*domain.Member, error)
	List(ctx context.Context, filter MemberFilter) ([]domain.Member, error)
}

// MemberFilter defines query params for member listing.
type MemberFilter struct {
	VisitorKind *domain.VisitorKind
	BillingKind *domain.BillingKind
	Active      *bool
	NameLike    string
	Limit       int
	Offset      int
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a Postgres-backed implementation.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (rfid_tag, name, email, profile_image_url, visitor_kind, billing_kind, balance, subscription_expiry, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		member.RFIDTag,
		member.Name,
		member.Email,
		member.ProfileImageURL,
		member.VisitorKind,
		member.BillingKind,
		member.Balance,
		member.SubscriptionExpiry,
		member.Active,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	const query = `
        UPDATE members
        SET rfid_tag=$1, name=$2, email=$3, profile_image_url=$4, visitor_kind=$5, billing_kind=$6, balance=$7, subscription_expiry=$8, active_flag=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		member.RFIDTag,
		member.Name,
		member.Email,
		member.ProfileImageURL,
		member.VisitorKind,
		member.BillingKind,
		member.Balance,
		member.SubscriptionExpiry,
		member.Active,
		member.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	const query = `
        SELECT id, rfid_tag, name, email, profile_image_url, visitor_kind, billing_kind, balance, subscription_expiry, active_flag, created_at, updated_at
        FROM members WHERE id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *memberRepository) GetByTag(ctx context.Context, rfidTag string) (*domain.Member, error) {
	const query = `
        SELECT id, rfid_tag, name, email, profile_image_url, visitor_kind, billing_kind, balance, subscription_expiry, active_flag, created_at, updated_at
        FROM members WHERE rfid_tag=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, rfidTag))
}

func (r *memberRepository) List(ctx context.Context, filter MemberFilter) ([]domain.Member, error) {
	query := `
        SELECT id, rfid_tag, name, email, profile_image_url, visitor_kind, billing_kind, balance, subscription_expiry, active_flag, created_at, updated_at
        FROM members`
	args := []any{}
	clauses := []string{}

	if filter.VisitorKind != nil {
		args = append(args, *filter.VisitorKind)
		clauses = append(clauses, fmt.Sprintf("visitor_kind=$%d", len(args)))
	}
	if filter.BillingKind != nil {
		args = append(args, *filter.BillingKind)
		clauses = append(clauses, fmt.Sprintf("billing_kind=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	if filter.NameLike != "" {
		args = append(args, "%"+filter.NameLike+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY name"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(
			&m.ID,
			&m.RFIDTag,
			&m.Name,
			&m.Email,
			&m.ProfileImageURL,
			&m.VisitorKind,
			&m.BillingKind,
			&m.Balance,
			&m.SubscriptionExpiry,
			&m.Active,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *memberRepository) scanOne(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	if err := row.Scan(
		&m.ID,
		&m.RFIDTag,
		&m.Name,
		&m.Email,
		&m.ProfileImageURL,
		&m.VisitorKind,
		&m.BillingKind,
		&m.Balance,
		&m.SubscriptionExpiry,
		&m.Active,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
