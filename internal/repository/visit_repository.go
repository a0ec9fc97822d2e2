package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

// VisitRepository persists the append-only access log.
type VisitRepository interface {
	Append(ctx context.Context, visit *domain.Visit) error
	ListByTag(ctx context.Context, rfidTag string, limit, offset int) ([]domain.Visit, error)
	CountSince(ctx context.Context, since time.Time) (entries int64, exits int64, err error)
}

type visitRepository struct {
	pool *pgxpool.Pool
}

// NewVisitRepository returns a Postgres-backed implementation.
func NewVisitRepository(pool *pgxpool.Pool) VisitRepository {
	return &visitRepository{pool: pool}
}

func (r *visitRepository) Append(ctx context.Context, visit *domain.Visit) error {
	const query = `
        INSERT INTO visits (rfid_tag, member_name, visitor_kind, kind, occurred_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		visit.RFIDTag,
		visit.MemberName,
		visit.VisitorKind,
		visit.Kind,
		visit.OccurredAt,
	).Scan(&visit.ID, &visit.CreatedAt)
}

func (r *visitRepository) ListByTag(ctx context.Context, rfidTag string, limit, offset int) ([]domain.Visit, error) {
	query := `
        SELECT id, rfid_tag, member_name, visitor_kind, kind, occurred_at, created_at
        FROM visits WHERE rfid_tag=$1
        ORDER BY occurred_at DESC`
	args := []any{rfidTag}

	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $2"
	}
	if offset > 0 {
		args = append(args, offset)
		if limit > 0 {
			query += " OFFSET $3"
		} else {
			query += " OFFSET $2"
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []domain.Visit
	for rows.Next() {
		var v domain.Visit
		if err := rows.Scan(
			&v.ID,
			&v.RFIDTag,
			&v.MemberName,
			&v.VisitorKind,
			&v.Kind,
			&v.OccurredAt,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func (r *visitRepository) CountSince(ctx context.Context, since time.Time) (int64, int64, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE kind='ENTRY'),
            COUNT(*) FILTER (WHERE kind='EXIT')
        FROM visits WHERE occurred_at >= $1`

	var entries, exits int64
	if err := r.pool.QueryRow(ctx, query, since).Scan(&entries, &exits); err != nil {
		return 0, 0, err
	}
	return entries, exits, nil
}
