// internal/repository/postgres/reservation_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wecamp-service/internal/domain/reservation"
	"wecamp-service/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	db   querier
	pool txStarter
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: pool, pool: pool}
}

const reservationSelect = `
	SELECT r.id, r.user_id, r.campsite_id, COALESCE(c.name, ''), r.start_date, r.end_date,
	       r.guests, r.total_price, r.status, r.created_at, r.updated_at
	FROM reservations r
	LEFT JOIN campsites c ON c.id = r.campsite_id
`

func scanReservation(row interface{ Scan(dest ...any) error }) (*reservation.Reservation, error) {
	var rs reservation.Reservation
	err := row.Scan(&rs.ID, &rs.UserID, &rs.CampsiteID, &rs.CampsiteName, &rs.StartDate, &rs.EndDate,
		&rs.Guests, &rs.TotalPrice, &rs.Status, &rs.CreatedAt, &rs.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

func (r *ReservationRepository) Create(ctx context.Context, rs *reservation.Reservation) error {
	query := `
		INSERT INTO reservations (id, user_id, campsite_id, start_date, end_date, guests, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, rs.ID, rs.UserID, rs.CampsiteID, rs.StartDate, rs.EndDate,
		rs.Guests, rs.TotalPrice, rs.Status).Scan(&rs.CreatedAt, &rs.UpdatedAt)
	return classify(err, "create reservation")
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find reservation: %w", errNotFound)
	}
	rs, err := scanReservation(r.db.QueryRow(ctx, reservationSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, classify(err, "find reservation")
	}
	return rs, nil
}

func (r *ReservationRepository) List(ctx context.Context, f reservation.Filter) ([]*reservation.Reservation, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if f.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("r.user_id = $%d", argPos))
		args = append(args, f.UserID)
		argPos++
	}
	if f.CampsiteID != "" {
		conditions = append(conditions, fmt.Sprintf("r.campsite_id = $%d", argPos))
		args = append(args, f.CampsiteID)
		argPos++
	}
	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argPos))
		args = append(args, f.Status)
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM reservations r WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(err, "count reservations")
	}

	p := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY r.start_date DESC, r.id DESC
		LIMIT $%d OFFSET $%d
	`, reservationSelect, where, argPos, argPos+1)
	args = append(args, p.Limit, p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err, "list reservations")
	}
	defer rows.Close()

	out := []*reservation.Reservation{}
	for rows.Next() {
		rs, err := scanReservation(rows)
		if err != nil {
			return nil, 0, classify(err, "scan reservation")
		}
		out = append(out, rs)
	}
	return out, total, classify(rows.Err(), "list reservations")
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status reservation.Status) error {
	if !validID(id) {
		return fmt.Errorf("update reservation: %w", errNotFound)
	}
	tag, err := r.db.Exec(ctx, `UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return rowsAffected(tag, err, "update reservation status")
}

func (r *ReservationRepository) HasOverlap(ctx context.Context, campsiteID string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE campsite_id = $1 AND status <> 'cancelled'
			  AND start_date < $3 AND end_date > $2
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, campsiteID, start, end).Scan(&exists)
	return exists, classify(err, "check reservation overlap")
}

func (r *ReservationRepository) CountByStatus(ctx context.Context, status reservation.Status) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE status = $1`, status).Scan(&n)
	return n, classify(err, "count reservations")
}

// WithCampsiteLock takes a per-campsite advisory lock so two bookings cannot
// both pass the overlap check.
func (r *ReservationRepository) WithCampsiteLock(ctx context.Context, campsiteID string, fn func(repo reservation.Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	return withTx(ctx, r.pool, `SELECT pg_advisory_xact_lock(hashtext($1))`, []any{"campsite:" + campsiteID}, func(tx pgx.Tx) error {
		return fn(&ReservationRepository{db: tx})
	})
}
