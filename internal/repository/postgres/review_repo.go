// internal/repository/postgres/review_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wecamp-service/internal/domain/review"
	"wecamp-service/internal/pkg/pagination"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository struct {
	db querier
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewSelect = `
	SELECT r.id, r.user_id, COALESCE(u.name, ''), r.gear_id, r.campsite_id, r.rating, r.comment,
	       r.created_at, r.updated_at
	FROM reviews r
	LEFT JOIN users u ON u.id = r.user_id
`

func scanReview(row interface{ Scan(dest ...any) error }) (*review.Review, error) {
	var rv review.Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.GearID, &rv.CampsiteID, &rv.Rating, &rv.Comment,
		&rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, gear_id, campsite_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, rv.ID, rv.UserID, rv.GearID, rv.CampsiteID, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt, &rv.UpdatedAt)
	return classify(err, "create review")
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete review: %w", errNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return rowsAffected(tag, err, "delete review")
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find review: %w", errNotFound)
	}
	rv, err := scanReview(r.db.QueryRow(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, classify(err, "find review")
	}
	return rv, nil
}

func (r *ReviewRepository) List(ctx context.Context, f review.Filter) ([]*review.Review, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if f.GearID != "" {
		conditions = append(conditions, fmt.Sprintf("r.gear_id = $%d", argPos))
		args = append(args, f.GearID)
		argPos++
	}
	if f.CampsiteID != "" {
		conditions = append(conditions, fmt.Sprintf("r.campsite_id = $%d", argPos))
		args = append(args, f.CampsiteID)
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM reviews r WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(err, "count reviews")
	}

	p := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $%d OFFSET $%d
	`, reviewSelect, where, argPos, argPos+1)
	args = append(args, p.Limit, p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err, "list reviews")
	}
	defer rows.Close()

	out := []*review.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, classify(err, "scan review")
		}
		out = append(out, rv)
	}
	return out, total, classify(rows.Err(), "list reviews")
}

func (r *ReviewRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE created_at >= $1`, since).Scan(&n)
	return n, classify(err, "count new reviews")
}
