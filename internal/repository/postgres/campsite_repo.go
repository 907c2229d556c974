// internal/repository/postgres/campsite_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/campsite"
	"wecamp-service/internal/pkg/pagination"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CampsiteRepository struct {
	db querier
}

func NewCampsiteRepository(db *pgxpool.Pool) *CampsiteRepository {
	return &CampsiteRepository{db: db}
}

const campsiteColumns = `id, name, location, description, price_per_night, capacity, amenities, images, available, created_at, updated_at`

func scanCampsite(row interface{ Scan(dest ...any) error }) (*campsite.Campsite, error) {
	var c campsite.Campsite
	err := row.Scan(&c.ID, &c.Name, &c.Location, &c.Description, &c.PricePerNight, &c.Capacity,
		&c.Amenities, &c.Images, &c.Available, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampsiteRepository) Create(ctx context.Context, c *campsite.Campsite) error {
	query := `
		INSERT INTO campsites (id, name, location, description, price_per_night, capacity, amenities, images, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, c.ID, c.Name, c.Location, c.Description, c.PricePerNight, c.Capacity,
		[]string(c.Amenities), []string(c.Images), c.Available).Scan(&c.CreatedAt, &c.UpdatedAt)
	return classify(err, "create campsite")
}

func (r *CampsiteRepository) Update(ctx context.Context, c *campsite.Campsite) error {
	query := `
		UPDATE campsites SET
			name = $2, location = $3, description = $4, price_per_night = $5, capacity = $6,
			amenities = $7, images = $8, available = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, c.ID, c.Name, c.Location, c.Description, c.PricePerNight, c.Capacity,
		[]string(c.Amenities), []string(c.Images), c.Available).Scan(&c.UpdatedAt)
	return classify(err, "update campsite")
}

func (r *CampsiteRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete campsite: %w", errNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM campsites WHERE id = $1`, id)
	return rowsAffected(tag, err, "delete campsite")
}

func (r *CampsiteRepository) FindByID(ctx context.Context, id string) (*campsite.Campsite, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find campsite: %w", errNotFound)
	}
	c, err := scanCampsite(r.db.QueryRow(ctx, `SELECT `+campsiteColumns+` FROM campsites WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err, "find campsite")
	}
	return c, nil
}

func (r *CampsiteRepository) List(ctx context.Context, f campsite.Filter) ([]*campsite.Campsite, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if f.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", argPos))
		args = append(args, "%"+f.Location+"%")
		argPos++
	}
	if f.Available != nil {
		conditions = append(conditions, fmt.Sprintf("available = $%d", argPos))
		args = append(args, *f.Available)
		argPos++
	}
	if f.MinGuests > 0 {
		conditions = append(conditions, fmt.Sprintf("capacity >= $%d", argPos))
		args = append(args, f.MinGuests)
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM campsites WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(err, "count campsites")
	}

	p := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
	query := fmt.Sprintf(`
		SELECT %s FROM campsites
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, campsiteColumns, where, argPos, argPos+1)
	args = append(args, p.Limit, p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err, "list campsites")
	}
	defer rows.Close()

	out := []*campsite.Campsite{}
	for rows.Next() {
		c, err := scanCampsite(rows)
		if err != nil {
			return nil, 0, classify(err, "scan campsite")
		}
		out = append(out, c)
	}
	return out, total, classify(rows.Err(), "list campsites")
}
