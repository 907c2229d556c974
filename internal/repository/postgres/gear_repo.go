// internal/repository/postgres/gear_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/gear"

	"github.com/jackc/pgx/v5/pgxpool"
)

type GearRepository struct {
	db querier
}

func NewGearRepository(db *pgxpool.Pool) *GearRepository {
	return &GearRepository{db: db}
}

const gearSelect = `
	SELECT g.id, g.name, g.description, g.category_id, g.images, g.price_per_day, g.deposit,
	       g.available, g.status, g.specifications, g.brand, g.color, g.rating,
	       g.recommended_products, g.created_by, g.created_at, g.updated_at,
	       COALESCE(c.name, '')
	FROM gear g
	LEFT JOIN categories c ON c.id = g.category_id
`

func scanGear(row interface{ Scan(dest ...any) error }) (*gear.Gear, error) {
	var g gear.Gear
	err := row.Scan(
		&g.ID, &g.Name, &g.Description, &g.CategoryID, &g.Images, &g.PricePerDay, &g.Deposit,
		&g.Available, &g.Status, &g.Specifications, &g.Brand, &g.Color, &g.Rating,
		&g.RecommendedProducts, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt,
		&g.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	if g.Specifications == nil {
		g.Specifications = map[string]string{}
	}
	return &g, nil
}

func specsOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func (r *GearRepository) Create(ctx context.Context, g *gear.Gear) error {
	query := `
		INSERT INTO gear (
			id, name, description, category_id, images, price_per_day, deposit, available,
			status, specifications, brand, color, rating, recommended_products, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		g.ID, g.Name, g.Description, g.CategoryID, []string(g.Images), g.PricePerDay, g.Deposit, g.Available,
		g.Status, specsOrEmpty(g.Specifications), g.Brand, g.Color, g.Rating, []string(g.RecommendedProducts), g.CreatedBy,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	return classify(err, "create gear")
}

func (r *GearRepository) Update(ctx context.Context, g *gear.Gear) error {
	query := `
		UPDATE gear SET
			name = $2, description = $3, category_id = $4, images = $5, price_per_day = $6,
			deposit = $7, available = $8, status = $9, specifications = $10, brand = $11,
			color = $12, rating = $13, recommended_products = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		g.ID, g.Name, g.Description, g.CategoryID, []string(g.Images), g.PricePerDay,
		g.Deposit, g.Available, g.Status, specsOrEmpty(g.Specifications), g.Brand,
		g.Color, g.Rating, []string(g.RecommendedProducts),
	).Scan(&g.UpdatedAt)
	return classify(err, "update gear")
}

func (r *GearRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete gear: %w", errNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM gear WHERE id = $1`, id)
	return rowsAffected(tag, err, "delete gear")
}

func (r *GearRepository) FindByID(ctx context.Context, id string) (*gear.Gear, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find gear: %w", errNotFound)
	}
	g, err := scanGear(r.db.QueryRow(ctx, gearSelect+` WHERE g.id = $1`, id))
	if err != nil {
		return nil, classify(err, "find gear")
	}
	return g, nil
}

func (r *GearRepository) FindByIDs(ctx context.Context, ids []string) ([]*gear.Gear, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return []*gear.Gear{}, nil
	}
	return r.queryList(ctx, gearSelect+` WHERE g.id::text = ANY($1) ORDER BY g.created_at DESC, g.id DESC`, ids)
}

func (r *GearRepository) ListSimilar(ctx context.Context, categoryID, excludeID string, limit int) ([]*gear.Gear, error) {
	query := gearSelect + `
		WHERE g.category_id = $1 AND g.id <> $2 AND g.available = TRUE
		ORDER BY g.created_at DESC, g.id DESC
		LIMIT $3
	`
	return r.queryList(ctx, query, categoryID, excludeID, limit)
}

func (r *GearRepository) List(ctx context.Context, f gear.Filter) ([]*gear.Gear, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	ids := f.CategoryIDs
	if f.CategoryID != "" {
		ids = append(ids, f.CategoryID)
	}
	if len(ids) > 0 {
		conditions = append(conditions, fmt.Sprintf("g.category_id::text = ANY($%d)", argPos))
		args = append(args, validIDs(ids))
		argPos++
	}
	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("g.status = $%d", argPos))
		args = append(args, f.Status)
		argPos++
	}
	if f.Available != nil {
		conditions = append(conditions, fmt.Sprintf("g.available = $%d", argPos))
		args = append(args, *f.Available)
		argPos++
	}
	if f.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("g.brand ILIKE $%d", argPos))
		args = append(args, f.Brand)
		argPos++
	}
	if f.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("g.price_per_day >= $%d", argPos))
		args = append(args, *f.MinPrice)
		argPos++
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("g.price_per_day <= $%d", argPos))
		args = append(args, *f.MaxPrice)
		argPos++
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(g.name ILIKE $%d OR g.description ILIKE $%d OR g.brand ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, "%"+q+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM gear g WHERE " + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, classify(err, "count gear")
	}

	p := f.Params.Normalize()
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY g.created_at DESC, g.id DESC
		LIMIT $%d OFFSET $%d
	`, gearSelect, whereClause, argPos, argPos+1)
	args = append(args, p.Limit, p.Offset())

	items, err := r.queryList(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GearRepository) queryList(ctx context.Context, query string, args ...any) ([]*gear.Gear, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list gear")
	}
	defer rows.Close()

	items := []*gear.Gear{}
	for rows.Next() {
		g, err := scanGear(rows)
		if err != nil {
			return nil, classify(err, "scan gear")
		}
		items = append(items, g)
	}
	return items, classify(rows.Err(), "list gear")
}
