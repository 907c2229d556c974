// internal/repository/postgres/brand_repo.go
package postgres

import (
	"context"
	"fmt"

	"wecamp-service/internal/domain/brand"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BrandRepository struct {
	db querier
}

func NewBrandRepository(db *pgxpool.Pool) *BrandRepository {
	return &BrandRepository{db: db}
}

const brandColumns = `id, name, logo, description, website, created_at, updated_at`

func scanBrand(row interface{ Scan(dest ...any) error }) (*brand.Brand, error) {
	var b brand.Brand
	if err := row.Scan(&b.ID, &b.Name, &b.Logo, &b.Description, &b.Website, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BrandRepository) Create(ctx context.Context, b *brand.Brand) error {
	query := `
		INSERT INTO brands (id, name, logo, description, website)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, b.ID, b.Name, b.Logo, b.Description, b.Website).Scan(&b.CreatedAt, &b.UpdatedAt)
	return classify(err, "create brand")
}

func (r *BrandRepository) Update(ctx context.Context, b *brand.Brand) error {
	query := `
		UPDATE brands SET name = $2, logo = $3, description = $4, website = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, b.ID, b.Name, b.Logo, b.Description, b.Website).Scan(&b.UpdatedAt)
	return classify(err, "update brand")
}

func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete brand: %w", errNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	return rowsAffected(tag, err, "delete brand")
}

func (r *BrandRepository) FindByID(ctx context.Context, id string) (*brand.Brand, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find brand: %w", errNotFound)
	}
	b, err := scanBrand(r.db.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err, "find brand")
	}
	return b, nil
}

func (r *BrandRepository) FindByName(ctx context.Context, name string) (*brand.Brand, error) {
	b, err := scanBrand(r.db.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE LOWER(name) = LOWER($1)`, name))
	if err != nil {
		return nil, classify(err, "find brand by name")
	}
	return b, nil
}

func (r *BrandRepository) List(ctx context.Context) ([]*brand.Brand, error) {
	rows, err := r.db.Query(ctx, `SELECT `+brandColumns+` FROM brands ORDER BY name ASC`)
	if err != nil {
		return nil, classify(err, "list brands")
	}
	defer rows.Close()

	out := []*brand.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, classify(err, "scan brand")
		}
		out = append(out, b)
	}
	return out, classify(rows.Err(), "list brands")
}
