// internal/repository/postgres/reference_repo.go
package postgres

import (
	"context"
	"fmt"

	"wecamp-service/internal/domain/reference"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReferenceRepository struct {
	db querier
}

func NewReferenceRepository(db *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

const referenceColumns = `id, title, description, image, link, sort_order, created_at, updated_at`

func scanReference(row interface{ Scan(dest ...any) error }) (*reference.Reference, error) {
	var ref reference.Reference
	err := row.Scan(&ref.ID, &ref.Title, &ref.Description, &ref.Image, &ref.Link, &ref.Order, &ref.CreatedAt, &ref.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *ReferenceRepository) Create(ctx context.Context, ref *reference.Reference) error {
	query := `
		INSERT INTO references_items (id, title, description, image, link, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, ref.ID, ref.Title, ref.Description, ref.Image, ref.Link, ref.Order).
		Scan(&ref.CreatedAt, &ref.UpdatedAt)
	return classify(err, "create reference")
}

func (r *ReferenceRepository) Update(ctx context.Context, ref *reference.Reference) error {
	query := `
		UPDATE references_items
		SET title = $2, description = $3, image = $4, link = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, ref.ID, ref.Title, ref.Description, ref.Image, ref.Link, ref.Order).
		Scan(&ref.UpdatedAt)
	return classify(err, "update reference")
}

func (r *ReferenceRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete reference: %w", errNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM references_items WHERE id = $1`, id)
	return rowsAffected(tag, err, "delete reference")
}

func (r *ReferenceRepository) FindByID(ctx context.Context, id string) (*reference.Reference, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find reference: %w", errNotFound)
	}
	ref, err := scanReference(r.db.QueryRow(ctx, `SELECT `+referenceColumns+` FROM references_items WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err, "find reference")
	}
	return ref, nil
}

func (r *ReferenceRepository) List(ctx context.Context) ([]*reference.Reference, error) {
	rows, err := r.db.Query(ctx, `SELECT `+referenceColumns+` FROM references_items ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, classify(err, "list references")
	}
	defer rows.Close()

	out := []*reference.Reference{}
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, classify(err, "scan reference")
		}
		out = append(out, ref)
	}
	return out, classify(rows.Err(), "list references")
}
