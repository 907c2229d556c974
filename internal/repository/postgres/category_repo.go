// internal/repository/postgres/category_repo.go
package postgres

import (
	"context"
	"fmt"

	"wecamp-service/internal/domain/category"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	db   querier
	pool txStarter
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: pool, pool: pool}
}

const categoryColumns = `id, name, slug, description, parent_id, icon, sort_order, created_at, updated_at`

func scanCategory(row interface{ Scan(dest ...any) error }) (*category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.Icon, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, description, parent_id, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.ParentID, c.Icon, c.Order).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return classify(err, "create category")
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, parent_id = $5, icon = $6, sort_order = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.ParentID, c.Icon, c.Order).
		Scan(&c.UpdatedAt)
	return classify(err, "update category")
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete category: %w", errNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return rowsAffected(tag, err, "delete category")
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*category.Category, error) {
	if !validID(id) {
		return nil, fmt.Errorf("find category: %w", errNotFound)
	}
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err, "find category")
	}
	return c, nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*category.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE LOWER(slug) = LOWER($1)`, slug))
	if err != nil {
		return nil, classify(err, "find category by slug")
	}
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	return r.queryList(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order ASC, name ASC`)
}

func (r *CategoryRepository) FindChildren(ctx context.Context, parentID string) ([]*category.Category, error) {
	if !validID(parentID) {
		return []*category.Category{}, nil
	}
	return r.queryList(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY sort_order ASC, name ASC`, parentID)
}

func (r *CategoryRepository) queryList(ctx context.Context, query string, args ...any) ([]*category.Category, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list categories")
	}
	defer rows.Close()

	out := []*category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, classify(err, "scan category")
		}
		out = append(out, c)
	}
	return out, classify(rows.Err(), "list categories")
}

func (r *CategoryRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&n)
	return n, classify(err, "count child categories")
}

func (r *CategoryRepository) CountGear(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gear WHERE category_id = $1`, id).Scan(&n)
	return n, classify(err, "count category gear")
}

// WithTreeLock holds a transaction-scoped advisory lock so concurrent
// re-parenting cannot build a cycle or exceed the depth limit.
func (r *CategoryRepository) WithTreeLock(ctx context.Context, fn func(repo category.Repository) error) error {
	if r.pool == nil {
		// already inside a transaction
		return fn(r)
	}
	return withTx(ctx, r.pool, `SELECT pg_advisory_xact_lock($1)`, []any{lockCategoryTree}, func(tx pgx.Tx) error {
		return fn(&CategoryRepository{db: tx})
	})
}
