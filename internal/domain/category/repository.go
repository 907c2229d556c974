package category

import "context"

type Repository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	FindChildren(ctx context.Context, parentID string) ([]*Category, error)
	CountChildren(ctx context.Context, id string) (int64, error)
	CountGear(ctx context.Context, id string) (int64, error)

	// WithTreeLock runs fn inside a transaction that serializes hierarchy
	// changes. The repository handed to fn is bound to that transaction.
	WithTreeLock(ctx context.Context, fn func(repo Repository) error) error
}
