package brand

import "context"

type Repository interface {
	Create(ctx context.Context, b *Brand) error
	Update(ctx context.Context, b *Brand) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Brand, error)
	FindByName(ctx context.Context, name string) (*Brand, error)
	List(ctx context.Context) ([]*Brand, error)
}
