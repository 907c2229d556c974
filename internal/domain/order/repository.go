package order

import "context"

type Repository interface {
	Create(ctx context.Context, o *UserOrder) error
	Update(ctx context.Context, o *UserOrder) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*UserOrder, error)
	List(ctx context.Context, f Filter) ([]*UserOrder, int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
