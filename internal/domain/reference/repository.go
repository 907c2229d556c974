package reference

import "context"

type Repository interface {
	Create(ctx context.Context, r *Reference) error
	Update(ctx context.Context, r *Reference) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Reference, error)
	List(ctx context.Context) ([]*Reference, error)
}
