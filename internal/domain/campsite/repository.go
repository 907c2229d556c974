package campsite

import "context"

type Repository interface {
	Create(ctx context.Context, c *Campsite) error
	Update(ctx context.Context, c *Campsite) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Campsite, error)
	List(ctx context.Context, f Filter) ([]*Campsite, int64, error)
}
