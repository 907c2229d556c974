package review

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context, f Filter) ([]*Review, int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
