package reservation

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	FindByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, f Filter) ([]*Reservation, int64, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	// HasOverlap reports a non-cancelled booking of the campsite intersecting [start, end).
	HasOverlap(ctx context.Context, campsiteID string, start, end time.Time) (bool, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// WithCampsiteLock serializes bookings of one campsite.
	WithCampsiteLock(ctx context.Context, campsiteID string, fn func(repo Repository) error) error
}
