// internal/domain/notification/entity.go
package notification

import (
	"context"
	"time"
)

// Counts are the badges shown on the admin dashboard.
type Counts struct {
	WaitingOrders       int64     `json:"waiting_orders"`
	NewReviews          int64     `json:"new_reviews"`
	PendingReservations int64     `json:"pending_reservations"`
	Total               int64     `json:"total"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// Trigger names the event that made counts change.
type Trigger string

const (
	TriggerOrderCreated       Trigger = "order:created"
	TriggerReviewCreated      Trigger = "review:created"
	TriggerReservationCreated Trigger = "reservation:created"
)

// Notifier is told when something the admin badges count was created.
type Notifier interface {
	Notify(ctx context.Context, trigger Trigger)
}
