// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"
	"time"

	"wecamp-service/internal/domain/notification"
	"wecamp-service/internal/domain/order"
	"wecamp-service/internal/domain/reservation"
	"wecamp-service/internal/domain/review"
	"wecamp-service/internal/domain/websocket"
	ws "wecamp-service/internal/websocket"

	"go.uber.org/zap"
)

const pushTimeout = 5 * time.Second

type OrderCounter interface {
	CountByStatus(ctx context.Context, status order.Status) (int64, error)
}

type ReviewCounter interface {
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type ReservationCounter interface {
	CountByStatus(ctx context.Context, status reservation.Status) (int64, error)
}

// Publisher delivers a message to every connected admin. *ws.Hub satisfies it.
type Publisher interface {
	BroadcastToAdmins(msg *websocket.WSMessage)
}

// NotificationService computes the admin badge counts and pushes them to
// connected dashboards when something new arrives.
type NotificationService struct {
	orders       OrderCounter
	reviews      ReviewCounter
	reservations ReservationCounter
	publisher    Publisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewNotificationService(orders OrderCounter, reviews ReviewCounter, reservations ReservationCounter, publisher Publisher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		orders:       orders,
		reviews:      reviews,
		reservations: reservations,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// Counts returns waiting orders, reviews from the last day and pending
// reservations.
func (s *NotificationService) Counts(ctx context.Context) (*notification.Counts, error) {
	now := s.now()

	waiting, err := s.orders.CountByStatus(ctx, order.StatusWaiting)
	if err != nil {
		return nil, fmt.Errorf("count waiting orders: %w", err)
	}
	fresh, err := s.reviews.CountSince(ctx, now.Add(-review.NewWindow))
	if err != nil {
		return nil, fmt.Errorf("count new reviews: %w", err)
	}
	pending, err := s.reservations.CountByStatus(ctx, reservation.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending reservations: %w", err)
	}

	return &notification.Counts{
		WaitingOrders:       waiting,
		NewReviews:          fresh,
		PendingReservations: pending,
		Total:               waiting + fresh + pending,
		GeneratedAt:         now.UTC(),
	}, nil
}

// Push recomputes the counts and broadcasts them.
func (s *NotificationService) Push(ctx context.Context, trigger notification.Trigger) error {
	counts, err := s.Counts(ctx)
	if err != nil {
		return err
	}
	msg := websocket.NewMessage(websocket.EventTypeNotificationCount, counts)
	if trigger != "" {
		msg.Metadata = map[string]interface{}{"trigger": string(trigger)}
	}
	s.publisher.BroadcastToAdmins(msg)
	return nil
}

// Notify implements notification.Notifier. The push runs in the background
// so the request that created the record is not held up.
func (s *NotificationService) Notify(_ context.Context, trigger notification.Trigger) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := s.Push(ctx, trigger); err != nil {
			s.logger.Warn("failed to push notification counts", zap.String("trigger", string(trigger)), zap.Error(err))
		}
	}()
}

// HandleMessage answers a dashboard's explicit refresh request.
func (s *NotificationService) HandleMessage(ctx context.Context, client *ws.Client, _ *websocket.WSMessage) error {
	counts, err := s.Counts(ctx)
	if err != nil {
		s.logger.Error("failed to compute notification counts", zap.Error(err))
		return fmt.Errorf("counts unavailable")
	}
	client.SendMessage(websocket.NewMessage(websocket.EventTypeNotificationCount, counts))
	return nil
}

func (s *NotificationService) SupportedEvents() []websocket.EventType {
	return []websocket.EventType{websocket.EventTypeCountsRequest}
}
