package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wecamp-service/internal/domain/notification"
	"wecamp-service/internal/domain/order"
	"wecamp-service/internal/domain/reservation"
	"wecamp-service/internal/domain/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderCounts map[order.Status]int64

func (o orderCounts) CountByStatus(_ context.Context, s order.Status) (int64, error) {
	return o[s], nil
}

type reviewCounts struct {
	since time.Time
	n     int64
	err   error
}

func (r *reviewCounts) CountSince(_ context.Context, since time.Time) (int64, error) {
	r.since = since
	return r.n, r.err
}

type reservationCounts map[reservation.Status]int64

func (r reservationCounts) CountByStatus(_ context.Context, s reservation.Status) (int64, error) {
	return r[s], nil
}

type capture struct {
	mu   sync.Mutex
	msgs []*websocket.WSMessage
}

func (c *capture) BroadcastToAdmins(msg *websocket.WSMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func newService(reviews *reviewCounts, pub *capture) *NotificationService {
	svc := NewNotificationService(
		orderCounts{order.StatusWaiting: 3, order.StatusShipped: 9},
		reviews,
		reservationCounts{reservation.StatusPending: 2},
		pub,
		zap.NewNop(),
	)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCounts(t *testing.T) {
	reviews := &reviewCounts{n: 4}
	svc := newService(reviews, &capture{})

	c, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, c.WaitingOrders)
	assert.EqualValues(t, 4, c.NewReviews)
	assert.EqualValues(t, 2, c.PendingReservations)
	assert.EqualValues(t, 9, c.Total)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), reviews.since)
}

func TestCounts_PropagatesErrors(t *testing.T) {
	svc := newService(&reviewCounts{err: errors.New("db down")}, &capture{})
	_, err := svc.Counts(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestPush(t *testing.T) {
	pub := &capture{}
	svc := newService(&reviewCounts{n: 1}, pub)

	require.NoError(t, svc.Push(context.Background(), notification.TriggerOrderCreated))
	require.Equal(t, 1, pub.count())
	msg := pub.msgs[0]
	assert.Equal(t, websocket.EventTypeNotificationCount, msg.Type)
	assert.Equal(t, "order:created", msg.Metadata["trigger"])
	counts, ok := msg.Data.(*notification.Counts)
	require.True(t, ok)
	assert.EqualValues(t, 6, counts.Total)
}

func TestNotify_PushesInBackground(t *testing.T) {
	pub := &capture{}
	svc := newService(&reviewCounts{}, pub)

	svc.Notify(context.Background(), notification.TriggerReviewCreated)
	assert.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestSupportedEvents(t *testing.T) {
	svc := newService(&reviewCounts{}, &capture{})
	assert.Equal(t, []websocket.EventType{websocket.EventTypeCountsRequest}, svc.SupportedEvents())
}
