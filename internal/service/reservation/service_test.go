package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/campsite"
	"wecamp-service/internal/domain/notification"
	"wecamp-service/internal/domain/reservation"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	siteLock sync.Mutex
	mu       sync.Mutex
	rows     map[string]*reservation.Reservation
}

func (r *memRepo) Create(_ context.Context, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *res
	r.rows[res.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.rows[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, f reservation.Filter) ([]*reservation.Reservation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reservation.Reservation
	for _, res := range r.rows {
		if f.UserID != "" && res.UserID != f.UserID {
			continue
		}
		out = append(out, res)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id string, status reservation.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.rows[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	res.Status = status
	return nil
}

func (r *memRepo) HasOverlap(_ context.Context, campsiteID string, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.rows {
		if res.CampsiteID != campsiteID || res.Status == reservation.StatusCancelled {
			continue
		}
		if res.StartDate.Before(end) && res.EndDate.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) CountByStatus(_ context.Context, status reservation.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, res := range r.rows {
		if res.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) WithCampsiteLock(_ context.Context, _ string, fn func(repo reservation.Repository) error) error {
	r.siteLock.Lock()
	defer r.siteLock.Unlock()
	return fn(r)
}

type campsites map[string]*campsite.Campsite

func (c campsites) FindByID(_ context.Context, id string) (*campsite.Campsite, error) {
	if site, ok := c[id]; ok {
		return site, nil
	}
	return nil, xerrors.ErrNotFound
}

type countingNotifier struct {
	mu       sync.Mutex
	triggers []notification.Trigger
}

func (n *countingNotifier) Notify(_ context.Context, t notification.Trigger) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.triggers = append(n.triggers, t)
}

var (
	alice = auth.Actor{UserID: "alice", Role: "user"}
	bob   = auth.Actor{UserID: "bob", Role: "user"}
	admin = auth.Actor{UserID: "root", Role: "admin"}
)

func newService(t *testing.T) (*ReservationService, *campsite.Campsite, *countingNotifier) {
	t.Helper()
	site := &campsite.Campsite{ID: uuid.NewString(), Name: "Lakeside", Capacity: 4, PricePerNight: 30, Available: true}
	n := &countingNotifier{}
	svc := NewReservationService(&memRepo{rows: map[string]*reservation.Reservation{}}, campsites{site.ID: site}, n, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC) }
	return svc, site, n
}

func book(svc *ReservationService, actor auth.Actor, siteID, start, end string, guests int) (*reservation.Reservation, error) {
	return svc.Create(context.Background(), actor, &reservation.CreateRequest{
		CampsiteID: siteID, StartDate: start, EndDate: end, Guests: guests,
	})
}

func TestCreate_PricesByNight(t *testing.T) {
	svc, site, n := newService(t)

	r, err := book(svc, alice, site.ID, "2026-07-10", "2026-07-13", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Nights())
	assert.Equal(t, 90.0, r.TotalPrice)
	assert.Equal(t, reservation.StatusPending, r.Status)
	assert.Equal(t, []notification.Trigger{notification.TriggerReservationCreated}, n.triggers)
}

func TestCreate_Validation(t *testing.T) {
	svc, site, _ := newService(t)

	cases := []struct {
		name       string
		start, end string
		guests     int
		field      string
	}{
		{"bad start", "10/07/2026", "2026-07-13", 1, "start_date"},
		{"bad end", "2026-07-10", "tomorrow", 1, "end_date"},
		{"same day", "2026-07-10", "2026-07-10", 1, "end_date"},
		{"reversed", "2026-07-12", "2026-07-10", 1, "end_date"},
		{"past", "2026-06-20", "2026-06-22", 1, "start_date"},
		{"over capacity", "2026-07-10", "2026-07-12", 5, "guests"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := book(svc, alice, site.ID, tc.start, tc.end, tc.guests)
			require.Error(t, err)
			var appErr *xerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, xerrors.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tc.field)
		})
	}

	_, err := book(svc, alice, uuid.NewString(), "2026-07-10", "2026-07-12", 1)
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))
}

func TestCreate_Overlap(t *testing.T) {
	svc, site, _ := newService(t)

	first, err := book(svc, alice, site.ID, "2026-07-10", "2026-07-13", 2)
	require.NoError(t, err)

	_, err = book(svc, bob, site.ID, "2026-07-12", "2026-07-15", 2)
	assert.Equal(t, xerrors.KindConflict, xerrors.KindOf(err))

	// checkout day is free for the next arrival
	_, err = book(svc, bob, site.ID, "2026-07-13", "2026-07-15", 2)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), alice, first.ID)
	require.NoError(t, err)
	_, err = book(svc, bob, site.ID, "2026-07-10", "2026-07-12", 2)
	require.NoError(t, err)
}

func TestCreate_ConcurrentBookingsOneWins(t *testing.T) {
	svc, site, _ := newService(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = book(svc, alice, site.ID, "2026-08-01", "2026-08-03", 1)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.Equal(t, xerrors.KindConflict, xerrors.KindOf(err))
		}
	}
	assert.Equal(t, 1, ok)
}

func TestVisibilityAndStatus(t *testing.T) {
	svc, site, _ := newService(t)
	ctx := context.Background()

	r, err := book(svc, alice, site.ID, "2026-07-10", "2026-07-11", 1)
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, r.ID)
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))
	_, err = svc.Cancel(ctx, bob, r.ID)
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))

	items, _, err := svc.List(ctx, bob, reservation.Filter{})
	require.NoError(t, err)
	assert.Empty(t, items)
	items, _, err = svc.List(ctx, admin, reservation.Filter{})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.UpdateStatus(ctx, alice, r.ID, reservation.StatusConfirmed)
	assert.Equal(t, xerrors.KindForbidden, xerrors.KindOf(err))

	confirmed, err := svc.UpdateStatus(ctx, admin, r.ID, reservation.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusConfirmed, confirmed.Status)

	cancelled, err := svc.Cancel(ctx, alice, r.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusCancelled, cancelled.Status)
}

func TestUpdateStatus_ReconfirmChecksOverlap(t *testing.T) {
	svc, site, _ := newService(t)
	ctx := context.Background()

	r, err := book(svc, alice, site.ID, "2026-07-10", "2026-07-12", 1)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, alice, r.ID)
	require.NoError(t, err)
	_, err = book(svc, bob, site.ID, "2026-07-11", "2026-07-13", 1)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, r.ID, reservation.StatusConfirmed)
	assert.Equal(t, xerrors.KindConflict, xerrors.KindOf(err))
}
