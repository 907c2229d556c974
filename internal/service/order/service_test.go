package order

import (
	"context"
	"testing"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/gear"
	"wecamp-service/internal/domain/notification"
	"wecamp-service/internal/domain/order"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memOrders map[string]*order.UserOrder

func (m memOrders) Create(_ context.Context, o *order.UserOrder) error {
	cp := *o
	m[o.ID] = &cp
	return nil
}

func (m memOrders) Update(_ context.Context, o *order.UserOrder) error {
	if _, ok := m[o.ID]; !ok {
		return xerrors.ErrNotFound
	}
	cp := *o
	m[o.ID] = &cp
	return nil
}

func (m memOrders) Delete(_ context.Context, id string) error {
	if _, ok := m[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(m, id)
	return nil
}

func (m memOrders) FindByID(_ context.Context, id string) (*order.UserOrder, error) {
	o, ok := m[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m memOrders) List(_ context.Context, f order.Filter) ([]*order.UserOrder, int64, error) {
	var out []*order.UserOrder
	for _, o := range m {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (m memOrders) CountByStatus(_ context.Context, status order.Status) (int64, error) {
	var n int64
	for _, o := range m {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

type gearFinder map[string]*gear.Gear

func (g gearFinder) FindByID(_ context.Context, id string) (*gear.Gear, error) {
	if item, ok := g[id]; ok {
		return item, nil
	}
	return nil, xerrors.ErrNotFound
}

type notifier struct{ n int }

func (c *notifier) Notify(context.Context, notification.Trigger) { c.n++ }

var (
	alice = auth.Actor{UserID: uuid.NewString(), Role: "user"}
	bob   = auth.Actor{UserID: uuid.NewString(), Role: "user"}
	admin = auth.Actor{UserID: uuid.NewString(), Role: "admin"}
)

func strPtr(s string) *string { return &s }

func setup() (*OrderService, memOrders, *gear.Gear, *notifier) {
	stove := &gear.Gear{ID: uuid.NewString(), Name: "Stove", PricePerDay: 12.5, Status: gear.StatusOrderable}
	orders := memOrders{}
	n := &notifier{}
	return NewOrderService(orders, gearFinder{stove.ID: stove}, n, zap.NewNop()), orders, stove, n
}

func TestCreate_DefaultsPriceAndOwner(t *testing.T) {
	svc, _, stove, n := setup()

	o, err := svc.Create(context.Background(), alice, &order.CreateRequest{GearID: stove.ID, PublicNote: strPtr("please gift wrap")})
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, o.UserID)
	assert.Equal(t, 12.5, o.Price)
	assert.Equal(t, order.StatusWaiting, o.Status)
	assert.Equal(t, 1, n.n)
}

func TestCreate_AdminOnlyFields(t *testing.T) {
	svc, _, stove, _ := setup()
	ctx := context.Background()
	shipped := order.StatusShipped

	_, err := svc.Create(ctx, alice, &order.CreateRequest{GearID: stove.ID, Status: &shipped})
	assert.Equal(t, xerrors.KindForbidden, xerrors.KindOf(err))

	_, err = svc.Create(ctx, alice, &order.CreateRequest{GearID: stove.ID, UserID: &bob.UserID})
	assert.Equal(t, xerrors.KindForbidden, xerrors.KindOf(err))

	free := 0.0
	_, err = svc.Create(ctx, alice, &order.CreateRequest{GearID: stove.ID, Price: &free})
	assert.Equal(t, xerrors.KindForbidden, xerrors.KindOf(err))

	o, err := svc.Create(ctx, admin, &order.CreateRequest{
		GearID:      stove.ID,
		UserID:      &bob.UserID,
		Status:      &shipped,
		PrivateNote: strPtr("paid cash"),
	})
	require.NoError(t, err)
	assert.Equal(t, bob.UserID, o.UserID)
	assert.NotNil(t, o.ShippedAt)
	require.NotNil(t, o.PrivateNote)
}

func TestCreate_SoldGear(t *testing.T) {
	svc, _, stove, _ := setup()
	stove.Status = gear.StatusSold
	_, err := svc.Create(context.Background(), alice, &order.CreateRequest{GearID: stove.ID})
	assert.Equal(t, xerrors.KindInvalid, xerrors.KindOf(err))
}

func TestPrivateNoteHiddenFromOwner(t *testing.T) {
	svc, _, stove, _ := setup()
	ctx := context.Background()

	o, err := svc.Create(ctx, alice, &order.CreateRequest{GearID: stove.ID})
	require.NoError(t, err)
	_, err = svc.Update(ctx, admin, o.ID, &order.UpdateRequest{PrivateNote: strPtr("flagged")})
	require.NoError(t, err)

	mine, err := svc.Get(ctx, alice, o.ID)
	require.NoError(t, err)
	assert.Nil(t, mine.PrivateNote)

	list, _, err := svc.List(ctx, alice, order.Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].PrivateNote)

	full, err := svc.Get(ctx, admin, o.ID)
	require.NoError(t, err)
	require.NotNil(t, full.PrivateNote)
	assert.Equal(t, "flagged", *full.PrivateNote)
}

func TestOwnership(t *testing.T) {
	svc, _, stove, _ := setup()
	ctx := context.Background()

	o, err := svc.Create(ctx, alice, &order.CreateRequest{GearID: stove.ID})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, o.ID)
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(svc.Delete(ctx, bob, o.ID)))

	list, _, err := svc.List(ctx, bob, order.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	shipped := order.StatusShipped
	_, err = svc.Update(ctx, alice, o.ID, &order.UpdateRequest{Status: &shipped})
	assert.Equal(t, xerrors.KindForbidden, xerrors.KindOf(err))

	updated, err := svc.Update(ctx, alice, o.ID, &order.UpdateRequest{PublicNote: strPtr("leave at door")})
	require.NoError(t, err)
	assert.Equal(t, "leave at door", *updated.PublicNote)

	updated, err = svc.Update(ctx, admin, o.ID, &order.UpdateRequest{Status: &shipped})
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, updated.Status)
	assert.NotNil(t, updated.ShippedAt)

	require.NoError(t, svc.Delete(ctx, alice, o.ID))
}

func TestUpdate_PriceIsAdminOnly(t *testing.T) {
	svc, orders, stove, _ := setup()
	ctx := context.Background()

	o, err := svc.Create(ctx, alice, &order.CreateRequest{GearID: stove.ID})
	require.NoError(t, err)

	cheap := 1.0
	_, err = svc.Update(ctx, alice, o.ID, &order.UpdateRequest{Price: &cheap})
	assert.Equal(t, xerrors.KindForbidden, xerrors.KindOf(err))
	assert.Equal(t, 12.5, orders[o.ID].Price)

	discounted := 10.0
	updated, err := svc.Update(ctx, admin, o.ID, &order.UpdateRequest{Price: &discounted})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.Price)
}
