// internal/service/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/gear"
	"wecamp-service/internal/domain/notification"
	"wecamp-service/internal/domain/order"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgNotFound = "Order not found"

// GearFinder resolves the ordered item.
type GearFinder interface {
	FindByID(ctx context.Context, id string) (*gear.Gear, error)
}

type OrderService struct {
	repo     order.Repository
	gear     GearFinder
	notifier notification.Notifier
	logger   *zap.Logger
}

func NewOrderService(repo order.Repository, gearRepo GearFinder, notifier notification.Notifier, logger *zap.Logger) *OrderService {
	return &OrderService{repo: repo, gear: gearRepo, notifier: notifier, logger: logger}
}

// Create places an order. Price defaults to the gear's day price and only
// admins may place an order for someone else or preset admin fields.
func (s *OrderService) Create(ctx context.Context, actor auth.Actor, req *order.CreateRequest) (*order.UserOrder, error) {
	if !actor.IsAdmin() && (req.Price != nil || req.UserID != nil || req.Status != nil || req.PrivateNote != nil) {
		return nil, xerrors.Forbidden("Only admins can set the price, status, private notes or the ordering user")
	}

	g, err := s.gear.FindByID(ctx, req.GearID)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound("Gear not found")
		}
		return nil, err
	}
	if g.Status == gear.StatusSold {
		return nil, xerrors.Invalid("Gear is sold and cannot be ordered")
	}

	o := &order.UserOrder{
		ID:          uuid.NewString(),
		UserID:      actor.UserID,
		GearID:      g.ID,
		Status:      order.StatusWaiting,
		Price:       g.PricePerDay,
		PublicNote:  req.PublicNote,
		PrivateNote: req.PrivateNote,
	}
	if req.Price != nil {
		o.Price = *req.Price
	}
	if req.UserID != nil {
		o.UserID = *req.UserID
	}
	if req.Status != nil {
		o.Status = *req.Status
		if o.Status == order.StatusShipped {
			now := time.Now().UTC()
			o.ShippedAt = &now
		}
	}

	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error("failed to create order", zap.String("gear_id", g.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.String("gear_id", o.GearID),
	)
	if s.notifier != nil {
		s.notifier.Notify(ctx, notification.TriggerOrderCreated)
	}
	return s.view(actor, s.reload(ctx, o)), nil
}

func (s *OrderService) Get(ctx context.Context, actor auth.Actor, id string) (*order.UserOrder, error) {
	o, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.view(actor, o), nil
}

// List returns the caller's own orders; admins see all of them.
func (s *OrderService) List(ctx context.Context, actor auth.Actor, f order.Filter) ([]*order.UserOrder, int64, error) {
	p := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
	f.Page, f.Limit = p.Page, p.Limit
	if !actor.IsAdmin() {
		f.UserID = actor.UserID
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	for i, o := range items {
		items[i] = s.view(actor, o)
	}
	return items, total, nil
}

func (s *OrderService) Update(ctx context.Context, actor auth.Actor, id string, req *order.UpdateRequest) (*order.UserOrder, error) {
	if !actor.IsAdmin() && (req.Price != nil || req.Status != nil || req.PrivateNote != nil || req.ShippedAt != nil) {
		return nil, xerrors.Forbidden("Only admins can set the price, status, private notes or the shipped date")
	}
	o, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Price != nil {
		o.Price = *req.Price
	}
	if req.PublicNote != nil {
		o.PublicNote = req.PublicNote
	}
	if req.PrivateNote != nil {
		o.PrivateNote = req.PrivateNote
	}
	if req.Status != nil {
		o.Status = *req.Status
		if o.Status == order.StatusShipped && o.ShippedAt == nil && req.ShippedAt == nil {
			now := time.Now().UTC()
			o.ShippedAt = &now
		}
	}
	if req.ShippedAt != nil {
		o.ShippedAt = req.ShippedAt
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	s.logger.Info("order updated", zap.String("order_id", id), zap.String("actor", actor.UserID))
	return s.view(actor, s.reload(ctx, o)), nil
}

func (s *OrderService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if _, err := s.find(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return xerrors.NotFound(msgNotFound)
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}
	s.logger.Info("order deleted", zap.String("order_id", id), zap.String("actor", actor.UserID))
	return nil
}

// find loads an order the actor is allowed to see. Other users' orders are
// reported as missing.
func (s *OrderService) find(ctx context.Context, actor auth.Actor, id string) (*order.UserOrder, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound(msgNotFound)
		}
		return nil, err
	}
	if !auth.CanModify(actor, o.UserID) {
		return nil, xerrors.NotFound(msgNotFound)
	}
	return o, nil
}

func (s *OrderService) view(actor auth.Actor, o *order.UserOrder) *order.UserOrder {
	if actor.IsAdmin() {
		return o
	}
	return o.Redacted()
}

func (s *OrderService) reload(ctx context.Context, o *order.UserOrder) *order.UserOrder {
	if fresh, err := s.repo.FindByID(ctx, o.ID); err == nil {
		return fresh
	}
	return o
}
