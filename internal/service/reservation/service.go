// internal/service/reservation/service.go
package reservation

import (
	"context"
	"fmt"
	"time"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/campsite"
	"wecamp-service/internal/domain/notification"
	"wecamp-service/internal/domain/reservation"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgNotFound = "Reservation not found"

// CampsiteFinder is the campsite lookup bookings need.
type CampsiteFinder interface {
	FindByID(ctx context.Context, id string) (*campsite.Campsite, error)
}

type ReservationService struct {
	repo      reservation.Repository
	campsites CampsiteFinder
	notifier  notification.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

func NewReservationService(repo reservation.Repository, campsites CampsiteFinder, notifier notification.Notifier, logger *zap.Logger) *ReservationService {
	return &ReservationService{
		repo:      repo,
		campsites: campsites,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// ParseDate reads a YYYY-MM-DD date as UTC midnight.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(reservation.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, xerrors.Validation("validation failed", map[string]string{field: "must be a date in YYYY-MM-DD format"})
	}
	return t, nil
}

func (s *ReservationService) Create(ctx context.Context, actor auth.Actor, req *reservation.CreateRequest) (*reservation.Reservation, error) {
	start, err := ParseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, xerrors.Validation("validation failed", map[string]string{"end_date": "must be after start_date"})
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if start.Before(today) {
		return nil, xerrors.Validation("validation failed", map[string]string{"start_date": "must not be in the past"})
	}

	site, err := s.campsites.FindByID(ctx, req.CampsiteID)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound("Campsite not found")
		}
		return nil, err
	}
	if !site.Available {
		return nil, xerrors.Invalid("Campsite is not available for booking")
	}
	if req.Guests > site.Capacity {
		return nil, xerrors.Validation("validation failed", map[string]string{
			"guests": fmt.Sprintf("must not exceed campsite capacity of %d", site.Capacity),
		})
	}

	r := &reservation.Reservation{
		ID:         uuid.NewString(),
		UserID:     actor.UserID,
		CampsiteID: site.ID,
		StartDate:  start,
		EndDate:    end,
		Guests:     req.Guests,
		Status:     reservation.StatusPending,
	}
	r.TotalPrice = float64(r.Nights()) * site.PricePerNight

	err = s.repo.WithCampsiteLock(ctx, site.ID, func(repo reservation.Repository) error {
		taken, err := repo.HasOverlap(ctx, site.ID, start, end)
		if err != nil {
			return err
		}
		if taken {
			return xerrors.Conflict("Campsite is already reserved for the selected dates")
		}
		return repo.Create(ctx, r)
	})
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindConflict {
			return nil, err
		}
		s.logger.Error("failed to create reservation", zap.String("campsite_id", site.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", r.ID),
		zap.String("campsite_id", site.ID),
		zap.String("user_id", actor.UserID),
		zap.Int("nights", r.Nights()),
	)
	if s.notifier != nil {
		s.notifier.Notify(ctx, notification.TriggerReservationCreated)
	}

	if fresh, err := s.repo.FindByID(ctx, r.ID); err == nil {
		return fresh, nil
	}
	return r, nil
}

func (s *ReservationService) Get(ctx context.Context, actor auth.Actor, id string) (*reservation.Reservation, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound(msgNotFound)
		}
		return nil, err
	}
	if !auth.CanModify(actor, r.UserID) {
		// Another user's booking is reported as missing.
		return nil, xerrors.NotFound(msgNotFound)
	}
	return r, nil
}

// List returns the caller's reservations, or everyone's for an admin.
func (s *ReservationService) List(ctx context.Context, actor auth.Actor, f reservation.Filter) ([]*reservation.Reservation, int64, error) {
	p := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
	f.Page, f.Limit = p.Page, p.Limit
	if !actor.IsAdmin() {
		f.UserID = actor.UserID
	}
	return s.repo.List(ctx, f)
}

// Cancel is allowed for the booking's owner or an admin.
func (s *ReservationService) Cancel(ctx context.Context, actor auth.Actor, id string) (*reservation.Reservation, error) {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if r.Status == reservation.StatusCancelled {
		return r, nil
	}
	return s.setStatus(ctx, actor, r, reservation.StatusCancelled)
}

// UpdateStatus is the admin transition. Re-confirming a cancelled booking
// re-checks availability.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor auth.Actor, id string, status reservation.Status) (*reservation.Reservation, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.Forbidden("Admin access required")
	}
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if r.Status == status {
		return r, nil
	}
	if r.Status != reservation.StatusCancelled {
		return s.setStatus(ctx, actor, r, status)
	}

	err = s.repo.WithCampsiteLock(ctx, r.CampsiteID, func(repo reservation.Repository) error {
		taken, err := repo.HasOverlap(ctx, r.CampsiteID, r.StartDate, r.EndDate)
		if err != nil {
			return err
		}
		if taken {
			return xerrors.Conflict("Campsite is already reserved for the selected dates")
		}
		return repo.UpdateStatus(ctx, r.ID, status)
	})
	if err != nil {
		return nil, err
	}
	s.logStatus(actor, r, status)
	return s.Get(ctx, actor, id)
}

func (s *ReservationService) setStatus(ctx context.Context, actor auth.Actor, r *reservation.Reservation, status reservation.Status) (*reservation.Reservation, error) {
	if err := s.repo.UpdateStatus(ctx, r.ID, status); err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound(msgNotFound)
		}
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	s.logStatus(actor, r, status)
	return s.Get(ctx, actor, r.ID)
}

func (s *ReservationService) logStatus(actor auth.Actor, r *reservation.Reservation, status reservation.Status) {
	s.logger.Info("reservation status changed",
		zap.String("reservation_id", r.ID),
		zap.String("from", string(r.Status)),
		zap.String("to", string(status)),
		zap.String("actor", actor.UserID),
	)
}
