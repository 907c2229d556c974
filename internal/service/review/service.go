// internal/service/review/service.go
package review

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/campsite"
	"wecamp-service/internal/domain/gear"
	"wecamp-service/internal/domain/notification"
	"wecamp-service/internal/domain/review"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GearFinder interface {
	FindByID(ctx context.Context, id string) (*gear.Gear, error)
}

type CampsiteFinder interface {
	FindByID(ctx context.Context, id string) (*campsite.Campsite, error)
}

type ReviewService struct {
	repo      review.Repository
	gear      GearFinder
	campsites CampsiteFinder
	notifier  notification.Notifier
	logger    *zap.Logger
}

func NewReviewService(repo review.Repository, gearRepo GearFinder, campsites CampsiteFinder, notifier notification.Notifier, logger *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, gear: gearRepo, campsites: campsites, notifier: notifier, logger: logger}
}

// Create stores a review of exactly one gear item or campsite.
func (s *ReviewService) Create(ctx context.Context, actor auth.Actor, req *review.CreateRequest) (*review.Review, error) {
	gearID, campsiteID := blankToNil(req.GearID), blankToNil(req.CampsiteID)
	if (gearID == nil) == (campsiteID == nil) {
		return nil, xerrors.Validation("validation failed", map[string]string{
			"gear_id": "exactly one of gear_id or campsite_id is required",
		})
	}

	if gearID != nil {
		if _, err := s.gear.FindByID(ctx, *gearID); err != nil {
			return nil, missing(err, "Gear not found")
		}
	} else {
		if _, err := s.campsites.FindByID(ctx, *campsiteID); err != nil {
			return nil, missing(err, "Campsite not found")
		}
	}

	r := &review.Review{
		ID:         uuid.NewString(),
		UserID:     actor.UserID,
		GearID:     gearID,
		CampsiteID: campsiteID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info("review created", zap.String("review_id", r.ID), zap.Int("rating", r.Rating))
	if s.notifier != nil {
		s.notifier.Notify(ctx, notification.TriggerReviewCreated)
	}
	if fresh, err := s.repo.FindByID(ctx, r.ID); err == nil {
		return fresh, nil
	}
	return r, nil
}

func (s *ReviewService) List(ctx context.Context, f review.Filter) ([]*review.Review, int64, error) {
	p := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
	f.Page, f.Limit = p.Page, p.Limit
	return s.repo.List(ctx, f)
}

// Delete is allowed for the author or an admin.
func (s *ReviewService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return missing(err, "Review not found")
	}
	if !auth.CanModify(actor, r.UserID) {
		return xerrors.Forbidden("You can only delete your own reviews")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return missing(err, "Review not found")
	}
	s.logger.Info("review deleted", zap.String("review_id", id), zap.String("actor", actor.UserID))
	return nil
}

func missing(err error, msg string) error {
	if xerrors.KindOf(err) == xerrors.KindNotFound {
		return xerrors.NotFound(msg)
	}
	return err
}

func blankToNil(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return p
}
