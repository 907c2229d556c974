// internal/service/campsite/service.go
package campsite

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/campsite"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgNotFound = "Campsite not found"

type CampsiteService struct {
	repo   campsite.Repository
	logger *zap.Logger
}

func NewCampsiteService(repo campsite.Repository, logger *zap.Logger) *CampsiteService {
	return &CampsiteService{repo: repo, logger: logger}
}

func (s *CampsiteService) Create(ctx context.Context, req *campsite.CreateRequest) (*campsite.Campsite, error) {
	c := &campsite.Campsite{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Location:      strings.TrimSpace(req.Location),
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		Capacity:      req.Capacity,
		Amenities:     clean(req.Amenities),
		Images:        clean(req.Images),
		Available:     true,
	}
	if req.Available != nil {
		c.Available = *req.Available
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create campsite: %w", err)
	}
	s.logger.Info("campsite created", zap.String("campsite_id", c.ID), zap.String("name", c.Name))
	return s.reload(ctx, c), nil
}

func (s *CampsiteService) Update(ctx context.Context, id string, req *campsite.UpdateRequest) (*campsite.Campsite, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		c.Location = strings.TrimSpace(*req.Location)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.PricePerNight != nil {
		c.PricePerNight = *req.PricePerNight
	}
	if req.Capacity != nil {
		c.Capacity = *req.Capacity
	}
	if req.Amenities != nil {
		c.Amenities = clean(*req.Amenities)
	}
	if req.Images != nil {
		c.Images = clean(*req.Images)
	}
	if req.Available != nil {
		c.Available = *req.Available
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update campsite: %w", err)
	}
	s.logger.Info("campsite updated", zap.String("campsite_id", id))
	return s.reload(ctx, c), nil
}

// Delete fails with a conflict while reservations still reference the site.
func (s *CampsiteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch xerrors.KindOf(err) {
		case xerrors.KindNotFound:
			return xerrors.NotFound(msgNotFound)
		case xerrors.KindInvalid:
			return xerrors.Conflict("Campsite has reservations and cannot be deleted")
		}
		return err
	}
	s.logger.Info("campsite deleted", zap.String("campsite_id", id))
	return nil
}

func (s *CampsiteService) Get(ctx context.Context, id string) (*campsite.Campsite, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound(msgNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (s *CampsiteService) List(ctx context.Context, f campsite.Filter) ([]*campsite.Campsite, int64, error) {
	p := pagination.Params{Page: f.Page, Limit: f.Limit}.Normalize()
	f.Page, f.Limit = p.Page, p.Limit
	return s.repo.List(ctx, f)
}

func (s *CampsiteService) reload(ctx context.Context, c *campsite.Campsite) *campsite.Campsite {
	if fresh, err := s.repo.FindByID(ctx, c.ID); err == nil {
		return fresh
	}
	return c
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
