// internal/service/reference/service.go
package reference

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/reference"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgNotFound = "Reference not found"

type ReferenceService struct {
	repo   reference.Repository
	logger *zap.Logger
}

func NewReferenceService(repo reference.Repository, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{repo: repo, logger: logger}
}

// List returns every reference in display order.
func (s *ReferenceService) List(ctx context.Context) ([]*reference.Reference, error) {
	return s.repo.List(ctx)
}

func (s *ReferenceService) Get(ctx context.Context, id string) (*reference.Reference, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound(msgNotFound)
		}
		return nil, err
	}
	return r, nil
}

func (s *ReferenceService) Create(ctx context.Context, req *reference.CreateRequest) (*reference.Reference, error) {
	r := &reference.Reference{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Image:       req.Image,
		Link:        req.Link,
		Order:       req.Order,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create reference: %w", err)
	}
	s.logger.Info("reference created", zap.String("reference_id", r.ID))
	return r, nil
}

func (s *ReferenceService) Update(ctx context.Context, id string, req *reference.UpdateRequest) (*reference.Reference, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		r.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		r.Description = req.Description
	}
	if req.Image != nil {
		r.Image = req.Image
	}
	if req.Link != nil {
		r.Link = req.Link
	}
	if req.Order != nil {
		r.Order = *req.Order
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update reference: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *ReferenceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return xerrors.NotFound(msgNotFound)
		}
		return err
	}
	s.logger.Info("reference deleted", zap.String("reference_id", id))
	return nil
}
