// internal/service/brand/service.go
package brand

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/brand"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNotFound  = "Brand not found"
	msgNameTaken = "Brand name already exists"
)

type BrandService struct {
	repo   brand.Repository
	logger *zap.Logger
}

func NewBrandService(repo brand.Repository, logger *zap.Logger) *BrandService {
	return &BrandService{repo: repo, logger: logger}
}

func (s *BrandService) List(ctx context.Context) ([]*brand.Brand, error) {
	return s.repo.List(ctx)
}

func (s *BrandService) Get(ctx context.Context, id string) (*brand.Brand, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound(msgNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *BrandService) Create(ctx context.Context, req *brand.CreateRequest) (*brand.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	b := &brand.Brand{
		ID:          uuid.NewString(),
		Name:        name,
		Logo:        req.Logo,
		Description: req.Description,
		Website:     req.Website,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if xerrors.KindOf(err) == xerrors.KindConflict {
			return nil, xerrors.Conflict(msgNameTaken)
		}
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	s.logger.Info("brand created", zap.String("brand_id", b.ID), zap.String("name", b.Name))
	return b, nil
}

func (s *BrandService) Update(ctx context.Context, id string, req *brand.UpdateRequest) (*brand.Brand, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(name, b.Name) {
			if err := s.ensureNameFree(ctx, name, b.ID); err != nil {
				return nil, err
			}
		}
		b.Name = name
	}
	if req.Logo != nil {
		b.Logo = req.Logo
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.Website != nil {
		b.Website = req.Website
	}
	if err := s.repo.Update(ctx, b); err != nil {
		if xerrors.KindOf(err) == xerrors.KindConflict {
			return nil, xerrors.Conflict(msgNameTaken)
		}
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *BrandService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return xerrors.NotFound(msgNotFound)
		}
		return err
	}
	s.logger.Info("brand deleted", zap.String("brand_id", id))
	return nil
}

func (s *BrandService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return xerrors.Conflict(msgNameTaken)
	}
	return nil
}
