// internal/service/gear/service.go
package gear

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/category"
	"wecamp-service/internal/domain/gear"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgNotFound = "Gear not found"

// CategoryResolver is the part of the category service gear depends on.
type CategoryResolver interface {
	GetCategory(ctx context.Context, id string) (*category.Category, error)
	ResolveScope(ctx context.Context, slug string) (*category.Scope, error)
	ResolveOrCreate(ctx context.Context, nameOrID, parentName string) (*category.Category, error)
}

type GearService struct {
	repo       gear.Repository
	categories CategoryResolver
	logger     *zap.Logger
}

func NewGearService(repo gear.Repository, categories CategoryResolver, logger *zap.Logger) *GearService {
	return &GearService{repo: repo, categories: categories, logger: logger}
}

func (s *GearService) Create(ctx context.Context, actor auth.Actor, req *gear.CreateRequest) (*gear.Gear, error) {
	status := req.Status
	if status == "" {
		status = gear.StatusForSale
	}
	if !status.Valid() {
		return nil, errInvalidStatus()
	}

	// resolving may create categories, so it runs after every other check
	cat, err := s.categories.ResolveOrCreate(ctx, req.CategoryID, req.CategoryParent)
	if err != nil {
		return nil, err
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	g := &gear.Gear{
		ID:                  uuid.NewString(),
		Name:                strings.TrimSpace(req.Name),
		Description:         req.Description,
		CategoryID:          cat.ID,
		Images:              cleanList(req.Images),
		PricePerDay:         req.PricePerDay,
		Deposit:             req.Deposit,
		Available:           available,
		Status:              status,
		Specifications:      req.Specifications,
		Brand:               trimPtr(req.Brand),
		Color:               trimPtr(req.Color),
		Rating:              req.Rating,
		RecommendedProducts: cleanList(req.RecommendedProducts),
	}
	if actor.UserID != "" {
		owner := actor.UserID
		g.CreatedBy = &owner
	}

	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Error("failed to create gear", zap.Error(err))
		return nil, fmt.Errorf("failed to create gear: %w", err)
	}

	s.logger.Info("gear created",
		zap.String("gear_id", g.ID),
		zap.String("category_id", g.CategoryID),
		zap.String("created_by", actor.UserID),
	)
	return s.reload(ctx, g), nil
}

func (s *GearService) Update(ctx context.Context, actor auth.Actor, id string, req *gear.UpdateRequest) (*gear.Gear, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, errInvalidStatus()
	}
	g, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		g.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.CategoryID != nil && strings.TrimSpace(*req.CategoryID) != "" {
		cat, err := s.categories.ResolveOrCreate(ctx, *req.CategoryID, req.CategoryParent)
		if err != nil {
			return nil, err
		}
		g.CategoryID = cat.ID
	}
	if req.Images != nil {
		g.Images = cleanList(*req.Images)
	}
	if req.PricePerDay != nil {
		g.PricePerDay = *req.PricePerDay
	}
	if req.Deposit != nil {
		g.Deposit = req.Deposit
	}
	if req.Available != nil {
		g.Available = *req.Available
	}
	if req.Status != nil {
		g.Status = *req.Status
	}
	if req.Specifications != nil {
		g.Specifications = *req.Specifications
	}
	if req.Brand != nil {
		g.Brand = trimPtr(req.Brand)
	}
	if req.Color != nil {
		g.Color = trimPtr(req.Color)
	}
	if req.Rating != nil {
		g.Rating = req.Rating
	}
	if req.RecommendedProducts != nil {
		g.RecommendedProducts = cleanList(*req.RecommendedProducts)
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to update gear: %w", err)
	}
	s.logger.Info("gear updated", zap.String("gear_id", id), zap.String("actor", actor.UserID))
	return s.reload(ctx, g), nil
}

func (s *GearService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return xerrors.NotFound(msgNotFound)
		}
		return fmt.Errorf("failed to delete gear: %w", err)
	}
	s.logger.Info("gear deleted", zap.String("gear_id", id), zap.String("actor", actor.UserID))
	return nil
}

// authorize loads the gear and applies the ownership rule.
func (s *GearService) authorize(ctx context.Context, actor auth.Actor, id string) (*gear.Gear, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanModifyPtr(actor, g.CreatedBy) {
		return nil, xerrors.Forbidden("You do not have permission to modify this gear")
	}
	return g, nil
}

func (s *GearService) Get(ctx context.Context, id string) (*gear.Gear, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil, xerrors.NotFound(msgNotFound)
		}
		return nil, err
	}
	return g, nil
}

// List pages through gear newest first. Filters are combined with AND.
func (s *GearService) List(ctx context.Context, f gear.Filter) ([]*gear.Gear, int64, error) {
	f.Params = f.Params.Normalize()
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, 0, xerrors.Validation("validation failed", map[string]string{"min_price": "must not exceed max_price"})
	}
	return s.repo.List(ctx, f)
}

// Search matches q against name, description and brand.
func (s *GearService) Search(ctx context.Context, q string, f gear.Filter) ([]*gear.Gear, int64, error) {
	if strings.TrimSpace(q) == "" {
		return nil, 0, xerrors.Validation("validation failed", map[string]string{"q": "is required"})
	}
	f.Query = q
	return s.List(ctx, f)
}

// GetByCategory lists gear of one category given by id or slug. With
// includeRelated the category's ancestors and direct children count too.
func (s *GearService) GetByCategory(ctx context.Context, idOrSlug string, includeRelated bool, f gear.Filter) ([]*gear.Gear, int64, error) {
	var slug string
	if _, err := uuid.Parse(idOrSlug); err == nil {
		c, err := s.categories.GetCategory(ctx, idOrSlug)
		if err != nil {
			return nil, 0, err
		}
		if !includeRelated {
			f.CategoryIDs = []string{c.ID}
			return s.List(ctx, f)
		}
		slug = c.Slug
	} else {
		slug = idOrSlug
	}

	scope, err := s.categories.ResolveScope(ctx, slug)
	if err != nil {
		return nil, 0, err
	}
	if includeRelated {
		f.CategoryIDs = scope.IDs
	} else {
		f.CategoryIDs = []string{scope.Category.ID}
	}
	f.CategoryID = ""
	return s.List(ctx, f)
}

// GetRecommended returns the curated recommendations, or a few available
// items from the same category when none are curated.
func (s *GearService) GetRecommended(ctx context.Context, id string) ([]*gear.Gear, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(g.RecommendedProducts) > 0 {
		items, err := s.repo.FindByIDs(ctx, g.RecommendedProducts)
		if err != nil {
			return nil, err
		}
		filtered := make([]*gear.Gear, 0, len(items))
		for _, it := range items {
			if it.ID != g.ID {
				filtered = append(filtered, it)
			}
		}
		if len(filtered) > 0 {
			return filtered, nil
		}
	}

	return s.repo.ListSimilar(ctx, g.CategoryID, g.ID, gear.RecommendedFallbackLimit)
}

func (s *GearService) reload(ctx context.Context, g *gear.Gear) *gear.Gear {
	fresh, err := s.repo.FindByID(ctx, g.ID)
	if err != nil {
		return g
	}
	return fresh
}

func errInvalidStatus() error {
	return xerrors.Validation("validation failed", map[string]string{"status": "must be one of: for-sale orderable sold"})
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
