// internal/service/category/service.go
package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/category"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/slug"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNotFound       = "Category not found"
	msgParentNotFound = "Parent category not found"
	msgTooDeep        = "Categories can only be nested up to 3 levels (root, column, leaf)"
	msgSlugTaken      = "Category slug already exists"
	msgSelfParent     = "A category cannot be its own parent"
	msgDescendant     = "A category cannot be moved under one of its descendants"

	// maxWalk bounds parent-chain walks so corrupt data cannot loop forever.
	maxWalk = 32
)

var errCorruptTree = errors.New("category hierarchy contains a cycle")

type CategoryService struct {
	repo   category.Repository
	logger *zap.Logger
}

func NewCategoryService(repo category.Repository, logger *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

// GetCategoryDepth counts parent hops from id up to a root.
func (s *CategoryService) GetCategoryDepth(ctx context.Context, id string) (int, error) {
	return depth(ctx, s.repo, id)
}

func depth(ctx context.Context, repo category.Repository, id string) (int, error) {
	c, err := repo.FindByID(ctx, id)
	if err != nil {
		return 0, notFound(err, msgNotFound)
	}
	d := 0
	for c.ParentID != nil {
		if d >= maxWalk {
			return 0, errCorruptTree
		}
		parent, err := repo.FindByID(ctx, *c.ParentID)
		if err != nil {
			return 0, invalidIfMissing(err, msgParentNotFound)
		}
		c = parent
		d++
	}
	return d, nil
}

// EnsureParentAllowsChild fails when a child under parentID would sit below MaxDepth.
func (s *CategoryService) EnsureParentAllowsChild(ctx context.Context, parentID string) error {
	return ensureParentAllowsChild(ctx, s.repo, parentID)
}

func ensureParentAllowsChild(ctx context.Context, repo category.Repository, parentID string) error {
	d, err := depth(ctx, repo, parentID)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return xerrors.Invalid(msgParentNotFound)
		}
		return err
	}
	if d >= category.MaxDepth {
		return xerrors.Invalid(msgTooDeep)
	}
	return nil
}

// IsDescendant reports whether candidateParentID lies in the subtree of categoryID.
func (s *CategoryService) IsDescendant(ctx context.Context, categoryID, candidateParentID string) (bool, error) {
	return isDescendant(ctx, s.repo, categoryID, candidateParentID)
}

func isDescendant(ctx context.Context, repo category.Repository, categoryID, candidateParentID string) (bool, error) {
	current := candidateParentID
	for i := 0; i <= maxWalk; i++ {
		if current == categoryID {
			return true, nil
		}
		c, err := repo.FindByID(ctx, current)
		if err != nil {
			return false, invalidIfMissing(err, msgParentNotFound)
		}
		if c.ParentID == nil {
			return false, nil
		}
		current = *c.ParentID
	}
	return false, errCorruptTree
}

// subtreeHeight is the longest chain of edges below id.
func subtreeHeight(ctx context.Context, repo category.Repository, id string, guard int) (int, error) {
	if guard > maxWalk {
		return 0, errCorruptTree
	}
	children, err := repo.FindChildren(ctx, id)
	if err != nil {
		return 0, err
	}
	height := 0
	for _, ch := range children {
		h, err := subtreeHeight(ctx, repo, ch.ID, guard+1)
		if err != nil {
			return 0, err
		}
		if h+1 > height {
			height = h + 1
		}
	}
	return height, nil
}

// CreateCategory validates slug uniqueness and nesting, then inserts.
func (s *CategoryService) CreateCategory(ctx context.Context, req *category.CreateRequest) (*category.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, xerrors.Validation("validation failed", map[string]string{"name": "is required"})
	}
	sl := slug.Make(req.Slug)
	if sl == "" {
		sl = slug.Make(name)
	}
	if sl == "" {
		return nil, xerrors.Validation("validation failed", map[string]string{"slug": "could not be derived from name"})
	}

	var parentID *string
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) != "" {
		p := strings.TrimSpace(*req.ParentID)
		parentID = &p
	}

	c := &category.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        sl,
		Description: req.Description,
		ParentID:    parentID,
		Icon:        req.Icon,
		Order:       req.Order,
	}

	err := s.repo.WithTreeLock(ctx, func(repo category.Repository) error {
		if err := ensureSlugFree(ctx, repo, sl, ""); err != nil {
			return err
		}
		if parentID != nil {
			if err := ensureParentAllowsChild(ctx, repo, *parentID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, s.mapWriteErr(err, "create")
	}

	s.logger.Info("category created",
		zap.String("category_id", c.ID),
		zap.String("slug", c.Slug),
	)
	return s.reload(ctx, c)
}

// UpdateCategory applies a partial update, re-validating the hierarchy when
// the parent changes.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, req *category.UpdateRequest) (*category.Category, error) {
	var updated *category.Category
	err := s.repo.WithTreeLock(ctx, func(repo category.Repository) error {
		c, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFound(err, msgNotFound)
		}

		if req.Name != nil {
			c.Name = strings.TrimSpace(*req.Name)
		}
		if req.Slug != nil {
			sl := slug.Make(*req.Slug)
			if sl == "" {
				return xerrors.Validation("validation failed", map[string]string{"slug": "is invalid"})
			}
			if !strings.EqualFold(sl, c.Slug) {
				if err := ensureSlugFree(ctx, repo, sl, c.ID); err != nil {
					return err
				}
			}
			c.Slug = sl
		}
		if req.Description != nil {
			c.Description = req.Description
		}
		if req.Icon != nil {
			c.Icon = req.Icon
		}
		if req.Order != nil {
			c.Order = *req.Order
		}

		if req.ParentID.Set {
			if err := checkMove(ctx, repo, c.ID, req.ParentID.Value); err != nil {
				return err
			}
			c.ParentID = req.ParentID.Value
		}

		if err := repo.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, s.mapWriteErr(err, "update")
	}

	s.logger.Info("category updated", zap.String("category_id", id))
	return s.reload(ctx, updated)
}

// checkMove validates putting categoryID under newParent (nil means root).
func checkMove(ctx context.Context, repo category.Repository, categoryID string, newParent *string) error {
	if newParent == nil {
		return nil
	}
	if *newParent == categoryID {
		return xerrors.Invalid(msgSelfParent)
	}
	desc, err := isDescendant(ctx, repo, categoryID, *newParent)
	if err != nil {
		return err
	}
	if desc {
		return xerrors.Invalid(msgDescendant)
	}
	parentDepth, err := depth(ctx, repo, *newParent)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return xerrors.Invalid(msgParentNotFound)
		}
		return err
	}
	height, err := subtreeHeight(ctx, repo, categoryID, 0)
	if err != nil {
		return err
	}
	if parentDepth+1+height > category.MaxDepth {
		return xerrors.Invalid(msgTooDeep)
	}
	return nil
}

// DeleteCategory refuses while children or gear still reference the category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	err := s.repo.WithTreeLock(ctx, func(repo category.Repository) error {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return notFound(err, msgNotFound)
		}
		children, err := repo.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return xerrors.Conflict("Category has subcategories; move or delete them first")
		}
		gearCount, err := repo.CountGear(ctx, id)
		if err != nil {
			return err
		}
		if gearCount > 0 {
			return xerrors.Newf(xerrors.KindConflict, "Category is used by %d gear item(s)", gearCount)
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return s.mapWriteErr(err, "delete")
	}
	s.logger.Info("category deleted", zap.String("category_id", id))
	return nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*category.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgNotFound)
	}
	return c, nil
}

func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*category.Category, error) {
	c, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, msgNotFound)
	}
	return c, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*category.Category, error) {
	return s.repo.List(ctx)
}

// GetCategoryTree nests every category under its parent. Rows whose parent
// is missing are promoted to roots so nothing disappears from the view.
func (s *CategoryService) GetCategoryTree(ctx context.Context) ([]*category.Node, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(all), nil
}

// BuildTree keeps the input order within each level.
func BuildTree(all []*category.Category) []*category.Node {
	nodes := make(map[string]*category.Node, len(all))
	for _, c := range all {
		nodes[c.ID] = &category.Node{Category: c, Children: []*category.Node{}}
	}
	roots := []*category.Node{}
	for _, c := range all {
		n := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// ResolveScope returns the category for slug together with the ids of
// itself, all its ancestors and its direct children.
func (s *CategoryService) ResolveScope(ctx context.Context, slug string) (*category.Scope, error) {
	c, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, msgNotFound)
	}

	seen := map[string]bool{c.ID: true}
	ids := []string{c.ID}

	parentID := c.ParentID
	for hops := 0; parentID != nil && hops < maxWalk; hops++ {
		if seen[*parentID] {
			break
		}
		parent, err := s.repo.FindByID(ctx, *parentID)
		if err != nil {
			if xerrors.KindOf(err) == xerrors.KindNotFound {
				break
			}
			return nil, err
		}
		seen[parent.ID] = true
		ids = append(ids, parent.ID)
		parentID = parent.ParentID
	}

	children, err := s.repo.FindChildren(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	for _, ch := range children {
		if !seen[ch.ID] {
			seen[ch.ID] = true
			ids = append(ids, ch.ID)
		}
	}
	return &category.Scope{Category: c, IDs: ids}, nil
}

// FindBestMatch looks a free-text category reference up among all categories.
func (s *CategoryService) FindBestMatch(ctx context.Context, query string) (*category.Category, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if c := BestMatch(all, query); c != nil {
		return c, nil
	}
	return nil, xerrors.NotFound(msgNotFound)
}

// ResolveOrCreate turns an id, slug or name into a category. When nothing
// matches and parentName is given, the category is created under that
// parent, creating the parent as a root first if needed.
func (s *CategoryService) ResolveOrCreate(ctx context.Context, nameOrID, parentName string) (*category.Category, error) {
	ref := strings.TrimSpace(nameOrID)
	if ref == "" {
		return nil, xerrors.Validation("validation failed", map[string]string{"category_id": "is required"})
	}

	if _, err := uuid.Parse(ref); err == nil {
		c, err := s.repo.FindByID(ctx, ref)
		if err != nil {
			if xerrors.KindOf(err) == xerrors.KindNotFound {
				return nil, xerrors.Validation("validation failed", map[string]string{"category_id": "category does not exist"})
			}
			return nil, err
		}
		return c, nil
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if c := BestMatch(all, ref); c != nil {
		return c, nil
	}

	parentName = strings.TrimSpace(parentName)
	if parentName == "" {
		return nil, xerrors.Validation("validation failed", map[string]string{"category_id": "no category matches " + ref})
	}

	parent := BestMatch(all, parentName)
	if parent == nil {
		parent, err = s.CreateCategory(ctx, &category.CreateRequest{Name: parentName})
		if err != nil {
			return nil, fmt.Errorf("create parent category %q: %w", parentName, err)
		}
		s.logger.Info("auto-created parent category", zap.String("name", parentName), zap.String("category_id", parent.ID))
	}

	parentID := parent.ID
	c, err := s.CreateCategory(ctx, &category.CreateRequest{Name: ref, ParentID: &parentID})
	if err != nil {
		return nil, fmt.Errorf("create category %q: %w", ref, err)
	}
	s.logger.Info("auto-created category", zap.String("name", ref), zap.String("category_id", c.ID))
	return c, nil
}

func ensureSlugFree(ctx context.Context, repo category.Repository, slug, selfID string) error {
	existing, err := repo.FindBySlug(ctx, slug)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindNotFound {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return xerrors.Conflict(msgSlugTaken)
	}
	return nil
}

func (s *CategoryService) reload(ctx context.Context, c *category.Category) (*category.Category, error) {
	fresh, err := s.repo.FindByID(ctx, c.ID)
	if err != nil {
		// the write succeeded; fall back to what we sent
		s.logger.Warn("failed to re-read category", zap.String("category_id", c.ID), zap.Error(err))
		return c, nil
	}
	return fresh, nil
}

// mapWriteErr turns a unique violation that slipped past the pre-check into
// the same 409 the pre-check would have produced.
func (s *CategoryService) mapWriteErr(err error, op string) error {
	var appErr *xerrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, errCorruptTree) {
		s.logger.Error("category tree corrupt", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s category: %w", op, err)
	}
	switch xerrors.KindOf(err) {
	case xerrors.KindConflict:
		return xerrors.Conflict(msgSlugTaken).WithCause(err)
	case xerrors.KindNotFound:
		return xerrors.NotFound(msgNotFound).WithCause(err)
	}
	s.logger.Error("category write failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s category: %w", op, err)
}

func notFound(err error, msg string) error {
	if xerrors.KindOf(err) == xerrors.KindNotFound {
		return xerrors.NotFound(msg).WithCause(err)
	}
	return err
}

func invalidIfMissing(err error, msg string) error {
	if xerrors.KindOf(err) == xerrors.KindNotFound {
		return xerrors.Invalid(msg).WithCause(err)
	}
	return err
}
