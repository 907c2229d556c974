package category

import (
	"context"
	"fmt"
	"strings"

	"wecamp-service/internal/domain/category"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/slug"

	"go.uber.org/zap"
)

// maxImportPasses caps the dependency-resolution loop of ImportCategories.
const maxImportPasses = 100

type pendingItem struct {
	item       category.ImportItem
	slug       string
	parentSlug string
}

// ImportCategories creates a batch of categories whose parents are given by
// slug. Roots go first, then repeated passes create every item whose parent
// is already known, either from this batch or from the database. Items whose
// slug already exists are mapped, not duplicated. Anything still unresolved
// after the passes is reported in Errors.
func (s *CategoryService) ImportCategories(ctx context.Context, items []category.ImportItem) (*category.ImportResult, error) {
	result := &category.ImportResult{Errors: []string{}, IDs: map[string]string{}}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		result.IDs[strings.ToLower(c.Slug)] = c.ID
	}

	var roots, children []pendingItem
	for i, it := range items {
		key := slug.Make(it.Slug)
		if key == "" {
			key = slug.Make(it.Name)
		}
		if key == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: name or slug is required", i))
			continue
		}
		p := pendingItem{item: it, slug: key, parentSlug: slug.Make(it.ParentSlug)}
		if p.parentSlug == "" {
			roots = append(roots, p)
		} else {
			children = append(children, p)
		}
	}

	failed := map[string]bool{}
	for _, p := range roots {
		if !s.importOne(ctx, p, nil, result) {
			failed[p.slug] = true
		}
	}

	pending := children
	for pass := 0; pass < maxImportPasses && len(pending) > 0; pass++ {
		progress := false
		next := pending[:0:0]
		for _, p := range pending {
			if _, ok := result.IDs[p.slug]; ok {
				result.Existing++
				progress = true
				continue
			}
			if failed[p.parentSlug] {
				failed[p.slug] = true
				result.Errors = append(result.Errors,
					fmt.Sprintf("category %q: parent %q failed to import", p.slug, p.parentSlug))
				progress = true
				continue
			}
			parentID, ok := result.IDs[p.parentSlug]
			if !ok {
				next = append(next, p)
				continue
			}
			if !s.importOne(ctx, p, &parentID, result) {
				failed[p.slug] = true
			}
			progress = true
		}
		pending = next
		if !progress {
			break
		}
	}

	for _, p := range pending {
		result.Errors = append(result.Errors,
			fmt.Sprintf("category %q: parent %q not found", p.slug, p.parentSlug))
	}

	s.logger.Info("category import finished",
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// importOne creates one item and reports whether it now exists.
func (s *CategoryService) importOne(ctx context.Context, p pendingItem, parentID *string, result *category.ImportResult) bool {
	if id, ok := result.IDs[p.slug]; ok && id != "" {
		result.Existing++
		return true
	}
	c, err := s.CreateCategory(ctx, &category.CreateRequest{
		Name:        p.item.Name,
		Slug:        p.slug,
		Description: p.item.Description,
		ParentID:    parentID,
		Icon:        p.item.Icon,
		Order:       p.item.Order,
	})
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindConflict {
			// created concurrently; map it
			if existing, ferr := s.repo.FindBySlug(ctx, p.slug); ferr == nil {
				result.IDs[p.slug] = existing.ID
				result.Existing++
				return true
			}
		}
		result.Errors = append(result.Errors, fmt.Sprintf("category %q: %s", p.slug, clientMessage(err)))
		return false
	}
	result.IDs[p.slug] = c.ID
	result.Created++
	return true
}

// clientMessage prefers the client-facing message of an AppError.
func clientMessage(err error) string {
	var appErr *xerrors.AppError
	if xerrors.As(err, &appErr) && appErr.Operational() {
		return appErr.Message
	}
	return xerrors.KindOf(err).PublicMessage()
}
