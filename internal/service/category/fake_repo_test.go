package category

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"wecamp-service/internal/domain/category"
	xerrors "wecamp-service/internal/pkg/errors"
)

type memRepo struct {
	mu        sync.Mutex
	rows      map[string]*category.Category
	gearCount map[string]int64
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*category.Category{}, gearCount: map[string]int64{}}
}

func clone(c *category.Category) *category.Category {
	cp := *c
	return &cp
}

func (r *memRepo) Create(_ context.Context, c *category.Category) error {
	for _, existing := range r.rows {
		if strings.EqualFold(existing.Slug, c.Slug) {
			return xerrors.ErrConflict
		}
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.rows[c.ID] = clone(c)
	return nil
}

func (r *memRepo) Update(_ context.Context, c *category.Category) error {
	if _, ok := r.rows[c.ID]; !ok {
		return xerrors.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	r.rows[c.ID] = clone(c)
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*category.Category, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return clone(c), nil
}

func (r *memRepo) FindBySlug(_ context.Context, slug string) (*category.Category, error) {
	for _, c := range r.rows {
		if strings.EqualFold(c.Slug, slug) {
			return clone(c), nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *memRepo) List(_ context.Context) ([]*category.Category, error) {
	out := make([]*category.Category, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memRepo) FindChildren(ctx context.Context, parentID string) ([]*category.Category, error) {
	all, _ := r.List(ctx)
	out := []*category.Category{}
	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) CountChildren(ctx context.Context, id string) (int64, error) {
	children, _ := r.FindChildren(ctx, id)
	return int64(len(children)), nil
}

func (r *memRepo) CountGear(_ context.Context, id string) (int64, error) {
	return r.gearCount[id], nil
}

func (r *memRepo) WithTreeLock(_ context.Context, fn func(repo category.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}
