package gear

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/category"
	"wecamp-service/internal/domain/gear"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memGear struct {
	rows  map[string]*gear.Gear
	order []string
}

func newMemGear() *memGear { return &memGear{rows: map[string]*gear.Gear{}} }

func (r *memGear) Create(_ context.Context, g *gear.Gear) error {
	cp := *g
	r.rows[g.ID] = &cp
	r.order = append(r.order, g.ID)
	return nil
}

func (r *memGear) Update(_ context.Context, g *gear.Gear) error {
	if _, ok := r.rows[g.ID]; !ok {
		return xerrors.ErrNotFound
	}
	cp := *g
	r.rows[g.ID] = &cp
	return nil
}

func (r *memGear) Delete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memGear) FindByID(_ context.Context, id string) (*gear.Gear, error) {
	g, ok := r.rows[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *memGear) FindByIDs(_ context.Context, ids []string) ([]*gear.Gear, error) {
	var out []*gear.Gear
	for _, id := range ids {
		if g, ok := r.rows[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// List mirrors the SQL repository: newest first, total counted before paging.
func (r *memGear) List(_ context.Context, f gear.Filter) ([]*gear.Gear, int64, error) {
	in := map[string]bool{}
	for _, id := range f.CategoryIDs {
		in[id] = true
	}
	var matched []*gear.Gear
	for i := len(r.order) - 1; i >= 0; i-- {
		g, ok := r.rows[r.order[i]]
		if !ok {
			continue
		}
		if len(in) > 0 && !in[g.CategoryID] {
			continue
		}
		matched = append(matched, g)
	}

	total := int64(len(matched))
	p := f.Params.Normalize()
	start := p.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memGear) ListSimilar(_ context.Context, categoryID, excludeID string, limit int) ([]*gear.Gear, error) {
	var out []*gear.Gear
	for _, id := range r.order {
		g, ok := r.rows[id]
		if !ok || g.ID == excludeID || g.CategoryID != categoryID || !g.Available {
			continue
		}
		out = append(out, g)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type stubCategories struct {
	byID     map[string]*category.Category
	scopes   map[string]*category.Scope
	resolved int
}

func (s *stubCategories) GetCategory(_ context.Context, id string) (*category.Category, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, xerrors.NotFound("Category not found")
}

func (s *stubCategories) ResolveScope(_ context.Context, slug string) (*category.Scope, error) {
	if sc, ok := s.scopes[slug]; ok {
		return sc, nil
	}
	return nil, xerrors.NotFound("Category not found")
}

func (s *stubCategories) ResolveOrCreate(_ context.Context, nameOrID, _ string) (*category.Category, error) {
	s.resolved++
	if c, ok := s.byID[nameOrID]; ok {
		return c, nil
	}
	for _, c := range s.byID {
		if c.Slug == nameOrID || c.Name == nameOrID {
			return c, nil
		}
	}
	return nil, xerrors.Validation("validation failed", map[string]string{"category_id": "unknown category"})
}

type fixture struct {
	svc   *GearService
	repo  *memGear
	cats  *stubCategories
	tents *category.Category
	dome  *category.Category
	other *category.Category
}

func newFixture() *fixture {
	tents := &category.Category{ID: uuid.NewString(), Name: "Tents", Slug: "tents"}
	dome := &category.Category{ID: uuid.NewString(), Name: "Dome", Slug: "dome", ParentID: &tents.ID}
	other := &category.Category{ID: uuid.NewString(), Name: "Chairs", Slug: "chairs"}
	cats := &stubCategories{
		byID: map[string]*category.Category{tents.ID: tents, dome.ID: dome, other.ID: other},
		scopes: map[string]*category.Scope{
			"tents": {Category: tents, IDs: []string{tents.ID, dome.ID}},
			"dome":  {Category: dome, IDs: []string{dome.ID, tents.ID}},
		},
	}
	repo := newMemGear()
	return &fixture{
		svc:   NewGearService(repo, cats, zap.NewNop()),
		repo:  repo,
		cats:  cats,
		tents: tents,
		dome:  dome,
		other: other,
	}
}

var (
	owner    = auth.Actor{UserID: "u-owner", Role: "user"}
	stranger = auth.Actor{UserID: "u-other", Role: "user"}
	admin    = auth.Actor{UserID: "u-admin", Role: "admin"}
)

func (f *fixture) create(t *testing.T, name, categoryRef string) *gear.Gear {
	t.Helper()
	g, err := f.svc.Create(context.Background(), owner, &gear.CreateRequest{
		Name:        name,
		CategoryID:  categoryRef,
		PricePerDay: 10,
	})
	require.NoError(t, err)
	return g
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture()
	g := f.create(t, "  Dome 2P ", "dome")

	assert.Equal(t, "Dome 2P", g.Name)
	assert.Equal(t, f.dome.ID, g.CategoryID)
	assert.Equal(t, gear.StatusForSale, g.Status)
	assert.True(t, g.Available)
	require.NotNil(t, g.CreatedBy)
	assert.Equal(t, owner.UserID, *g.CreatedBy)
}

func TestCreate_UnknownCategory(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), owner, &gear.CreateRequest{Name: "x", CategoryID: "boats"})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))
}

func TestCreate_InvalidStatusResolvesNoCategory(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), owner, &gear.CreateRequest{
		Name:           "Kayak",
		CategoryID:     "Boats",
		CategoryParent: "Water",
		Status:         "rented",
	})
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))
	assert.Zero(t, f.cats.resolved)
	assert.Empty(t, f.repo.rows)
}

func TestUpdate_Ownership(t *testing.T) {
	f := newFixture()
	g := f.create(t, "Stove", "tents")
	ctx := context.Background()
	name := "Camp Stove"

	_, err := f.svc.Update(ctx, stranger, g.ID, &gear.UpdateRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindForbidden, xerrors.KindOf(err))

	updated, err := f.svc.Update(ctx, owner, g.ID, &gear.UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Camp Stove", updated.Name)

	price := 25.0
	updated, err = f.svc.Update(ctx, admin, g.ID, &gear.UpdateRequest{PricePerDay: &price})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.PricePerDay)
	assert.Equal(t, "Camp Stove", updated.Name)
}

func TestUpdate_OwnerlessGearIsAdminOnly(t *testing.T) {
	f := newFixture()
	g := f.create(t, "Legacy", "tents")
	f.repo.rows[g.ID].CreatedBy = nil
	ctx := context.Background()

	err := f.svc.Delete(ctx, owner, g.ID)
	assert.Equal(t, xerrors.KindForbidden, xerrors.KindOf(err))
	require.NoError(t, f.svc.Delete(ctx, admin, g.ID))
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture()
	err := f.svc.Delete(context.Background(), admin, uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))
	assert.Equal(t, "Gear not found", err.Error())
}

func TestList_RejectsInvertedPriceRange(t *testing.T) {
	f := newFixture()
	lo, hi := 50.0, 10.0
	_, _, err := f.svc.List(context.Background(), gear.Filter{MinPrice: &lo, MaxPrice: &hi})
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))
}

func TestList_PagesAreContiguous(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		f.create(t, fmt.Sprintf("Item %d", i), "tents")
	}

	var seen []string
	for page := 1; page <= 3; page++ {
		items, total, err := f.svc.List(ctx, gear.Filter{Params: pagination.Params{Page: page, Limit: 3}})
		require.NoError(t, err)
		assert.EqualValues(t, 7, total, "page %d", page)
		for _, g := range items {
			seen = append(seen, g.Name)
		}
	}

	assert.Equal(t, []string{
		"Item 6", "Item 5", "Item 4",
		"Item 3", "Item 2", "Item 1",
		"Item 0",
	}, seen)

	items, total, err := f.svc.List(ctx, gear.Filter{Params: pagination.Params{Page: 4, Limit: 3}})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.EqualValues(t, 7, total)
}

func TestSearch_RequiresQuery(t *testing.T) {
	f := newFixture()
	_, _, err := f.svc.Search(context.Background(), "  ", gear.Filter{})
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))
}

func TestGetByCategory(t *testing.T) {
	f := newFixture()
	f.create(t, "Tarp", "tents")
	f.create(t, "Dome", "dome")
	f.create(t, "Chair", "chairs")
	ctx := context.Background()

	names := func(items []*gear.Gear) []string {
		out := make([]string, 0, len(items))
		for _, g := range items {
			out = append(out, g.Name)
		}
		sort.Strings(out)
		return out
	}

	items, total, err := f.svc.GetByCategory(ctx, "tents", false, gear.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"Tarp"}, names(items))

	items, _, err = f.svc.GetByCategory(ctx, "tents", true, gear.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dome", "Tarp"}, names(items))

	items, _, err = f.svc.GetByCategory(ctx, f.dome.ID, true, gear.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dome", "Tarp"}, names(items))

	items, _, err = f.svc.GetByCategory(ctx, f.dome.ID, false, gear.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dome"}, names(items))

	_, _, err = f.svc.GetByCategory(ctx, "boats", false, gear.Filter{})
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))
}

func TestGetRecommended(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.create(t, "A", "tents")
	b := f.create(t, "B", "tents")
	c := f.create(t, "C", "tents")
	f.create(t, "D", "chairs")

	// no curated list: same-category fallback, excluding itself
	rec, err := f.svc.GetRecommended(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, rec, 2)
	assert.Equal(t, b.ID, rec[0].ID)
	assert.Equal(t, c.ID, rec[1].ID)

	list := []string{c.ID}
	_, err = f.svc.Update(ctx, owner, a.ID, &gear.UpdateRequest{RecommendedProducts: &list})
	require.NoError(t, err)

	rec, err = f.svc.GetRecommended(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, rec, 1)
	assert.Equal(t, c.ID, rec[0].ID)

	_, err = f.svc.GetRecommended(ctx, uuid.NewString())
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))
}
