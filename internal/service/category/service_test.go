package category

import (
	"context"
	"testing"

	"wecamp-service/internal/domain/category"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*CategoryService, *memRepo) {
	repo := newMemRepo()
	return NewCategoryService(repo, zap.NewNop()), repo
}

func mustCreate(t *testing.T, s *CategoryService, name string, parent *category.Category) *category.Category {
	t.Helper()
	req := &category.CreateRequest{Name: name}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	c, err := s.CreateCategory(context.Background(), req)
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }

func TestCreateCategory_DepthLimit(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	root := mustCreate(t, s, "Camping", nil)
	column := mustCreate(t, s, "Tents", root)
	leaf := mustCreate(t, s, "Dome Tents", column)

	d, err := s.GetCategoryDepth(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	_, err = s.CreateCategory(ctx, &category.CreateRequest{Name: "Too Deep", ParentID: &leaf.ID})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindInvalid, xerrors.KindOf(err))
	assert.Contains(t, err.Error(), "up to 3 levels")
}

func TestCreateCategory_MissingParent(t *testing.T) {
	s, _ := newTestService()
	_, err := s.CreateCategory(context.Background(), &category.CreateRequest{
		Name:     "Orphan",
		ParentID: strPtr("2b1e7f5c-1f7b-4a7e-9f55-7d1c3a0b9e11"),
	})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindInvalid, xerrors.KindOf(err))
	assert.Contains(t, err.Error(), "Parent category not found")
}

func TestCreateCategory_SlugUniqueness(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	first, err := s.CreateCategory(ctx, &category.CreateRequest{Name: "Stoves", Slug: "stoves"})
	require.NoError(t, err)
	assert.Equal(t, "stoves", first.Slug)

	_, err = s.CreateCategory(ctx, &category.CreateRequest{Name: "Other Stoves", Slug: "stoves"})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindConflict, xerrors.KindOf(err))

	other := mustCreate(t, s, "Lanterns", nil)
	_, err = s.UpdateCategory(ctx, other.ID, &category.UpdateRequest{Slug: strPtr("stoves")})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindConflict, xerrors.KindOf(err))
}

func TestCreateCategory_DerivesSlug(t *testing.T) {
	s, _ := newTestService()
	c := mustCreate(t, s, "  Sleeping Bags & Pads ", nil)
	assert.Equal(t, "sleeping-bags-pads", c.Slug)
}

func TestUpdateCategory_RejectsCycles(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	root := mustCreate(t, s, "Camping", nil)
	child := mustCreate(t, s, "Tents", root)

	_, err := s.UpdateCategory(ctx, root.ID, &category.UpdateRequest{
		ParentID: category.NullableString{Set: true, Value: &root.ID},
	})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindInvalid, xerrors.KindOf(err))

	_, err = s.UpdateCategory(ctx, root.ID, &category.UpdateRequest{
		ParentID: category.NullableString{Set: true, Value: &child.ID},
	})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindInvalid, xerrors.KindOf(err))

	desc, err := s.IsDescendant(ctx, root.ID, child.ID)
	require.NoError(t, err)
	assert.True(t, desc)
}

func TestUpdateCategory_SubtreeDepth(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreate(t, s, "Alpha", nil)
	mustCreate(t, s, "Alpha Child", a)
	b := mustCreate(t, s, "Beta", nil)
	bChild := mustCreate(t, s, "Beta Child", b)

	// Alpha has a child, so under Beta Child it would reach depth 3.
	_, err := s.UpdateCategory(ctx, a.ID, &category.UpdateRequest{
		ParentID: category.NullableString{Set: true, Value: &bChild.ID},
	})
	require.Error(t, err)
	assert.Equal(t, xerrors.KindInvalid, xerrors.KindOf(err))

	// Under Beta it ends at depth 2, which is allowed.
	moved, err := s.UpdateCategory(ctx, a.ID, &category.UpdateRequest{
		ParentID: category.NullableString{Set: true, Value: &b.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, b.ID, *moved.ParentID)

	// Explicit null moves it back to the root level.
	moved, err = s.UpdateCategory(ctx, a.ID, &category.UpdateRequest{
		ParentID: category.NullableString{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
}

func TestDeleteCategory_Guards(t *testing.T) {
	s, repo := newTestService()
	ctx := context.Background()

	root := mustCreate(t, s, "Camping", nil)
	child := mustCreate(t, s, "Tents", root)

	err := s.DeleteCategory(ctx, root.ID)
	assert.Equal(t, xerrors.KindConflict, xerrors.KindOf(err))

	repo.gearCount[child.ID] = 2
	err = s.DeleteCategory(ctx, child.ID)
	assert.Equal(t, xerrors.KindConflict, xerrors.KindOf(err))

	repo.gearCount[child.ID] = 0
	require.NoError(t, s.DeleteCategory(ctx, child.ID))
	require.NoError(t, s.DeleteCategory(ctx, root.ID))

	err = s.DeleteCategory(ctx, root.ID)
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))
}

func TestGetCategoryTree(t *testing.T) {
	s, _ := newTestService()
	root := mustCreate(t, s, "Camping", nil)
	tents := mustCreate(t, s, "Tents", root)
	mustCreate(t, s, "Dome", tents)
	mustCreate(t, s, "Kitchen", nil)

	tree, err := s.GetCategoryTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 2)

	var camping *category.Node
	for _, n := range tree {
		if n.ID == root.ID {
			camping = n
		}
	}
	require.NotNil(t, camping)
	require.Len(t, camping.Children, 1)
	assert.Equal(t, "Tents", camping.Children[0].Name)
	require.Len(t, camping.Children[0].Children, 1)
	assert.Equal(t, "Dome", camping.Children[0].Children[0].Name)
}

func TestResolveScope(t *testing.T) {
	s, _ := newTestService()
	root := mustCreate(t, s, "Camping", nil)
	tents := mustCreate(t, s, "Tents", root)
	dome := mustCreate(t, s, "Dome", tents)
	tunnel := mustCreate(t, s, "Tunnel", tents)
	mustCreate(t, s, "Kitchen", nil)

	scope, err := s.ResolveScope(context.Background(), "tents")
	require.NoError(t, err)
	assert.Equal(t, tents.ID, scope.Category.ID)
	assert.ElementsMatch(t, []string{tents.ID, root.ID, dome.ID, tunnel.ID}, scope.IDs)

	_, err = s.ResolveScope(context.Background(), "missing")
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))
}

func TestResolveOrCreate(t *testing.T) {
	s, repo := newTestService()
	ctx := context.Background()
	tents := mustCreate(t, s, "Tents", nil)

	got, err := s.ResolveOrCreate(ctx, "tents", "")
	require.NoError(t, err)
	assert.Equal(t, tents.ID, got.ID)

	got, err = s.ResolveOrCreate(ctx, tents.ID, "")
	require.NoError(t, err)
	assert.Equal(t, tents.ID, got.ID)

	_, err = s.ResolveOrCreate(ctx, "Hammocks", "")
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err))

	created, err := s.ResolveOrCreate(ctx, "Hammocks", "Furniture")
	require.NoError(t, err)
	assert.Equal(t, "hammocks", created.Slug)
	require.NotNil(t, created.ParentID)

	parent, err := repo.FindByID(ctx, *created.ParentID)
	require.NoError(t, err)
	assert.Equal(t, "Furniture", parent.Name)
	assert.Nil(t, parent.ParentID)
}
