package category

import (
	"context"
	"testing"

	"wecamp-service/internal/domain/category"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCategories(t *testing.T) {
	s, repo := newTestService()
	ctx := context.Background()
	mustCreate(t, s, "Camping", nil)

	items := []category.ImportItem{
		// leaf listed before its parent to force a second pass
		{Name: "Dome", Slug: "dome", ParentSlug: "tents"},
		{Name: "Tents", Slug: "tents", ParentSlug: "camping"},
		{Name: "Camping", Slug: "camping"},
		{Name: "Kitchen"},
		{Name: "Lost", Slug: "lost", ParentSlug: "nowhere"},
	}

	res, err := s.ImportCategories(ctx, items)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 1, res.Existing)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "nowhere")

	dome, err := repo.FindBySlug(ctx, "dome")
	require.NoError(t, err)
	require.NotNil(t, dome.ParentID)
	assert.Equal(t, res.IDs["tents"], *dome.ParentID)

	all, _ := repo.List(ctx)
	assert.Len(t, all, 4)
}

func TestImportCategories_Idempotent(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	items := []category.ImportItem{
		{Name: "Camping", Slug: "camping"},
		{Name: "Tents", Slug: "tents", ParentSlug: "camping"},
	}

	first, err := s.ImportCategories(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := s.ImportCategories(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Existing)
	assert.Empty(t, second.Errors)
}

func TestImportCategories_DepthViolationReported(t *testing.T) {
	s, _ := newTestService()
	items := []category.ImportItem{
		{Name: "A", Slug: "a"},
		{Name: "B", Slug: "b", ParentSlug: "a"},
		{Name: "C", Slug: "c", ParentSlug: "b"},
		{Name: "D", Slug: "d", ParentSlug: "c"},
	}
	res, err := s.ImportCategories(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	// d fails on depth and is reported, nothing loops
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "up to 3 levels")
}

func TestImportCategories_ChildrenOfFailedItemNamedAsSuch(t *testing.T) {
	s, repo := newTestService()
	ctx := context.Background()
	items := []category.ImportItem{
		{Name: "A", Slug: "a"},
		{Name: "B", Slug: "b", ParentSlug: "a"},
		{Name: "C", Slug: "c", ParentSlug: "b"},
		{Name: "D", Slug: "d", ParentSlug: "c"},
		{Name: "E", Slug: "e", ParentSlug: "d"},
	}
	res, err := s.ImportCategories(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)

	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], `"d"`)
	assert.Contains(t, res.Errors[0], "up to 3 levels")
	assert.Equal(t, `category "e": parent "d" failed to import`, res.Errors[1])

	_, err = repo.FindBySlug(ctx, "e")
	assert.Error(t, err)
}
