package reference

import (
	"context"
	"sort"
	"testing"

	"wecamp-service/internal/domain/reference"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRefs map[string]*reference.Reference

func (m memRefs) Create(_ context.Context, r *reference.Reference) error { m[r.ID] = r; return nil }
func (m memRefs) Update(_ context.Context, r *reference.Reference) error { m[r.ID] = r; return nil }

func (m memRefs) Delete(_ context.Context, id string) error {
	if _, ok := m[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(m, id)
	return nil
}

func (m memRefs) FindByID(_ context.Context, id string) (*reference.Reference, error) {
	if r, ok := m[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, xerrors.ErrNotFound
}

func (m memRefs) List(context.Context) ([]*reference.Reference, error) {
	out := make([]*reference.Reference, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func TestReferenceCRUD(t *testing.T) {
	svc := NewReferenceService(memRefs{}, zap.NewNop())
	ctx := context.Background()

	second, err := svc.Create(ctx, &reference.CreateRequest{Title: "Second", Order: 2})
	require.NoError(t, err)
	first, err := svc.Create(ctx, &reference.CreateRequest{Title: " First ", Order: 1})
	require.NoError(t, err)
	assert.Equal(t, "First", first.Title)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	top := 0
	updated, err := svc.Update(ctx, second.ID, &reference.UpdateRequest{Order: &top})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Order)

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(svc.Delete(ctx, first.ID)))
}
