package review

import (
	"context"
	"testing"
	"time"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/campsite"
	"wecamp-service/internal/domain/gear"
	"wecamp-service/internal/domain/notification"
	"wecamp-service/internal/domain/review"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memReviews map[string]*review.Review

func (m memReviews) Create(_ context.Context, r *review.Review) error {
	r.CreatedAt = time.Now()
	m[r.ID] = r
	return nil
}

func (m memReviews) Delete(_ context.Context, id string) error {
	if _, ok := m[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(m, id)
	return nil
}

func (m memReviews) FindByID(_ context.Context, id string) (*review.Review, error) {
	if r, ok := m[id]; ok {
		return r, nil
	}
	return nil, xerrors.ErrNotFound
}

func (m memReviews) List(_ context.Context, f review.Filter) ([]*review.Review, int64, error) {
	var out []*review.Review
	for _, r := range m {
		if f.GearID != "" && (r.GearID == nil || *r.GearID != f.GearID) {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m memReviews) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, r := range m {
		if !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type gearFinder map[string]*gear.Gear

func (g gearFinder) FindByID(_ context.Context, id string) (*gear.Gear, error) {
	if v, ok := g[id]; ok {
		return v, nil
	}
	return nil, xerrors.ErrNotFound
}

type siteFinder map[string]*campsite.Campsite

func (c siteFinder) FindByID(_ context.Context, id string) (*campsite.Campsite, error) {
	if v, ok := c[id]; ok {
		return v, nil
	}
	return nil, xerrors.ErrNotFound
}

type recorder struct{ got []notification.Trigger }

func (r *recorder) Notify(_ context.Context, t notification.Trigger) { r.got = append(r.got, t) }

func TestReviewLifecycle(t *testing.T) {
	tent := &gear.Gear{ID: uuid.NewString()}
	site := &campsite.Campsite{ID: uuid.NewString()}
	rec := &recorder{}
	svc := NewReviewService(memReviews{}, gearFinder{tent.ID: tent}, siteFinder{site.ID: site}, rec, zap.NewNop())
	ctx := context.Background()
	author := auth.Actor{UserID: "u1", Role: "user"}
	other := auth.Actor{UserID: "u2", Role: "user"}
	admin := auth.Actor{UserID: "a1", Role: "admin"}

	_, err := svc.Create(ctx, author, &review.CreateRequest{Rating: 4})
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err), "neither target")

	_, err = svc.Create(ctx, author, &review.CreateRequest{GearID: &tent.ID, CampsiteID: &site.ID, Rating: 4})
	assert.Equal(t, xerrors.KindValidation, xerrors.KindOf(err), "both targets")

	missingID := uuid.NewString()
	_, err = svc.Create(ctx, author, &review.CreateRequest{GearID: &missingID, Rating: 4})
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(err))

	r, err := svc.Create(ctx, author, &review.CreateRequest{GearID: &tent.ID, Rating: 5, Comment: " great "})
	require.NoError(t, err)
	assert.Equal(t, "great", r.Comment)
	assert.Equal(t, []notification.Trigger{notification.TriggerReviewCreated}, rec.got)

	siteReview, err := svc.Create(ctx, other, &review.CreateRequest{CampsiteID: &site.ID, Rating: 3})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, review.Filter{GearID: tent.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, r.ID, items[0].ID)

	assert.Equal(t, xerrors.KindForbidden, xerrors.KindOf(svc.Delete(ctx, other, r.ID)))
	require.NoError(t, svc.Delete(ctx, author, r.ID))
	require.NoError(t, svc.Delete(ctx, admin, siteReview.ID))
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(svc.Delete(ctx, admin, r.ID)))
}
