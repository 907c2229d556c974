package user

import (
	"context"
	"testing"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/user"
	xerrors "wecamp-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memUsers map[string]*user.User

func (m memUsers) Create(_ context.Context, u *user.User) error { m[u.ID] = u; return nil }

func (m memUsers) Update(_ context.Context, u *user.User) error {
	cp := *u
	m[u.ID] = &cp
	return nil
}

func (m memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m[id].Password = hash
	return nil
}

func (m memUsers) Delete(_ context.Context, id string) error {
	if _, ok := m[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(m, id)
	return nil
}

func (m memUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := m[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, xerrors.ErrNotFound
}

func (m memUsers) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, xerrors.ErrNotFound
}

func (m memUsers) List(_ context.Context, f user.ListFilter) ([]*user.User, int64, error) {
	var out []*user.User
	for _, u := range m {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

type revoker struct{ revoked []string }

func (r *revoker) RevokeUserSessions(_ context.Context, id string) error {
	r.revoked = append(r.revoked, id)
	return nil
}

func TestAdminUserManagement(t *testing.T) {
	repo := memUsers{
		"admin": {ID: "admin", Email: "root@wecamp.test", Role: user.RoleAdmin},
		"kim":   {ID: "kim", Email: "kim@example.com", Role: user.RoleUser},
	}
	rv := &revoker{}
	svc := NewUserService(repo, rv, zap.NewNop())
	ctx := context.Background()
	actor := auth.Actor{UserID: "admin", Role: user.RoleAdmin}

	admins, total, err := svc.List(ctx, user.ListFilter{Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "admin", admins[0].ID)

	promote := user.RoleAdmin
	u, err := svc.Update(ctx, actor, "kim", &user.AdminUpdateRequest{Role: &promote})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, []string{"kim"}, rv.revoked)

	name := "Kim"
	_, err = svc.Update(ctx, actor, "kim", &user.AdminUpdateRequest{Name: &name, Role: &promote})
	require.NoError(t, err)
	assert.Len(t, rv.revoked, 1, "unchanged role does not sign out")

	demote := user.RoleUser
	_, err = svc.Update(ctx, actor, "admin", &user.AdminUpdateRequest{Role: &demote})
	assert.Equal(t, xerrors.KindInvalid, xerrors.KindOf(err))

	assert.Equal(t, xerrors.KindInvalid, xerrors.KindOf(svc.Delete(ctx, actor, "admin")))
	require.NoError(t, svc.Delete(ctx, actor, "kim"))
	assert.Equal(t, xerrors.KindNotFound, xerrors.KindOf(svc.Delete(ctx, actor, "kim")))

	_, err = svc.Get(ctx, "kim")
	assert.Equal(t, "User not found", err.Error())
}
