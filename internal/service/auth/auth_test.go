package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"wecamp-service/internal/domain/user"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/jwt"
	"wecamp-service/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailer) Enabled() bool { return true }

func (f *fakeMailer) Send(to, subject, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

type harness struct {
	svc      *AuthService
	users    *memUsers
	sessions *session.Manager
	jwt      *jwt.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mgr, err := jwt.LoadAndBuild(jwt.Config{
		Secret:     "test-secret",
		Issuer:     "wecamp",
		Audience:   "wecamp-web",
		TTL:        time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	users := newMemUsers()
	sessions := session.NewManager(store)
	svc := NewAuthService(users, mgr, sessions, session.NewLoginThrottle(store, 5, 15*time.Minute), &fakeMailer{}, "", zap.NewNop())
	return &harness{svc: svc, users: users, sessions: sessions, jwt: mgr}
}

func (h *harness) register(t *testing.T, addr, password string) *user.User {
	t.Helper()
	u, err := h.svc.Register(context.Background(), &user.RegisterRequest{Email: addr, Password: password, Name: "Camper"})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	u := h.register(t, "  Kim@Example.com ", "secret1")
	assert.Equal(t, "kim@example.com", u.Email)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.Password)

	_, err := h.svc.Register(context.Background(), &user.RegisterRequest{Email: "KIM@example.com", Password: "another", Name: "Dup"})
	assert.Equal(t, xerrors.KindConflict, xerrors.KindOf(err))
}

func TestLogin_IssuesVerifiableTokens(t *testing.T) {
	h := newHarness(t)
	u := h.register(t, "kim@example.com", "secret1")
	ctx := context.Background()

	sess, err := h.svc.Login(ctx, "10.0.0.1", &user.LoginRequest{Email: "KIM@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)

	claims, err := h.jwt.Verifier.VerifyAccessToken(sess.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, user.RoleUser, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.Tokens.AccessExpiresAt, 5*time.Second)

	refresh, err := h.jwt.Verifier.VerifyRefreshToken(sess.Tokens.RefreshToken)
	require.NoError(t, err)
	active, err := h.sessions.IsRefreshTokenActive(ctx, u.ID, refresh.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestLogin_WrongPasswordThenLockout(t *testing.T) {
	h := newHarness(t)
	h.register(t, "kim@example.com", "secret1")
	ctx := context.Background()
	bad := &user.LoginRequest{Email: "kim@example.com", Password: "nope"}

	for i := 0; i < 4; i++ {
		_, err := h.svc.Login(ctx, "10.0.0.1", bad)
		require.Error(t, err)
		assert.Equal(t, xerrors.KindUnauthorized, xerrors.KindOf(err), "attempt %d", i+1)
		assert.Equal(t, "Invalid email or password", err.Error())
	}

	_, err := h.svc.Login(ctx, "10.0.0.1", bad)
	assert.Equal(t, xerrors.KindRateLimited, xerrors.KindOf(err))

	// even the right password is refused while locked
	_, err = h.svc.Login(ctx, "10.0.0.1", &user.LoginRequest{Email: "kim@example.com", Password: "secret1"})
	assert.Equal(t, xerrors.KindRateLimited, xerrors.KindOf(err))

	// the lockout is per (IP, email)
	_, err = h.svc.Login(ctx, "10.0.0.2", &user.LoginRequest{Email: "kim@example.com", Password: "secret1"})
	require.NoError(t, err)
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	h := newHarness(t)
	h.register(t, "kim@example.com", "secret1")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = h.svc.Login(ctx, "ip", &user.LoginRequest{Email: "kim@example.com", Password: "nope"})
	}
	_, err := h.svc.Login(ctx, "ip", &user.LoginRequest{Email: "kim@example.com", Password: "secret1"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = h.svc.Login(ctx, "ip", &user.LoginRequest{Email: "kim@example.com", Password: "nope"})
		assert.Equal(t, xerrors.KindUnauthorized, xerrors.KindOf(err))
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Login(context.Background(), "ip", &user.LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.Equal(t, xerrors.KindUnauthorized, xerrors.KindOf(err))
}

func TestRefresh_RotatesAndRejectsReuse(t *testing.T) {
	h := newHarness(t)
	h.register(t, "kim@example.com", "secret1")
	ctx := context.Background()

	sess, err := h.svc.Login(ctx, "ip", &user.LoginRequest{Email: "kim@example.com", Password: "secret1"})
	require.NoError(t, err)

	rotated, err := h.svc.Refresh(ctx, sess.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.Tokens.RefreshToken, rotated.Tokens.RefreshToken)

	_, err = h.svc.Refresh(ctx, sess.Tokens.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "Refresh token has been revoked", err.Error())

	_, err = h.svc.Refresh(ctx, sess.Tokens.AccessToken)
	assert.Equal(t, xerrors.KindUnauthorized, xerrors.KindOf(err), "access token is not a refresh token")

	_, err = h.svc.Refresh(ctx, "")
	assert.Equal(t, xerrors.KindUnauthorized, xerrors.KindOf(err))
}

func TestLogout_BlacklistsForRemainingLifetime(t *testing.T) {
	h := newHarness(t)
	h.register(t, "kim@example.com", "secret1")
	ctx := context.Background()

	sess, err := h.svc.Login(ctx, "ip", &user.LoginRequest{Email: "kim@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, err := h.jwt.Verifier.VerifyAccessToken(sess.Tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, claims, sess.Tokens.RefreshToken))

	revoked, err := h.sessions.IsTokenBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = h.svc.Refresh(ctx, sess.Tokens.RefreshToken)
	assert.Equal(t, xerrors.KindUnauthorized, xerrors.KindOf(err))

	// anonymous logout is a no-op
	require.NoError(t, h.svc.Logout(ctx, nil, "garbage"))
}

func TestChangePassword_RevokesSessions(t *testing.T) {
	h := newHarness(t)
	u := h.register(t, "kim@example.com", "secret1")
	ctx := context.Background()

	sess, err := h.svc.Login(ctx, "ip", &user.LoginRequest{Email: "kim@example.com", Password: "secret1"})
	require.NoError(t, err)

	err = h.svc.ChangePassword(ctx, u.ID, &user.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "secret2"})
	assert.Equal(t, xerrors.KindInvalid, xerrors.KindOf(err))

	require.NoError(t, h.svc.ChangePassword(ctx, u.ID, &user.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"}))

	_, err = h.svc.Refresh(ctx, sess.Tokens.RefreshToken)
	assert.Equal(t, xerrors.KindUnauthorized, xerrors.KindOf(err))

	_, err = h.svc.Login(ctx, "ip", &user.LoginRequest{Email: "kim@example.com", Password: "secret2"})
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	u := h.register(t, "kim@example.com", "secret1")

	name, avatar := " Kim Camper ", "/uploads/a.png"
	got, err := h.svc.UpdateProfile(context.Background(), u.ID, &user.UpdateProfileRequest{Name: &name, Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Kim Camper", got.Name)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, avatar, *got.Avatar)
}

func TestEnsureAdminExists(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.EnsureAdminExists(ctx, "", "", ""))
	assert.Empty(t, h.users.rows)

	require.Error(t, h.svc.EnsureAdminExists(ctx, "root@wecamp.test", "123", "Root"))

	require.NoError(t, h.svc.EnsureAdminExists(ctx, "root@wecamp.test", "supersecret", "Root"))
	admin, err := h.users.FindByEmail(ctx, "root@wecamp.test")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	// idempotent
	require.NoError(t, h.svc.EnsureAdminExists(ctx, "root@wecamp.test", "supersecret", "Root"))
	assert.Len(t, h.users.rows, 1)

	// an existing user is promoted
	u := h.register(t, "kim@example.com", "secret1")
	require.NoError(t, h.svc.EnsureAdminExists(ctx, "kim@example.com", "", ""))
	promoted, err := h.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
}
