package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hsManager(t *testing.T) *Manager {
	t.Helper()
	m, err := LoadAndBuild(Config{
		Secret:     "test-secret",
		Issuer:     "wecamp",
		Audience:   "wecamp-web",
		TTL:        time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
	require.NoError(t, err)
	return m
}

func TestLoadAndBuild_NoKey(t *testing.T) {
	_, err := LoadAndBuild(Config{Issuer: "wecamp"})
	assert.ErrorIs(t, err, ErrNoSigningKey)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := hsManager(t)
	id := Identity{UserID: "u1", Email: "a@b.c", Role: RoleAdmin}

	tok, issued, err := m.Generator.GenerateAccessToken(id)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := m.Verifier.VerifyAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, issued.ID, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.Remaining(time.Now()).Seconds(), 5)

	_, err = m.Verifier.VerifyRefreshToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenCarriesNoRole(t *testing.T) {
	m := hsManager(t)

	tok, _, err := m.Generator.GenerateRefreshToken(Identity{UserID: "u1", Role: RoleAdmin})
	require.NoError(t, err)

	claims, err := m.Verifier.VerifyRefreshToken(tok)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)

	_, err = m.Verifier.VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Failures(t *testing.T) {
	m := hsManager(t)

	expired, _, err := m.Generator.Generate(Identity{UserID: "u1"}, PurposeAccess, -time.Minute)
	require.NoError(t, err)
	_, err = m.Verifier.Verify(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	other, err := LoadAndBuild(Config{Secret: "other", Issuer: "wecamp", Audience: "wecamp-web", TTL: time.Hour})
	require.NoError(t, err)
	forged, _, err := other.Generator.GenerateAccessToken(Identity{UserID: "u1"})
	require.NoError(t, err)
	_, err = m.Verifier.Verify(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	foreign, err := LoadAndBuild(Config{Secret: "test-secret", Issuer: "someone-else", Audience: "wecamp-web", TTL: time.Hour})
	require.NoError(t, err)
	tok, _, err := foreign.Generator.GenerateAccessToken(Identity{UserID: "u1"})
	require.NoError(t, err)
	_, err = m.Verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.Verifier.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRemaining_NeverNegative(t *testing.T) {
	c := &Claims{}
	assert.Zero(t, c.Remaining(time.Now()))

	m := hsManager(t)
	_, claims, err := m.Generator.Generate(Identity{UserID: "u1"}, PurposeAccess, time.Minute)
	require.NoError(t, err)
	assert.Zero(t, claims.Remaining(time.Now().Add(time.Hour)))
}

func TestLoadAndBuild_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))

	m, err := LoadAndBuild(Config{
		PrivPath: privPath,
		PubPath:  pubPath,
		Issuer:   "wecamp",
		Audience: "wecamp-web",
		TTL:      time.Hour,
		KID:      "k1",
	})
	require.NoError(t, err)

	tok, _, err := m.Generator.GenerateAccessToken(Identity{UserID: "u1", Role: RoleUser})
	require.NoError(t, err)
	claims, err := m.Verifier.VerifyAccessToken(tok)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin())

	// an HS256 token must not pass an RS256 verifier
	hs, _, err := hsManager(t).Generator.GenerateAccessToken(Identity{UserID: "u1"})
	require.NoError(t, err)
	_, err = m.Verifier.Verify(hs)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLoadAndBuild_MissingKeyFile(t *testing.T) {
	_, err := LoadAndBuild(Config{PrivPath: "/nonexistent/priv.pem", PubPath: "/nonexistent/pub.pem"})
	assert.Error(t, err)
}
