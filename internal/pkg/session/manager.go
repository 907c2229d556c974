// internal/pkg/session/manager.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// defaultAccessTTL bounds the user revocation marker when no access TTL is set.
const defaultAccessTTL = 24 * time.Hour

// Manager tracks live refresh tokens and revoked access tokens.
type Manager struct {
	store     Store
	accessTTL time.Duration
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, accessTTL: defaultAccessTTL}
}

// SetAccessTTL sets how long a user revocation marker is kept. It must be at
// least the access token lifetime.
func (m *Manager) SetAccessTTL(ttl time.Duration) {
	if ttl > 0 {
		m.accessTTL = ttl
	}
}

// StoreRefreshToken registers a refresh token jti for the user until ttl elapses.
func (m *Manager) StoreRefreshToken(ctx context.Context, userID, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}
	if err := m.store.Set(ctx, m.refreshKey(userID, jti), "1", ttl); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// IsRefreshTokenActive reports whether the jti is still registered (not revoked).
func (m *Manager) IsRefreshTokenActive(ctx context.Context, userID, jti string) (bool, error) {
	ok, err := m.store.Exists(ctx, m.refreshKey(userID, jti))
	if err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return ok, nil
}

func (m *Manager) RevokeRefreshToken(ctx context.Context, userID, jti string) error {
	return m.store.Del(ctx, m.refreshKey(userID, jti))
}

// RevokeAllRefreshTokens logs the user out of every device.
func (m *Manager) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	return m.store.DelPrefix(ctx, fmt.Sprintf("refresh:%s:", userID))
}

// RevokeUserSessions signs the user out everywhere. Refresh tokens are
// dropped and access tokens issued up to now stop authenticating.
func (m *Manager) RevokeUserSessions(ctx context.Context, userID string) error {
	if err := m.RevokeAllRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	at := strconv.FormatInt(time.Now().Unix(), 10)
	if err := m.store.Set(ctx, m.revokedKey(userID), at, m.accessTTL); err != nil {
		return fmt.Errorf("failed to store revocation: %w", err)
	}
	return nil
}

// IssuedBeforeRevocation reports whether a token issued at issuedAt predates
// the user's last RevokeUserSessions. Token times have second precision, so
// a token from the revocation second counts as revoked.
func (m *Manager) IssuedBeforeRevocation(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	v, err := m.store.Get(ctx, m.revokedKey(userID))
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	at, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return false, nil
	}
	return issuedAt.Unix() <= at, nil
}

// IsTokenBlacklisted checks if a token is blacklisted
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := m.store.Exists(ctx, m.blacklistKey(jti))
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists, nil
}

// BlacklistToken adds a token to the blacklist for its remaining lifetime.
func (m *Manager) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, verification rejects it anyway
		return nil
	}
	return m.store.Set(ctx, m.blacklistKey(jti), "1", ttl)
}

func (m *Manager) refreshKey(userID, jti string) string {
	return fmt.Sprintf("refresh:%s:%s", userID, jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

func (m *Manager) revokedKey(userID string) string {
	return fmt.Sprintf("revoked:user:%s", userID)
}

// LoginThrottle locks an (IP, email) pair out after too many failed logins.
type LoginThrottle struct {
	store       Store
	maxAttempts int64
	window      time.Duration
}

func NewLoginThrottle(store Store, maxAttempts int64, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{store: store, maxAttempts: maxAttempts, window: window}
}

// Allowed reports whether another attempt may be made, and how many remain.
func (t *LoginThrottle) Allowed(ctx context.Context, ip, email string) (bool, int64, error) {
	v, err := t.store.Get(ctx, t.key(ip, email))
	if errors.Is(err, ErrMiss) {
		return true, t.maxAttempts, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to get login attempts: %w", err)
	}
	var count int64
	if _, err := fmt.Sscan(v, &count); err != nil {
		return true, t.maxAttempts, nil
	}
	remaining := t.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return count < t.maxAttempts, remaining, nil
}

// RecordFailure counts one failed attempt within the window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, ip, email string) (int64, error) {
	return t.store.Incr(ctx, t.key(ip, email), t.window)
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, ip, email string) error {
	return t.store.Del(ctx, t.key(ip, email))
}

func (t *LoginThrottle) key(ip, email string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
}
