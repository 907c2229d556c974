// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"strings"

	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/jwt"
	"wecamp-service/internal/pkg/response"
	"wecamp-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessCookie carries the access token set on login.
const AccessCookie = "token"

const (
	msgAuthRequired  = "Authentication required"
	msgTokenExpired  = "Token has expired"
	msgTokenInvalid  = "Invalid token"
	msgAuthFailed    = "Authentication failed"
	msgTokenRevoked  = "Token has been revoked"
	msgAdminRequired = "Admin access required"
)

type AuthMiddleware struct {
	verifier *jwt.Verifier
	sessions *session.Manager
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier *jwt.Verifier, sessions *session.Manager, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		sessions: sessions,
		logger:   logger,
	}
}

// Auth is the base authentication middleware that validates JWT tokens
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.authenticate(c)
		if err != nil {
			response.FromError(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// RequireAdmin MUST be used after Auth()
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			response.FromError(c, xerrors.Unauthorized(msgAuthRequired))
			return
		}
		if !claims.IsAdmin() {
			response.FromError(c, xerrors.Forbidden(msgAdminRequired))
			return
		}
		c.Next()
	}
}

// AdminOnly returns middlewares for admin-only routes (Auth + RequireAdmin)
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireAdmin(),
	}
}

// OptionalAuth attaches the caller when a valid token is present and
// otherwise continues anonymously.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if extractToken(c) == "" {
			c.Next()
			return
		}
		if claims, err := m.authenticate(c); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (*jwt.Claims, error) {
	token := extractToken(c)
	if token == "" {
		return nil, xerrors.Unauthorized(msgAuthRequired)
	}
	if m.verifier == nil {
		return nil, xerrors.Unauthorized(msgAuthFailed)
	}

	claims, err := m.verifier.VerifyAccessToken(token)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, xerrors.Unauthorized(msgTokenExpired)
	case errors.Is(err, jwt.ErrTokenInvalid):
		return nil, xerrors.Unauthorized(msgTokenInvalid)
	case err != nil:
		m.logger.Warn("token verification failed", zap.Error(err))
		return nil, xerrors.Unauthorized(msgAuthFailed)
	}

	revoked, err := m.sessions.IsTokenBlacklisted(c.Request.Context(), claims.ID)
	if err != nil {
		m.logger.Error("blacklist lookup failed", zap.Error(err))
		return nil, xerrors.Unauthorized(msgAuthFailed).WithCause(err)
	}
	if revoked {
		return nil, xerrors.Unauthorized(msgTokenRevoked)
	}
	if claims.IssuedAt != nil {
		stale, err := m.sessions.IssuedBeforeRevocation(c.Request.Context(), claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			m.logger.Error("revocation lookup failed", zap.Error(err))
			return nil, xerrors.Unauthorized(msgAuthFailed).WithCause(err)
		}
		if stale {
			return nil, xerrors.Unauthorized(msgTokenRevoked)
		}
	}
	return claims, nil
}

// extractToken prefers the access cookie and falls back to a bearer header.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie != "" {
		return cookie
	}
	return BearerToken(c)
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}
