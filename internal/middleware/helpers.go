// internal/middleware/helpers.go
package middleware

import (
	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	ctxClaims = "claims"
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxJTI    = "jti"
)

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ctxClaims, claims)
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, claims.Role)
	c.Set(ctxJTI, claims.ID)
}

// GetClaims returns the verified access token claims, if any.
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok && claims != nil
}

// GetUserID gets the authenticated user's ID from context
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ctxUserID)
	return id, id != ""
}

// GetJTI gets the access token ID from context
func GetJTI(c *gin.Context) (string, bool) {
	jti := c.GetString(ctxJTI)
	return jti, jti != ""
}

// Actor builds the service-layer caller. Anonymous requests yield a zero Actor.
func Actor(c *gin.Context) auth.Actor {
	claims, ok := GetClaims(c)
	if !ok {
		return auth.Actor{}
	}
	return auth.Actor{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, ok := GetClaims(c)
	return ok
}

// IsAdmin checks if user is an admin
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ctxRole) == jwt.RoleAdmin
}
