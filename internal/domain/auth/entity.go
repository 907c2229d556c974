// internal/domain/auth/entity.go
package auth

import (
	"time"

	"wecamp-service/internal/domain/user"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Email  string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// CanModify is the single ownership rule: admins may change anything,
// everyone else only what they created.
func CanModify(actor Actor, ownerID string) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.UserID != "" && actor.UserID == ownerID
}

// CanModifyPtr is CanModify for rows whose owner column is nullable.
func CanModifyPtr(actor Actor, ownerID *string) bool {
	if ownerID == nil {
		return actor.IsAdmin()
	}
	return CanModify(actor, *ownerID)
}

// TokenPair is what a successful login or refresh issues. Tokens travel in
// cookies only and are never serialized into response bodies.
type TokenPair struct {
	AccessToken      string    `json:"-"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshToken     string    `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// Session is the login result returned to handlers.
type Session struct {
	User   *user.User
	Tokens TokenPair
}
