// internal/pkg/jwt/generator.go
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Identity is what gets embedded into a token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

type Generator struct {
	method     jwt.SigningMethod
	key        interface{}
	issuer     string
	audience   string
	kid        string // key id for rotation
	Ttl        time.Duration
	RefreshTtl time.Duration
}

func NewGenerator(method jwt.SigningMethod, key interface{}, issuer, audience, kid string, ttl, refreshTTL time.Duration) *Generator {
	return &Generator{
		method:     method,
		key:        key,
		issuer:     issuer,
		audience:   audience,
		kid:        kid,
		Ttl:        ttl,
		RefreshTtl: refreshTTL,
	}
}

// Generate signs a token for the identity and returns it with its jti and expiry.
func (g *Generator) Generate(id Identity, purpose string, ttl time.Duration) (string, *Claims, error) {
	if g.key == nil {
		return "", nil, fmt.Errorf("jwt generator has no signing key")
	}

	now := time.Now()
	claims := &Claims{
		UserID:  id.UserID,
		Email:   id.Email,
		Role:    id.Role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   id.UserID,
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	tok := jwt.NewWithClaims(g.method, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.key)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// GenerateAccessToken generates a standard access token
func (g *Generator) GenerateAccessToken(id Identity) (string, *Claims, error) {
	return g.Generate(id, PurposeAccess, g.Ttl)
}

// GenerateRefreshToken generates a refresh token (longer TTL)
func (g *Generator) GenerateRefreshToken(id Identity) (string, *Claims, error) {
	// refresh tokens carry no role; it is re-read from the user on rotation
	return g.Generate(Identity{UserID: id.UserID}, PurposeRefresh, g.RefreshTtl)
}
