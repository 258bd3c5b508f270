// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Generator issues signed credentials. The storefront only consumes tokens;
// the generator backs local stubs of the authentication API and tests.
type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string
	Ttl      time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	return &Generator{
		priv:     priv,
		issuer:   issuer,
		audience: audience,
		kid:      kid,
		Ttl:      ttl,
	}
}

// Generate creates a credential for the given user that expires after the
// generator's TTL
func (g *Generator) Generate(userID, name, role string) (string, error) {
	return g.GenerateAt(userID, name, role, time.Now())
}

// GenerateAt creates a credential as if issued at now. A negative TTL yields
// an already expired credential.
func (g *Generator) GenerateAt(userID, name, role string, now time.Time) (string, error) {
	if g.priv == nil {
		return "", fmt.Errorf("jwt generator has nil private key")
	}

	claims := &Claims{
		UserID: userID,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(g.Ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}
	if g.audience != "" {
		claims.Audience = []string{g.audience}
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	return tok.SignedString(g.priv)
}
