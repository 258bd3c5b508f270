// internal/pkg/jwt/verifier.go
package jwt

import (
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Decoder turns a credential string into claims. It does not judge expiry;
// the session store does that against its own clock.
type Decoder interface {
	Decode(tokenString string) (*Claims, error)
}

// Verifier checks the RS256 signature before returning claims
type Verifier struct {
	pub      *rsa.PublicKey
	issuer   string
	audience string
	parser   *jwt.Parser
}

func NewVerifier(pub *rsa.PublicKey, issuer, audience string) *Verifier {
	return &Verifier{
		pub:      pub,
		issuer:   issuer,
		audience: audience,
		parser:   jwt.NewParser(jwt.WithoutClaimsValidation(), jwt.WithValidMethods([]string{"RS256"})),
	}
}

// Decode validates the signature and returns the claims
func (v *Verifier) Decode(tokenString string) (*Claims, error) {
	if v.pub == nil {
		return nil, fmt.Errorf("jwt verifier has nil public key")
	}

	token, err := v.parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.pub, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}

	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return nil, fmt.Errorf("invalid audience")
	}

	return claims, nil
}

// UnverifiedDecoder reads the claims without checking the signature, the way
// a browser client decodes the token it was handed. The authentication API
// stays the authority on every call that carries the credential.
type UnverifiedDecoder struct {
	parser *jwt.Parser
}

func NewUnverifiedDecoder() *UnverifiedDecoder {
	return &UnverifiedDecoder{parser: jwt.NewParser(jwt.WithoutClaimsValidation())}
}

func (d *UnverifiedDecoder) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := d.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}
