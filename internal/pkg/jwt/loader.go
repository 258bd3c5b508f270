// internal/pkg/jwt/loader.go
package jwt

import (
	"fmt"
)

type Config struct {
	PubPath  string
	Issuer   string
	Audience string
}

// LoadDecoder builds a signature-checking Verifier when a public key is
// configured, and an UnverifiedDecoder otherwise.
func LoadDecoder(cfg Config) (Decoder, error) {
	if cfg.PubPath == "" {
		return NewUnverifiedDecoder(), nil
	}

	pub, err := LoadRSAPublicKeyFromPEM(cfg.PubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key from %s: %w", cfg.PubPath, err)
	}

	return NewVerifier(pub, cfg.Issuer, cfg.Audience), nil
}
