// internal/middleware/helpers.go
package middleware

import (
	domain "storefront-client/internal/domain/session"

	"github.com/gin-gonic/gin"
)

// GetIdentity returns the identity the guard middleware attached.
func GetIdentity(c *gin.Context) (*domain.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	ident, ok := v.(*domain.Identity)
	return ident, ok && ident != nil
}

// MustGetIdentity gets the identity from context or panics
func MustGetIdentity(c *gin.Context) *domain.Identity {
	ident, ok := GetIdentity(c)
	if !ok {
		panic("identity not found in context")
	}
	return ident
}
