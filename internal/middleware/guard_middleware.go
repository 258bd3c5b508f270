// internal/middleware/guard_middleware.go
package middleware

import (
	"net/http"

	"storefront-client/internal/guard"
	"storefront-client/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// GuardMiddleware turns guard decisions into HTTP outcomes.
type GuardMiddleware struct {
	authz *guard.Authorizer
}

func NewGuardMiddleware(authz *guard.Authorizer) *GuardMiddleware {
	return &GuardMiddleware{authz: authz}
}

// Auth requires an authenticated session.
func (m *GuardMiddleware) Auth() gin.HandlerFunc {
	return m.Require(guard.PolicyAuthenticated)
}

// Admin requires an authenticated admin session.
func (m *GuardMiddleware) Admin() gin.HandlerFunc {
	return m.Require(guard.PolicyAdmin)
}

// Require evaluates policy against one snapshot per request; the identity
// attached to the context comes from that same snapshot. Wait becomes 503
// with Retry-After, Redirect becomes 401 carrying the redirect target.
func (m *GuardMiddleware) Require(policy guard.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, decision := m.authz.Decide(policy)
		switch decision.Outcome {
		case guard.OutcomeWait:
			c.Header("Retry-After", "1")
			response.Error(c, http.StatusServiceUnavailable, "session is still initializing", nil)
			return
		case guard.OutcomeRedirect:
			response.Error(c, http.StatusUnauthorized, "login required", nil, gin.H{
				"redirect": string(decision.Target),
			})
			return
		}

		if snap.Identity != nil {
			c.Set(identityKey, snap.Identity)
		}
		c.Next()
	}
}
