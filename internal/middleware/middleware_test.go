package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "storefront-client/internal/domain/session"
	"storefront-client/internal/guard"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticSource domain.Snapshot

func (s staticSource) Snapshot() domain.Snapshot { return domain.Snapshot(s) }

var (
	loading = staticSource{State: domain.StateInitializing, Phase: domain.PhasePending, IsLoading: true}
	anon    = staticSource{State: domain.StateAnonymous, Phase: domain.PhaseComplete}
	user    = staticSource{
		State: domain.StateAuthenticated, Phase: domain.PhaseComplete, IsAuthenticated: true,
		Identity: &domain.Identity{ID: "u1", DisplayName: "Ann", Role: domain.RoleCustomer, ExpiresAt: time.Now().Add(time.Hour)},
	}
)

func guardedEngine(src staticSource, policy guard.Policy) *gin.Engine {
	m := NewGuardMiddleware(guard.NewAuthorizer(src, nil))
	r := gin.New()
	r.GET("/x", m.Require(policy), func(c *gin.Context) {
		ident := MustGetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": ident.ID})
	})
	return r
}

func TestGuardMiddleware(t *testing.T) {
	t.Run("wait while initializing", func(t *testing.T) {
		w := httptest.NewRecorder()
		guardedEngine(loading, guard.PolicyAuthenticated).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
	})

	t.Run("redirect when anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		guardedEngine(anon, guard.PolicyAuthenticated).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)

		var body struct {
			Success bool              `json:"success"`
			Data    map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "/login", body.Data["redirect"])
	})

	t.Run("customer is not admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		guardedEngine(user, guard.PolicyAdmin).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("render attaches identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		guardedEngine(user, guard.PolicyAuthenticated).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"u1"}`, w.Body.String())
	})
}

// flippingSource reports the signed-in snapshot once and anonymous after.
type flippingSource struct {
	calls int
}

func (f *flippingSource) Snapshot() domain.Snapshot {
	f.calls++
	if f.calls == 1 {
		return domain.Snapshot(user)
	}
	return domain.Snapshot(anon)
}

func TestGuardMiddlewareUsesOneSnapshot(t *testing.T) {
	src := &flippingSource{}
	m := NewGuardMiddleware(guard.NewAuthorizer(src, nil))
	r := gin.New()
	r.GET("/x", m.Auth(), func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": ident.ID})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1"}`, w.Body.String())
	assert.Equal(t, 1, src.calls)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://shop.test/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://shop.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://shop.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
