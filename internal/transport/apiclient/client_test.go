package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront-client/internal/domain/appointment"
	"storefront-client/internal/domain/order"
	"storefront-client/internal/domain/session"
	xerrors "storefront-client/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(base, fallback string) *Client {
	return New(Config{BaseURL: base, FallbackURL: fallback, Timeout: 2 * time.Second}, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginSendsCredentialsAndDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, loginPath, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])
		assert.Equal(t, "secret", body["password"])
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token": "tok",
			"user":  map[string]string{"_id": "u1", "name": "An", "role": "customer"},
		})
	}))
	defer srv.Close()

	resp, err := newClient(srv.URL, "").Login(context.Background(), session.LoginRequest{Email: "a@b.c", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "An", resp.User.Name)
}

func TestLoginFailureCarriesUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, "").Login(context.Background(), session.LoginRequest{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, xerrors.ErrUnauthorized))
	assert.True(t, errors.Is(err, xerrors.ErrUpstream))
	assert.Equal(t, "bad credentials", UpstreamMessage(err))
}

func TestLoginWithoutTokenIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{})
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, "").Login(context.Background(), session.LoginRequest{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, xerrors.ErrUpstream)
}

func TestDefaultHeaderFollowsCredential(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newClient(srv.URL, "")
	ctx := context.Background()

	require.NoError(t, c.CreateAppointment(ctx, appointment.Request{Name: "n"}))
	assert.Equal(t, "", seen.Load())

	c.SetCredential("abc")
	require.NoError(t, c.CreateAppointment(ctx, appointment.Request{Name: "n"}))
	assert.Equal(t, "Bearer abc", seen.Load())

	c.ClearCredential()
	require.NoError(t, c.CreateAppointment(ctx, appointment.Request{Name: "n"}))
	assert.Equal(t, "", seen.Load())

	_, ok := c.Credential()
	assert.False(t, ok)
}

func TestFallbackOnServerError(t *testing.T) {
	var primaryHits, fallbackHits atomic.Int32
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryHits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHits.Add(1)
		var req order.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.TotalPrice.Equal(decimal.NewFromInt(200000)))
		w.WriteHeader(http.StatusCreated)
	}))
	defer fallback.Close()

	err := newClient(primary.URL, fallback.URL).CreateOrder(context.Background(), &order.OrderRequest{
		TotalPrice: decimal.NewFromInt(200000),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, primaryHits.Load())
	assert.EqualValues(t, 1, fallbackHits.Load())
}

func TestNoFallbackOnClientError(t *testing.T) {
	var fallbackHits atomic.Int32
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "email taken"})
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHits.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer fallback.Close()

	err := newClient(primary.URL, fallback.URL).Register(context.Background(), session.RegisterRequest{Email: "a@b.c"})
	assert.ErrorIs(t, err, xerrors.ErrConflict)
	assert.EqualValues(t, 0, fallbackHits.Load())
}

func TestFallbackOnUnreachablePrimary(t *testing.T) {
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer fallback.Close()

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	err := newClient(deadURL, fallback.URL).CreateAppointment(context.Background(), appointment.Request{})
	assert.NoError(t, err)
}

func TestHistoryEndpointsCarryCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case ordersPath + "/myorders":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"orders": []map[string]interface{}{{"_id": "o1", "totalPrice": 120000}},
			})
		case ordersPath + "/o1":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"order":   map[string]interface{}{"_id": "o1", "orderStatus": "Delivered"},
			})
		case appointmentsPath + "/my", appointmentsPath:
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"appointments": []map[string]string{{"_id": "a1", "status": "pending"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newClient(srv.URL, "")
	c.SetCredential("tok")
	ctx := context.Background()

	orders, err := c.MyOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].TotalPrice.Equal(decimal.NewFromInt(120000)))

	o, err := c.Order(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)

	mine, err := c.MyAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusPending, mine[0].Status)

	all, err := c.Appointments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOrderWithoutBodyIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, "").Order(context.Background(), "o1")
	assert.ErrorIs(t, err, xerrors.ErrUpstream)

	_, err = newClient(srv.URL, "").Order(context.Background(), "")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestAppointmentManagementMethods(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			var body appointment.StatusUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, appointment.StatusCancelled, body.Status)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))
	defer srv.Close()

	c := newClient(srv.URL, "")
	ctx := context.Background()
	require.NoError(t, c.UpdateAppointmentStatus(ctx, "a1", appointment.StatusCancelled))
	require.NoError(t, c.DeleteAppointment(ctx, "a1"))
	assert.Equal(t, []string{
		"PUT " + appointmentsPath + "/a1/status",
		"DELETE " + appointmentsPath + "/a1",
	}, seen)
}

func TestFallbackAppliesToReads(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"orders": []map[string]string{{"_id": "o9"}}})
	}))
	defer fallback.Close()

	orders, err := newClient(primary.URL, fallback.URL).MyOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "o9", orders[0].ID)
}
