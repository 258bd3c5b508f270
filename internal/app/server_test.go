package app

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront-client/internal/config"
	"storefront-client/internal/pkg/jwt"
	"storefront-client/internal/storage"
	"storefront-client/internal/transport/apiclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBackend plays the remote auth and order API.
type fakeBackend struct {
	mu       sync.Mutex
	token    string
	role     string
	orders   []map[string]interface{}
	auths    []string
	statuses map[string]string
	deleted  []string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.auths = append(b.auths, r.Header.Get("Authorization"))

	switch r.URL.Path {
	case "/api/auth/login":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": b.token,
			"user":  map[string]string{"_id": "u1", "name": "Ann", "email": "ann@shop.test", "role": b.role},
		})
	case "/api/orders/myorders":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"orders": []map[string]interface{}{{"_id": "o1", "orderStatus": "Processing", "totalPrice": 25.5}},
		})
	case "/api/appointments":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"appointments": []map[string]string{{"_id": "a1", "name": "Lan", "status": "pending"}},
		})
	case "/api/appointments/a1/status":
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if b.statuses == nil {
			b.statuses = map[string]string{}
		}
		b.statuses["a1"] = r.Method + " " + body["status"]
		w.Write([]byte(`{"success":true}`))
	case "/api/appointments/a1":
		b.deleted = append(b.deleted, r.Method)
		w.Write([]byte(`{"success":true}`))
	case "/api/orders":
		raw, _ := io.ReadAll(r.Body)
		var order map[string]interface{}
		json.Unmarshal(raw, &order)
		b.orders = append(b.orders, order)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestServer(t *testing.T) (*Server, *fakeBackend, storage.CredentialStore) {
	return newTestServerAs(t, "customer")
}

func newTestServerAs(t *testing.T, role string) (*Server, *fakeBackend, storage.CredentialStore) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	token, err := jwt.NewGenerator(key, "shop", "", "test", time.Hour).Generate("u1", "Ann", role)
	require.NoError(t, err)

	backend := &fakeBackend{token: token, role: role}
	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	cfg := config.AppConfig{
		HTTPAddr:    ":0",
		Env:         "test",
		CORSOrigins: []string{"*"},
		API:         apiclient.Config{BaseURL: api.URL, Timeout: 2 * time.Second},
	}
	creds := storage.NewMemoryStore()
	srv, err := NewServer(context.Background(), cfg, zap.NewNop(), creds)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv, backend, creds
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestProtectedRoutesWaitForInitialization(t *testing.T) {
	srv, _, _ := newTestServer(t)

	code, _ := call(t, srv.Handler(), http.MethodPost, "/api/v1/checkout", `{"address":"a","city":"b","phoneNo":"c"}`)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, body := call(t, srv.Handler(), http.MethodGet, "/api/v1/views/resolve?path=/checkout", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "wait", body["data"].(map[string]interface{})["decision"].(map[string]interface{})["outcome"])
}

func TestShoppingFlow(t *testing.T) {
	srv, backend, creds := newTestServer(t)
	h := srv.Handler()
	srv.Session.Initialize(context.Background())

	// anonymous users are sent to login
	code, body := call(t, h, http.MethodPost, "/api/v1/cart/items", `{"_id":"p1","name":"Widget","price":10}`)
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "/login", body["data"].(map[string]interface{})["redirect"])

	code, _ = call(t, h, http.MethodPost, "/api/v1/session/login", `{"email":"ann@shop.test","password":"pw"}`)
	require.Equal(t, http.StatusOK, code)

	stored, ok, err := creds.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, backend.token, stored)

	for i := 0; i < 2; i++ {
		code, _ = call(t, h, http.MethodPost, "/api/v1/cart/items", `{"_id":"p1","name":"Widget","price":10.25}`)
		require.Equal(t, http.StatusCreated, code)
	}
	code, _ = call(t, h, http.MethodPost, "/api/v1/cart/items", `{"_id":"p2","name":"Gadget","price":5}`)
	require.Equal(t, http.StatusCreated, code)

	code, body = call(t, h, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, code)
	cart := body["data"].(map[string]interface{})
	assert.Equal(t, 25.5, cart["total"])

	code, _ = call(t, h, http.MethodPost, "/api/v1/checkout", `{"address":"1 Main St","city":"Nairobi","phoneNo":"0700"}`)
	require.Equal(t, http.StatusCreated, code)

	backend.mu.Lock()
	require.Len(t, backend.orders, 1)
	assert.Equal(t, 25.5, backend.orders[0]["totalPrice"])
	assert.Equal(t, "Bearer "+backend.token, backend.auths[len(backend.auths)-1])
	backend.mu.Unlock()

	assert.Equal(t, 0, srv.Cart.ItemCount())

	code, body = call(t, h, http.MethodGet, "/api/v1/navigation", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/order-success", body["data"].(map[string]interface{})["current"])

	code, _ = call(t, h, http.MethodPost, "/api/v1/session/logout", "")
	require.Equal(t, http.StatusOK, code)
	_, ok, _ = creds.Get(context.Background())
	assert.False(t, ok)
	_, attached := srv.API.Credential()
	assert.False(t, attached)
}

func login(t *testing.T, h http.Handler) {
	t.Helper()
	code, _ := call(t, h, http.MethodPost, "/api/v1/session/login", `{"email":"ann@shop.test","password":"pw"}`)
	require.Equal(t, http.StatusOK, code)
}

func TestAdminRoutesRedirectCustomers(t *testing.T) {
	srv, backend, _ := newTestServer(t)
	h := srv.Handler()
	srv.Session.Initialize(context.Background())
	login(t, h)

	code, body := call(t, h, http.MethodGet, "/api/v1/admin/appointments", "")
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "/login", body["data"].(map[string]interface{})["redirect"])

	code, _ = call(t, h, http.MethodDelete, "/api/v1/admin/appointments/a1", "")
	require.Equal(t, http.StatusUnauthorized, code)

	backend.mu.Lock()
	assert.Empty(t, backend.deleted)
	backend.mu.Unlock()

	// customer-facing history stays open
	code, body = call(t, h, http.MethodGet, "/api/v1/orders/mine", "")
	require.Equal(t, http.StatusOK, code)
	orders := body["data"].(map[string]interface{})["orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].(map[string]interface{})["_id"])
}

func TestAdminManagesAppointments(t *testing.T) {
	srv, backend, _ := newTestServerAs(t, "admin")
	h := srv.Handler()
	srv.Session.Initialize(context.Background())
	login(t, h)

	code, body := call(t, h, http.MethodGet, "/api/v1/admin/appointments", "")
	require.Equal(t, http.StatusOK, code)
	list := body["data"].(map[string]interface{})["appointments"].([]interface{})
	require.Len(t, list, 1)

	code, _ = call(t, h, http.MethodPut, "/api/v1/admin/appointments/a1/status", `{"status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, h, http.MethodPut, "/api/v1/admin/appointments/a1/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, h, http.MethodDelete, "/api/v1/admin/appointments/a1", "")
	require.Equal(t, http.StatusOK, code)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, "PUT confirmed", backend.statuses["a1"])
	assert.Equal(t, []string{http.MethodDelete}, backend.deleted)
	assert.Equal(t, "Bearer "+backend.token, backend.auths[len(backend.auths)-1])
}

func TestHealthAndSlots(t *testing.T) {
	srv, _, _ := newTestServer(t)

	code, body := call(t, srv.Handler(), http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = call(t, srv.Handler(), http.MethodGet, "/api/v1/appointments/slots", "")
	assert.Equal(t, http.StatusOK, code)
	times := body["data"].(map[string]interface{})["times"].([]interface{})
	assert.Len(t, times, 26)
	assert.Equal(t, "08:00", times[0])
}

func TestUnknownCredentialBackend(t *testing.T) {
	_, err := NewServer(context.Background(), config.AppConfig{CredentialBackend: "etcd"}, zap.NewNop(), nil)
	assert.Error(t, err)
}
