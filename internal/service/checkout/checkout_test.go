package checkout

import (
	"context"
	"errors"
	"testing"

	cartdomain "storefront-client/internal/domain/cart"
	"storefront-client/internal/domain/order"
	sessiondomain "storefront-client/internal/domain/session"
	xerrors "storefront-client/internal/pkg/errors"
	"storefront-client/internal/guard"
	"storefront-client/internal/service/cart"
	"storefront-client/internal/ui"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrders struct {
	err  error
	sent []*order.OrderRequest
}

func (f *fakeOrders) CreateOrder(_ context.Context, req *order.OrderRequest) error {
	f.sent = append(f.sent, req)
	return f.err
}

type session sessiondomain.Snapshot

func (s session) Snapshot() sessiondomain.Snapshot { return sessiondomain.Snapshot(s) }

var signedIn = session{State: sessiondomain.StateAuthenticated, Phase: sessiondomain.PhaseComplete, IsAuthenticated: true}

var shipping = order.ShippingInfo{Address: "1 Le Loi", City: "HCM", PhoneNo: "0900000000"}

func setup(s session) (*Service, *cart.Store, *fakeOrders, *ui.Recorder) {
	rec := ui.NewRecorder()
	store := cart.NewStore(rec, zap.NewNop())
	api := &fakeOrders{}
	svc := NewService(store, api, guard.NewAuthorizer(s, nil), rec, rec, zap.NewNop())
	return svc, store, api, rec
}

func TestPlaceOrder(t *testing.T) {
	svc, store, api, rec := setup(signedIn)
	store.AddItem(cartdomain.Product{ID: "p1", Name: "Serum", Price: decimal.NewFromInt(100000)})
	store.AddItem(cartdomain.Product{ID: "p1", Name: "Serum", Price: decimal.NewFromInt(100000)})
	store.AddItem(cartdomain.Product{ID: "p2", Name: "Mask", Price: decimal.NewFromInt(50000)})

	req, err := svc.PlaceOrder(context.Background(), shipping)
	require.NoError(t, err)
	require.Len(t, api.sent, 1)
	assert.Equal(t, shipping, req.ShippingInfo)
	assert.Equal(t, []order.OrderItem{
		{Product: "p1", Name: "Serum", Price: decimal.NewFromInt(100000), Quantity: 2},
		{Product: "p2", Name: "Mask", Price: decimal.NewFromInt(50000), Quantity: 1},
	}, req.OrderItems)
	assert.True(t, req.TotalPrice.Equal(decimal.NewFromInt(250000)))
	assert.Empty(t, store.Items())
	assert.Equal(t, ui.ViewOrderSuccess, rec.Last())
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	svc, store, api, rec := setup(signedIn)
	api.err = errors.New("boom")
	store.AddItem(cartdomain.Product{ID: "p1", Name: "Serum", Price: decimal.NewFromInt(1)})

	_, err := svc.PlaceOrder(context.Background(), shipping)
	require.Error(t, err)
	assert.Len(t, store.Items(), 1)
	assert.Empty(t, rec.Last())
	notices := rec.Notices()
	assert.Equal(t, msgOrderFailed, notices[len(notices)-1].Message)
}

func TestPlaceOrderRequiresSession(t *testing.T) {
	svc, store, api, _ := setup(session{State: sessiondomain.StateAnonymous, Phase: sessiondomain.PhaseComplete})
	store.AddItem(cartdomain.Product{ID: "p1", Name: "Serum", Price: decimal.NewFromInt(1)})

	_, err := svc.PlaceOrder(context.Background(), shipping)
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
	assert.Empty(t, api.sent)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, store, api, _ := setup(signedIn)

	_, err := svc.PlaceOrder(context.Background(), shipping)
	assert.ErrorIs(t, err, xerrors.ErrEmptyCart)

	store.AddItem(cartdomain.Product{ID: "p1", Name: "Serum", Price: decimal.NewFromInt(1)})
	_, err = svc.PlaceOrder(context.Background(), order.ShippingInfo{Address: "x"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.ErrorContains(t, err, "city, phoneNo")
	assert.Empty(t, api.sent)
}
