// internal/service/checkout/checkout.go
package checkout

import (
	"context"
	"fmt"
	"strings"

	cartdomain "storefront-client/internal/domain/cart"
	"storefront-client/internal/domain/order"
	xerrors "storefront-client/internal/pkg/errors"
	"storefront-client/internal/guard"
	"storefront-client/internal/ui"

	"go.uber.org/zap"
)

const msgOrderFailed = "Order failed. Please try again."

// OrderAPI submits orders to the remote API.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req *order.OrderRequest) error
}

// Cart is the part of the cart store checkout needs.
type Cart interface {
	Snapshot() cartdomain.Snapshot
	Clear()
}

type Service struct {
	cart     Cart
	api      OrderAPI
	authz    *guard.Authorizer
	nav      ui.Navigator
	notifier ui.Notifier
	logger   *zap.Logger
}

func NewService(cart Cart, api OrderAPI, authz *guard.Authorizer, nav ui.Navigator, notifier ui.Notifier, logger *zap.Logger) *Service {
	return &Service{
		cart:     cart,
		api:      api,
		authz:    authz,
		nav:      nav,
		notifier: notifier,
		logger:   logger,
	}
}

// BuildOrder turns a cart snapshot into the orders API payload.
func BuildOrder(snap cartdomain.Snapshot, shipping order.ShippingInfo) *order.OrderRequest {
	items := make([]order.OrderItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, order.OrderItem{
			Product:  it.ProductID,
			Name:     it.DisplayName,
			Price:    it.UnitPrice,
			Quantity: it.Quantity,
		})
	}
	return &order.OrderRequest{
		ShippingInfo: shipping,
		OrderItems:   items,
		TotalPrice:   snap.Total,
	}
}

// PlaceOrder submits the current cart. On success the cart is cleared and
// the user is sent to the order confirmation view; on failure the cart is
// left as it was.
func (s *Service) PlaceOrder(ctx context.Context, shipping order.ShippingInfo) (*order.OrderRequest, error) {
	if d := s.authz.Check(guard.PolicyAuthenticated); !d.Allowed() {
		return nil, fmt.Errorf("%w: checkout requires a signed-in session (%s)", xerrors.ErrUnauthorized, d.Outcome)
	}

	if err := validateShipping(shipping); err != nil {
		return nil, err
	}

	snap := s.cart.Snapshot()
	if len(snap.Items) == 0 {
		return nil, xerrors.ErrEmptyCart
	}

	req := BuildOrder(snap, shipping)
	if err := s.api.CreateOrder(ctx, req); err != nil {
		s.logger.Error("failed to place order",
			zap.Int("items", len(req.OrderItems)),
			zap.String("total", req.TotalPrice.String()),
			zap.Error(err),
		)
		s.notifier.Notify(ui.NewNotice(ui.NoticeError, msgOrderFailed))
		return nil, xerrors.Wrap(err, "failed to place order")
	}

	s.logger.Info("order placed",
		zap.Int("items", len(req.OrderItems)),
		zap.String("total", req.TotalPrice.String()),
	)
	s.cart.Clear()
	s.nav.Navigate(ui.ViewOrderSuccess)
	return req, nil
}

func validateShipping(info order.ShippingInfo) error {
	var missing []string
	if strings.TrimSpace(info.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(info.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(info.PhoneNo) == "" {
		missing = append(missing, "phoneNo")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", xerrors.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}
