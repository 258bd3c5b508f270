// internal/handlers/checkout/checkout_handler.go
package checkout

import (
	"context"
	"net/http"

	"storefront-client/internal/domain/order"
	"storefront-client/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, shipping order.ShippingInfo) (*order.OrderRequest, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

// PlaceOrder submits the cart with the posted shipping details.
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var shipping order.ShippingInfo
	if err := c.ShouldBindJSON(&shipping); err != nil {
		response.ValidationError(c, "invalid shipping information", err)
		return
	}

	placed, err := h.checkout.PlaceOrder(c.Request.Context(), shipping)
	if err != nil {
		response.FromError(c, "Order failed. Please try again.", err)
		return
	}

	response.Success(c, http.StatusCreated, "order placed", placed)
}
