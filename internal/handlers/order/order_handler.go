// internal/handlers/order/order_handler.go
package order

import (
	"context"
	"net/http"

	"storefront-client/internal/domain/order"
	"storefront-client/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderService interface {
	Mine(ctx context.Context) ([]order.Order, error)
	Get(ctx context.Context, id string) (*order.Order, error)
}

type OrderHandler struct {
	orders OrderService
	logger *zap.Logger
}

func NewOrderHandler(orders OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// ListMine returns the signed-in user's order history.
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.orders.Mine(c.Request.Context())
	if err != nil {
		response.FromError(c, "Could not load your orders.", err)
		return
	}
	response.Success(c, http.StatusOK, "orders", gin.H{"orders": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "Could not load the order.", err)
		return
	}
	response.Success(c, http.StatusOK, "order", gin.H{"order": o})
}
