// internal/handlers/cart/cart_handler.go
package cart

import (
	"net/http"

	domain "storefront-client/internal/domain/cart"
	"storefront-client/internal/guard"
	"storefront-client/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartService is satisfied by the guarded cart store.
type CartService interface {
	Snapshot() domain.Snapshot
	AddItem(p domain.Product) (domain.LineItem, guard.Decision)
	SetQuantity(productID string, quantity int)
	RemoveItem(productID string)
}

type CartHandler struct {
	cart   CartService
	logger *zap.Logger
}

func NewCartHandler(cart CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	response.Success(c, http.StatusOK, "cart", h.cart.Snapshot())
}

// AddItem adds one unit of the posted product. Only signed-in sessions may
// add; the guard decision decides the status otherwise.
func (h *CartHandler) AddItem(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		response.ValidationError(c, "invalid product", err)
		return
	}

	item, decision := h.cart.AddItem(p)
	switch decision.Outcome {
	case guard.OutcomeWait:
		response.ServiceUnavailable(c, "session is still initializing", 1)
		return
	case guard.OutcomeRedirect:
		response.Error(c, http.StatusUnauthorized, "Please log in to add products to the cart!", nil, gin.H{
			"redirect": string(decision.Target),
		})
		return
	}

	h.logger.Debug("cart item added via api", zap.String("product_id", p.ID))
	response.Success(c, http.StatusCreated, "item added", gin.H{
		"item": item,
		"cart": h.cart.Snapshot(),
	})
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req domain.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	h.cart.SetQuantity(c.Param("product_id"), *req.Quantity)
	response.Success(c, http.StatusOK, "cart updated", h.cart.Snapshot())
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.cart.RemoveItem(c.Param("product_id"))
	response.Success(c, http.StatusOK, "item removed", h.cart.Snapshot())
}
