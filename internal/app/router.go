// internal/app/router.go
package app

import (
	appointmentHandler "storefront-client/internal/handlers/appointment"
	cartHandler "storefront-client/internal/handlers/cart"
	checkoutHandler "storefront-client/internal/handlers/checkout"
	orderHandler "storefront-client/internal/handlers/order"
	sessionHandler "storefront-client/internal/handlers/session"
	viewHandler "storefront-client/internal/handlers/view"
	wsHandler "storefront-client/internal/handlers/websocket"
	"storefront-client/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	SessionHandler     *sessionHandler.SessionHandler
	CartHandler        *cartHandler.CartHandler
	CheckoutHandler    *checkoutHandler.CheckoutHandler
	OrderHandler       *orderHandler.OrderHandler
	AppointmentHandler *appointmentHandler.AppointmentHandler
	ViewHandler        *viewHandler.ViewHandler
	WSHandler          *wsHandler.WebSocketHandler
	GuardMiddleware    *middleware.GuardMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)
	api.GET("/ws/stats", h.WSHandler.GetStats)

	// ==================== Session ====================
	session := api.Group("/session")
	{
		session.GET("", h.SessionHandler.GetSession)
		session.POST("/login", h.SessionHandler.Login)
		session.POST("/logout", h.SessionHandler.Logout)
		session.POST("/register", h.SessionHandler.Register)
	}

	// ==================== Views ====================
	api.GET("/views/resolve", h.ViewHandler.Resolve)
	api.GET("/navigation", h.ViewHandler.Navigation)

	// ==================== Cart ====================
	cart := api.Group("/cart")
	{
		cart.GET("", h.CartHandler.GetCart)
		cart.POST("/items", h.CartHandler.AddItem)
		cart.PUT("/items/:product_id", h.CartHandler.SetQuantity)
		cart.DELETE("/items/:product_id", h.CartHandler.RemoveItem)
	}

	// ==================== Checkout ====================
	api.POST("/checkout", h.GuardMiddleware.Auth(), h.CheckoutHandler.PlaceOrder)

	// ==================== Orders ====================
	orders := api.Group("/orders", h.GuardMiddleware.Auth())
	{
		orders.GET("/mine", h.OrderHandler.ListMine)
		orders.GET("/:id", h.OrderHandler.Get)
	}

	// ==================== Appointments ====================
	appointments := api.Group("/appointments")
	{
		appointments.GET("/slots", h.AppointmentHandler.GetSlots)
		appointments.POST("", h.GuardMiddleware.Auth(), h.AppointmentHandler.Book)
		appointments.GET("/mine", h.GuardMiddleware.Auth(), h.AppointmentHandler.ListMine)
	}

	// ==================== Admin ====================
	admin := api.Group("/admin", h.GuardMiddleware.Admin())
	{
		admin.GET("/appointments", h.AppointmentHandler.ListAll)
		admin.PUT("/appointments/:id/status", h.AppointmentHandler.SetStatus)
		admin.DELETE("/appointments/:id", h.AppointmentHandler.Delete)
	}
}
