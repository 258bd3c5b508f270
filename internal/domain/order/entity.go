// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingInfo is the delivery form of the checkout view.
type ShippingInfo struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	PhoneNo string `json:"phoneNo" binding:"required"`
}

// OrderItem is one cart line as sent to the orders API.
type OrderItem struct {
	Product  string          `json:"product"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// OrderRequest is the payload of POST /api/orders.
type OrderRequest struct {
	ShippingInfo ShippingInfo    `json:"shippingInfo"`
	OrderItems   []OrderItem     `json:"orderItems"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// Customer is the buyer as embedded in an order.
type Customer struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Order is a placed order as returned by the orders API.
type Order struct {
	ID           string          `json:"_id"`
	User         *Customer       `json:"user,omitempty"`
	ShippingInfo ShippingInfo    `json:"shippingInfo"`
	OrderItems   []OrderItem     `json:"orderItems"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	OrderStatus  string          `json:"orderStatus"`
	CreatedAt    time.Time       `json:"createdAt"`
	DeliveredAt  *time.Time      `json:"deliveredAt,omitempty"`
}
