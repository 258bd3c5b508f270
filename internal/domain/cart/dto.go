// internal/domain/cart/dto.go
package cart

// SetQuantityRequest updates a line item to an exact quantity. Zero or
// negative quantities remove the line item.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
