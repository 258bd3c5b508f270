// internal/domain/cart/entity.go
package cart

import "github.com/shopspring/decimal"

// PlaceholderImage is used when a product carries no image at all.
const PlaceholderImage = "https://via.placeholder.com/300"

// Product is the catalogue entry a view hands to AddItem.
type Product struct {
	ID       string          `json:"_id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Images   []string        `json:"images,omitempty"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// PrimaryImage picks the first gallery image, then the single image URL,
// then the placeholder.
func (p Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img != "" {
			return img
		}
	}
	if p.ImageURL != "" {
		return p.ImageURL
	}
	return PlaceholderImage
}

// LineItem is one product entry in the cart. Quantity is always >= 1.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	DisplayName string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	ImageRef    string          `json:"image"`
}

// Subtotal is UnitPrice x Quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Snapshot is the read-only view of the cart.
type Snapshot struct {
	Items     []LineItem      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}
