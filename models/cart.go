package models

import "github.com/shopspring/decimal"

// CartItem is one cart line. It is persisted as part of a JSON list.
type CartItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity for the line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartState is the cart as seen by views. TotalAmount is derived from Items.
type CartState struct {
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// ItemFromProduct builds a cart line for p with the given quantity.
func ItemFromProduct(p *Product, quantity int) CartItem {
	return CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		Quantity: quantity,
	}
}

// AddToCartRequest adds a product to the cart. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID string `form:"product_id" json:"product_id" binding:"required"`
	Quantity  int    `form:"quantity" json:"quantity" binding:"omitempty,gte=0"`
}

// SetQuantityRequest sets a line's quantity exactly.
type SetQuantityRequest struct {
	Quantity int `form:"quantity" json:"quantity"`
}
