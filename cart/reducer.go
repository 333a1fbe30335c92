// Package cart holds the cart reducer. Every function takes a state and returns
// the next one; none of them perform I/O or fail.
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/yashrajoria/storefront/models"
)

// New builds a state from persisted items, recomputing the total.
func New(items []models.CartItem) models.CartState {
	return withTotal(clone(items))
}

// Add increments the line for item.ID by quantity, or appends a new line.
// A quantity below 1 is treated as 1.
func Add(state models.CartState, item models.CartItem, quantity int) models.CartState {
	if quantity < 1 {
		quantity = 1
	}
	items := clone(state.Items)
	if i := indexOf(items, item.ID); i >= 0 {
		items[i].Quantity += quantity
		return withTotal(items)
	}
	item.Quantity = quantity
	return withTotal(append(items, item))
}

// SetQuantity sets the line's quantity exactly. It does nothing when the line is
// absent or quantity is not positive.
func SetQuantity(state models.CartState, id string, quantity int) models.CartState {
	items := clone(state.Items)
	if i := indexOf(items, id); i >= 0 && quantity > 0 {
		items[i].Quantity = quantity
	}
	return withTotal(items)
}

// Remove drops the line with the given id, if any.
func Remove(state models.CartState, id string) models.CartState {
	items := make([]models.CartItem, 0, len(state.Items))
	for _, it := range state.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	return withTotal(items)
}

// Clear returns the empty cart.
func Clear() models.CartState {
	return withTotal(nil)
}

// Total is the sum of price times quantity over items.
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Count is the number of units in the cart, shown on the navbar badge.
func Count(state models.CartState) int {
	n := 0
	for _, it := range state.Items {
		n += it.Quantity
	}
	return n
}

func withTotal(items []models.CartItem) models.CartState {
	if items == nil {
		items = []models.CartItem{}
	}
	return models.CartState{Items: items, TotalAmount: Total(items)}
}

func indexOf(items []models.CartItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
