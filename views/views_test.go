package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/models"
)

func render(t *testing.T, name string, page Page) string {
	t.Helper()
	tpl, err := Templates()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tpl.ExecuteTemplate(&buf, name, page))
	return buf.String()
}

func TestHomeGreeting(t *testing.T) {
	products := []models.Product{{ID: "p1", Name: "Watch", Price: decimal.RequireFromString("199"), Stock: 3}}

	anon := render(t, "home.html", NewPage("Home", nil, 0, nil, map[string]interface{}{"products": products}))
	assert.Contains(t, anon, "<h1>Welcome</h1>")
	assert.Contains(t, anon, "$199.00")
	assert.Contains(t, anon, `href="/login"`)
	assert.NotContains(t, anon, `<span class="cart-badge">`)

	viewer := &models.Viewer{UserID: "u", AccessToken: "t", Role: models.RoleAdmin}
	signedIn := render(t, "home.html", NewPage("Home", viewer, 3, nil, map[string]interface{}{"products": products}))
	assert.Contains(t, signedIn, "Flash sale is on! Are you ready Shopper?")
	assert.Contains(t, signedIn, `<span class="cart-badge">3</span>`)
	assert.Contains(t, signedIn, `href="/admin"`)
	assert.Contains(t, signedIn, `action="/logout"`)
}

func TestCartPage(t *testing.T) {
	empty := render(t, "cart.html", NewPage("Cart", nil, 0, nil, map[string]interface{}{"cart": models.CartState{}}))
	assert.Contains(t, empty, "Your cart is lonely.")

	state := models.CartState{
		Items: []models.CartItem{
			{ID: "A", Name: "Watch", Price: decimal.NewFromInt(10), Quantity: 2},
			{ID: "B", Name: "Mouse", Price: decimal.NewFromInt(5), Quantity: 1},
		},
		TotalAmount: decimal.NewFromInt(25),
	}
	full := render(t, "cart.html", NewPage("Cart", nil, 3, nil, map[string]interface{}{"cart": state}))
	assert.Contains(t, full, "Total Price: <span>$25.00</span>")
	assert.Contains(t, full, "Total Items: <span>3</span>")
	assert.Contains(t, full, `action="/cart/items/A/remove"`)
	assert.Contains(t, full, "$20.00")
}

func TestFlashesAreEscaped(t *testing.T) {
	flashes := []middleware.Flash{{Kind: middleware.FlashError, Message: "<script>x</script>"}}

	out := render(t, "login.html", NewPage("Login", nil, 0, flashes, map[string]interface{}{"email": "", "error": ""}))

	assert.Contains(t, out, `class="flash flash-error"`)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>x")
}

func TestOrdersPage(t *testing.T) {
	line := models.OrderSummaryLine{Quantity: 2, PriceAtPurchase: decimal.NewFromInt(10)}
	line.Product.Name = "Watch"
	orders := []models.OrderSummary{{
		ID:          "0f8fad5b-d9cb-469f-a165-70867728950e",
		CreatedAt:   time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(25),
		Status:      models.OrderStatusPending,
		Items:       []models.OrderSummaryLine{line},
	}}

	out := render(t, "orders.html", NewPage("Orders", nil, 0, nil, map[string]interface{}{"orders": orders, "error": ""}))

	assert.Contains(t, out, "Order ID: 0f8fad5b...")
	assert.Contains(t, out, "Mar 4, 2026")
	assert.Contains(t, out, "Watch x 2")
	assert.Contains(t, out, "Total: $25.00")

	none := render(t, "orders.html", NewPage("Orders", nil, 0, nil, map[string]interface{}{"orders": []models.OrderSummary{}, "error": ""}))
	assert.Contains(t, none, "You haven't placed any orders yet.")
}

func TestHomeStockControls(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Name: "Watch", Price: decimal.NewFromInt(199), Stock: 3},
		{ID: "p2", Name: "Lamp", Price: decimal.NewFromInt(20), Stock: 0},
	}

	out := render(t, "home.html", NewPage("Home", nil, 0, nil, map[string]interface{}{"products": products}))

	assert.Contains(t, out, `name="quantity" value="1" min="1" max="3"`)
	assert.Contains(t, out, "Out of stock")
	assert.Contains(t, out, `<button type="submit" class="add-to-cart-btn" disabled>Sold out</button>`)
	assert.Equal(t, 1, strings.Count(out, ">Add to Cart</button>"))
}

func TestCartQuantityMax(t *testing.T) {
	state := models.CartState{
		Items: []models.CartItem{
			{ID: "A", Name: "Watch", Price: decimal.NewFromInt(10), Quantity: 2},
			{ID: "B", Name: "Mouse", Price: decimal.NewFromInt(5), Quantity: 1},
		},
		TotalAmount: decimal.NewFromInt(25),
	}

	out := render(t, "cart.html", NewPage("Cart", nil, 3, nil, map[string]interface{}{
		"cart":  state,
		"stock": map[string]int{"A": 5},
	}))

	assert.Contains(t, out, `value="2" min="1" max="5"`)
	assert.Contains(t, out, `value="1" min="1" style=`)
}
