package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
	"go.uber.org/zap"
)

// CartController serves the cart page, its form posts and the cart API.
type CartController struct {
	carts    services.CartService
	checkout services.CheckoutService
	catalog  services.CatalogService
	view     *Renderer
	logger   *zap.Logger
}

func NewCartController(carts services.CartService, checkout services.CheckoutService, catalog services.CatalogService, view *Renderer, logger *zap.Logger) *CartController {
	return &CartController{carts: carts, checkout: checkout, catalog: catalog, view: view, logger: logger}
}

// CartPage handles GET /cart.
func (cc *CartController) CartPage(c *gin.Context) {
	state, svcErr := cc.carts.Get(c.Request.Context(), middleware.CartKey(c))
	data := gin.H{"cart": state, "stock": cc.stockFor(c, state.Items)}
	status := http.StatusOK
	if svcErr != nil {
		data["error"] = svcErr.Message
		status = svcErr.StatusCode
	}
	cc.view.HTMLWithCount(c, status, "cart.html", "Cart", cart.Count(state), data)
}

// stockFor maps each line's product id to its current stock, which caps the
// quantity inputs. Lines whose product is gone are left out.
func (cc *CartController) stockFor(c *gin.Context, items []models.CartItem) map[string]int {
	stock := make(map[string]int, len(items))
	if len(items) == 0 {
		return stock
	}
	products, svcErr := cc.catalog.ListProducts(c.Request.Context())
	if svcErr != nil {
		cc.logger.Warn("Stock lookup for cart page failed", zap.String("error", svcErr.Message))
		return stock
	}
	for _, p := range products {
		if cartHas(items, p.ID) {
			stock[p.ID] = p.Stock
		}
	}
	return stock
}

func cartHas(items []models.CartItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// AddItem handles POST /cart/items.
func (cc *CartController) AddItem(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.AddFlash(c, middleware.FlashError, "Invalid product")
		redirectBack(c, c.PostForm("next"), "/home")
		return
	}
	if _, svcErr := cc.carts.Add(c.Request.Context(), middleware.CartKey(c), &req); svcErr != nil {
		middleware.AddFlash(c, middleware.FlashError, svcErr.Message)
	}
	redirectBack(c, c.PostForm("next"), "/cart")
}

// SetQuantity handles POST /cart/items/:id/quantity.
func (cc *CartController) SetQuantity(c *gin.Context) {
	qty, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		middleware.AddFlash(c, middleware.FlashError, "Quantity must be a number")
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}
	if _, svcErr := cc.carts.SetQuantity(c.Request.Context(), middleware.CartKey(c), c.Param("id"), qty); svcErr != nil {
		middleware.AddFlash(c, middleware.FlashError, svcErr.Message)
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

// RemoveItem handles POST /cart/items/:id/remove.
func (cc *CartController) RemoveItem(c *gin.Context) {
	if _, svcErr := cc.carts.Remove(c.Request.Context(), middleware.CartKey(c), c.Param("id")); svcErr != nil {
		middleware.AddFlash(c, middleware.FlashError, svcErr.Message)
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

// Clear handles POST /cart/clear.
func (cc *CartController) Clear(c *gin.Context) {
	if svcErr := cc.carts.Clear(c.Request.Context(), middleware.CartKey(c)); svcErr != nil {
		middleware.AddFlash(c, middleware.FlashError, svcErr.Message)
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

// Checkout handles POST /cart/checkout. Anonymous shoppers are sent to /login
// before anything is written.
func (cc *CartController) Checkout(c *gin.Context) {
	_, svcErr := cc.checkout.Checkout(c.Request.Context(), middleware.CurrentViewer(c), middleware.CartKey(c))
	switch {
	case svcErr.Unauthenticated():
		loginAgain(c, svcErr)
	case svcErr != nil:
		middleware.AddFlash(c, middleware.FlashError, svcErr.Message)
		c.Redirect(http.StatusSeeOther, "/cart")
	default:
		middleware.AddFlash(c, middleware.FlashSuccess, "Order placed successfully")
		c.Redirect(http.StatusSeeOther, "/orders")
	}
}

// --- JSON API ---

// GetCart handles GET /api/cart.
func (cc *CartController) GetCart(c *gin.Context) {
	state, svcErr := cc.carts.Get(c.Request.Context(), middleware.CartKey(c))
	if svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, state)
}

// AddItemJSON handles POST /api/cart/items.
func (cc *CartController) AddItemJSON(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	state, svcErr := cc.carts.Add(c.Request.Context(), middleware.CartKey(c), &req)
	if svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetQuantityJSON handles PATCH /api/cart/items/:id.
func (cc *CartController) SetQuantityJSON(c *gin.Context) {
	var req models.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	state, svcErr := cc.carts.SetQuantity(c.Request.Context(), middleware.CartKey(c), c.Param("id"), req.Quantity)
	if svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RemoveItemJSON handles DELETE /api/cart/items/:id.
func (cc *CartController) RemoveItemJSON(c *gin.Context) {
	state, svcErr := cc.carts.Remove(c.Request.Context(), middleware.CartKey(c), c.Param("id"))
	if svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ClearJSON handles DELETE /api/cart.
func (cc *CartController) ClearJSON(c *gin.Context) {
	if svcErr := cc.carts.Clear(c.Request.Context(), middleware.CartKey(c)); svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, cart.Clear())
}

// CheckoutJSON handles POST /api/checkout.
func (cc *CartController) CheckoutJSON(c *gin.Context) {
	order, svcErr := cc.checkout.Checkout(c.Request.Context(), middleware.CurrentViewer(c), middleware.CartKey(c))
	if svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}
