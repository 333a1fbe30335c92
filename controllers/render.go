package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/services"
	"github.com/yashrajoria/storefront/views"
	"go.uber.org/zap"
)

// Renderer renders pages with the navbar state (viewer, cart badge, flashes).
type Renderer struct {
	carts  services.CartService
	logger *zap.Logger
}

func NewRenderer(carts services.CartService, logger *zap.Logger) *Renderer {
	return &Renderer{carts: carts, logger: logger}
}

// HTML renders name, loading the cart for the badge.
func (r *Renderer) HTML(c *gin.Context, status int, name, title string, data gin.H) {
	count := 0
	if state, svcErr := r.carts.Get(c.Request.Context(), middleware.CartKey(c)); svcErr == nil {
		count = cart.Count(state)
	}
	r.HTMLWithCount(c, status, name, title, count, data)
}

// HTMLWithCount renders name with a cart count the caller already has.
func (r *Renderer) HTMLWithCount(c *gin.Context, status int, name, title string, cartCount int, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["error"]; !ok {
		data["error"] = ""
	}
	page := views.NewPage(title, middleware.CurrentViewer(c), cartCount, middleware.Flashes(c), data)
	c.HTML(status, name, page)
}

// redirectBack sends the browser to next when it is a local path, else to fallback.
func redirectBack(c *gin.Context, next, fallback string) {
	// "/\host" is normalised to "//host" by browsers.
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		next = fallback
	}
	c.Redirect(http.StatusSeeOther, next)
}

const sessionExpiredMessage = "Your session has expired. Please log in again."

// loginAgain sends the browser to the login page after the backend refused the
// request. A viewer whose token was refused is signed out first, otherwise
// /login would bounce them straight back.
func loginAgain(c *gin.Context, svcErr *services.ServiceError) {
	msg := svcErr.Message
	if middleware.ExpireViewer(c) {
		msg = sessionExpiredMessage
	}
	middleware.AddFlash(c, middleware.FlashError, msg)
	c.Redirect(http.StatusSeeOther, "/login")
}

func abortJSON(c *gin.Context, svcErr *services.ServiceError) {
	if svcErr.Unauthenticated() {
		middleware.ExpireViewer(c)
	}
	c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}
