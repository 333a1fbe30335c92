package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/storefront/controllers"
	"github.com/yashrajoria/storefront/middleware"
)

// Controllers bundles the handlers the router dispatches to.
type Controllers struct {
	Home   *controllers.HomeController
	Auth   *controllers.AuthController
	Cart   *controllers.CartController
	Orders *controllers.OrderController
	Admin  *controllers.AdminController
}

// RegisterRoutes mounts the pages, form posts and the /api group.
func RegisterRoutes(r *gin.Engine, h Controllers, authLimiter *middleware.RateLimiter, allowedOrigins []string) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/home")
	})
	r.GET("/home", h.Home.Home)

	r.GET("/login", h.Auth.LoginPage)
	r.GET("/signup", h.Auth.SignupPage)
	r.POST("/login", middleware.RateLimit(authLimiter), h.Auth.Login)
	r.POST("/signup", middleware.RateLimit(authLimiter), h.Auth.Signup)
	r.POST("/logout", h.Auth.Logout)

	cartRoutes := r.Group("/cart")
	{
		cartRoutes.GET("", h.Cart.CartPage)
		cartRoutes.POST("/items", h.Cart.AddItem)
		cartRoutes.POST("/items/:id/quantity", h.Cart.SetQuantity)
		cartRoutes.POST("/items/:id/remove", h.Cart.RemoveItem)
		cartRoutes.POST("/clear", h.Cart.Clear)
		cartRoutes.POST("/checkout", h.Cart.Checkout)
	}

	r.GET("/orders", middleware.RequireAuth("/login"), h.Orders.OrdersPage)

	adminRoutes := r.Group("/admin", middleware.AdminOnly())
	{
		adminRoutes.GET("", h.Admin.Dashboard)
		adminRoutes.POST("/products", h.Admin.CreateProduct)
		adminRoutes.POST("/products/images/presign", h.Admin.PresignImage)
		adminRoutes.POST("/products/:id", h.Admin.UpdateProduct)
		adminRoutes.POST("/products/:id/delete", h.Admin.DeleteProduct)
	}

	api := r.Group("/api", cors.New(corsConfig(allowedOrigins)))
	{
		// Preflights need a matching route for the group middleware to run.
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		api.GET("/products", h.Home.ListProducts)
		api.GET("/products/:id", h.Home.GetProduct)

		api.GET("/cart", h.Cart.GetCart)
		api.POST("/cart/items", h.Cart.AddItemJSON)
		api.PATCH("/cart/items/:id", h.Cart.SetQuantityJSON)
		api.DELETE("/cart/items/:id", h.Cart.RemoveItemJSON)
		api.DELETE("/cart", h.Cart.ClearJSON)
		api.POST("/checkout", h.Cart.CheckoutJSON)

		api.GET("/orders", middleware.RequireAuth(""), h.Orders.ListOrders)
	}
}

// corsConfig allows credentialed requests from the listed origins. An empty
// list or "*" allows any origin without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
