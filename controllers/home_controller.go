package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HomeController serves the storefront landing page and the product API.
type HomeController struct {
	catalog services.CatalogService
	carts   services.CartService
	view    *Renderer
	logger  *zap.Logger
}

func NewHomeController(catalog services.CatalogService, carts services.CartService, view *Renderer, logger *zap.Logger) *HomeController {
	return &HomeController{catalog: catalog, carts: carts, view: view, logger: logger}
}

// Home handles GET /home. Products and the cart badge load concurrently.
func (hc *HomeController) Home(c *gin.Context) {
	var (
		products []models.Product
		state    models.CartState
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		list, svcErr := hc.catalog.ListProducts(ctx)
		if svcErr != nil {
			return svcErr
		}
		products = list
		return nil
	})
	g.Go(func() error {
		s, svcErr := hc.carts.Get(ctx, middleware.CartKey(c))
		if svcErr != nil {
			hc.logger.Warn("Cart unavailable for home page", zap.String("error", svcErr.Message))
			return nil
		}
		state = s
		return nil
	})

	status := http.StatusOK
	data := gin.H{}
	if err := g.Wait(); err != nil {
		var svcErr *services.ServiceError
		if errors.As(err, &svcErr) {
			status = svcErr.StatusCode
		}
		data["error"] = err.Error()
	}
	data["products"] = products
	hc.view.HTMLWithCount(c, status, "home.html", "Home", cart.Count(state), data)
}

// ListProducts handles GET /api/products.
func (hc *HomeController) ListProducts(c *gin.Context) {
	products, svcErr := hc.catalog.ListProducts(c.Request.Context())
	if svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct handles GET /api/products/:id.
func (hc *HomeController) GetProduct(c *gin.Context) {
	product, svcErr := hc.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}
