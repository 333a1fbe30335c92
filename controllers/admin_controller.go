package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
	"go.uber.org/zap"
)

// AdminController is the catalog editor. Routes are guarded by AdminOnly.
type AdminController struct {
	catalog services.CatalogService
	view    *Renderer
	logger  *zap.Logger
}

func NewAdminController(catalog services.CatalogService, view *Renderer, logger *zap.Logger) *AdminController {
	return &AdminController{catalog: catalog, view: view, logger: logger}
}

// Dashboard handles GET /admin. ?edit=<id> opens the edit form for that product.
func (ac *AdminController) Dashboard(c *gin.Context) {
	products, svcErr := ac.catalog.ListProducts(c.Request.Context())
	ac.render(c, products, svcErr, c.Query("edit"))
}

// CreateProduct handles POST /admin/products.
func (ac *AdminController) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBind(&in); err != nil {
		ac.invalid(c, err)
		return
	}
	products, svcErr := ac.catalog.CreateProduct(c.Request.Context(), middleware.CurrentViewer(c), &in)
	if svcErr != nil {
		ac.failed(c, "Error adding product: ", svcErr)
		return
	}
	middleware.AddFlash(c, middleware.FlashSuccess, "Product added successfully!")
	ac.render(c, products, nil, "")
}

// UpdateProduct handles POST /admin/products/:id.
func (ac *AdminController) UpdateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBind(&in); err != nil {
		ac.invalid(c, err)
		return
	}
	products, svcErr := ac.catalog.UpdateProduct(c.Request.Context(), middleware.CurrentViewer(c), c.Param("id"), &in)
	if svcErr != nil {
		ac.failed(c, "Error updating product: ", svcErr)
		return
	}
	middleware.AddFlash(c, middleware.FlashSuccess, "Product updated")
	ac.render(c, products, nil, "")
}

// DeleteProduct handles POST /admin/products/:id/delete.
func (ac *AdminController) DeleteProduct(c *gin.Context) {
	products, svcErr := ac.catalog.DeleteProduct(c.Request.Context(), middleware.CurrentViewer(c), c.Param("id"))
	if svcErr != nil {
		ac.failed(c, "Error deleting product: ", svcErr)
		return
	}
	middleware.AddFlash(c, middleware.FlashSuccess, "Product deleted")
	ac.render(c, products, nil, "")
}

// PresignImage handles POST /admin/products/images/presign.
func (ac *AdminController) PresignImage(c *gin.Context) {
	var req models.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	resp, svcErr := ac.catalog.PresignImage(c.Request.Context(), middleware.CurrentViewer(c), &req)
	if svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ac *AdminController) invalid(c *gin.Context, err error) {
	ac.logger.Debug("Rejected product form", zap.Error(err))
	products, svcErr := ac.catalog.ListProducts(c.Request.Context())
	data := gin.H{"products": products, "editing": nil, "error": "Invalid product form"}
	if svcErr != nil {
		data["error"] = svcErr.Message
	}
	ac.view.HTML(c, http.StatusBadRequest, "admin.html", "Admin", data)
}

// failed re-renders the dashboard from a fresh list with the error shown.
func (ac *AdminController) failed(c *gin.Context, prefix string, svcErr *services.ServiceError) {
	if svcErr.Unauthenticated() {
		loginAgain(c, svcErr)
		return
	}
	products, listErr := ac.catalog.ListProducts(c.Request.Context())
	if listErr != nil {
		ac.logger.Warn("Product list unavailable after failed mutation", zap.String("error", listErr.Message))
	}
	ac.view.HTML(c, svcErr.StatusCode, "admin.html", "Admin", gin.H{
		"products": products,
		"editing":  nil,
		"error":    prefix + svcErr.Message,
	})
}

// render shows the dashboard for a list the caller already holds. Mutations
// render the re-fetched list they got back rather than redirecting.
func (ac *AdminController) render(c *gin.Context, products []models.Product, svcErr *services.ServiceError, editID string) {
	if svcErr.Unauthenticated() {
		loginAgain(c, svcErr)
		return
	}
	data := gin.H{"products": products, "editing": nil}
	status := http.StatusOK
	if svcErr != nil {
		data["error"] = svcErr.Message
		status = svcErr.StatusCode
	}
	if editID != "" {
		for i := range products {
			if products[i].ID == editID {
				data["editing"] = &products[i]
				break
			}
		}
	}
	ac.view.HTML(c, status, "admin.html", "Admin", data)
}
