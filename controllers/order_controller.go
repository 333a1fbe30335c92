package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/services"
)

type OrderController struct {
	orders services.OrderService
	view   *Renderer
}

func NewOrderController(orders services.OrderService, view *Renderer) *OrderController {
	return &OrderController{orders: orders, view: view}
}

// OrdersPage handles GET /orders. Sign-in is enforced by the route.
func (oc *OrderController) OrdersPage(c *gin.Context) {
	orders, svcErr := oc.orders.ListOrders(c.Request.Context(), middleware.CurrentViewer(c))
	if svcErr.Unauthenticated() {
		loginAgain(c, svcErr)
		return
	}
	data := gin.H{"orders": orders}
	status := http.StatusOK
	if svcErr != nil {
		data["error"] = svcErr.Message
		status = svcErr.StatusCode
	}
	oc.view.HTML(c, status, "orders.html", "Orders", data)
}

// ListOrders handles GET /api/orders.
func (oc *OrderController) ListOrders(c *gin.Context) {
	orders, svcErr := oc.orders.ListOrders(c.Request.Context(), middleware.CurrentViewer(c))
	if svcErr != nil {
		abortJSON(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
