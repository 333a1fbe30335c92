package services

import (
	"context"
	"net/http"

	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/repository"
	"go.uber.org/zap"
)

type OrderService interface {
	ListOrders(ctx context.Context, viewer *models.Viewer) ([]models.OrderSummary, *ServiceError)
}

type orderServiceImpl struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderServiceImpl{orders: orders, logger: logger}
}

// ListOrders returns the viewer's orders, newest first.
func (s *orderServiceImpl) ListOrders(ctx context.Context, viewer *models.Viewer) ([]models.OrderSummary, *ServiceError) {
	if !viewer.Authenticated() {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Please log in to see your orders"}
	}
	orders, err := s.orders.ListByUser(repository.WithAccessToken(ctx, viewer.AccessToken), viewer.UserID)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.String("user_id", viewer.UserID), zap.Error(err))
		return nil, operationFailed("load orders", err)
	}
	return orders, nil
}
