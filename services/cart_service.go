package services

import (
	"context"
	"net/http"

	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/database"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/repository"
	"go.uber.org/zap"
)

// CartService applies one reducer transition per call to the persisted cart under key.
type CartService interface {
	Get(ctx context.Context, key string) (models.CartState, *ServiceError)
	Add(ctx context.Context, key string, req *models.AddToCartRequest) (models.CartState, *ServiceError)
	SetQuantity(ctx context.Context, key, productID string, quantity int) (models.CartState, *ServiceError)
	Remove(ctx context.Context, key, productID string) (models.CartState, *ServiceError)
	Clear(ctx context.Context, key string) *ServiceError
}

type cartServiceImpl struct {
	storage  database.CartStorage
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCartService(storage database.CartStorage, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{storage: storage, products: products, logger: logger}
}

func (s *cartServiceImpl) Get(ctx context.Context, key string) (models.CartState, *ServiceError) {
	items, err := s.storage.Load(ctx, key)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("key", key), zap.Error(err))
		return cart.Clear(), &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load cart"}
	}
	return cart.New(items), nil
}

// Add snapshots the product's current name, price and image into the line.
func (s *cartServiceImpl) Add(ctx context.Context, key string, req *models.AddToCartRequest) (models.CartState, *ServiceError) {
	state, svcErr := s.Get(ctx, key)
	if svcErr != nil {
		return state, svcErr
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return state, operationFailed("add to cart", err)
	}

	next := cart.Add(state, models.ItemFromProduct(product, req.Quantity), req.Quantity)
	return s.save(ctx, key, state, next)
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, key, productID string, quantity int) (models.CartState, *ServiceError) {
	state, svcErr := s.Get(ctx, key)
	if svcErr != nil {
		return state, svcErr
	}
	return s.save(ctx, key, state, cart.SetQuantity(state, productID, quantity))
}

func (s *cartServiceImpl) Remove(ctx context.Context, key, productID string) (models.CartState, *ServiceError) {
	state, svcErr := s.Get(ctx, key)
	if svcErr != nil {
		return state, svcErr
	}
	return s.save(ctx, key, state, cart.Remove(state, productID))
}

// Clear deletes the persisted list rather than storing an empty one.
func (s *cartServiceImpl) Clear(ctx context.Context, key string) *ServiceError {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("key", key), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to clear cart"}
	}
	return nil
}

// save persists next. On failure the caller keeps seeing prev.
func (s *cartServiceImpl) save(ctx context.Context, key string, prev, next models.CartState) (models.CartState, *ServiceError) {
	if err := s.storage.Save(ctx, key, next.Items); err != nil {
		s.logger.Error("Failed to save cart", zap.String("key", key), zap.Error(err))
		return prev, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to save cart"}
	}
	return next, nil
}
