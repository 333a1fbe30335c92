package services

import (
	"context"
	"net/http"
	"time"

	"github.com/yashrajoria/storefront/cart"
	"github.com/yashrajoria/storefront/database"
	"github.com/yashrajoria/storefront/metrics"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/repository"
	"go.uber.org/zap"
)

// CheckoutService turns the session's cart into an order.
type CheckoutService interface {
	Checkout(ctx context.Context, viewer *models.Viewer, cartKey string) (*models.Order, *ServiceError)
}

type checkoutServiceImpl struct {
	carts    database.CartStorage
	orders   repository.OrderRepository
	products repository.ProductRepository
	events   *eventPublisher
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewCheckoutService(
	carts database.CartStorage,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:    carts,
		orders:   orders,
		products: products,
		events:   newEventPublisher(publisher.SNS, publisher.TopicArn, logger, m),
		metrics:  m,
		logger:   logger,
	}
}

// Checkout issues three sequential writes: the order row, its item rows, and a
// stock decrement per line. The writes are not atomic. A failure at any step
// leaves the earlier steps applied and the cart untouched; nothing is retried.
// The stock write is computed from a plain read, so concurrent checkouts of the
// same product can overwrite each other.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, viewer *models.Viewer, cartKey string) (*models.Order, *ServiceError) {
	if !viewer.Authenticated() {
		s.metrics.Checkout(metrics.OutcomeUnauthenticated)
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Please log in to checkout"}
	}

	items, err := s.carts.Load(ctx, cartKey)
	if err != nil {
		s.logger.Error("Failed to load cart for checkout", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "checkout failed: " + err.Error()}
	}
	state := cart.New(items)
	if len(state.Items) == 0 {
		s.metrics.Checkout(metrics.OutcomeEmptyCart)
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "checkout failed: cart is empty"}
	}

	start := time.Now()
	defer func() { s.metrics.ObserveCheckout(time.Since(start).Seconds()) }()

	ctx = repository.WithAccessToken(ctx, viewer.AccessToken)
	log := s.logger.With(zap.String("user_id", viewer.UserID))

	order := &models.Order{
		UserID:      viewer.UserID,
		TotalAmount: state.TotalAmount,
		Status:      models.OrderStatusPending,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		log.Error("Order insert failed", zap.Error(err))
		s.metrics.Checkout(metrics.OutcomeOrderFailed)
		return nil, operationFailed("checkout", err)
	}
	log = log.With(zap.String("order_id", order.ID))

	lines := make([]models.OrderItem, len(state.Items))
	for i, it := range state.Items {
		lines[i] = models.OrderItem{
			OrderID:         order.ID,
			ProductID:       it.ID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.Price,
		}
	}
	if err := s.orders.CreateItems(ctx, lines); err != nil {
		log.Error("Order item insert failed; order row is left without items", zap.Error(err))
		s.metrics.Checkout(metrics.OutcomeItemsFailed)
		return nil, operationFailed("checkout", err)
	}

	for _, it := range state.Items {
		product, err := s.products.FindByID(ctx, it.ID)
		if err == nil {
			err = s.products.UpdateStock(ctx, it.ID, product.Stock-it.Quantity)
		}
		if err != nil {
			log.Error("Stock decrement failed; order is placed with stale stock",
				zap.String("product_id", it.ID), zap.Error(err))
			s.metrics.Checkout(metrics.OutcomeStockFailed)
			return nil, operationFailed("checkout", err)
		}
	}

	if err := s.carts.Delete(ctx, cartKey); err != nil {
		log.Warn("Order placed but cart could not be cleared", zap.Error(err))
	}

	s.events.publish(ctx, "order_placed", models.OrderPlacedEvent{
		EventType:   "order_placed",
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   cart.Count(state),
		Timestamp:   time.Now(),
	})
	s.metrics.Checkout(metrics.OutcomeSuccess)
	log.Info("Checkout succeeded", zap.String("total", order.TotalAmount.StringFixed(2)))
	return order, nil
}
