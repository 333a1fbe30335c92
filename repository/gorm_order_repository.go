package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yashrajoria/storefront/models"
	"gorm.io/gorm"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateItems inserts all lines in a single statement.
func (r *GormOrderRepository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

type orderLineRow struct {
	OrderID         string
	Quantity        int
	PriceAtPurchase decimal.Decimal
	ProductName     string
}

// ListByUser returns the user's orders newest first, each with its lines.
func (r *GormOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.OrderSummary, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []models.OrderSummary{}, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	var lines []orderLineRow
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.order_id, order_items.quantity, order_items.price_at_purchase, products.name AS product_name").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id IN ?", ids).
		Scan(&lines).Error; err != nil {
		return nil, err
	}

	byOrder := make(map[string][]models.OrderSummaryLine, len(orders))
	for _, l := range lines {
		line := models.OrderSummaryLine{Quantity: l.Quantity, PriceAtPurchase: l.PriceAtPurchase}
		line.Product.Name = l.ProductName
		byOrder[l.OrderID] = append(byOrder[l.OrderID], line)
	}

	summaries := make([]models.OrderSummary, len(orders))
	for i, o := range orders {
		var created time.Time
		if o.CreatedAt != nil {
			created = *o.CreatedAt
		}
		summaries[i] = models.OrderSummary{
			ID:          o.ID,
			CreatedAt:   created,
			TotalAmount: o.TotalAmount,
			Status:      o.Status,
			Items:       byOrder[o.ID],
		}
	}
	return summaries, nil
}
