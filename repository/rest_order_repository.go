package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/models"
)

const (
	ordersTable     = "orders"
	orderItemsTable = "order_items"

	// orderHistorySelect embeds each order's lines and their product names.
	orderHistorySelect = "id,created_at,total_amount,status,order_items(quantity,price_at_purchase,products(name))"
)

type RESTOrderRepository struct {
	tables clients.TableClient
}

func NewRESTOrderRepository(tables clients.TableClient) OrderRepository {
	return &RESTOrderRepository{tables: tables}
}

type orderRow struct {
	UserID      string             `json:"user_id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Status      models.OrderStatus `json:"status,omitempty"`
}

// CreateOrder inserts the order and reads back the stored row.
func (r *RESTOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	row := orderRow{UserID: order.UserID, TotalAmount: order.TotalAmount, Status: order.Status}
	var created []models.Order
	if err := r.tables.Insert(ctx, AccessToken(ctx), ordersTable, []orderRow{row}, &created); err != nil {
		return err
	}
	if len(created) == 0 {
		return ErrNotFound
	}
	*order = created[0]
	return nil
}

type orderItemRow struct {
	OrderID         string          `json:"order_id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// CreateItems inserts all lines in one request.
func (r *RESTOrderRepository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	rows := make([]orderItemRow, len(items))
	for i, it := range items {
		rows[i] = orderItemRow{
			OrderID:         it.OrderID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		}
	}
	return r.tables.Insert(ctx, AccessToken(ctx), orderItemsTable, rows, nil)
}

func (r *RESTOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.OrderSummary, error) {
	var orders []models.OrderSummary
	q := clients.Query{
		Select:  orderHistorySelect,
		Filters: []clients.Filter{clients.Eq("user_id", userID)},
		Order:   "created_at",
		Desc:    true,
	}
	if err := r.tables.Select(ctx, AccessToken(ctx), ordersTable, q, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
