package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const OrderStatusPending OrderStatus = "pending"

// Order is a row of the orders table.
type Order struct {
	ID          string          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id,omitempty"`
	UserID      string          `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"type:text;not null;default:pending" json:"status,omitempty"`
	CreatedAt   *time.Time      `gorm:"autoCreateTime" json:"created_at,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots the unit price at purchase time.
type OrderItem struct {
	ID              string          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id,omitempty"`
	OrderID         string          `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID       string          `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(12,2);not null" json:"price_at_purchase"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderSummary is an order joined with its lines, as shown in the history view.
type OrderSummary struct {
	ID          string             `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Status      OrderStatus        `json:"status"`
	Items       []OrderSummaryLine `json:"order_items"`
}

// ShortID is the first eight characters of the order id.
func (o OrderSummary) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

type OrderSummaryLine struct {
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Product         struct {
		Name string `json:"name"`
	} `json:"products"`
}

// OrderPlacedEvent is published after a successful checkout.
type OrderPlacedEvent struct {
	EventType   string          `json:"event_type"`
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	Timestamp   time.Time       `json:"timestamp"`
}
