package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a row of the products table. Stock lives in the "quantity" column.
type Product struct {
	ID          string          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id,omitempty"`
	Name        string          `gorm:"type:text;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	ImageURL    string          `gorm:"column:image_url;type:text" json:"image_url"`
	Stock       int             `gorm:"column:quantity;not null;default:0" json:"quantity"`
	CreatedAt   *time.Time      `gorm:"autoCreateTime" json:"created_at,omitempty"`
}

func (Product) TableName() string { return "products" }

// InStock reports whether at least one unit can be purchased.
func (p Product) InStock() bool { return p.Stock > 0 }

// ProductInput is the admin form payload for create and update.
type ProductInput struct {
	Name        string          `form:"name" json:"name" validate:"required,max=200"`
	Description string          `form:"description" json:"description" validate:"required"`
	Price       decimal.Decimal `form:"-" json:"price"`
	PriceRaw    string          `form:"price" json:"-"`
	ImageURL    string          `form:"image_url" json:"image_url" validate:"omitempty,url"`
	Stock       int             `form:"quantity" json:"quantity" validate:"gte=0"`
}

// ProductChangedEvent is published when the catalog is mutated from the admin panel.
type ProductChangedEvent struct {
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
}

// PresignRequest asks for a presigned upload URL for a product image.
type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignResponse carries the upload URL and the public object URL.
type PresignResponse struct {
	UploadURL string            `json:"upload_url"`
	ObjectURL string            `json:"object_url"`
	Headers   map[string]string `json:"headers,omitempty"`
}
