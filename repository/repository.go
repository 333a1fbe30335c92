// Package repository gives typed access to the managed backend's tables. Each
// interface has a PostgREST implementation and a GORM implementation for
// direct Postgres access.
package repository

import (
	"context"
	"errors"

	"github.com/yashrajoria/storefront/models"
)

// ErrNotFound is returned when a single-row read matches nothing.
var ErrNotFound = errors.New("record not found")

type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, id string, stock int) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	ListByUser(ctx context.Context, userID string) ([]models.OrderSummary, error)
}

type tokenKey struct{}

// WithAccessToken attaches the signed-in user's token so row-level policies on
// the backend see the caller rather than the anonymous role.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// AccessToken returns the token attached by WithAccessToken, or "".
func AccessToken(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}
