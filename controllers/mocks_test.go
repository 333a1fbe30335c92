package controllers

import (
	"context"
	"net/http"

	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
)

type mockCartService struct {
	getFn    func(ctx context.Context, key string) (models.CartState, *services.ServiceError)
	addFn    func(ctx context.Context, key string, req *models.AddToCartRequest) (models.CartState, *services.ServiceError)
	setFn    func(ctx context.Context, key, id string, qty int) (models.CartState, *services.ServiceError)
	removeFn func(ctx context.Context, key, id string) (models.CartState, *services.ServiceError)
	clearFn  func(ctx context.Context, key string) *services.ServiceError
}

func (m *mockCartService) Get(ctx context.Context, key string) (models.CartState, *services.ServiceError) {
	if m.getFn == nil {
		return models.CartState{Items: []models.CartItem{}}, nil
	}
	return m.getFn(ctx, key)
}
func (m *mockCartService) Add(ctx context.Context, key string, req *models.AddToCartRequest) (models.CartState, *services.ServiceError) {
	return m.addFn(ctx, key, req)
}
func (m *mockCartService) SetQuantity(ctx context.Context, key, id string, qty int) (models.CartState, *services.ServiceError) {
	return m.setFn(ctx, key, id, qty)
}
func (m *mockCartService) Remove(ctx context.Context, key, id string) (models.CartState, *services.ServiceError) {
	return m.removeFn(ctx, key, id)
}
func (m *mockCartService) Clear(ctx context.Context, key string) *services.ServiceError {
	return m.clearFn(ctx, key)
}

type mockCheckoutService struct {
	checkoutFn func(ctx context.Context, viewer *models.Viewer, key string) (*models.Order, *services.ServiceError)
	calls      int
}

func (m *mockCheckoutService) Checkout(ctx context.Context, viewer *models.Viewer, key string) (*models.Order, *services.ServiceError) {
	m.calls++
	return m.checkoutFn(ctx, viewer, key)
}

type mockCatalogService struct {
	listFn    func(ctx context.Context) ([]models.Product, *services.ServiceError)
	getFn     func(ctx context.Context, id string) (*models.Product, *services.ServiceError)
	createFn  func(ctx context.Context, viewer *models.Viewer, in *models.ProductInput) ([]models.Product, *services.ServiceError)
	updateFn  func(ctx context.Context, viewer *models.Viewer, id string, in *models.ProductInput) ([]models.Product, *services.ServiceError)
	deleteFn  func(ctx context.Context, viewer *models.Viewer, id string) ([]models.Product, *services.ServiceError)
	presignFn func(ctx context.Context, viewer *models.Viewer, req *models.PresignRequest) (*models.PresignResponse, *services.ServiceError)
}

func (m *mockCatalogService) ListProducts(ctx context.Context) ([]models.Product, *services.ServiceError) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}
func (m *mockCatalogService) GetProduct(ctx context.Context, id string) (*models.Product, *services.ServiceError) {
	return m.getFn(ctx, id)
}
func (m *mockCatalogService) CreateProduct(ctx context.Context, viewer *models.Viewer, in *models.ProductInput) ([]models.Product, *services.ServiceError) {
	return m.createFn(ctx, viewer, in)
}
func (m *mockCatalogService) UpdateProduct(ctx context.Context, viewer *models.Viewer, id string, in *models.ProductInput) ([]models.Product, *services.ServiceError) {
	return m.updateFn(ctx, viewer, id, in)
}
func (m *mockCatalogService) DeleteProduct(ctx context.Context, viewer *models.Viewer, id string) ([]models.Product, *services.ServiceError) {
	return m.deleteFn(ctx, viewer, id)
}
func (m *mockCatalogService) PresignImage(ctx context.Context, viewer *models.Viewer, req *models.PresignRequest) (*models.PresignResponse, *services.ServiceError) {
	return m.presignFn(ctx, viewer, req)
}

type mockAuthService struct {
	signUpFn  func(ctx context.Context, req *models.SignupRequest) (*models.Viewer, *services.ServiceError)
	signInFn  func(ctx context.Context, req *models.LoginRequest) (*models.Viewer, *services.ServiceError)
	refreshFn func(ctx context.Context, viewer *models.Viewer) (*models.Viewer, *services.ServiceError)
	verifyFn  func(ctx context.Context, viewer *models.Viewer) *services.ServiceError
	signedOut []*models.Viewer
}

func (m *mockAuthService) SignUp(ctx context.Context, req *models.SignupRequest) (*models.Viewer, *services.ServiceError) {
	return m.signUpFn(ctx, req)
}
func (m *mockAuthService) SignIn(ctx context.Context, req *models.LoginRequest) (*models.Viewer, *services.ServiceError) {
	return m.signInFn(ctx, req)
}
func (m *mockAuthService) SignOut(ctx context.Context, viewer *models.Viewer) {
	m.signedOut = append(m.signedOut, viewer)
}
func (m *mockAuthService) RefreshSession(ctx context.Context, viewer *models.Viewer) (*models.Viewer, *services.ServiceError) {
	if m.refreshFn == nil {
		return nil, &services.ServiceError{StatusCode: http.StatusUnauthorized, Message: "session expired"}
	}
	return m.refreshFn(ctx, viewer)
}
func (m *mockAuthService) VerifySession(ctx context.Context, viewer *models.Viewer) *services.ServiceError {
	if m.verifyFn == nil {
		return nil
	}
	return m.verifyFn(ctx, viewer)
}

type mockOrderService struct {
	listFn func(ctx context.Context, viewer *models.Viewer) ([]models.OrderSummary, *services.ServiceError)
}

func (m *mockOrderService) ListOrders(ctx context.Context, viewer *models.Viewer) ([]models.OrderSummary, *services.ServiceError) {
	return m.listFn(ctx, viewer)
}
