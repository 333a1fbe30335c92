package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/repository"
)

// --- testify mocks ---

type MockAuthClient struct{ mock.Mock }

func (m *MockAuthClient) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthClient) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *MockAuthClient) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthClient) GetUser(ctx context.Context, accessToken string) (*models.AuthUser, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthUser), args.Error(1)
}

type MockProfileRepository struct{ mock.Mock }

func (m *MockProfileRepository) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type MockSNS struct{ mock.Mock }

func (m *MockSNS) Publish(ctx context.Context, topicArn string, message []byte) error {
	return m.Called(ctx, topicArn, message).Error(0)
}

type MockPresigner struct{ mock.Mock }

func (m *MockPresigner) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, map[string]string, error) {
	args := m.Called(ctx, key, contentType, expiry)
	h, _ := args.Get(1).(map[string]string)
	return args.String(0), h, args.Error(2)
}

// --- in-memory backend ---

// memBackend stands in for the managed backend's tables. It counts every write
// so tests can assert what a flow left behind.
type memBackend struct {
	mu         sync.Mutex
	products   map[string]models.Product
	orders     []models.Order
	items      []models.OrderItem
	stockWrite map[string]int
	tokens     []string

	failCreateOrder error
	failCreateItems error
	failFindProduct error
	failUpdateStock error
	failList        error
	nextID          int
}

func newMemBackend(products ...models.Product) *memBackend {
	b := &memBackend{products: map[string]models.Product{}, stockWrite: map[string]int{}}
	for _, p := range products {
		b.products[p.ID] = p
	}
	return b
}

func (b *memBackend) writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.orders) + len(b.items)
	for _, c := range b.stockWrite {
		n += c
	}
	return n
}

func (b *memBackend) id(prefix string) string {
	b.nextID++
	return prefix + "-" + strconv.Itoa(b.nextID)
}

type memProducts struct{ b *memBackend }

func (r memProducts) List(ctx context.Context) ([]models.Product, error) {
	if r.b.failList != nil {
		return nil, r.b.failList
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	out := make([]models.Product, 0, len(r.b.products))
	for _, p := range r.b.products {
		out = append(out, p)
	}
	return out, nil
}

func (r memProducts) FindByID(ctx context.Context, id string) (*models.Product, error) {
	if r.b.failFindProduct != nil {
		return nil, r.b.failFindProduct
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	p, ok := r.b.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) Create(ctx context.Context, p *models.Product) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	p.ID = r.b.id("p")
	r.b.products[p.ID] = *p
	return nil
}

func (r memProducts) Update(ctx context.Context, p *models.Product) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, ok := r.b.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.b.products[p.ID] = *p
	return nil
}

func (r memProducts) Delete(ctx context.Context, id string) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, ok := r.b.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.b.products, id)
	return nil
}

func (r memProducts) UpdateStock(ctx context.Context, id string, stock int) error {
	if r.b.failUpdateStock != nil {
		return r.b.failUpdateStock
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.tokens = append(r.b.tokens, repository.AccessToken(ctx))
	p := r.b.products[id]
	p.Stock = stock
	r.b.products[id] = p
	r.b.stockWrite[id]++
	return nil
}

type memOrders struct{ b *memBackend }

func (r memOrders) CreateOrder(ctx context.Context, o *models.Order) error {
	if r.b.failCreateOrder != nil {
		return r.b.failCreateOrder
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.tokens = append(r.b.tokens, repository.AccessToken(ctx))
	o.ID = r.b.id("o")
	r.b.orders = append(r.b.orders, *o)
	return nil
}

func (r memOrders) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if r.b.failCreateItems != nil {
		return r.b.failCreateItems
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.items = append(r.b.items, items...)
	return nil
}

func (r memOrders) ListByUser(ctx context.Context, userID string) ([]models.OrderSummary, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	var out []models.OrderSummary
	for i := len(r.b.orders) - 1; i >= 0; i-- {
		o := r.b.orders[i]
		if o.UserID == userID {
			out = append(out, models.OrderSummary{ID: o.ID, TotalAmount: o.TotalAmount, Status: o.Status})
		}
	}
	return out, nil
}

var errRemote = errors.New("remote unavailable")
