package repository

import (
	"context"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/models"
)

const productsTable = "products"

type RESTProductRepository struct {
	tables clients.TableClient
}

func NewRESTProductRepository(tables clients.TableClient) ProductRepository {
	return &RESTProductRepository{tables: tables}
}

func (r *RESTProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.tables.Select(ctx, AccessToken(ctx), productsTable, clients.Query{Order: "created_at", Desc: true}, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *RESTProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var products []models.Product
	q := clients.Query{Filters: []clients.Filter{clients.Eq("id", id)}, Limit: 1}
	if err := r.tables.Select(ctx, AccessToken(ctx), productsTable, q, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return &products[0], nil
}

// Create inserts the product and copies the backend-assigned id and timestamp back.
func (r *RESTProductRepository) Create(ctx context.Context, product *models.Product) error {
	var created []models.Product
	if err := r.tables.Insert(ctx, AccessToken(ctx), productsTable, []productRow{toProductRow(product)}, &created); err != nil {
		return err
	}
	if len(created) > 0 {
		product.ID = created[0].ID
		product.CreatedAt = created[0].CreatedAt
	}
	return nil
}

// Update and Delete read the affected ids back; PostgREST answers a write that
// matched no visible row with an empty list rather than an error.
func (r *RESTProductRepository) Update(ctx context.Context, product *models.Product) error {
	var affected []rowID
	err := r.tables.Update(ctx, AccessToken(ctx), productsTable, []clients.Filter{clients.Eq("id", product.ID)}, toProductRow(product), &affected)
	return matchedAny(affected, err)
}

func (r *RESTProductRepository) Delete(ctx context.Context, id string) error {
	var affected []rowID
	err := r.tables.Delete(ctx, AccessToken(ctx), productsTable, []clients.Filter{clients.Eq("id", id)}, &affected)
	return matchedAny(affected, err)
}

func (r *RESTProductRepository) UpdateStock(ctx context.Context, id string, stock int) error {
	return r.tables.Update(ctx, AccessToken(ctx), productsTable, []clients.Filter{clients.Eq("id", id)}, map[string]int{"quantity": stock}, nil)
}

type rowID struct {
	ID string `json:"id"`
}

func matchedAny(rows []rowID, err error) error {
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

// productRow is the writable column set; id and created_at are assigned remotely.
type productRow struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"quantity"`
}

func toProductRow(p *models.Product) productRow {
	return productRow{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
	}
}
