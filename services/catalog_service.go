package services

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yashrajoria/storefront/metrics"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/pkg/awsx"
	"github.com/yashrajoria/storefront/repository"
	"go.uber.org/zap"
)

// CatalogService serves the product list to shoppers and the admin editor.
// Admin mutations return the re-fetched full list.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]models.Product, *ServiceError)
	GetProduct(ctx context.Context, id string) (*models.Product, *ServiceError)
	CreateProduct(ctx context.Context, viewer *models.Viewer, in *models.ProductInput) ([]models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, viewer *models.Viewer, id string, in *models.ProductInput) ([]models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, viewer *models.Viewer, id string) ([]models.Product, *ServiceError)
	PresignImage(ctx context.Context, viewer *models.Viewer, req *models.PresignRequest) (*models.PresignResponse, *ServiceError)
}

// ImageUploads configures product image presigning. A nil Presigner disables it.
type ImageUploads struct {
	Presigner awsx.ImagePresigner
	Bucket    string
	BaseURL   string
	Expiry    time.Duration
}

type catalogServiceImpl struct {
	products repository.ProductRepository
	validate *validator.Validate
	images   ImageUploads
	events   *eventPublisher
	logger   *zap.Logger
}

func NewCatalogService(
	products repository.ProductRepository,
	images ImageUploads,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) CatalogService {
	return &catalogServiceImpl{
		products: products,
		validate: validator.New(),
		images:   images,
		events:   newEventPublisher(publisher.SNS, publisher.TopicArn, logger, m),
		logger:   logger,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context) ([]models.Product, *ServiceError) {
	products, err := s.products.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, operationFailed("load products", err)
	}
	return products, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id string) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, operationFailed("load product", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, viewer *models.Viewer, in *models.ProductInput) ([]models.Product, *ServiceError) {
	if svcErr := s.normalize(in); svcErr != nil {
		return nil, svcErr
	}
	ctx = repository.WithAccessToken(ctx, viewer.AccessToken)

	product := productFromInput(in)
	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, operationFailed("add product", err)
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	s.productChanged(ctx, viewer, product.ID, "created")
	return s.refetch(ctx)
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, viewer *models.Viewer, id string, in *models.ProductInput) ([]models.Product, *ServiceError) {
	if svcErr := s.normalize(in); svcErr != nil {
		return nil, svcErr
	}
	ctx = repository.WithAccessToken(ctx, viewer.AccessToken)

	product := productFromInput(in)
	product.ID = id
	if err := s.products.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return nil, operationFailed("update product", err)
	}

	s.logger.Info("Product updated", zap.String("product_id", id))
	s.productChanged(ctx, viewer, id, "updated")
	return s.refetch(ctx)
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, viewer *models.Viewer, id string) ([]models.Product, *ServiceError) {
	ctx = repository.WithAccessToken(ctx, viewer.AccessToken)
	if err := s.products.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		return nil, operationFailed("delete product", err)
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	s.productChanged(ctx, viewer, id, "deleted")
	return s.refetch(ctx)
}

// PresignImage returns a PUT URL under products/<uuid>/<filename>.
func (s *catalogServiceImpl) PresignImage(ctx context.Context, viewer *models.Viewer, req *models.PresignRequest) (*models.PresignResponse, *ServiceError) {
	if s.images.Presigner == nil {
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Image uploads are not configured"}
	}
	if !strings.HasPrefix(req.ContentType, "image/") {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Only image uploads are allowed"}
	}
	name := path.Base(strings.ReplaceAll(req.Filename, "\\", "/"))
	if name == "." || name == "/" {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid filename"}
	}

	key := fmt.Sprintf("products/%s/%s", uuid.NewString(), name)
	url, headers, err := s.images.Presigner.PresignPut(ctx, key, req.ContentType, s.images.Expiry)
	if err != nil {
		s.logger.Error("Failed to presign image upload", zap.String("key", key), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to prepare upload"}
	}

	s.logger.Info("Presigned image upload", zap.String("key", key), zap.String("user_id", viewer.UserID))
	return &models.PresignResponse{UploadURL: url, ObjectURL: s.objectURL(key), Headers: headers}, nil
}

func (s *catalogServiceImpl) objectURL(key string) string {
	if s.images.BaseURL != "" {
		return s.images.BaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.images.Bucket, key)
}

// normalize parses the form price and validates the input.
func (s *catalogServiceImpl) normalize(in *models.ProductInput) *ServiceError {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if raw := strings.TrimSpace(in.PriceRaw); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid product: price must be a number"}
		}
		in.Price = price
	}
	if in.Price.IsNegative() {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid product: price must not be negative"}
	}
	if err := s.validate.Struct(in); err != nil {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid product: " + err.Error()}
	}
	return nil
}

func (s *catalogServiceImpl) refetch(ctx context.Context) ([]models.Product, *ServiceError) {
	return s.ListProducts(ctx)
}

func (s *catalogServiceImpl) productChanged(ctx context.Context, viewer *models.Viewer, productID, action string) {
	s.events.publish(ctx, "product_changed", models.ProductChangedEvent{
		EventType: "product_changed",
		ProductID: productID,
		Action:    action,
		ActorID:   viewer.UserID,
		Timestamp: time.Now(),
	})
}

func productFromInput(in *models.ProductInput) *models.Product {
	return &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
	}
}
