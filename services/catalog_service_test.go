package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/storefront/metrics"
	"github.com/yashrajoria/storefront/models"
	"go.uber.org/zap"
)

var admin = &models.Viewer{UserID: "admin-1", AccessToken: "jwt-admin", Role: models.RoleAdmin}

func newCatalog(b *memBackend, images ImageUploads) CatalogService {
	return NewCatalogService(memProducts{b}, images, EventPublisher{}, metrics.New(), zap.NewNop())
}

func TestCatalogService_CreateReturnsRefetchedList(t *testing.T) {
	b := catalogFixture()
	svc := newCatalog(b, ImageUploads{})

	list, svcErr := svc.CreateProduct(context.Background(), admin, &models.ProductInput{
		Name: "  Lamp ", Description: "Desk lamp", PriceRaw: "19.999", Stock: 4,
	})

	require.Nil(t, svcErr)
	assert.Len(t, list, 3)
	var lamp *models.Product
	for i := range list {
		if list[i].Name == "Lamp" {
			lamp = &list[i]
		}
	}
	require.NotNil(t, lamp)
	assert.True(t, decimal.RequireFromString("20").Equal(lamp.Price))
	assert.Equal(t, 4, lamp.Stock)
}

func TestCatalogService_CreateRejectsInvalidInput(t *testing.T) {
	cases := map[string]models.ProductInput{
		"missing name":   {Description: "d", PriceRaw: "1"},
		"bad price":      {Name: "n", Description: "d", PriceRaw: "cheap"},
		"negative price": {Name: "n", Description: "d", PriceRaw: "-1"},
		"negative stock": {Name: "n", Description: "d", PriceRaw: "1", Stock: -2},
		"bad image url":  {Name: "n", Description: "d", PriceRaw: "1", ImageURL: "not a url"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			b := catalogFixture()
			svc := newCatalog(b, ImageUploads{})

			_, svcErr := svc.CreateProduct(context.Background(), admin, &in)

			require.NotNil(t, svcErr)
			assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
			assert.True(t, strings.HasPrefix(svcErr.Message, "Invalid product"))
			assert.Len(t, b.products, 2)
		})
	}
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	b := catalogFixture()
	svc := newCatalog(b, ImageUploads{})
	ctx := context.Background()

	list, svcErr := svc.UpdateProduct(ctx, admin, "A", &models.ProductInput{Name: "Watch II", Description: "d", PriceRaw: "12.50", Stock: 9})
	require.Nil(t, svcErr)
	assert.Len(t, list, 2)
	assert.Equal(t, "Watch II", b.products["A"].Name)

	list, svcErr = svc.DeleteProduct(ctx, admin, "B")
	require.Nil(t, svcErr)
	assert.Len(t, list, 1)

	_, svcErr = svc.DeleteProduct(ctx, admin, "B")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
	assert.Equal(t, "delete product failed: record not found", svcErr.Message)
}

func TestCatalogService_ListFailure(t *testing.T) {
	b := catalogFixture()
	b.failList = errRemote
	svc := newCatalog(b, ImageUploads{})

	_, svcErr := svc.ListProducts(context.Background())

	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadGateway, svcErr.StatusCode)
	assert.Equal(t, "load products failed: remote unavailable", svcErr.Message)
}

func TestCatalogService_PresignImage(t *testing.T) {
	presigner := new(MockPresigner)
	svc := newCatalog(catalogFixture(), ImageUploads{
		Presigner: presigner, Bucket: "shop-images", Expiry: 10 * time.Minute,
	})
	presigner.On("PresignPut", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "products/") && strings.HasSuffix(key, "/lamp.png")
	}), "image/png", 10*time.Minute).
		Return("https://shop-images.s3.amazonaws.com/put?sig=1", map[string]string{"Content-Type": "image/png"}, nil)

	resp, svcErr := svc.PresignImage(context.Background(), admin, &models.PresignRequest{Filename: `C:\tmp\lamp.png`, ContentType: "image/png"})

	require.Nil(t, svcErr)
	assert.Equal(t, "https://shop-images.s3.amazonaws.com/put?sig=1", resp.UploadURL)
	assert.True(t, strings.HasPrefix(resp.ObjectURL, "https://shop-images.s3.amazonaws.com/products/"))
	assert.Equal(t, "image/png", resp.Headers["Content-Type"])
	presigner.AssertExpectations(t)
}

func TestCatalogService_PresignImageGuards(t *testing.T) {
	_, svcErr := newCatalog(catalogFixture(), ImageUploads{}).
		PresignImage(context.Background(), admin, &models.PresignRequest{Filename: "a.png", ContentType: "image/png"})
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.StatusCode)

	svc := newCatalog(catalogFixture(), ImageUploads{Presigner: new(MockPresigner)})
	_, svcErr = svc.PresignImage(context.Background(), admin, &models.PresignRequest{Filename: "a.exe", ContentType: "application/octet-stream"})
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}
