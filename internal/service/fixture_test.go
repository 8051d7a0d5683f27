package service

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/petshop-next/internal/apiclient"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/mockapi"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/storage"
	"github.com/petshop-next/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	testEmail    = "cliente@example.com"
	testPassword = "senha-forte"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type serviceFixture struct {
	mock     *mockapi.Server
	tenant   models.Tenant
	client   *apiclient.Client
	auth     *store.AuthStore
	tenants  *store.TenantStore
	cart     *store.CartStore
	receipts *repository.GormOrderReceiptRepository
	checkout *CheckoutService
	orders   *OrderService
	catalog  *CatalogService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	mock := mockapi.New(mockapi.Options{JWTSecret: "fixture-secret"})
	tenant := mock.SeedDemo()
	server := httptest.NewServer(mock.Handler())
	t.Cleanup(server.Close)

	client := apiclient.New(apiclient.Options{BaseURL: server.URL + "/api"})
	secure := storage.NewSecureStore(storage.NewMemoryStore(), "fixture-passphrase")
	db, err := models.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}

	f := &serviceFixture{
		mock:     mock,
		tenant:   tenant,
		client:   client,
		auth:     store.NewAuthStore(client, secure),
		tenants:  store.NewTenantStore(client, secure),
		cart:     store.NewCartStore(client),
		receipts: repository.NewOrderReceiptRepository(db),
	}
	client.Bind(f.auth, f.tenants)
	f.auth.OnSessionEnd(f.cart.ResetOnSessionEnd)
	f.checkout = NewCheckoutService(client, f.cart, f.auth, f.tenants, f.receipts, config.CheckoutConfig{})
	f.orders = NewOrderService(client, f.cart, f.tenants, f.receipts)
	f.catalog = NewCatalogService(client, f.tenants)

	ctx := context.Background()
	if _, err := f.tenants.ResolveBySlug(ctx, mockapi.DemoTenantSlug); err != nil {
		t.Fatalf("resolve tenant failed: %v", err)
	}
	if _, err := f.auth.Register(ctx, testEmail, testPassword, "Cliente"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return f
}

func (f *serviceFixture) addProduct(id uint, price string) models.Product {
	product := models.Product{ID: id, Name: "Produto", Price: models.MustMoney(price), Active: true}
	f.mock.AddProduct(f.tenant.ID, product)
	return product
}

func (f *serviceFixture) mustAdd(t *testing.T, product models.Product, quantity int) {
	t.Helper()
	if err := f.cart.Add(context.Background(), product, quantity); err != nil {
		t.Fatalf("add %d failed: %v", product.ID, err)
	}
}
