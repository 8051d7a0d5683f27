package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/petshop-next/internal/apiclient"
	"github.com/petshop-next/internal/mockapi"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	testEmail    = "cliente@example.com"
	testPassword = "senha-forte"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sessionFixture struct {
	mock    *mockapi.Server
	tenant  models.Tenant
	client  *apiclient.Client
	secure  *storage.SecureStore
	backend *storage.MemoryStore
	auth    *AuthStore
	tenants *TenantStore
	cart    *CartStore
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	mock := mockapi.New(mockapi.Options{JWTSecret: "fixture-secret"})
	tenant := mock.SeedDemo()
	server := httptest.NewServer(mock.Handler())
	t.Cleanup(server.Close)

	client := apiclient.New(apiclient.Options{BaseURL: server.URL + "/api"})
	backend := storage.NewMemoryStore()
	secure := storage.NewSecureStore(backend, "fixture-passphrase")

	f := &sessionFixture{
		mock:    mock,
		tenant:  tenant,
		client:  client,
		secure:  secure,
		backend: backend,
		auth:    NewAuthStore(client, secure),
		tenants: NewTenantStore(client, secure),
		cart:    NewCartStore(client),
	}
	client.Bind(f.auth, f.tenants)
	f.auth.OnSessionEnd(f.cart.ResetOnSessionEnd)

	ctx := context.Background()
	if _, err := f.tenants.ResolveBySlug(ctx, mockapi.DemoTenantSlug); err != nil {
		t.Fatalf("resolve tenant failed: %v", err)
	}
	if _, err := f.auth.Register(ctx, testEmail, testPassword, "Cliente"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return f
}

func cartJSON(t *testing.T, cart models.Cart) string {
	t.Helper()
	raw, err := json.Marshal(cart)
	if err != nil {
		t.Fatalf("marshal cart failed: %v", err)
	}
	return string(raw)
}

// cartSummary 忽略名称与图片，只比较金额与数量
func cartSummary(cart models.Cart) string {
	out := ""
	for _, line := range cart.Lines {
		out += fmt.Sprintf("%d:%d:%s:%s;", line.ProductID, line.Quantity, line.UnitPrice, line.LineSubtotal)
	}
	return out + cart.Subtotal.String()
}

func product(id uint, price string) models.Product {
	return models.Product{ID: id, Name: "produto", Price: models.MustMoney(price), Active: true}
}

func assertInvariant(t *testing.T, cart models.Cart) {
	t.Helper()
	sum := models.ZeroMoney()
	for _, line := range cart.Lines {
		if !line.LineSubtotal.Equal(line.UnitPrice.Times(line.Quantity)) {
			t.Fatalf("line %d subtotal %s != %s x %d", line.ProductID, line.LineSubtotal, line.UnitPrice, line.Quantity)
		}
		sum = sum.Plus(line.LineSubtotal)
	}
	if !cart.Subtotal.Equal(sum) {
		t.Fatalf("subtotal %s != sum of lines %s", cart.Subtotal, sum)
	}
}
