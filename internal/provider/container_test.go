package provider

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/mockapi"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/storage"

	"github.com/gin-gonic/gin"
)

func newTestConfig(baseURL string) *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:           baseURL,
			TimeoutSeconds:    5,
			TenantHeader:      constants.DefaultTenantHeader,
			DefaultTenantSlug: mockapi.DemoTenantSlug,
		},
		Storage: config.StorageConfig{
			Driver:           constants.StorageDriverGorm,
			SecurePassphrase: "container-test",
		},
	}
}

func TestContainerRestoresSessionAcrossRestarts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := mockapi.New(mockapi.Options{JWTSecret: "container-secret"})
	tenant := mock.SeedDemo()
	server := httptest.NewServer(mock.Handler())
	t.Cleanup(server.Close)

	db, err := models.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	cfg := newTestConfig(server.URL + "/api")
	ctx := context.Background()

	first := Build(cfg, db, nil)
	if err := first.Restore(ctx); err != nil {
		t.Fatalf("first restore failed: %v", err)
	}
	if first.TenantStore.TenantID() != tenant.ID {
		t.Fatalf("default tenant not resolved")
	}
	if _, err := first.AuthStore.Register(ctx, "ana@example.com", "senha-forte", "Ana"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := first.CartStore.Add(ctx, models.Product{ID: 2, Price: models.MustMoney("24.50"), Active: true}, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	first.WishlistStore.Toggle(ctx, 7)

	second := Build(cfg, db, nil)
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("second restore failed: %v", err)
	}
	if !second.AuthStore.IsAuthenticated() {
		t.Fatalf("session not restored")
	}
	if got := second.CartStore.Snapshot(); got.TotalItemCount() != 2 || got.Subtotal.String() != "49.00" {
		t.Fatalf("cart not reloaded: %+v", got)
	}
	if !second.WishlistStore.Contains(7) {
		t.Fatalf("wishlist not restored")
	}

	entry, err := second.StorageEntryRepo.GetByKey(constants.StorageKeyAuthToken)
	if err != nil || entry == nil || !entry.Secure {
		t.Fatalf("token entry = %+v, %v", entry, err)
	}
	if token := second.AuthStore.Token(); entry.Value == token {
		t.Fatalf("token stored in plaintext")
	}
}

func TestContainerSessionEndResetsCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := mockapi.New(mockapi.Options{JWTSecret: "container-secret"})
	mock.SeedDemo()
	server := httptest.NewServer(mock.Handler())
	t.Cleanup(server.Close)

	cfg := newTestConfig(server.URL + "/api")
	cfg.Storage.Driver = constants.StorageDriverMemory
	c := Build(cfg, nil, nil)
	ctx := context.Background()
	if err := c.Restore(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if _, ok := c.SecureStore.Backend().(*storage.MemoryStore); !ok {
		t.Fatalf("memory driver not selected")
	}
	if _, err := c.AuthStore.Register(ctx, "ana@example.com", "senha-forte", "Ana"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := c.CartStore.Add(ctx, models.Product{ID: 3, Price: models.MustMoney("9.99"), Active: true}, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	c.AuthStore.Logout(ctx)
	if !c.CartStore.Snapshot().IsEmpty() {
		t.Fatalf("logout should reset the cart")
	}
}
