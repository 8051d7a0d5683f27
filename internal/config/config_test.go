package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestSetDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.API.Timeout() != 15*time.Second {
		t.Fatalf("default api timeout want 15s got %s", cfg.API.Timeout())
	}
	if cfg.API.TenantHeader != "X-Tenant-ID" {
		t.Fatalf("unexpected tenant header: %s", cfg.API.TenantHeader)
	}
	if cfg.Checkout.PickupPlaceholder != "Retirada na loja" {
		t.Fatalf("unexpected pickup placeholder: %s", cfg.Checkout.PickupPlaceholder)
	}
	if cfg.Storage.Driver != "gorm" {
		t.Fatalf("unexpected storage driver: %s", cfg.Storage.Driver)
	}
	if cfg.Queue.Queues["noncritical"] != 1 {
		t.Fatalf("noncritical queue weight missing: %+v", cfg.Queue.Queues)
	}
}

func TestAPITimeoutOverride(t *testing.T) {
	cfg := APIConfig{TimeoutSeconds: 3}
	if cfg.Timeout() != 3*time.Second {
		t.Fatalf("want 3s got %s", cfg.Timeout())
	}
	cfg.TimeoutSeconds = -1
	if cfg.Timeout() != 15*time.Second {
		t.Fatalf("non-positive timeout should fall back to 15s, got %s", cfg.Timeout())
	}
}
