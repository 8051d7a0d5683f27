package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/mockapi"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/provider"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type gateway struct {
	t      *testing.T
	engine *gin.Engine
	mock   *mockapi.Server
	tenant models.Tenant
	c      *provider.Container
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mock := mockapi.New(mockapi.Options{JWTSecret: "router-secret"})
	tenant := mock.SeedDemo()
	server := httptest.NewServer(mock.Handler())
	t.Cleanup(server.Close)

	db, err := models.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		API: config.APIConfig{
			BaseURL:        server.URL + "/api",
			TimeoutSeconds: 5,
			TenantHeader:   constants.DefaultTenantHeader,
		},
		Storage: config.StorageConfig{Driver: constants.StorageDriverMemory, SecurePassphrase: "router-test"},
	}
	c := provider.Build(cfg, db, nil)
	if err := c.Restore(context.Background()); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	return &gateway{t: t, engine: SetupRouter(cfg, c), mock: mock, tenant: tenant, c: c}
}

func (g *gateway) do(method, path string, body interface{}, headers ...string) (envelope, *httptest.ResponseRecorder) {
	g.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			g.t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	g.engine.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			g.t.Fatalf("decode %s %s failed: %v", method, path, err)
		}
	}
	return env, w
}

func (g *gateway) ok(method, path string, body interface{}, headers ...string) json.RawMessage {
	g.t.Helper()
	env, _ := g.do(method, path, body, headers...)
	if env.StatusCode != 0 {
		g.t.Fatalf("%s %s status_code=%d msg=%s", method, path, env.StatusCode, env.Msg)
	}
	return env.Data
}

func TestGatewayGuardsRequireTenantAndSession(t *testing.T) {
	g := newGateway(t)

	if env, _ := g.do(http.MethodGet, "/api/v1/catalog/products", nil); env.StatusCode != 400 {
		t.Fatalf("catalog without tenant want 400 got %d", env.StatusCode)
	}
	g.ok(http.MethodPost, "/api/v1/tenant/slug", gin.H{"slug": mockapi.DemoTenantSlug})
	g.ok(http.MethodGet, "/api/v1/catalog/products?q=areia", nil)

	if env, _ := g.do(http.MethodGet, "/api/v1/cart", nil); env.StatusCode != 401 {
		t.Fatalf("cart without session want 401 got %d", env.StatusCode)
	}
	env, w := g.do(http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || env.StatusCode != 0 {
		t.Fatalf("health check failed: %d", w.Code)
	}
}

func TestGatewayShoppingFlow(t *testing.T) {
	g := newGateway(t)
	g.ok(http.MethodPost, "/api/v1/tenant/slug", gin.H{"slug": mockapi.DemoTenantSlug})
	g.ok(http.MethodPost, "/api/v1/session/register", gin.H{"email": "ana@example.com", "password": "senha-forte", "name": "Ana"})

	var detail struct {
		EffectivePrice string `json:"effective_price"`
	}
	if err := json.Unmarshal(g.ok(http.MethodGet, "/api/v1/catalog/products/1", nil), &detail); err != nil {
		t.Fatalf("decode product failed: %v", err)
	}
	if detail.EffectivePrice != "89.90" {
		t.Fatalf("effective price want 89.90 got %s", detail.EffectivePrice)
	}

	g.ok(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1})
	g.ok(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 2, "quantity": 2})
	var cart struct {
		Subtotal  string `json:"subtotal"`
		ItemCount int    `json:"item_count"`
	}
	if err := json.Unmarshal(g.ok(http.MethodPut, "/api/v1/cart/items/2", gin.H{"quantity": 3}), &cart); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	if cart.ItemCount != 4 || cart.Subtotal != "163.40" {
		t.Fatalf("cart = %+v", cart)
	}

	if env, _ := g.do(http.MethodPost, "/api/v1/checkout", gin.H{"mode": "delivery"}); env.StatusCode != 400 {
		t.Fatalf("delivery without address want 400 got %d", env.StatusCode)
	}

	var order models.Order
	data := g.ok(http.MethodPost, "/api/v1/checkout", gin.H{"mode": "pickup", "payment_description": "Pix"}, constants.HeaderIdempotencyKey, "router-key-1")
	if err := json.Unmarshal(data, &order); err != nil {
		t.Fatalf("decode order failed: %v", err)
	}
	if order.RetrievalType != constants.RetrievalTypeStorePickup || order.Total.String() != "163.40" {
		t.Fatalf("order = %+v", order)
	}
	if !g.c.CartStore.Snapshot().IsEmpty() {
		t.Fatalf("cart should be empty after checkout")
	}

	var orders []models.Order
	if err := json.Unmarshal(g.ok(http.MethodGet, "/api/v1/orders", nil), &orders); err != nil || len(orders) != 1 {
		t.Fatalf("orders = %v, %v", orders, err)
	}

	_, w := g.do(http.MethodGet, "/api/v1/orders/"+jsonID(order.ID)+"/receipt", nil)
	if w.Header().Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("receipt is not a pdf: %s", w.Header().Get("Content-Type"))
	}

	env, _ := g.do(http.MethodPost, "/api/v1/orders/"+jsonID(order.ID)+"/repeat", nil)
	if env.StatusCode != 0 || !strings.Contains(env.Msg, "2") {
		t.Fatalf("repeat = %d %s", env.StatusCode, env.Msg)
	}
	if got := g.c.CartStore.Snapshot().TotalItemCount(); got != 4 {
		t.Fatalf("repeat should restore 4 items, got %d", got)
	}

	var receipts []models.OrderReceipt
	if err := json.Unmarshal(g.ok(http.MethodGet, "/api/v1/receipts", nil), &receipts); err != nil || len(receipts) != 1 {
		t.Fatalf("receipts = %v, %v", receipts, err)
	}
}

func TestGatewayLogoutClearsCartAndSession(t *testing.T) {
	g := newGateway(t)
	g.ok(http.MethodPost, "/api/v1/tenant/slug", gin.H{"slug": mockapi.DemoTenantSlug})
	g.ok(http.MethodPost, "/api/v1/session/register", gin.H{"email": "bia@example.com", "password": "senha-forte"})
	g.ok(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 3, "quantity": 2})

	g.ok(http.MethodPost, "/api/v1/session/logout", nil)
	if env, _ := g.do(http.MethodGet, "/api/v1/cart", nil); env.StatusCode != 401 {
		t.Fatalf("cart after logout want 401 got %d", env.StatusCode)
	}
	if !g.c.CartStore.Snapshot().IsEmpty() {
		t.Fatalf("logout should reset the local cart")
	}
	if env, _ := g.do(http.MethodPost, "/api/v1/session/login", gin.H{"email": "bia@example.com", "password": "errada"}); env.StatusCode != 401 {
		t.Fatalf("wrong password want 401 got %d", env.StatusCode)
	}
}

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
