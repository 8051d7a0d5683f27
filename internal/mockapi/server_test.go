package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server   *Server
	tenantID string
	token    string
}

func setupMockTest(t *testing.T) *testEnv {
	t.Helper()
	server := New(Options{JWTSecret: "test-secret"})
	tenant := server.SeedDemo()
	env := &testEnv{server: server, tenantID: tenant.ID}

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":    "ana@example.com",
		"password": "segredo1",
		"name":     "Ana",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register want 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var auth struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &auth); err != nil || auth.AccessToken == "" {
		t.Fatalf("decode register response failed: %v %s", err, rec.Body.String())
	}
	env.token = auth.AccessToken
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", e.tenantID)
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestTenantHeaderAndTokenRequired(t *testing.T) {
	env := setupMockTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing tenant want 400 got %d", rec.Code)
	}

	env.token = "garbage"
	if rec := env.do(t, http.MethodGet, "/api/cart", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token want 401 got %d", rec.Code)
	}
}

func TestCartAddFoldsAndRejectsInactive(t *testing.T) {
	env := setupMockTest(t)

	for i := 0; i < 2; i++ {
		if rec := env.do(t, http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": 7, "quantity": 1}, nil); rec.Code != http.StatusOK {
			t.Fatalf("add want 200 got %d", rec.Code)
		}
	}
	if got := env.server.CartQuantity(env.tenantID, "ana@example.com", 7); got != 2 {
		t.Fatalf("cart quantity want 2 got %d", got)
	}
	if rec := env.do(t, http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": 4, "quantity": 1}, nil); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("inactive product want 422 got %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/cart", nil, nil)
	var cart struct {
		Items    []map[string]interface{} `json:"items"`
		Subtotal string                   `json:"subtotal"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Subtotal != "39.80" {
		t.Fatalf("unexpected cart: %s", rec.Body.String())
	}
}

func TestFinalizeIdempotency(t *testing.T) {
	env := setupMockTest(t)
	env.do(t, http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": 2, "quantity": 2}, nil)

	body := map[string]interface{}{"destination_city": "Campinas", "retrieval_type": "app_loja", "origin": "app"}
	headers := map[string]string{"Idempotency-Key": "k-1"}

	first := env.do(t, http.MethodPost, "/api/checkout/finalize", body, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("finalize want 201 got %d: %s", first.Code, first.Body.String())
	}
	replay := env.do(t, http.MethodPost, "/api/checkout/finalize", body, headers)
	if replay.Code != http.StatusCreated || replay.Body.String() != first.Body.String() {
		t.Fatalf("replay should return the first response, got %d %s", replay.Code, replay.Body.String())
	}
	if env.server.OrderCount(env.tenantID) != 1 {
		t.Fatalf("want exactly 1 order got %d", env.server.OrderCount(env.tenantID))
	}

	body["retrieval_type"] = "terceiro"
	if rec := env.do(t, http.MethodPost, "/api/checkout/finalize", body, headers); rec.Code != http.StatusConflict {
		t.Fatalf("reused key with other body want 409 got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/checkout/finalize", body, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing key want 400 got %d", rec.Code)
	}
}

func TestFailedFinalizeReleasesKey(t *testing.T) {
	env := setupMockTest(t)
	headers := map[string]string{"Idempotency-Key": "k-empty"}
	body := map[string]interface{}{"destination_city": "Campinas", "retrieval_type": "app_loja", "origin": "app"}

	if rec := env.do(t, http.MethodPost, "/api/checkout/finalize", body, headers); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty cart want 422 got %d", rec.Code)
	}
	env.do(t, http.MethodPost, "/api/cart/add", map[string]interface{}{"product_id": 3, "quantity": 1}, nil)
	if rec := env.do(t, http.MethodPost, "/api/checkout/finalize", body, headers); rec.Code != http.StatusCreated {
		t.Fatalf("retry after failure want 201 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFailNextInjectsStatusOnce(t *testing.T) {
	env := setupMockTest(t)
	env.server.FailNext(http.MethodGet, "/api/cart", http.StatusServiceUnavailable)

	if rec := env.do(t, http.MethodGet, "/api/cart", nil, nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("injected fault want 503 got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/cart", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("second call want 200 got %d", rec.Code)
	}
	if got := env.server.Requests(http.MethodGet, "/api/cart"); got != 2 {
		t.Fatalf("request counter want 2 got %d", got)
	}
}

func TestBarcodeLookup(t *testing.T) {
	env := setupMockTest(t)
	if rec := env.do(t, http.MethodGet, "/api/products/barcode/7891000000073", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("known barcode want 200 got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/products/barcode/000", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown barcode want 404 got %d", rec.Code)
	}
}
