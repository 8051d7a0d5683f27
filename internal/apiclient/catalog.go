package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/petshop-next/internal/models"
)

// SearchProducts GET /products?q=
func (c *Client) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	path := "/products"
	if q := strings.TrimSpace(query); q != "" {
		path += "?" + url.Values{"q": []string{q}}.Encode()
	}
	var products []models.Product
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &products, nil); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct GET /products/{id}
func (c *Client) GetProduct(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductByBarcode GET /products/barcode/{code}，未匹配时返回 nil, nil
func (c *Client) ProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	err := c.doJSON(ctx, http.MethodGet, "/products/barcode/"+url.PathEscape(strings.TrimSpace(barcode)), nil, &product, nil)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateStockAlert POST /products/{id}/stock-alerts
func (c *Client) CreateStockAlert(ctx context.Context, productID uint) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/products/%d/stock-alerts", productID), struct{}{}, nil, nil)
}
