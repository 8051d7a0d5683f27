package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/petshop-next/internal/models"
)

// ListOrders GET /orders
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders", nil, &orders, nil); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder GET /orders/{id}
func (c *Client) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order, nil); err != nil {
		return nil, err
	}
	return &order, nil
}
