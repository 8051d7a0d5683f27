package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/petshop-next/internal/models"
)

type cartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// GetCart 获取后端购物车 GET /cart
func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.doJSON(ctx, http.MethodGet, "/cart", nil, &cart, nil); err != nil {
		return nil, err
	}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return &cart, nil
}

// AddToCart POST /cart/add
func (c *Client) AddToCart(ctx context.Context, productID uint, quantity int) error {
	return c.doJSON(ctx, http.MethodPost, "/cart/add", cartItemRequest{ProductID: productID, Quantity: quantity}, nil, nil)
}

// UpdateCartItem PUT /cart/update
func (c *Client) UpdateCartItem(ctx context.Context, productID uint, quantity int) error {
	return c.doJSON(ctx, http.MethodPut, "/cart/update", cartItemRequest{ProductID: productID, Quantity: quantity}, nil, nil)
}

// RemoveCartItem DELETE /cart/remove/{product_id}
func (c *Client) RemoveCartItem(ctx context.Context, productID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/cart/remove/%d", productID), nil, nil, nil)
}

// ClearCart DELETE /cart/clear
func (c *Client) ClearCart(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/cart/clear", nil, nil, nil)
}
