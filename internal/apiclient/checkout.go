package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
)

// FinalizeRequest 结算请求体，delivery_address 与 payment_method_name 缺省时显式传 null
type FinalizeRequest struct {
	DestinationCity   string  `json:"destination_city"`
	RetrievalType     string  `json:"retrieval_type"`
	DeliveryAddress   *string `json:"delivery_address"`
	PaymentMethodName *string `json:"payment_method_name"`
	Origin            string  `json:"origin"`
	PickupKeyword     string  `json:"pickup_keyword,omitempty"`
}

// Finalize POST /checkout/finalize，携带幂等键
func (c *Client) Finalize(ctx context.Context, idempotencyKey string, req FinalizeRequest) (*models.Order, error) {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}
	var order models.Order
	headers := map[string]string{constants.HeaderIdempotencyKey: key}
	if err := c.doJSON(ctx, http.MethodPost, "/checkout/finalize", req, &order, headers); err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, fmt.Errorf("%w: order id missing", ErrResponseInvalid)
	}
	return &order, nil
}
