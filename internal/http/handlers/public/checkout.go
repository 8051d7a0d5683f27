package public

import (
	"strings"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	Mode               string `json:"mode" binding:"required"`
	PickupBy           string `json:"pickup_by"`
	PickupKeyword      string `json:"pickup_keyword"`
	DeliveryAddress    string `json:"delivery_address"`
	DestinationCity    string `json:"destination_city"`
	PaymentDescription string `json:"payment_description"`
}

// Checkout 提交订单；客户端重试同一次结算时可通过 Idempotency-Key 头复用键
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.fulfillment_invalid", nil)
		return
	}
	order, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		Mode:               req.Mode,
		PickupBy:           req.PickupBy,
		PickupKeyword:      req.PickupKeyword,
		DeliveryAddress:    req.DeliveryAddress,
		DestinationCity:    req.DestinationCity,
		PaymentDescription: req.PaymentDescription,
		IdempotencyKey:     strings.TrimSpace(c.GetHeader(constants.HeaderIdempotencyKey)),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, order)
}
