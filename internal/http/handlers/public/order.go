package public

import (
	"fmt"

	handlershared "github.com/petshop-next/internal/http/handlers/shared"
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.OrderService.List(c.Request.Context())
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, orders)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := getOrderID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.Get(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// RepeatOrder 再来一单（部分成功时仍返回成功，附带失败明细）
func (h *Handler) RepeatOrder(c *gin.Context) {
	id, ok := getOrderID(c)
	if !ok {
		return
	}
	result, err := h.OrderService.Repeat(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	msg := i18n.Sprintf(i18n.ResolveLocale(c), "message.repeat_order_summary", result.Adicionados, result.Total)
	response.SuccessWithMsg(c, msg, gin.H{
		"result": result,
		"cart":   h.cartView(),
	})
}

// GetOrderReceipt 订单回执 PDF
func (h *Handler) GetOrderReceipt(c *gin.Context) {
	id, ok := getOrderID(c)
	if !ok {
		return
	}
	pdf, err := h.ReceiptService.Render(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Binary(c, "application/pdf", fmt.Sprintf("pedido-%d.pdf", id), pdf)
}

// ListReceipts 本地归档的订单回执
func (h *Handler) ListReceipts(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	receipts, total, err := h.OrderService.ListReceipts(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, receipts, handlershared.BuildPagination(page, pageSize, total))
}
