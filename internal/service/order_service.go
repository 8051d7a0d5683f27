package service

import (
	"context"
	"errors"

	"github.com/petshop-next/internal/apiclient"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/store"
)

// OrderAPI 订单远端接口
type OrderAPI interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
	GetProduct(ctx context.Context, productID uint) (*models.Product, error)
}

// RepeatFailure 再来一单中未能加入购物车的商品
type RepeatFailure struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// RepeatResult 再来一单结果（部分成功）
type RepeatResult struct {
	Adicionados int             `json:"adicionados"`
	Total       int             `json:"total"`
	Falhas      []RepeatFailure `json:"falhas"`
}

// 再来一单失败原因
const (
	RepeatReasonUnavailable = "unavailable"
	RepeatReasonNotFound    = "not_found"
	RepeatReasonRejected    = "rejected"
	RepeatReasonTransport   = "transport"
)

// OrderService 订单查询与再来一单
type OrderService struct {
	api      OrderAPI
	cart     *store.CartStore
	tenants  *store.TenantStore
	receipts repository.OrderReceiptRepository
}

// NewOrderService 创建订单服务
func NewOrderService(api OrderAPI, cart *store.CartStore, tenants *store.TenantStore, receipts repository.OrderReceiptRepository) *OrderService {
	return &OrderService{api: api, cart: cart, tenants: tenants, receipts: receipts}
}

// List 当前用户在当前门店的订单
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	if s.tenants.Current() == nil {
		return nil, ErrTenantRequired
	}
	return s.api.ListOrders(ctx)
}

// Get 订单详情
func (s *OrderService) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderIDInvalid
	}
	if s.tenants.Current() == nil {
		return nil, ErrTenantRequired
	}
	return s.api.GetOrder(ctx, orderID)
}

// ListReceipts 本地归档的订单回执
func (s *OrderService) ListReceipts(page, pageSize int) ([]models.OrderReceipt, int64, error) {
	if s.receipts == nil {
		return []models.OrderReceipt{}, 0, nil
	}
	return s.receipts.List(repository.OrderReceiptListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: s.tenants.TenantID(),
	})
}

// Repeat 将历史订单的商品逐个重新加入购物车；单个商品失败不影响其余商品
func (s *OrderService) Repeat(ctx context.Context, orderID uint) (*RepeatResult, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &RepeatResult{Total: len(order.Items), Falhas: []RepeatFailure{}}
	for _, item := range order.Items {
		if reason := s.repeatItem(ctx, item); reason != "" {
			result.Falhas = append(result.Falhas, RepeatFailure{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				Reason:    reason,
			})
			continue
		}
		result.Adicionados++
	}

	logger.Infow("order_repeat_finished",
		"order_id", order.ID,
		"added", result.Adicionados,
		"total", result.Total,
	)
	return result, nil
}

func (s *OrderService) repeatItem(ctx context.Context, item models.OrderItem) string {
	product, err := s.api.GetProduct(ctx, item.ProductID)
	if err != nil {
		logger.Warnw("order_repeat_fetch_product_failed", "product_id", item.ProductID, "error", err)
		return repeatReason(err)
	}
	if product == nil || !product.Active {
		return RepeatReasonUnavailable
	}
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if err := s.cart.Add(ctx, *product, quantity); err != nil {
		logger.Warnw("order_repeat_add_failed", "product_id", item.ProductID, "error", err)
		return repeatReason(err)
	}
	return ""
}

func repeatReason(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		return RepeatReasonNotFound
	case errors.Is(err, apiclient.ErrTransport):
		return RepeatReasonTransport
	case errors.Is(err, store.ErrInvalidProduct):
		return RepeatReasonUnavailable
	default:
		return RepeatReasonRejected
	}
}
