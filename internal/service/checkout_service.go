package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/petshop-next/internal/apiclient"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/noncritical"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/store"

	"github.com/google/uuid"
)

// FinalizeAPI 结算远端接口
type FinalizeAPI interface {
	Finalize(ctx context.Context, idempotencyKey string, req apiclient.FinalizeRequest) (*models.Order, error)
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	Mode               string `json:"mode"`
	PickupBy           string `json:"pickup_by"`
	PickupKeyword      string `json:"pickup_keyword"`
	DeliveryAddress    string `json:"delivery_address"`
	DestinationCity    string `json:"destination_city"`
	PaymentDescription string `json:"payment_description"`
	// IdempotencyKey 为空时每次尝试生成新键；调用方重试同一次结算时应传回同一个键
	IdempotencyKey string `json:"-"`
}

// CheckoutService 结算编排
type CheckoutService struct {
	api      FinalizeAPI
	cart     *store.CartStore
	auth     *store.AuthStore
	tenants  *store.TenantStore
	receipts repository.OrderReceiptRepository
	cfg      config.CheckoutConfig
	newKey   func() string
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	api FinalizeAPI,
	cart *store.CartStore,
	auth *store.AuthStore,
	tenants *store.TenantStore,
	receipts repository.OrderReceiptRepository,
	cfg config.CheckoutConfig,
) *CheckoutService {
	if strings.TrimSpace(cfg.PickupPlaceholder) == "" {
		cfg.PickupPlaceholder = constants.DefaultPickupPlaceholder
	}
	if strings.TrimSpace(cfg.Origin) == "" {
		cfg.Origin = constants.DefaultCheckoutOrigin
	}
	return &CheckoutService{
		api:      api,
		cart:     cart,
		auth:     auth,
		tenants:  tenants,
		receipts: receipts,
		cfg:      cfg,
		newKey:   NewIdempotencyKey,
	}
}

// SetKeyFunc 替换幂等键生成函数
func (s *CheckoutService) SetKeyFunc(fn func() string) {
	if fn != nil {
		s.newKey = fn
	}
}

// NewIdempotencyKey 生成 UUIDv7（毫秒时间戳 + 单调随机位）
func NewIdempotencyKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ResolveRetrievalType 履约方式映射为后端取货类型
func ResolveRetrievalType(mode, pickupBy string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case constants.FulfillmentModePickup:
		switch strings.ToLower(strings.TrimSpace(pickupBy)) {
		case "", constants.PickupBySelf:
			return constants.RetrievalTypeStorePickup, nil
		case constants.PickupByThirdParty, "third-party":
			return constants.RetrievalTypeThirdPartyPickup, nil
		}
	case constants.FulfillmentModeDelivery:
		return constants.RetrievalTypeDelivery, nil
	}
	return "", ErrFulfillmentModeInvalid
}

// Checkout 将当前购物车提交为订单；成功后清空本地购物车，失败时购物车保持不变
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	retrievalType, err := ResolveRetrievalType(input.Mode, input.PickupBy)
	if err != nil {
		return nil, err
	}
	tenant := s.tenants.Current()
	if tenant == nil {
		return nil, ErrTenantRequired
	}

	var order *models.Order
	var key string
	err = s.cart.FinalizeWith(func(snapshot models.Cart) error {
		if snapshot.IsEmpty() {
			return ErrCartEmpty
		}
		req, err := s.buildRequest(input, retrievalType, tenant)
		if err != nil {
			return err
		}
		key = strings.TrimSpace(input.IdempotencyKey)
		if key == "" {
			key = s.newKey()
		}
		created, err := s.api.Finalize(ctx, key, req)
		if err != nil {
			logger.Warnw("checkout_finalize_failed",
				"idempotency_key", key,
				"retrieval_type", retrievalType,
				"error", err,
			)
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("checkout_finalized",
		"order_id", order.ID,
		"tenant_id", tenant.ID,
		"idempotency_key", key,
		"total", order.Total.String(),
	)
	s.archive(tenant.ID, key, order)
	return order, nil
}

func (s *CheckoutService) buildRequest(input CheckoutInput, retrievalType string, tenant *models.Tenant) (apiclient.FinalizeRequest, error) {
	req := apiclient.FinalizeRequest{
		RetrievalType: retrievalType,
		Origin:        s.cfg.Origin,
	}

	if retrievalType == constants.RetrievalTypeDelivery {
		address := strings.TrimSpace(input.DeliveryAddress)
		if address == "" {
			address = s.profileAddress()
		}
		if address == "" {
			return req, ErrDeliveryAddressRequired
		}
		req.DeliveryAddress = &address
	} else {
		placeholder := s.cfg.PickupPlaceholder
		req.DeliveryAddress = &placeholder
	}
	if retrievalType == constants.RetrievalTypeThirdPartyPickup {
		req.PickupKeyword = strings.TrimSpace(input.PickupKeyword)
	}

	req.DestinationCity = strings.TrimSpace(input.DestinationCity)
	if req.DestinationCity == "" {
		req.DestinationCity = strings.TrimSpace(tenant.City)
	}
	if payment := strings.TrimSpace(input.PaymentDescription); payment != "" {
		req.PaymentMethodName = &payment
	}
	return req, nil
}

func (s *CheckoutService) profileAddress() string {
	if s.auth == nil {
		return ""
	}
	user := s.auth.User()
	if user == nil {
		return ""
	}
	return user.Address.Format()
}

func (s *CheckoutService) archive(tenantID, key string, order *models.Order) {
	if s.receipts == nil || order == nil {
		return
	}
	snapshot, err := json.Marshal(order)
	if err != nil {
		noncritical.Report("receipt_archive", err, "order_id", order.ID)
		return
	}
	receipt := &models.OrderReceipt{
		OrderID:        order.ID,
		TenantID:       tenantID,
		IdempotencyKey: key,
		RetrievalType:  order.RetrievalType,
		Total:          order.Total,
		ItemCount:      order.ItemCount(),
		Snapshot:       string(snapshot),
	}
	if err := s.receipts.Save(receipt); err != nil {
		noncritical.Report("receipt_archive", err, "order_id", order.ID)
	}
}
