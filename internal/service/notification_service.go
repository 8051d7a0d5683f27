package service

import (
	"context"
	"strings"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/noncritical"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/store"

	"github.com/hibiken/asynq"
)

const pushDeliverTimeout = 15 * time.Second

// PushAPI 推送令牌远端接口
type PushAPI interface {
	RegisterPushToken(ctx context.Context, token, platform string) error
}

// PushEnqueuer 推送注册任务入队
type PushEnqueuer interface {
	Enabled() bool
	EnqueuePushTokenRegister(payload queue.PushTokenRegisterPayload, opts ...asynq.Option) error
}

// NotificationService 推送令牌注册（尽力而为，失败不会传给调用方）
type NotificationService struct {
	api     PushAPI
	queue   PushEnqueuer
	tenants *store.TenantStore
}

// NewNotificationService 创建推送服务
func NewNotificationService(api PushAPI, q PushEnqueuer, tenants *store.TenantStore) *NotificationService {
	return &NotificationService{api: api, queue: q, tenants: tenants}
}

// NormalizePlatform 校验推送平台
func NormalizePlatform(platform string) (string, bool) {
	switch p := strings.ToLower(strings.TrimSpace(platform)); p {
	case constants.PushPlatformAndroid, constants.PushPlatformIOS, constants.PushPlatformWeb:
		return p, true
	case "":
		return constants.PushPlatformAndroid, true
	default:
		return "", false
	}
}

// RegisterPushToken 登记推送令牌；只有入参校验错误会返回，投递失败一律按非关键错误记录
func (s *NotificationService) RegisterPushToken(token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrPushTokenInvalid
	}
	normalized, ok := NormalizePlatform(platform)
	if !ok {
		return ErrPushTokenInvalid
	}
	payload := queue.PushTokenRegisterPayload{
		Token:    token,
		Platform: normalized,
		TenantID: s.tenants.TenantID(),
	}

	if s.queue != nil && s.queue.Enabled() {
		if err := s.queue.EnqueuePushTokenRegister(payload); err != nil {
			noncritical.Report("push_token_enqueue", err, "platform", normalized)
		}
		return nil
	}
	noncritical.Go("push_token_register", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), pushDeliverTimeout)
		defer cancel()
		return s.Deliver(ctx, payload)
	})
	return nil
}

// Deliver 调用后端登记令牌（供队列消费者与本地协程使用）
func (s *NotificationService) Deliver(ctx context.Context, payload queue.PushTokenRegisterPayload) error {
	if strings.TrimSpace(payload.Token) == "" {
		return ErrPushTokenInvalid
	}
	if current := s.tenants.TenantID(); payload.TenantID != "" && current != payload.TenantID {
		logger.Debugw("push_token_skip_tenant_changed",
			"payload_tenant_id", payload.TenantID,
			"current_tenant_id", current,
		)
		return nil
	}
	if err := s.api.RegisterPushToken(ctx, payload.Token, payload.Platform); err != nil {
		return err
	}
	logger.Infow("push_token_registered", "platform", payload.Platform, "tenant_id", payload.TenantID)
	return nil
}
