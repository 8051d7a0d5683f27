package worker

import (
	"context"
	"errors"

	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/provider"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/service"

	"github.com/hibiken/asynq"
)

// PushDeliverer 推送令牌投递
type PushDeliverer interface {
	Deliver(ctx context.Context, payload queue.PushTokenRegisterPayload) error
}

// Consumer 异步任务消费者
type Consumer struct {
	Push PushDeliverer
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{}
	if c == nil {
		return consumer
	}
	if c.NotificationService != nil {
		consumer.Push = c.NotificationService
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPushTokenRegister, c.handlePushTokenRegister)
}

func (c *Consumer) handlePushTokenRegister(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Push == nil {
		logger.Debugw("worker_push_token_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePushTokenRegisterPayload(task)
	if err != nil {
		logger.Warnw("worker_push_token_unmarshal_failed", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	if err := c.Push.Deliver(ctx, payload); err != nil {
		if errors.Is(err, service.ErrPushTokenInvalid) {
			logger.Debugw("worker_push_token_skip_invalid_payload", "platform", payload.Platform)
			return nil
		}
		logger.Warnw("worker_push_token_deliver_failed",
			"platform", payload.Platform,
			"tenant_id", payload.TenantID,
			"error", err,
		)
		return err
	}
	return nil
}
