package queue

import (
	"encoding/json"
	"strings"

	"github.com/petshop-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPushTokenRegister 推送令牌注册任务
	TaskPushTokenRegister = constants.TaskPushTokenRegister
)

// PushTokenRegisterPayload 推送令牌注册任务载荷
type PushTokenRegisterPayload struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
	TenantID string `json:"tenant_id"`
}

// NewPushTokenRegisterTask 创建推送令牌注册任务
func NewPushTokenRegisterTask(payload PushTokenRegisterPayload) (*asynq.Task, error) {
	payload.Token = strings.TrimSpace(payload.Token)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPushTokenRegister, body), nil
}

// ParsePushTokenRegisterPayload 解析任务载荷
func ParsePushTokenRegisterPayload(task *asynq.Task) (PushTokenRegisterPayload, error) {
	var payload PushTokenRegisterPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
