package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/petshop-next/internal/constants"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("storage key not found")

// Store 键值持久化接口
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// GetJSON 读取并解析 JSON，键不存在时返回 false
func GetJSON(ctx context.Context, store Store, key string, dest interface{}) (bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(raw) == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON 编码为 JSON 后写入
func SetJSON(ctx context.Context, store Store, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Set(ctx, key, string(payload))
}

// NormalizeDriver 归一化驱动名，未知值回退为 gorm
func NormalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case constants.StorageDriverRedis:
		return constants.StorageDriverRedis
	case constants.StorageDriverMemory:
		return constants.StorageDriverMemory
	default:
		return constants.StorageDriverGorm
	}
}
