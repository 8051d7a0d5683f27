package store

import (
	"context"
	"errors"
	"sync"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/noncritical"
	"github.com/petshop-next/internal/storage"
)

// TenantStore 当前门店选择，解析一次后持久化，只在用户显式操作时清除
type TenantStore struct {
	api    TenantAPI
	secure storage.Store

	opMu sync.Mutex

	mu      sync.RWMutex
	tenant  *models.Tenant
	changed []func(previous, current *models.Tenant)
}

// NewTenantStore 创建门店选择
func NewTenantStore(api TenantAPI, secure storage.Store) *TenantStore {
	return &TenantStore{api: api, secure: secure}
}

// OnChange 注册门店切换回调
func (s *TenantStore) OnChange(fn func(previous, current *models.Tenant)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.changed = append(s.changed, fn)
	s.mu.Unlock()
}

// Restore 从加密存储恢复门店
func (s *TenantStore) Restore(ctx context.Context) error {
	var tenant models.Tenant
	ok, err := storage.GetJSON(ctx, s.secure, constants.StorageKeyTenant, &tenant)
	if err != nil {
		if errors.Is(err, storage.ErrSecretCorrupted) {
			logger.Warnw("tenant_restore_corrupted", "error", err)
			return nil
		}
		return err
	}
	if !ok || tenant.ID == "" {
		return nil
	}
	s.mu.Lock()
	s.tenant = &tenant
	s.mu.Unlock()
	return nil
}

// ResolveBySlug 按 slug 查询门店并设为当前门店
func (s *TenantStore) ResolveBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	normalized, err := NormalizeSlug(slug)
	if err != nil {
		return nil, err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	tenant, hit, cacheErr := cache.GetTenant(ctx, normalized)
	if cacheErr != nil {
		logger.Warnw("tenant_cache_get_failed", "slug", normalized, "error", cacheErr)
	}
	if !hit {
		tenant, err = s.api.TenantBySlug(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if err := cache.SetTenant(ctx, tenant); err != nil {
			logger.Warnw("tenant_cache_set_failed", "slug", normalized, "error", err)
		}
	}
	s.apply(ctx, tenant)
	out := *tenant
	return &out, nil
}

// ResolveFromQR 解析二维码内容后按 slug 选择门店
func (s *TenantStore) ResolveFromQR(ctx context.Context, payload string) (*models.Tenant, error) {
	slug, err := ParseTenantQR(payload)
	if err != nil {
		return nil, err
	}
	return s.ResolveBySlug(ctx, slug)
}

// Clear 清除门店选择（仅限用户显式操作）
func (s *TenantStore) Clear(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.apply(ctx, nil)
}

func (s *TenantStore) apply(ctx context.Context, tenant *models.Tenant) {
	s.mu.Lock()
	previous := s.tenant
	if tenant != nil {
		stored := *tenant
		s.tenant = &stored
	} else {
		s.tenant = nil
	}
	hooks := append([]func(previous, current *models.Tenant){}, s.changed...)
	current := s.tenant
	s.mu.Unlock()

	if tenant != nil {
		if err := storage.SetJSON(ctx, s.secure, constants.StorageKeyTenant, tenant); err != nil {
			noncritical.Report("tenant_persist", err, "tenant_id", tenant.ID)
		}
		logger.Infow("tenant_selected", "tenant_id", tenant.ID, "slug", tenant.Slug)
	} else {
		if err := s.secure.Delete(ctx, constants.StorageKeyTenant); err != nil {
			noncritical.Report("tenant_delete", err)
		}
		logger.Infow("tenant_cleared")
	}

	if sameTenant(previous, current) {
		return
	}
	for _, hook := range hooks {
		hook(previous, current)
	}
}

func sameTenant(a, b *models.Tenant) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// Current 当前门店副本
func (s *TenantStore) Current() *models.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tenant == nil {
		return nil
	}
	out := *s.tenant
	return &out
}

// TenantID 当前门店 ID，作为每个请求的租户头
func (s *TenantStore) TenantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tenant == nil {
		return ""
	}
	return s.tenant.ID
}
