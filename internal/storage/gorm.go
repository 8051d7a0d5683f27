package storage

import (
	"context"

	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
)

// GormStore 基于数据库表 storage_entries 的持久化
type GormStore struct {
	repo   repository.StorageEntryRepository
	secure bool
}

// NewGormStore 创建数据库存储
func NewGormStore(repo repository.StorageEntryRepository) *GormStore {
	return &GormStore{repo: repo}
}

// MarkSecure 标记写入记录为加密内容（仅用于排查，不影响读写）
func (s *GormStore) MarkSecure() *GormStore {
	return &GormStore{repo: s.repo, secure: true}
}

// Get 读取
func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	entry, err := s.repo.GetByKey(key)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return "", ErrNotFound
	}
	return entry.Value, nil
}

// Set 写入
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.repo.Upsert(&models.StorageEntry{Key: key, Value: value, Secure: s.secure})
}

// Delete 删除
func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.repo.DeleteByKey(key)
}
