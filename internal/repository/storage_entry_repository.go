package repository

import (
	"errors"
	"time"

	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageEntryRepository 本地键值存储数据访问接口
type StorageEntryRepository interface {
	GetByKey(key string) (*models.StorageEntry, error)
	Upsert(entry *models.StorageEntry) error
	DeleteByKey(key string) error
	ListKeys(prefix string) ([]string, error)
}

// GormStorageEntryRepository GORM 实现
type GormStorageEntryRepository struct {
	db *gorm.DB
}

// NewStorageEntryRepository 创建键值存储仓库
func NewStorageEntryRepository(db *gorm.DB) *GormStorageEntryRepository {
	return &GormStorageEntryRepository{db: db}
}

// GetByKey 按键读取，不存在返回 nil
func (r *GormStorageEntryRepository) GetByKey(key string) (*models.StorageEntry, error) {
	var entry models.StorageEntry
	if err := r.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// Upsert 写入或覆盖
func (r *GormStorageEntryRepository) Upsert(entry *models.StorageEntry) error {
	if entry == nil {
		return nil
	}
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "secure", "updated_at"}),
	}).Create(entry).Error
}

// DeleteByKey 删除，键不存在时不报错
func (r *GormStorageEntryRepository) DeleteByKey(key string) error {
	return r.db.Where("key = ?", key).Delete(&models.StorageEntry{}).Error
}

// ListKeys 列出指定前缀的键
func (r *GormStorageEntryRepository) ListKeys(prefix string) ([]string, error) {
	var keys []string
	query := r.db.Model(&models.StorageEntry{})
	if prefix != "" {
		query = query.Where("key LIKE ?", prefix+"%")
	}
	if err := query.Order("key asc").Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
