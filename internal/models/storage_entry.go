package models

import "time"

// StorageEntry 本地键值持久化记录
type StorageEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:191;not null" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	Secure    bool      `gorm:"not null;default:false" json:"secure"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

// TableName 指定表名
func (StorageEntry) TableName() string {
	return "storage_entries"
}
