package models

import "time"

// OrderReceipt 已完成下单的本地回执存档
type OrderReceipt struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OrderID        uint      `gorm:"uniqueIndex:idx_receipt_tenant_order;not null" json:"order_id"`
	TenantID       string    `gorm:"uniqueIndex:idx_receipt_tenant_order;size:64;not null" json:"tenant_id"`
	IdempotencyKey string    `gorm:"size:64;index" json:"idempotency_key"`
	RetrievalType  string    `gorm:"size:32" json:"retrieval_type"`
	Total          Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total"`
	ItemCount      int       `gorm:"not null;default:0" json:"item_count"`
	Snapshot       string    `gorm:"type:text" json:"-"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (OrderReceipt) TableName() string {
	return "order_receipts"
}
