package repository

import (
	"errors"

	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderReceiptListFilter 查询本地回执列表的过滤条件
type OrderReceiptListFilter struct {
	Page     int
	PageSize int
	TenantID string
}

// OrderReceiptRepository 本地回执数据访问接口
type OrderReceiptRepository interface {
	Save(receipt *models.OrderReceipt) error
	GetByOrderID(tenantID string, orderID uint) (*models.OrderReceipt, error)
	List(filter OrderReceiptListFilter) ([]models.OrderReceipt, int64, error)
}

// GormOrderReceiptRepository GORM 实现
type GormOrderReceiptRepository struct {
	db *gorm.DB
}

// NewOrderReceiptRepository 创建回执仓库
func NewOrderReceiptRepository(db *gorm.DB) *GormOrderReceiptRepository {
	return &GormOrderReceiptRepository{db: db}
}

// Save 写入回执，同一门店同一订单重复写入时忽略
func (r *GormOrderReceiptRepository) Save(receipt *models.OrderReceipt) error {
	if receipt == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "tenant_id"}},
		DoNothing: true,
	}).Create(receipt).Error
}

// GetByOrderID 按订单读取回执，不存在返回 nil
func (r *GormOrderReceiptRepository) GetByOrderID(tenantID string, orderID uint) (*models.OrderReceipt, error) {
	var receipt models.OrderReceipt
	err := r.db.Where("tenant_id = ? AND order_id = ?", tenantID, orderID).First(&receipt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// List 分页列出回执
func (r *GormOrderReceiptRepository) List(filter OrderReceiptListFilter) ([]models.OrderReceipt, int64, error) {
	query := r.db.Model(&models.OrderReceipt{})
	if filter.TenantID != "" {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	return findPage[models.OrderReceipt](query.Order("created_at desc, id desc"), filter.Page, filter.PageSize)
}
