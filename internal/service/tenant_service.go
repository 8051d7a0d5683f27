package service

import (
	"fmt"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/store"

	"github.com/skip2/go-qrcode"
)

// TenantService 门店二维码
type TenantService struct {
	tenants *store.TenantStore
}

// NewTenantService 创建门店服务
func NewTenantService(tenants *store.TenantStore) *TenantService {
	return &TenantService{tenants: tenants}
}

// QRCode 生成门店选择二维码 PNG；slug 为空时使用当前门店
func (s *TenantService) QRCode(slug string, size int) ([]byte, error) {
	if slug == "" {
		current := s.tenants.Current()
		if current == nil {
			return nil, ErrTenantRequired
		}
		slug = current.Slug
	}
	normalized, err := store.NormalizeSlug(slug)
	if err != nil {
		return nil, err
	}
	if size <= 0 || size > 1024 {
		size = constants.TenantQRImageSize
	}
	png, err := qrcode.Encode(store.BuildTenantQR(normalized), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQRCodeRenderFailed, err)
	}
	return png, nil
}
