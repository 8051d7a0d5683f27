package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/petshop-next/internal/models"
)

const (
	productCacheTTL = 2 * time.Minute
	tenantCacheTTL  = 10 * time.Minute
)

func productKey(tenantID string, productID uint) string {
	return fmt.Sprintf("catalog:%s:product:%d", tenantID, productID)
}

func barcodeKey(tenantID, barcode string) string {
	return fmt.Sprintf("catalog:%s:barcode:%s", tenantID, strings.TrimSpace(barcode))
}

func tenantSlugKey(slug string) string {
	return fmt.Sprintf("tenant:slug:%s", strings.ToLower(strings.TrimSpace(slug)))
}

// GetProduct 读取商品缓存
func GetProduct(ctx context.Context, tenantID string, productID uint) (*models.Product, bool, error) {
	if tenantID == "" || productID == 0 {
		return nil, false, nil
	}
	var product models.Product
	hit, err := GetJSON(ctx, productKey(tenantID, productID), &product)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &product, true, nil
}

// SetProduct 写入商品缓存，同时按条码建立索引
func SetProduct(ctx context.Context, tenantID string, product *models.Product) error {
	if tenantID == "" || product == nil || product.ID == 0 {
		return nil
	}
	if err := SetJSON(ctx, productKey(tenantID, product.ID), product, productCacheTTL); err != nil {
		return err
	}
	if product.Barcode == "" {
		return nil
	}
	return SetJSON(ctx, barcodeKey(tenantID, product.Barcode), product, productCacheTTL)
}

// GetProductByBarcode 按条码读取商品缓存
func GetProductByBarcode(ctx context.Context, tenantID, barcode string) (*models.Product, bool, error) {
	if tenantID == "" || strings.TrimSpace(barcode) == "" {
		return nil, false, nil
	}
	var product models.Product
	hit, err := GetJSON(ctx, barcodeKey(tenantID, barcode), &product)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &product, true, nil
}

// GetTenant 按 slug 读取门店缓存
func GetTenant(ctx context.Context, slug string) (*models.Tenant, bool, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, false, nil
	}
	var tenant models.Tenant
	hit, err := GetJSON(ctx, tenantSlugKey(slug), &tenant)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &tenant, true, nil
}

// SetTenant 写入门店缓存
func SetTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant == nil || tenant.Slug == "" {
		return nil
	}
	return SetJSON(ctx, tenantSlugKey(tenant.Slug), tenant, tenantCacheTTL)
}
