package service

import (
	"context"
	"strings"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/store"
)

// CatalogAPI 商品目录远端接口
type CatalogAPI interface {
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	GetProduct(ctx context.Context, productID uint) (*models.Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	CreateStockAlert(ctx context.Context, productID uint) error
}

// CatalogService 商品目录（Redis 启用时读穿缓存）
type CatalogService struct {
	api     CatalogAPI
	tenants *store.TenantStore
}

// NewCatalogService 创建目录服务
func NewCatalogService(api CatalogAPI, tenants *store.TenantStore) *CatalogService {
	return &CatalogService{api: api, tenants: tenants}
}

func (s *CatalogService) tenantID() (string, error) {
	tenantID := s.tenants.TenantID()
	if tenantID == "" {
		return "", ErrTenantRequired
	}
	return tenantID, nil
}

// Search 按关键字搜索商品
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	if _, err := s.tenantID(); err != nil {
		return nil, err
	}
	products, err := s.api.SearchProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Get 商品详情
func (s *CatalogService) Get(ctx context.Context, productID uint) (*models.Product, error) {
	if productID == 0 {
		return nil, ErrProductIDInvalid
	}
	tenantID, err := s.tenantID()
	if err != nil {
		return nil, err
	}
	if cached, hit, err := cache.GetProduct(ctx, tenantID, productID); err != nil {
		logger.Debugw("catalog_cache_get_failed", "product_id", productID, "error", err)
	} else if hit {
		return cached, nil
	}

	product, err := s.api.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, tenantID, product)
	return product, nil
}

// GetFresh 绕过缓存读取商品并回写缓存，用于加购等需要当前价格的场景
func (s *CatalogService) GetFresh(ctx context.Context, productID uint) (*models.Product, error) {
	if productID == 0 {
		return nil, ErrProductIDInvalid
	}
	tenantID, err := s.tenantID()
	if err != nil {
		return nil, err
	}
	product, err := s.api.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, tenantID, product)
	return product, nil
}

// FindByBarcode 按条码查找商品，未匹配时返回 nil, nil
func (s *CatalogService) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, ErrBarcodeInvalid
	}
	tenantID, err := s.tenantID()
	if err != nil {
		return nil, err
	}
	if cached, hit, err := cache.GetProductByBarcode(ctx, tenantID, barcode); err != nil {
		logger.Debugw("catalog_cache_barcode_failed", "barcode", barcode, "error", err)
	} else if hit {
		return cached, nil
	}

	product, err := s.api.ProductByBarcode(ctx, barcode)
	if err != nil || product == nil {
		return nil, err
	}
	s.remember(ctx, tenantID, product)
	return product, nil
}

// CreateStockAlert 缺货提醒
func (s *CatalogService) CreateStockAlert(ctx context.Context, productID uint) error {
	if productID == 0 {
		return ErrProductIDInvalid
	}
	if _, err := s.tenantID(); err != nil {
		return err
	}
	return s.api.CreateStockAlert(ctx, productID)
}

func (s *CatalogService) remember(ctx context.Context, tenantID string, product *models.Product) {
	if err := cache.SetProduct(ctx, tenantID, product); err != nil {
		logger.Debugw("catalog_cache_set_failed", "product_id", product.ID, "error", err)
	}
}
