package public

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// GetProducts 搜索商品
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.CatalogService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := getProductID(c, "id")
	if !ok {
		return
	}
	product, err := h.CatalogService.Get(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, gin.H{
		"product":         product,
		"effective_price": product.EffectivePrice(),
		"in_wishlist":     h.WishlistStore.Contains(product.ID),
	})
}

// GetProductByBarcode 扫码查找商品
func (h *Handler) GetProductByBarcode(c *gin.Context) {
	product, err := h.CatalogService.FindByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	if product == nil {
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	response.Success(c, product)
}

// CreateStockAlert 到货提醒
func (h *Handler) CreateStockAlert(c *gin.Context) {
	id, ok := getProductID(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogService.CreateStockAlert(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.stock_alert_created"), gin.H{"product_id": id})
}
