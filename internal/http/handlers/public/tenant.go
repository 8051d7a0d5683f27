package public

import (
	"strings"

	handlershared "github.com/petshop-next/internal/http/handlers/shared"
	"github.com/petshop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// TenantSlugRequest 按 slug 选择门店
type TenantSlugRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// TenantQRRequest 按二维码内容选择门店
type TenantQRRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// GetTenant 当前门店
func (h *Handler) GetTenant(c *gin.Context) {
	response.Success(c, h.TenantStore.Current())
}

// SelectTenantBySlug 按 slug 选择门店
func (h *Handler) SelectTenantBySlug(c *gin.Context) {
	var req TenantSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.tenant_not_found", nil)
		return
	}
	tenant, err := h.TenantStore.ResolveBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		respondTenantError(c, err)
		return
	}
	h.reloadCart(c)
	response.Success(c, tenant)
}

// SelectTenantByQR 按扫码结果选择门店
func (h *Handler) SelectTenantByQR(c *gin.Context) {
	var req TenantQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.tenant_qr_invalid", nil)
		return
	}
	tenant, err := h.TenantStore.ResolveFromQR(c.Request.Context(), req.Payload)
	if err != nil {
		respondTenantError(c, err)
		return
	}
	h.reloadCart(c)
	response.Success(c, tenant)
}

// ClearTenant 清除门店选择
func (h *Handler) ClearTenant(c *gin.Context) {
	h.TenantStore.Clear(c.Request.Context())
	response.Success(c, gin.H{"ok": true})
}

// GetTenantQRCode 门店二维码 PNG
func (h *Handler) GetTenantQRCode(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("slug"))
	size := handlershared.ParseIntQuery(c, "size", 0)
	png, err := h.TenantService.QRCode(slug, size)
	if err != nil {
		respondTenantError(c, err)
		return
	}
	response.Binary(c, "image/png", "", png)
}
