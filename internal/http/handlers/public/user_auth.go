package public

import (
	"strings"

	"github.com/petshop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// GetSession 当前会话
func (h *Handler) GetSession(c *gin.Context) {
	response.Success(c, gin.H{
		"authenticated": h.AuthStore.IsAuthenticated(),
		"user":          h.AuthStore.User(),
		"tenant":        h.TenantStore.Current(),
	})
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.credentials_required", nil)
		return
	}
	user, err := h.AuthStore.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		respondSessionError(c, err, "error.login_failed")
		return
	}
	h.reloadCart(c)
	response.Success(c, gin.H{"user": user})
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.credentials_required", nil)
		return
	}
	user, err := h.AuthStore.Register(c.Request.Context(), strings.TrimSpace(req.Email), req.Password, req.Name)
	if err != nil {
		respondSessionError(c, err, "error.register_failed")
		return
	}
	h.reloadCart(c)
	response.Success(c, gin.H{"user": user})
}

// RefreshProfile 重新拉取用户资料
func (h *Handler) RefreshProfile(c *gin.Context) {
	user, err := h.AuthStore.RefreshProfile(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, backendErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	h.AuthStore.Logout(c.Request.Context())
	response.Success(c, gin.H{"ok": true})
}

// reloadCart 登录后同步购物车，失败只记录
func (h *Handler) reloadCart(c *gin.Context) {
	if h.TenantStore.Current() == nil {
		return
	}
	if err := h.CartStore.Load(c.Request.Context()); err != nil {
		requestLog(c).Warnw("session_cart_load_failed", "error", err)
	}
}
