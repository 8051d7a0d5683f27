package public

import (
	"github.com/petshop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PushRegisterRequest 推送令牌登记请求
type PushRegisterRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform"`
}

// RegisterPushToken 登记推送令牌（后台投递，立即返回）
func (h *Handler) RegisterPushToken(c *gin.Context) {
	var req PushRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.push_token_invalid", nil)
		return
	}
	if err := h.NotificationService.RegisterPushToken(req.Token, req.Platform); err != nil {
		respondPushError(c, err)
		return
	}
	response.Success(c, gin.H{"accepted": true})
}
