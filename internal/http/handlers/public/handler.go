package public

import "github.com/petshop-next/internal/provider"

// Handler 本地网关处理器入口
// 说明：只做参数解析与错误映射，会话状态与业务编排都在 store/service 中。
type Handler struct {
	*provider.Container
}

// New 创建网关处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
