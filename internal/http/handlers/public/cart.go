package public

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/models"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse 购物车响应
type CartResponse struct {
	models.Cart
	ItemCount int  `json:"item_count"`
	Loaded    bool `json:"loaded"`
}

func (h *Handler) cartView() CartResponse {
	cart := h.CartStore.Snapshot()
	return CartResponse{Cart: cart, ItemCount: cart.TotalItemCount(), Loaded: h.CartStore.Loaded()}
}

// GetCart 本地购物车视图（不阻塞于进行中的网络调用）
func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, h.cartView())
}

// ReloadCart 从后端整体替换购物车
func (h *Handler) ReloadCart(c *gin.Context) {
	if err := h.CartStore.Load(c.Request.Context()); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartView())
}

// AddCartItem 加入商品（数量缺省为 1）
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	// 单价以后端当前有效价为准，不读缓存
	product, err := h.CatalogService.GetFresh(c.Request.Context(), req.ProductID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	if err := h.CartStore.Add(c.Request.Context(), *product, req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartView())
}

// UpdateCartItem 修改数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := getProductID(c, "product_id")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CartStore.Update(c.Request.Context(), id, req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartView())
}

// RemoveCartItem 移除商品行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := getProductID(c, "product_id")
	if !ok {
		return
	}
	if err := h.CartStore.Remove(c.Request.Context(), id); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartView())
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.CartStore.Clear(c.Request.Context()); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartView())
}
