package public

import (
	"github.com/petshop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetWishlist 心愿单商品 ID
func (h *Handler) GetWishlist(c *gin.Context) {
	response.Success(c, gin.H{"product_ids": h.WishlistStore.List()})
}

// ToggleWishlist 切换心愿单，持久化失败不影响结果
func (h *Handler) ToggleWishlist(c *gin.Context) {
	id, ok := getProductID(c, "product_id")
	if !ok {
		return
	}
	present := h.WishlistStore.Toggle(c.Request.Context(), id)
	response.Success(c, gin.H{"product_id": id, "in_wishlist": present})
}
