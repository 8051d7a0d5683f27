package public

import (
	handlershared "github.com/petshop-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getProductID(c *gin.Context, name string) (uint, bool) {
	return handlershared.ParseUintParam(c, name, "error.product_not_found")
}

func getOrderID(c *gin.Context) (uint, bool) {
	return handlershared.ParseUintParam(c, "id", "error.order_id_invalid")
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}
