package router

import (
	"fmt"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/config"
	publichandlers "github.com/petshop-next/internal/http/handlers/public"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化本地网关路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := publichandlers.New(c)
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", cache.Prefix()),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	requireTenant := TenantRequiredMiddleware(c.TenantStore)
	requireSession := SessionRequiredMiddleware(c.AuthStore)

	apiV1 := r.Group("/api/v1")
	{
		session := apiV1.Group("/session")
		{
			session.GET("", h.GetSession)
			session.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), h.Login)
			session.POST("/register", h.Register)
			session.POST("/logout", h.Logout)
			session.POST("/refresh", requireSession, h.RefreshProfile)
		}

		tenant := apiV1.Group("/tenant")
		{
			tenant.GET("", h.GetTenant)
			tenant.POST("/slug", h.SelectTenantBySlug)
			tenant.POST("/qr", h.SelectTenantByQR)
			tenant.DELETE("", h.ClearTenant)
			tenant.GET("/qrcode", h.GetTenantQRCode)
		}

		// 目录浏览只需选择门店
		catalog := apiV1.Group("/catalog")
		catalog.Use(requireTenant)
		{
			catalog.GET("/products", h.GetProducts)
			catalog.GET("/products/:id", h.GetProduct)
			catalog.GET("/barcode/:code", h.GetProductByBarcode)
			catalog.POST("/products/:id/stock-alert", requireSession, h.CreateStockAlert)
		}

		wishlist := apiV1.Group("/wishlist")
		{
			wishlist.GET("", h.GetWishlist)
			wishlist.POST("/:product_id/toggle", h.ToggleWishlist)
		}

		// 购物与订单需要门店与会话
		shop := apiV1.Group("")
		shop.Use(requireTenant, requireSession)
		{
			shop.GET("/cart", h.GetCart)
			shop.POST("/cart/reload", h.ReloadCart)
			shop.POST("/cart/items", h.AddCartItem)
			shop.PUT("/cart/items/:product_id", h.UpdateCartItem)
			shop.DELETE("/cart/items/:product_id", h.RemoveCartItem)
			shop.DELETE("/cart", h.ClearCart)
			shop.POST("/checkout", h.Checkout)
			shop.GET("/orders", h.ListOrders)
			shop.GET("/orders/:id", h.GetOrder)
			shop.POST("/orders/:id/repeat", h.RepeatOrder)
			shop.GET("/orders/:id/receipt", h.GetOrderReceipt)
			shop.GET("/receipts", h.ListReceipts)
			shop.POST("/push/register", h.RegisterPushToken)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
