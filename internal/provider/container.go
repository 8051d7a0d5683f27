package provider

import (
	"context"
	"errors"

	"github.com/petshop-next/internal/apiclient"
	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"
	"github.com/petshop-next/internal/storage"
	"github.com/petshop-next/internal/store"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	APIClient   *apiclient.Client

	// Repositories
	StorageEntryRepo repository.StorageEntryRepository
	OrderReceiptRepo repository.OrderReceiptRepository

	// Storage
	AsyncStore  storage.Store
	SecureStore *storage.SecureStore

	// Stores
	AuthStore     *store.AuthStore
	TenantStore   *store.TenantStore
	CartStore     *store.CartStore
	WishlistStore *store.WishlistStore

	// Services
	CheckoutService     *service.CheckoutService
	OrderService        *service.OrderService
	CatalogService      *service.CatalogService
	NotificationService *service.NotificationService
	ReceiptService      *service.ReceiptService
	TenantService       *service.TenantService
}

// NewContainer 初始化容器（使用全局数据库连接）
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}
	return Build(cfg, models.DB, queueClient)
}

// Build 按给定连接组装容器
func Build(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化本地存储
	c.initStorage()

	// 3. 初始化 API 客户端与会话状态
	c.initStores()

	// 4. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	if db == nil {
		return
	}
	c.StorageEntryRepo = repository.NewStorageEntryRepository(db)
	c.OrderReceiptRepo = repository.NewOrderReceiptRepository(db)
}

func (c *Container) initStorage() {
	driver := storage.NormalizeDriver(c.Config.Storage.Driver)
	var backend, secureBackend storage.Store
	switch {
	case driver == constants.StorageDriverRedis && cache.Enabled():
		redisStore := storage.NewRedisStore(cache.Client(), cache.Prefix())
		backend, secureBackend = redisStore, redisStore
	case driver == constants.StorageDriverGorm && c.StorageEntryRepo != nil:
		gormStore := storage.NewGormStore(c.StorageEntryRepo)
		backend, secureBackend = gormStore, gormStore.MarkSecure()
	default:
		if driver != constants.StorageDriverMemory {
			logger.Warnw("provider_storage_driver_fallback", "driver", driver, "fallback", constants.StorageDriverMemory)
		}
		memory := storage.NewMemoryStore()
		backend, secureBackend = memory, memory
	}
	c.AsyncStore = backend
	c.SecureStore = storage.NewSecureStore(secureBackend, c.Config.Storage.SecurePassphrase)
}

func (c *Container) initStores() {
	c.APIClient = apiclient.New(apiclient.Options{
		BaseURL:      c.Config.API.BaseURL,
		Timeout:      c.Config.API.Timeout(),
		TenantHeader: c.Config.API.TenantHeader,
	})
	c.AuthStore = store.NewAuthStore(c.APIClient, c.SecureStore)
	c.TenantStore = store.NewTenantStore(c.APIClient, c.SecureStore)
	c.CartStore = store.NewCartStore(c.APIClient)
	c.WishlistStore = store.NewWishlistStore(c.AsyncStore)
	c.APIClient.Bind(c.AuthStore, c.TenantStore)

	// 购物车属于 (会话, 门店)：登出、过期或换门店时丢弃本地视图，401 只作废令牌
	c.AuthStore.OnSessionEnd(c.CartStore.ResetOnSessionEnd)
	c.TenantStore.OnChange(func(_, _ *models.Tenant) {
		c.CartStore.Reset()
	})
}

func (c *Container) initServices() {
	c.CheckoutService = service.NewCheckoutService(c.APIClient, c.CartStore, c.AuthStore, c.TenantStore, c.OrderReceiptRepo, c.Config.Checkout)
	c.OrderService = service.NewOrderService(c.APIClient, c.CartStore, c.TenantStore, c.OrderReceiptRepo)
	c.CatalogService = service.NewCatalogService(c.APIClient, c.TenantStore)
	c.NotificationService = service.NewNotificationService(c.APIClient, c.QueueClient, c.TenantStore)
	c.ReceiptService = service.NewReceiptService(c.OrderService, c.TenantStore)
	c.TenantService = service.NewTenantService(c.TenantStore)
}

// Restore 启动时恢复持久化状态；会话与门店都存在时加载购物车
func (c *Container) Restore(ctx context.Context) error {
	if err := c.TenantStore.Restore(ctx); err != nil {
		return err
	}
	if c.TenantStore.Current() == nil && c.Config.API.DefaultTenantSlug != "" {
		if _, err := c.TenantStore.ResolveBySlug(ctx, c.Config.API.DefaultTenantSlug); err != nil {
			logger.Warnw("provider_default_tenant_resolve_failed", "slug", c.Config.API.DefaultTenantSlug, "error", err)
		}
	}
	if err := c.AuthStore.Restore(ctx); err != nil {
		return err
	}
	if err := c.WishlistStore.Restore(ctx); err != nil {
		logger.Warnw("provider_wishlist_restore_failed", "error", err)
	}
	if c.AuthStore.IsAuthenticated() && c.TenantStore.Current() != nil {
		if err := c.CartStore.Load(ctx); err != nil {
			logger.Warnw("provider_cart_initial_load_failed", "error", err)
		}
	}
	return nil
}

// Close 释放容器持有的连接
func (c *Container) Close() error {
	var errs []error
	if c.QueueClient != nil {
		errs = append(errs, c.QueueClient.Close())
	}
	errs = append(errs, cache.Close())
	return errors.Join(errs...)
}
