package constants

// 履约方式常量
const (
	FulfillmentModePickup   = "pickup"
	FulfillmentModeDelivery = "delivery"
)

// 自提方式常量
const (
	PickupBySelf       = "self"
	PickupByThirdParty = "third_party"
)

// 后端识别的取货类型
const (
	RetrievalTypeStorePickup      = "app_loja"
	RetrievalTypeThirdPartyPickup = "terceiro"
	RetrievalTypeDelivery         = "entrega"
)

// 结算默认值
const (
	DefaultPickupPlaceholder = "Retirada na loja"
	DefaultCheckoutOrigin    = "app"
)

// 订单状态常量（后端下发，客户端只读）
const (
	OrderStatusPending   = "pendente"
	OrderStatusConfirmed = "confirmado"
	OrderStatusReady     = "pronto"
	OrderStatusDelivered = "entregue"
	OrderStatusCanceled  = "cancelado"
)

// HTTP 头常量
const (
	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "Content-Type"
	HeaderIdempotencyKey = "Idempotency-Key"
	DefaultTenantHeader  = "X-Tenant-ID"
	ContentTypeJSON      = "application/json"
	BearerPrefix         = "Bearer "
)

// 本地存储键（固定）
const (
	StorageKeyAuthToken  = "petshop_auth_token"
	StorageKeyAuthUser   = "petshop_auth_user"
	StorageKeyTenant     = "petshop_tenant"
	StorageKeyWishlist   = "petshop_wishlist"
	StorageKeySecureSalt = "petshop_secure_salt"
)

// 存储驱动常量
const (
	StorageDriverGorm   = "gorm"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// 推送平台常量
const (
	PushPlatformAndroid = "android"
	PushPlatformIOS     = "ios"
	PushPlatformWeb     = "web"
)

// 租户二维码
const (
	TenantQRScheme    = "petshop"
	TenantQRHost      = "loja"
	TenantQRQueryKey  = "loja"
	TenantQRSlugKey   = "slug"
	TenantQRImageSize = 256
)

// 队列与任务常量
const (
	QueueDefault          = "default"
	QueueNonCritical      = "noncritical"
	TaskPushTokenRegister = "push:register_token"
)
