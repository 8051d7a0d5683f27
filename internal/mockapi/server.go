// Package mockapi 提供内存版的宠物店后端，实现会话代理消费的 REST 边界。
package mockapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/petshop-next/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultJWTSecret = "mockapi-secret-change-me"

// Options 模拟后端配置
type Options struct {
	JWTSecret    string
	TenantHeader string
	TokenTTL     time.Duration
	// Latency 每个请求的人为延迟，用于并发测试
	Latency time.Duration
}

type userRecord struct {
	user         models.User
	passwordHash []byte
}

type cartEntry struct {
	productID uint
	quantity  int
}

type fault struct {
	method     string
	pathPrefix string
	status     int
}

type orderRecord struct {
	userID uint
	order  models.Order
}

type idempotencyRecord struct {
	requestHash string
	status      int
	body        []byte
}

// Server 内存后端
type Server struct {
	opts   Options
	engine *gin.Engine

	mu          sync.Mutex
	tenants     map[string]*models.Tenant
	slugIndex   map[string]string
	products    map[string]map[uint]*models.Product
	users       map[string]*userRecord
	nextUserID  uint
	carts       map[string][]cartEntry
	orders      map[string][]*orderRecord
	nextOrderID uint
	idempotency map[string]*idempotencyRecord
	pushTokens  map[string]string
	stockAlerts map[string][]uint
	faults      []fault
	requests    map[string]int
	total       int
}

// New 创建空后端
func New(opts Options) *Server {
	if strings.TrimSpace(opts.JWTSecret) == "" {
		opts.JWTSecret = defaultJWTSecret
	}
	if strings.TrimSpace(opts.TenantHeader) == "" {
		opts.TenantHeader = "X-Tenant-ID"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{
		opts:        opts,
		tenants:     make(map[string]*models.Tenant),
		slugIndex:   make(map[string]string),
		products:    make(map[string]map[uint]*models.Product),
		users:       make(map[string]*userRecord),
		carts:       make(map[string][]cartEntry),
		orders:      make(map[string][]*orderRecord),
		idempotency: make(map[string]*idempotencyRecord),
		pushTokens:  make(map[string]string),
		stockAlerts: make(map[string][]uint),
		requests:    make(map[string]int),
	}
	s.engine = s.buildEngine()
	return s
}

// Handler 返回 http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// AddTenant 注册门店，ID 为空时生成 UUID
func (s *Server) AddTenant(tenant models.Tenant) models.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	stored := tenant
	s.tenants[tenant.ID] = &stored
	s.slugIndex[strings.ToLower(tenant.Slug)] = tenant.ID
	if _, ok := s.products[tenant.ID]; !ok {
		s.products[tenant.ID] = make(map[uint]*models.Product)
	}
	return stored
}

// AddProduct 向门店目录写入商品
func (s *Server) AddProduct(tenantID string, product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	catalog, ok := s.products[tenantID]
	if !ok {
		catalog = make(map[uint]*models.Product)
		s.products[tenantID] = catalog
	}
	stored := product
	catalog[product.ID] = &stored
}

// SetProductActive 上下架商品
func (s *Server) SetProductActive(tenantID string, productID uint, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product, ok := s.products[tenantID][productID]; ok {
		product.Active = active
	}
}

// FailNext 让下一次匹配 method 与路径前缀的请求返回 status（0 表示断开连接）
func (s *Server) FailNext(method, pathPrefix string, status int) {
	s.mu.Lock()
	s.faults = append(s.faults, fault{method: strings.ToUpper(method), pathPrefix: pathPrefix, status: status})
	s.mu.Unlock()
}

// SetLatency 设置请求延迟
func (s *Server) SetLatency(latency time.Duration) {
	s.mu.Lock()
	s.opts.Latency = latency
	s.mu.Unlock()
}

// Requests 指定方法与路径的请求次数
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[requestKey(method, path)]
}

// TotalRequests 总请求数
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// CartQuantity 后端购物车中某商品的数量
func (s *Server) CartQuantity(tenantID, email string, productID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[strings.ToLower(email)]
	if !ok {
		return 0
	}
	for _, entry := range s.carts[cartKey(tenantID, record.user.ID)] {
		if entry.productID == productID {
			return entry.quantity
		}
	}
	return 0
}

// OrderCount 门店订单数
func (s *Server) OrderCount(tenantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders[tenantID])
}

// PushTokens 已注册的推送令牌（token → platform）
func (s *Server) PushTokens() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.pushTokens))
	for token, platform := range s.pushTokens {
		out[token] = platform
	}
	return out
}

// StockAlerts 用户订阅的到货提醒
func (s *Server) StockAlerts(tenantID, email string) []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil
	}
	ids := append([]uint(nil), s.stockAlerts[cartKey(tenantID, record.user.ID)]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func requestKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

func cartKey(tenantID string, userID uint) string {
	return fmt.Sprintf("%s:%d", tenantID, userID)
}
