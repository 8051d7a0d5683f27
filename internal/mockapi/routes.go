package mockapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxTenantID = "mock_tenant_id"
	ctxUserID   = "mock_user_id"
)

type tokenClaims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Server) buildEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.trafficMiddleware())

	api := r.Group("/api")
	api.GET("/tenant-by-slug/:slug", s.handleTenantBySlug)

	scoped := api.Group("")
	scoped.Use(s.tenantMiddleware())
	{
		scoped.POST("/auth/login", s.handleLogin)
		scoped.POST("/auth/register", s.handleRegister)
		scoped.GET("/products", s.handleListProducts)
		scoped.GET("/products/:id", s.handleGetProduct)
		scoped.GET("/products/barcode/:code", s.handleProductByBarcode)
	}

	authed := scoped.Group("")
	authed.Use(s.authMiddleware())
	{
		authed.GET("/auth/me", s.handleMe)
		authed.GET("/cart", s.handleGetCart)
		authed.POST("/cart/add", s.handleCartAdd)
		authed.PUT("/cart/update", s.handleCartUpdate)
		authed.DELETE("/cart/remove/:product_id", s.handleCartRemove)
		authed.DELETE("/cart/clear", s.handleCartClear)
		authed.POST("/checkout/finalize", s.idempotencyMiddleware(), s.handleFinalize)
		authed.GET("/orders", s.handleListOrders)
		authed.GET("/orders/:id", s.handleGetOrder)
		authed.POST("/push-tokens", s.handlePushToken)
		authed.POST("/products/:id/stock-alerts", s.handleStockAlert)
	}
	return r
}

func abortMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// trafficMiddleware 统计请求、施加延迟并执行故障注入
func (s *Server) trafficMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		path := c.Request.URL.Path

		s.mu.Lock()
		s.requests[requestKey(method, path)]++
		s.total++
		latency := s.opts.Latency
		injected, hit := s.takeFaultLocked(method, path)
		s.mu.Unlock()

		if latency > 0 {
			time.Sleep(latency)
		}
		if !hit {
			c.Next()
			return
		}
		if injected.status == 0 {
			if hijacker, ok := c.Writer.(http.Hijacker); ok {
				if conn, _, err := hijacker.Hijack(); err == nil {
					_ = conn.Close()
					c.Abort()
					return
				}
			}
			injected.status = http.StatusBadGateway
		}
		abortMessage(c, injected.status, fmt.Sprintf("falha simulada (%d)", injected.status))
	}
}

func (s *Server) takeFaultLocked(method, path string) (fault, bool) {
	for i, f := range s.faults {
		if f.method != "" && f.method != method {
			continue
		}
		if !strings.HasPrefix(path, f.pathPrefix) {
			continue
		}
		s.faults = append(s.faults[:i], s.faults[i+1:]...)
		return f, true
	}
	return fault{}, false
}

func (s *Server) tenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.GetHeader(s.opts.TenantHeader))
		if tenantID == "" {
			abortMessage(c, http.StatusBadRequest, "cabeçalho de loja ausente")
			return
		}
		s.mu.Lock()
		_, ok := s.tenants[tenantID]
		s.mu.Unlock()
		if !ok {
			abortMessage(c, http.StatusBadRequest, "loja desconhecida")
			return
		}
		c.Set(ctxTenantID, tenantID)
		c.Next()
	}
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if !strings.HasPrefix(header, constants.BearerPrefix) {
			abortMessage(c, http.StatusUnauthorized, "não autenticado")
			return
		}
		claims, err := s.parseToken(strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix)))
		if err != nil {
			abortMessage(c, http.StatusUnauthorized, "sessão expirada")
			return
		}
		s.mu.Lock()
		record, ok := s.users[strings.ToLower(claims.Email)]
		s.mu.Unlock()
		if !ok || record.user.ID != claims.UserID {
			abortMessage(c, http.StatusUnauthorized, "usuário desconhecido")
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}

// IssueToken 为已注册用户签发令牌（测试用）
func (s *Server) IssueToken(email string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	record, ok := s.users[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("user %s not registered", email)
	}
	return s.signToken(record.user, ttl)
}

func (s *Server) signToken(user models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.JWTSecret))
}

func (s *Server) parseToken(raw string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.opts.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// idempotencyMiddleware 同一幂等键重放首次成功的响应；请求体不同返回 409
func (s *Server) idempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(constants.HeaderIdempotencyKey))
		if key == "" {
			abortMessage(c, http.StatusBadRequest, "Idempotency-Key obrigatório")
			return
		}
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			abortMessage(c, http.StatusBadRequest, "corpo inválido")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		tenantID := c.GetString(ctxTenantID)
		userID := c.GetUint(ctxUserID)
		scope := fmt.Sprintf("%s|%d|%s", tenantID, userID, key)
		hash := sha256.Sum256(append([]byte(fmt.Sprintf("%s:%s:%d:", c.Request.Method, c.Request.URL.Path, userID)), body...))
		requestHash := hex.EncodeToString(hash[:])

		s.mu.Lock()
		existing, seen := s.idempotency[scope]
		if !seen {
			s.idempotency[scope] = &idempotencyRecord{requestHash: requestHash}
		}
		s.mu.Unlock()

		if seen {
			switch {
			case existing.requestHash != requestHash:
				abortMessage(c, http.StatusConflict, "Idempotency-Key reutilizada com outro pedido")
			case existing.status == 0:
				abortMessage(c, http.StatusConflict, "pedido em processamento")
			default:
				c.Data(existing.status, "application/json; charset=utf-8", existing.body)
				c.Abort()
			}
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		s.mu.Lock()
		defer s.mu.Unlock()
		status := writer.Status()
		if status < 200 || status >= 300 {
			delete(s.idempotency, scope)
			return
		}
		s.idempotency[scope] = &idempotencyRecord{
			requestHash: requestHash,
			status:      status,
			body:        append([]byte(nil), writer.buf.Bytes()...),
		}
	}
}
