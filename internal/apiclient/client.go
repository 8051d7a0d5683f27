package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/petshop-next/internal/constants"
)

const defaultTimeout = 15 * time.Second

// TokenSource 提供持久化令牌，并接收 401 失效通知
type TokenSource interface {
	Token() string
	InvalidateToken()
}

// TenantSource 提供当前租户 ID
type TenantSource interface {
	TenantID() string
}

// Options 客户端配置
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	TenantHeader string
	// Transport 为空时使用 http.DefaultTransport
	Transport http.RoundTripper
}

// Client 后端 REST 客户端
type Client struct {
	baseURL      string
	tenantHeader string
	http         *http.Client

	mu      sync.RWMutex
	tokens  TokenSource
	tenants TenantSource
}

// New 创建客户端
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	header := strings.TrimSpace(opts.TenantHeader)
	if header == "" {
		header = constants.DefaultTenantHeader
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c := &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		tenantHeader: header,
	}
	c.http = &http.Client{
		Timeout:   timeout,
		Transport: &sessionTransport{base: base, client: c},
	}
	return c
}

// Bind 绑定令牌与租户来源（与会话状态容器互相依赖，构造后注入）
func (c *Client) Bind(tokens TokenSource, tenants TenantSource) {
	c.mu.Lock()
	c.tokens = tokens
	c.tenants = tenants
	c.mu.Unlock()
}

func (c *Client) sources() (TokenSource, TenantSource) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens, c.tenants
}

// BaseURL 后端基础地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TenantHeader 租户头名称
func (c *Client) TenantHeader() string {
	return c.tenantHeader
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, out interface{}, headers map[string]string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: build request failed: %w", ErrTransport, err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response failed: %w", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		if out != nil {
			return fmt.Errorf("%w: empty body", ErrResponseInvalid)
		}
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %w", ErrResponseInvalid, err)
	}
	return nil
}
