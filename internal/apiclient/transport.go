package apiclient

import (
	"net/http"
	"strings"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
)

// sessionTransport 统一的请求/响应拦截器
// 请求：JSON 头、租户头、Bearer 令牌；响应：401 时使本地令牌失效
type sessionTransport struct {
	base   http.RoundTripper
	client *Client
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	out.Header.Set("Accept", constants.ContentTypeJSON)

	tokens, tenants := t.client.sources()
	if tenants != nil {
		if tenantID := strings.TrimSpace(tenants.TenantID()); tenantID != "" {
			out.Header.Set(t.client.tenantHeader, tenantID)
		}
	}
	if tokens != nil {
		if token := strings.TrimSpace(tokens.Token()); token != "" {
			out.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
		}
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && tokens != nil {
		logger.Warnw("api_unauthorized_token_invalidated",
			"method", req.Method,
			"path", req.URL.Path,
		)
		tokens.InvalidateToken()
	}
	return resp, nil
}
