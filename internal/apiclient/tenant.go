package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/petshop-next/internal/models"
)

// TenantBySlug GET /tenant-by-slug/{slug}（无需登录）
func (c *Client) TenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("tenant slug is required")
	}
	var tenant models.Tenant
	if err := c.doJSON(ctx, http.MethodGet, "/tenant-by-slug/"+url.PathEscape(slug), nil, &tenant, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(tenant.ID) == "" {
		return nil, fmt.Errorf("%w: tenant id missing", ErrResponseInvalid)
	}
	return &tenant, nil
}
