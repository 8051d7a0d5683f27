package store

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/petshop-next/internal/constants"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// NormalizeSlug 归一化并校验门店 slug
func NormalizeSlug(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if !slugPattern.MatchString(slug) {
		return "", ErrTenantSlugInvalid
	}
	return slug, nil
}

// ParseTenantQR 从已解码的二维码内容中提取门店 slug
// 支持：裸 slug、petshop://loja/<slug>、带 loja/slug 查询参数或 /loja/<slug> 路径的网址、{"slug": "..."}
func ParseTenantQR(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrTenantQRInvalid
	}
	if strings.HasPrefix(payload, "{") {
		var body map[string]interface{}
		if err := json.Unmarshal([]byte(payload), &body); err != nil {
			return "", ErrTenantQRInvalid
		}
		for _, key := range []string{constants.TenantQRSlugKey, constants.TenantQRQueryKey} {
			if value, ok := body[key].(string); ok {
				return normalizeQRSlug(value)
			}
		}
		return "", ErrTenantQRInvalid
	}
	if !strings.Contains(payload, "://") {
		return normalizeQRSlug(payload)
	}

	parsed, err := url.Parse(payload)
	if err != nil {
		return "", ErrTenantQRInvalid
	}
	query := parsed.Query()
	for _, key := range []string{constants.TenantQRSlugKey, constants.TenantQRQueryKey} {
		if value := query.Get(key); value != "" {
			return normalizeQRSlug(value)
		}
	}
	segments := splitPath(parsed.Path)
	if strings.EqualFold(parsed.Scheme, constants.TenantQRScheme) && strings.EqualFold(parsed.Host, constants.TenantQRHost) {
		if len(segments) == 1 {
			return normalizeQRSlug(segments[0])
		}
		return "", ErrTenantQRInvalid
	}
	for i := 0; i+1 < len(segments); i++ {
		if strings.EqualFold(segments[i], constants.TenantQRHost) {
			return normalizeQRSlug(segments[i+1])
		}
	}
	return "", ErrTenantQRInvalid
}

// BuildTenantQR 生成门店二维码内容
func BuildTenantQR(slug string) string {
	return constants.TenantQRScheme + "://" + constants.TenantQRHost + "/" + slug
}

func normalizeQRSlug(raw string) (string, error) {
	slug, err := NormalizeSlug(raw)
	if err != nil {
		return "", ErrTenantQRInvalid
	}
	return slug, nil
}

func splitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
