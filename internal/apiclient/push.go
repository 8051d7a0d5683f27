package apiclient

import (
	"context"
	"net/http"
)

type pushTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// RegisterPushToken POST /push-tokens
func (c *Client) RegisterPushToken(ctx context.Context, token, platform string) error {
	return c.doJSON(ctx, http.MethodPost, "/push-tokens", pushTokenRequest{Token: token, Platform: platform}, nil, nil)
}
