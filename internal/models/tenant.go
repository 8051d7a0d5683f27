package models

// Tenant 当前选择的门店（租户）
type Tenant struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
}
