package models

import "strings"

// Address 用户收货地址
type Address struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// Format 拼接为单行地址，街道为空时返回空串
func (a *Address) Format() string {
	if a == nil || strings.TrimSpace(a.Street) == "" {
		return ""
	}
	head := strings.TrimSpace(a.Street)
	if number := strings.TrimSpace(a.Number); number != "" {
		head += ", " + number
	}
	parts := []string{head}
	for _, part := range []string{a.Complement, a.Neighborhood} {
		if value := strings.TrimSpace(part); value != "" {
			parts = append(parts, value)
		}
	}
	city := strings.TrimSpace(a.City)
	if state := strings.TrimSpace(a.State); state != "" {
		if city != "" {
			city += "/" + state
		} else {
			city = state
		}
	}
	if city != "" {
		parts = append(parts, city)
	}
	if postal := strings.TrimSpace(a.PostalCode); postal != "" {
		parts = append(parts, postal)
	}
	return strings.Join(parts, " - ")
}

// User 用户资料
type User struct {
	ID      uint     `json:"id"`
	Email   string   `json:"email"`
	Name    string   `json:"name,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Address *Address `json:"address,omitempty"`
}
