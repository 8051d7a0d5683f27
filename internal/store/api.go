package store

import (
	"context"

	"github.com/petshop-next/internal/apiclient"
	"github.com/petshop-next/internal/models"
)

// CartAPI 购物车远端接口
type CartAPI interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, productID uint, quantity int) error
	UpdateCartItem(ctx context.Context, productID uint, quantity int) error
	RemoveCartItem(ctx context.Context, productID uint) error
	ClearCart(ctx context.Context) error
}

// AuthAPI 认证远端接口
type AuthAPI interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// TenantAPI 门店查询远端接口
type TenantAPI interface {
	TenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
}
