package store

import "errors"

var (
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")
	ErrInvalidProduct      = errors.New("product must carry an id and a positive price")
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrTenantSlugInvalid   = errors.New("tenant slug invalid")
	ErrTenantQRInvalid     = errors.New("tenant qr payload invalid")
)
