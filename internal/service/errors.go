package service

import "errors"

var (
	ErrCartEmpty               = errors.New("cart is empty")
	ErrDeliveryAddressRequired = errors.New("delivery address is required")
	ErrFulfillmentModeInvalid  = errors.New("fulfillment mode invalid")
	ErrTenantRequired          = errors.New("tenant must be selected")
	ErrNotAuthenticated        = errors.New("not authenticated")
	ErrOrderIDInvalid          = errors.New("order id invalid")
	ErrProductIDInvalid        = errors.New("product id invalid")
	ErrBarcodeInvalid          = errors.New("barcode invalid")
	ErrPushTokenInvalid        = errors.New("push token invalid")
	ErrReceiptRenderFailed     = errors.New("receipt render failed")
	ErrQRCodeRenderFailed      = errors.New("qr code render failed")
)
