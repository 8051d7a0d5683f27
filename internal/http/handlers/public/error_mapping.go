package public

import (
	"errors"

	"github.com/petshop-next/internal/apiclient"
	handlershared "github.com/petshop-next/internal/http/handlers/shared"
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/service"
	"github.com/petshop-next/internal/store"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	// 后端拒绝时把后端提示透传给用户
	if errors.Is(err, apiclient.ErrRejected) {
		handlershared.RespondErrorf(c, response.CodeUnprocessable, "error.backend_rejected", err, apiclient.Message(err))
		return
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// backendErrorRules 远端调用的通用错误
var backendErrorRules = []mappedHandlerError{
	{target: apiclient.ErrUnauthorized, code: response.CodeUnauthorized, key: "error.session_expired"},
	{target: apiclient.ErrTransport, code: response.CodeBadGateway, key: "error.backend_unavailable"},
	{target: apiclient.ErrResponseInvalid, code: response.CodeBadGateway, key: "error.backend_unavailable"},
	{target: service.ErrTenantRequired, code: response.CodeBadRequest, key: "error.tenant_required"},
}

var sessionErrorRules = []mappedHandlerError{
	{target: store.ErrCredentialsRequired, code: response.CodeBadRequest, key: "error.credentials_required"},
	{target: apiclient.ErrUnauthorized, code: response.CodeUnauthorized, key: "error.login_failed"},
	{target: apiclient.ErrTransport, code: response.CodeBadGateway, key: "error.backend_unavailable"},
}

var tenantErrorRules = []mappedHandlerError{
	{target: store.ErrTenantSlugInvalid, code: response.CodeBadRequest, key: "error.tenant_not_found"},
	{target: store.ErrTenantQRInvalid, code: response.CodeBadRequest, key: "error.tenant_qr_invalid"},
	{target: apiclient.ErrNotFound, code: response.CodeNotFound, key: "error.tenant_not_found"},
	{target: service.ErrQRCodeRenderFailed, code: response.CodeInternal, key: "error.qrcode_failed"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrProductIDInvalid, code: response.CodeBadRequest, key: "error.product_not_found"},
	{target: service.ErrBarcodeInvalid, code: response.CodeBadRequest, key: "error.barcode_invalid"},
	{target: apiclient.ErrNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

var cartErrorRules = []mappedHandlerError{
	{target: store.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: store.ErrInvalidProduct, code: response.CodeBadRequest, key: "error.product_invalid"},
	{target: apiclient.ErrNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrDeliveryAddressRequired, code: response.CodeBadRequest, key: "error.delivery_address_required"},
	{target: service.ErrFulfillmentModeInvalid, code: response.CodeBadRequest, key: "error.fulfillment_invalid"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderIDInvalid, code: response.CodeBadRequest, key: "error.order_id_invalid"},
	{target: apiclient.ErrNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrReceiptRenderFailed, code: response.CodeInternal, key: "error.receipt_failed"},
}

var pushErrorRules = []mappedHandlerError{
	{target: service.ErrPushTokenInvalid, code: response.CodeBadRequest, key: "error.push_token_invalid"},
}

func respondSessionError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, sessionErrorRules, response.CodeUnauthorized, fallbackKey)
}

func respondTenantError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(tenantErrorRules, backendErrorRules), response.CodeInternal, "error.internal")
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(catalogErrorRules, backendErrorRules), response.CodeInternal, "error.internal")
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartErrorRules, backendErrorRules), response.CodeInternal, "error.internal")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(checkoutErrorRules, backendErrorRules), response.CodeInternal, "error.internal")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderErrorRules, backendErrorRules), response.CodeInternal, "error.internal")
}

func respondPushError(c *gin.Context, err error) {
	respondWithMappedError(c, err, pushErrorRules, response.CodeInternal, "error.internal")
}
