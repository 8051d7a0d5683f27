package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocalePT = "pt-BR"
	LocaleEN = "en-US"
)

// DefaultLocale 默认语言
const DefaultLocale = LocalePT

const localeQueryKey = "lang"

var messages = map[string]map[string]string{
	LocalePT: {
		"error.bad_request":               "Requisição inválida",
		"error.internal":                  "Erro interno, tente novamente",
		"error.unauthorized":              "Faça login para continuar",
		"error.session_expired":           "Sua sessão expirou, faça login novamente",
		"error.login_failed":              "E-mail ou senha inválidos",
		"error.register_failed":           "Não foi possível criar a conta",
		"error.credentials_required":      "Informe e-mail e senha",
		"error.tenant_required":           "Selecione uma loja antes de continuar",
		"error.tenant_not_found":          "Loja não encontrada",
		"error.tenant_qr_invalid":         "QR Code de loja inválido",
		"error.product_not_found":         "Produto não encontrado",
		"error.product_invalid":           "Produto sem identificador ou preço",
		"error.quantity_invalid":          "A quantidade deve ser maior que zero",
		"error.cart_empty":                "Seu carrinho está vazio",
		"error.delivery_address_required": "Informe o endereço de entrega",
		"error.fulfillment_invalid":       "Forma de recebimento inválida",
		"error.backend_unavailable":       "Sem conexão com a loja. Tente novamente",
		"error.backend_rejected":          "A loja recusou a operação: %s",
		"error.order_not_found":           "Pedido não encontrado",
		"error.order_id_invalid":          "Pedido inválido",
		"error.rate_limited":              "Muitas tentativas. Aguarde %d segundos",
		"error.rate_limit_unavailable":    "Serviço temporariamente indisponível",
		"error.receipt_failed":            "Não foi possível gerar o comprovante",
		"error.qrcode_failed":             "Não foi possível gerar o QR Code",
		"error.push_token_invalid":        "Token de notificação inválido",
		"error.barcode_invalid":           "Código de barras inválido",
		"message.repeat_order_summary":    "%d de %d itens adicionados ao carrinho",
		"message.stock_alert_created":     "Avisaremos quando o produto chegar",
	},
	LocaleEN: {
		"error.bad_request":               "Bad request",
		"error.internal":                  "Internal error, please try again",
		"error.unauthorized":              "Please sign in to continue",
		"error.session_expired":           "Your session has expired, please sign in again",
		"error.login_failed":              "Invalid email or password",
		"error.register_failed":           "Could not create the account",
		"error.credentials_required":      "Email and password are required",
		"error.tenant_required":           "Select a store first",
		"error.tenant_not_found":          "Store not found",
		"error.tenant_qr_invalid":         "Invalid store QR code",
		"error.product_not_found":         "Product not found",
		"error.product_invalid":           "Product is missing an id or a price",
		"error.quantity_invalid":          "Quantity must be greater than zero",
		"error.cart_empty":                "Your cart is empty",
		"error.delivery_address_required": "A delivery address is required",
		"error.fulfillment_invalid":       "Invalid fulfillment mode",
		"error.backend_unavailable":       "Cannot reach the store. Please retry",
		"error.backend_rejected":          "The store rejected the operation: %s",
		"error.order_not_found":           "Order not found",
		"error.order_id_invalid":          "Invalid order",
		"error.rate_limited":              "Too many attempts. Wait %d seconds",
		"error.rate_limit_unavailable":    "Service temporarily unavailable",
		"error.receipt_failed":            "Could not render the receipt",
		"error.qrcode_failed":             "Could not render the QR code",
		"error.push_token_invalid":        "Invalid push token",
		"error.barcode_invalid":           "Invalid barcode",
		"message.repeat_order_summary":    "%d of %d items added to the cart",
		"message.stock_alert_created":     "We will let you know when it is back",
	},
}

// NormalizeLocale 归一化语言标识
func NormalizeLocale(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	if idx := strings.IndexAny(value, ",;"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	switch {
	case strings.HasPrefix(value, "pt"):
		return LocalePT
	case strings.HasPrefix(value, "en"):
		return LocaleEN
	default:
		return ""
	}
}

// ResolveLocale 按 query -> Accept-Language 解析请求语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale := NormalizeLocale(c.Query(localeQueryKey)); locale != "" {
		return locale
	}
	if locale := NormalizeLocale(c.GetHeader("Accept-Language")); locale != "" {
		return locale
	}
	return DefaultLocale
}

// T 翻译消息键，缺失时回退默认语言再回退键本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
