package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/store"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// ReceiptService 订单回执 PDF（附带供收银扫码的二维码）
type ReceiptService struct {
	orders  *OrderService
	tenants *store.TenantStore
}

// NewReceiptService 创建回执服务
func NewReceiptService(orders *OrderService, tenants *store.TenantStore) *ReceiptService {
	return &ReceiptService{orders: orders, tenants: tenants}
}

// ReceiptQRPayload 回执二维码内容
func ReceiptQRPayload(tenantSlug string, orderID uint) string {
	return fmt.Sprintf("%s://pedido/%s/%d", constants.TenantQRScheme, tenantSlug, orderID)
}

// Render 拉取订单并生成回执 PDF
func (s *ReceiptService) Render(ctx context.Context, orderID uint) ([]byte, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	tenant := s.tenants.Current()
	if tenant == nil {
		return nil, ErrTenantRequired
	}
	return RenderReceipt(*tenant, *order)
}

// RenderReceipt 生成回执 PDF
func RenderReceipt(tenant models.Tenant, order models.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode(ReceiptQRPayload(tenant.Slug, order.ID), qrcode.Medium, constants.TenantQRImageSize)
	if err != nil {
		logger.Warnw("receipt_qrcode_encode_failed", "order_id", order.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrReceiptRenderFailed, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(tenant.Name))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Pedido #%d", order.ID)))
	pdf.Ln(7)
	if !order.CreatedAt.IsZero() {
		pdf.Cell(0, 8, order.CreatedAt.Format("02/01/2006 15:04"))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, tr(retrievalLabel(order)))
	pdf.Ln(7)
	if order.PickupKeyword != "" {
		pdf.Cell(0, 8, tr("Palavra-chave: "+order.PickupKeyword))
		pdf.Ln(7)
	}
	if order.PaymentMethodName != "" {
		pdf.Cell(0, 8, tr("Pagamento: "+order.PaymentMethodName))
		pdf.Ln(7)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(100, 8, tr("Produto"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qtd", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, tr("Unitário"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Subtotal", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		pdf.CellFormat(100, 7, tr(item.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, formatBRL(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, formatBRL(item.LineSubtotal), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(150, 9, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(30, 9, formatBRL(order.Total), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		logger.Warnw("receipt_pdf_output_failed", "order_id", order.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrReceiptRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func retrievalLabel(order models.Order) string {
	switch order.RetrievalType {
	case constants.RetrievalTypeStorePickup:
		return "Retirada na loja"
	case constants.RetrievalTypeThirdPartyPickup:
		return "Retirada por terceiro"
	case constants.RetrievalTypeDelivery:
		if order.DeliveryAddress != "" {
			return "Entrega: " + order.DeliveryAddress
		}
		return "Entrega"
	default:
		return order.RetrievalType
	}
}

func formatBRL(m models.Money) string {
	return "R$ " + m.String()
}
