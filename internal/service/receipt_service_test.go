package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/petshop-next/internal/store"
)

func TestReceiptRendersPDF(t *testing.T) {
	f := newServiceFixture(t)
	order := placeOrder(t, f, map[uint]int{1: 1, 3: 2})

	svc := NewReceiptService(f.orders, f.tenants)
	pdf, err := svc.Render(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestReceiptQRPayload(t *testing.T) {
	if got := ReceiptQRPayload("petshop-centro", 42); got != "petshop://pedido/petshop-centro/42" {
		t.Fatalf("payload = %q", got)
	}
}

func TestTenantQRCode(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewTenantService(f.tenants)

	raw, err := svc.QRCode("", 0)
	if err != nil {
		t.Fatalf("qrcode failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode png failed: %v", err)
	}
	if img.Bounds().Dx() != 256 {
		t.Fatalf("width = %d", img.Bounds().Dx())
	}
	if _, err := svc.QRCode("Loja Inválida!", 128); !errors.Is(err, store.ErrTenantSlugInvalid) {
		t.Fatalf("invalid slug err = %v", err)
	}

	f.tenants.Clear(context.Background())
	if _, err := svc.QRCode("", 0); !errors.Is(err, ErrTenantRequired) {
		t.Fatalf("no tenant err = %v", err)
	}
}
