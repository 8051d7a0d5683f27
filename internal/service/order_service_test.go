package service

import (
	"context"
	"errors"
	"testing"

	"github.com/petshop-next/internal/apiclient"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
)

func placeOrder(t *testing.T, f *serviceFixture, lines map[uint]int) *models.Order {
	t.Helper()
	for id, qty := range lines {
		product, err := f.catalog.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get product %d failed: %v", id, err)
		}
		f.mustAdd(t, *product, qty)
	}
	order, err := f.checkout.Checkout(context.Background(), CheckoutInput{Mode: constants.FulfillmentModePickup})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return order
}

func TestRepeatOrderPartialSuccess(t *testing.T) {
	f := newServiceFixture(t)
	order := placeOrder(t, f, map[uint]int{2: 1, 3: 4, 7: 2})

	f.mock.SetProductActive(f.tenant.ID, 3, false)
	result, err := f.orders.Repeat(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("repeat failed: %v", err)
	}
	if result.Adicionados != 2 || result.Total != 3 {
		t.Fatalf("repeat result = %+v", result)
	}
	if len(result.Falhas) != 1 || result.Falhas[0].ProductID != 3 || result.Falhas[0].Reason != RepeatReasonUnavailable {
		t.Fatalf("failures = %+v", result.Falhas)
	}
	cart := f.cart.Snapshot()
	if cart.IndexOf(3) >= 0 || cart.TotalItemCount() != 3 {
		t.Fatalf("unexpected cart after repeat: %+v", cart)
	}
	if got := f.mock.CartQuantity(f.tenant.ID, testEmail, 7); got != 2 {
		t.Fatalf("server quantity for product 7 = %d", got)
	}
}

func TestRepeatOrderUsesCurrentPrice(t *testing.T) {
	f := newServiceFixture(t)
	order := placeOrder(t, f, map[uint]int{2: 2})

	f.mock.AddProduct(f.tenant.ID, models.Product{ID: 2, Name: "Areia", Price: models.MustMoney("26.00"), Active: true})
	if _, err := f.orders.Repeat(context.Background(), order.ID); err != nil {
		t.Fatalf("repeat failed: %v", err)
	}
	cart := f.cart.Snapshot()
	if len(cart.Lines) != 1 || cart.Lines[0].UnitPrice.String() != "26.00" || cart.Subtotal.String() != "52.00" {
		t.Fatalf("cart = %+v", cart)
	}
}

func TestOrderListAndGet(t *testing.T) {
	f := newServiceFixture(t)
	first := placeOrder(t, f, map[uint]int{2: 1})
	second := placeOrder(t, f, map[uint]int{7: 1})
	ctx := context.Background()

	orders, err := f.orders.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != second.ID {
		t.Fatalf("orders = %+v", orders)
	}
	got, err := f.orders.Get(ctx, first.ID)
	if err != nil || got.ID != first.ID {
		t.Fatalf("get order = %+v, %v", got, err)
	}
	if _, err := f.orders.Get(ctx, 999); !errors.Is(err, apiclient.ErrNotFound) {
		t.Fatalf("missing order err = %v", err)
	}
	if _, err := f.orders.Get(ctx, 0); !errors.Is(err, ErrOrderIDInvalid) {
		t.Fatalf("zero id err = %v", err)
	}

	receipts, total, err := f.orders.ListReceipts(1, 20)
	if err != nil {
		t.Fatalf("list receipts failed: %v", err)
	}
	if total != 2 || len(receipts) != 2 {
		t.Fatalf("receipts = %d/%d", len(receipts), total)
	}
}

func TestOrderServiceRequiresTenant(t *testing.T) {
	f := newServiceFixture(t)
	f.tenants.Clear(context.Background())
	if _, err := f.orders.List(context.Background()); !errors.Is(err, ErrTenantRequired) {
		t.Fatalf("expected ErrTenantRequired, got %v", err)
	}
}
