package repository

import (
	"fmt"
	"testing"

	"github.com/petshop-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.StorageEntry{}, &models.OrderReceipt{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestStorageEntryUpsertOverwrites(t *testing.T) {
	repo := NewStorageEntryRepository(openRepositoryTestDB(t))

	if err := repo.Upsert(&models.StorageEntry{Key: "petshop_tenant", Value: "a"}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := repo.Upsert(&models.StorageEntry{Key: "petshop_tenant", Value: "b", Secure: true}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	entry, err := repo.GetByKey("petshop_tenant")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if entry == nil || entry.Value != "b" || !entry.Secure {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	keys, err := repo.ListKeys("petshop_")
	if err != nil {
		t.Fatalf("list keys failed: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("want 1 key got %d", len(keys))
	}
}

func TestStorageEntryMissingAndDelete(t *testing.T) {
	repo := NewStorageEntryRepository(openRepositoryTestDB(t))

	entry, err := repo.GetByKey("missing")
	if err != nil || entry != nil {
		t.Fatalf("missing key want nil,nil got %+v,%v", entry, err)
	}
	if err := repo.Upsert(&models.StorageEntry{Key: "k", Value: "v"}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.DeleteByKey("k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.DeleteByKey("k"); err != nil {
		t.Fatalf("delete twice failed: %v", err)
	}
	entry, err = repo.GetByKey("k")
	if err != nil || entry != nil {
		t.Fatalf("deleted key want nil,nil got %+v,%v", entry, err)
	}
}

func TestOrderReceiptSaveIgnoresDuplicate(t *testing.T) {
	repo := NewOrderReceiptRepository(openRepositoryTestDB(t))
	total := models.NewMoneyFromDecimal(decimal.RequireFromString("39.80"))

	first := &models.OrderReceipt{OrderID: 7, TenantID: "t-1", Total: total, ItemCount: 2, IdempotencyKey: "k1"}
	if err := repo.Save(first); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	dup := &models.OrderReceipt{OrderID: 7, TenantID: "t-1", Total: total, ItemCount: 9, IdempotencyKey: "k2"}
	if err := repo.Save(dup); err != nil {
		t.Fatalf("duplicate save failed: %v", err)
	}
	if err := repo.Save(&models.OrderReceipt{OrderID: 8, TenantID: "t-2", Total: total}); err != nil {
		t.Fatalf("save other tenant failed: %v", err)
	}

	got, err := repo.GetByOrderID("t-1", 7)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.ItemCount != 2 || got.IdempotencyKey != "k1" {
		t.Fatalf("unexpected receipt: %+v", got)
	}
	if !got.Total.Equal(total) {
		t.Fatalf("total want %s got %s", total, got.Total)
	}

	list, count, err := repo.List(OrderReceiptListFilter{TenantID: "t-1", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if count != 1 || len(list) != 1 {
		t.Fatalf("want 1 receipt got count=%d len=%d", count, len(list))
	}

	missing, err := repo.GetByOrderID("t-2", 7)
	if err != nil || missing != nil {
		t.Fatalf("cross tenant lookup want nil,nil got %+v,%v", missing, err)
	}
}
