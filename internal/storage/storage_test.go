package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func newGormStoreForTest(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.StorageEntry{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewGormStore(repository.NewStorageEntryRepository(db))
}

func newRedisStoreForTest(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test"), mr
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key want ErrNotFound got %v", err)
	}
	if err := store.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || got != "v2" {
		t.Fatalf("get want v2 got %q err=%v", got, err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted key want ErrNotFound got %v", err)
	}
}

func TestStoresShareSemantics(t *testing.T) {
	redisStore, _ := newRedisStoreForTest(t)
	cases := map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   newGormStoreForTest(t),
		"redis":  redisStore,
	}
	for name, store := range cases {
		t.Run(name, func(t *testing.T) {
			exerciseStore(t, store)
		})
	}
}

func TestRedisStoreKeyLayout(t *testing.T) {
	store, mr := newRedisStoreForTest(t)
	if err := store.Set(context.Background(), constants.StorageKeyTenant, "x"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !mr.Exists("test:store:petshop_tenant") {
		t.Fatalf("unexpected keys: %v", mr.Keys())
	}
}

func TestSecureStoreEncryptsAtRest(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	secure := NewSecureStore(backend, "device-passphrase")

	if err := secure.Set(ctx, constants.StorageKeyAuthToken, "token-abc"); err != nil {
		t.Fatalf("secure set failed: %v", err)
	}
	raw, err := backend.Get(ctx, constants.StorageKeyAuthToken)
	if err != nil {
		t.Fatalf("backend get failed: %v", err)
	}
	if strings.Contains(raw, "token-abc") {
		t.Fatalf("value stored in plaintext: %q", raw)
	}
	if _, err := backend.Get(ctx, constants.StorageKeySecureSalt); err != nil {
		t.Fatalf("salt not persisted: %v", err)
	}

	got, err := secure.Get(ctx, constants.StorageKeyAuthToken)
	if err != nil || got != "token-abc" {
		t.Fatalf("secure get want token-abc got %q err=%v", got, err)
	}

	reopened := NewSecureStore(backend, "device-passphrase")
	got, err = reopened.Get(ctx, constants.StorageKeyAuthToken)
	if err != nil || got != "token-abc" {
		t.Fatalf("reopened store want token-abc got %q err=%v", got, err)
	}
}

func TestSecureStoreRejectsWrongPassphraseAndSwappedKey(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	secure := NewSecureStore(backend, "right")
	if err := secure.Set(ctx, "a", "secret"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	wrong := NewSecureStore(backend, "wrong")
	if _, err := wrong.Get(ctx, "a"); !errors.Is(err, ErrSecretCorrupted) {
		t.Fatalf("wrong passphrase want ErrSecretCorrupted got %v", err)
	}

	raw, _ := backend.Get(ctx, "a")
	_ = backend.Set(ctx, "b", raw)
	if _, err := secure.Get(ctx, "b"); !errors.Is(err, ErrSecretCorrupted) {
		t.Fatalf("swapped key want ErrSecretCorrupted got %v", err)
	}
	if _, err := secure.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing want ErrNotFound got %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	var ids []uint
	hit, err := GetJSON(ctx, store, constants.StorageKeyWishlist, &ids)
	if err != nil || hit {
		t.Fatalf("empty store want miss got hit=%v err=%v", hit, err)
	}
	if err := SetJSON(ctx, store, constants.StorageKeyWishlist, []uint{3, 1}); err != nil {
		t.Fatalf("set json failed: %v", err)
	}
	hit, err = GetJSON(ctx, store, constants.StorageKeyWishlist, &ids)
	if err != nil || !hit || len(ids) != 2 || ids[0] != 3 {
		t.Fatalf("unexpected ids %v hit=%v err=%v", ids, hit, err)
	}
	_ = store.Set(ctx, "broken", "{")
	if _, err := GetJSON(ctx, store, "broken", &ids); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNormalizeDriver(t *testing.T) {
	cases := map[string]string{
		"":        constants.StorageDriverGorm,
		"REDIS":   constants.StorageDriverRedis,
		" memory": constants.StorageDriverMemory,
		"unknown": constants.StorageDriverGorm,
	}
	for input, want := range cases {
		if got := NormalizeDriver(input); got != want {
			t.Fatalf("NormalizeDriver(%q) want %s got %s", input, want, got)
		}
	}
}
