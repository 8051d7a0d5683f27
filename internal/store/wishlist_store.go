package store

import (
	"context"
	"sync"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/noncritical"
	"github.com/petshop-next/internal/storage"
)

// WishlistStore 心愿单（仅本地），先改内存再持久化，持久化失败属于非关键错误
type WishlistStore struct {
	async storage.Store

	mu  sync.RWMutex
	ids []uint
}

// NewWishlistStore 创建心愿单
func NewWishlistStore(async storage.Store) *WishlistStore {
	return &WishlistStore{async: async, ids: []uint{}}
}

// Restore 从本地存储恢复
func (s *WishlistStore) Restore(ctx context.Context) error {
	var ids []uint
	ok, err := storage.GetJSON(ctx, s.async, constants.StorageKeyWishlist, &ids)
	if err != nil || !ok {
		return err
	}
	seen := make(map[uint]struct{}, len(ids))
	clean := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	s.mu.Lock()
	s.ids = clean
	s.mu.Unlock()
	return nil
}

// Toggle 切换商品是否在心愿单中，返回切换后的状态
func (s *WishlistStore) Toggle(ctx context.Context, productID uint) bool {
	s.mu.Lock()
	present := false
	for i, id := range s.ids {
		if id == productID {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			present = true
			break
		}
	}
	if !present {
		s.ids = append(s.ids, productID)
	}
	snapshot := append([]uint(nil), s.ids...)
	s.mu.Unlock()

	if err := storage.SetJSON(ctx, s.async, constants.StorageKeyWishlist, snapshot); err != nil {
		noncritical.Report("wishlist_persist", err, "product_id", productID)
	}
	return !present
}

// Contains 是否在心愿单中
func (s *WishlistStore) Contains(productID uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.ids {
		if id == productID {
			return true
		}
	}
	return false
}

// List 按加入顺序返回商品 ID
func (s *WishlistStore) List() []uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]uint{}, s.ids...)
}
