package store

import (
	"context"
	"sync"

	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
)

// CartStore 购物车一致性模型
// 变更操作先调用后端、成功后再改本地状态；opMu 串行化同一购物车上的变更，
// mu 只保护本地状态，读取不会被进行中的网络调用阻塞
type CartStore struct {
	api CartAPI

	opMu sync.Mutex

	mu     sync.RWMutex
	cart   models.Cart
	loaded bool
}

// NewCartStore 创建购物车
func NewCartStore(api CartAPI) *CartStore {
	return &CartStore{api: api, cart: models.NewCart()}
}

// Load 从后端整体替换本地购物车；失败时保留原状态并返回错误
func (s *CartStore) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.loadLocked(ctx)
}

func (s *CartStore) loadLocked(ctx context.Context) error {
	remote, err := s.api.GetCart(ctx)
	if err != nil {
		logger.Warnw("cart_load_failed", "error", err)
		return err
	}
	next := remote.Clone()
	next.Recompute()
	if !next.Subtotal.Equal(remote.Subtotal) {
		logger.Warnw("cart_subtotal_mismatch",
			"server_subtotal", remote.Subtotal.String(),
			"computed_subtotal", next.Subtotal.String(),
		)
	}
	s.mu.Lock()
	s.cart = next
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Add 加入商品；同一商品合并到已有行
func (s *CartStore) Add(ctx context.Context, product models.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	unitPrice := product.EffectivePrice()
	if product.ID == 0 || !unitPrice.IsPositive() {
		return ErrInvalidProduct
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := s.api.AddToCart(ctx, product.ID, quantity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.cart.IndexOf(product.ID); idx >= 0 {
		// 后端按当前有效价计价，合并时整行跟随新单价
		s.cart.Lines[idx].UnitPrice = unitPrice
		s.cart.Lines[idx].Quantity += quantity
	} else {
		s.cart.Lines = append(s.cart.Lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: unitPrice,
			Quantity:  quantity,
			ImageURL:  product.ImageURL,
		})
	}
	s.cart.Recompute()
	return nil
}

// Update 修改数量；数量必须为正，移除请调用 Remove
func (s *CartStore) Update(ctx context.Context, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := s.api.UpdateCartItem(ctx, productID, quantity); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.cart.IndexOf(productID)
	if idx >= 0 {
		s.cart.Lines[idx].Quantity = quantity
		s.cart.Recompute()
	}
	s.mu.Unlock()

	if idx < 0 {
		// 本地没有该行，以后端为准重新加载
		if err := s.loadLocked(ctx); err != nil {
			logger.Warnw("cart_reload_after_update_failed", "product_id", productID, "error", err)
		}
	}
	return nil
}

// Remove 移除商品行
func (s *CartStore) Remove(ctx context.Context, productID uint) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := s.api.RemoveCartItem(ctx, productID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.cart.IndexOf(productID); idx >= 0 {
		s.cart.Lines = append(s.cart.Lines[:idx:idx], s.cart.Lines[idx+1:]...)
	}
	s.cart.Recompute()
	return nil
}

// Clear 清空购物车
func (s *CartStore) Clear(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := s.api.ClearCart(ctx); err != nil {
		return err
	}
	s.emptyLocked()
	return nil
}

// FinalizeWith 在操作锁内以快照执行 fn，fn 成功后无条件清空本地购物车
func (s *CartStore) FinalizeWith(fn func(snapshot models.Cart) error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if err := fn(s.Snapshot()); err != nil {
		return err
	}
	s.emptyLocked()
	return nil
}

// Reset 丢弃本地视图（登出或切换门店时使用），等待进行中的操作结束，之后需重新 Load
func (s *CartStore) Reset() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	s.cart = models.NewCart()
	s.loaded = false
	s.mu.Unlock()
}

// ResetOnSessionEnd 会话结束回调：401 失效时保留本地购物车，其余原因丢弃
func (s *CartStore) ResetOnSessionEnd(reason SessionEndReason) {
	if reason == SessionInvalidated {
		return
	}
	s.Reset()
}

// emptyLocked 后端已清空时同步本地，调用方持有 opMu
func (s *CartStore) emptyLocked() {
	s.mu.Lock()
	s.cart = models.NewCart()
	s.mu.Unlock()
}

// Snapshot 购物车深拷贝
func (s *CartStore) Snapshot() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// TotalItemCount 商品件数总和
func (s *CartStore) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalItemCount()
}

// Loaded 是否至少成功加载过一次
func (s *CartStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
