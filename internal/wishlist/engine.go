// Package wishlist 实现心愿单引擎：集合语义的收藏列表与快照持久化。
package wishlist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/kv"
)

// Engine 是单个会话的心愿单状态机。
// 集合语义：同一商品ID至多保留一条，条目保存加入时的商品完整快照。
// 持久化契约与购物车引擎一致：写穿、尽力而为、损坏数据静默退化为空。
type Engine struct {
	mu     sync.Mutex
	items  []domain.WishlistItem
	store  kv.Store
	key    string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine 创建心愿单引擎并尝试从快照存储恢复
func NewEngine(store kv.Store, key string, ttl time.Duration, logger *zap.Logger) *Engine {
	e := &Engine{
		store:  store,
		key:    key,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
	e.hydrate()
	return e
}

func (e *Engine) hydrate() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var items []domain.WishlistItem
	if err := e.store.Get(ctx, e.key, &items); err != nil {
		if err != kv.ErrNotFound {
			e.logger.Warn("failed to load wishlist snapshot, starting empty",
				zap.String("key", e.key), zap.Error(err))
		}
		return
	}
	// 去重：同一商品保留首条
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.Product.ID == "" || seen[item.Product.ID] {
			continue
		}
		seen[item.Product.ID] = true
		e.items = append(e.items, item)
	}
}

// Add 将商品加入心愿单。
// 已存在时保持原状态不变，返回 false；成功加入返回 true。
func (e *Engine) Add(ctx context.Context, product *domain.Product) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].Product.ID == product.ID {
			return false
		}
	}
	e.items = append(e.items, domain.WishlistItem{
		Product:   *product,
		DateAdded: e.now(),
	})
	e.persist(ctx)
	return true
}

// Remove 按商品ID移除；不存在时为无操作
func (e *Engine) Remove(ctx context.Context, productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].Product.ID == productID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			e.persist(ctx)
			return
		}
	}
}

// Clear 清空心愿单
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	e.persist(ctx)
}

// Contains 判断商品是否在心愿单中
func (e *Engine) Contains(productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].Product.ID == productID {
			return true
		}
	}
	return false
}

// State 返回心愿单状态快照，TotalItems 恒等于条目数
func (e *Engine) State() domain.WishlistState {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]domain.WishlistItem, len(e.items))
	copy(items, e.items)
	return domain.WishlistState{
		Items:      items,
		TotalItems: len(items),
	}
}

func (e *Engine) persist(ctx context.Context) {
	items := e.items
	if items == nil {
		items = []domain.WishlistItem{}
	}
	if err := e.store.Set(ctx, e.key, items, e.ttl); err != nil {
		e.logger.Error("failed to persist wishlist snapshot",
			zap.String("key", e.key), zap.Error(err))
	}
}
