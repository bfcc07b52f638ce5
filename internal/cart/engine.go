package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/kv"
)

// Engine 是单个会话的购物车状态机。
// 所有变更经由带锁的入口串行执行，保证"每次变更后重算汇总"的不变式；
// 每次成功变更后将行项目列表写穿到快照存储（尽力而为，失败只记日志）。
type Engine struct {
	mu     sync.Mutex
	items  []domain.CartItem
	store  kv.Store
	key    string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine 创建购物车引擎并尝试从快照存储恢复。
// 快照缺失或损坏时静默退化为空购物车。
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

// hydrate 从快照存储恢复行项目
func (e *Engine) hydrate() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var items []domain.CartItem
	if err := e.store.Get(ctx, e.key, &items); err != nil {
		if err != kv.ErrNotFound {
			e.logger.Warn("failed to load cart snapshot, starting empty",
				zap.String("key", e.key), zap.Error(err))
		}
		return
	}
	e.items = sanitize(items)
}

// sanitize 丢弃快照中不满足不变式的行项目
func sanitize(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" || item.ProductID == "" || item.Quantity < 1 {
			continue
		}
		out = append(out, item)
	}
	return out
}

// AddItem 将商品加入购物车。
// 价格在加入时快照：指定款式时取该款式现价，未命中回退商品基础价。
// 合并规则：已存在相同 (商品, 款式, 尺码) 的行项目时只累加数量，保持原有顺序。
func (e *Engine) AddItem(ctx context.Context, product *domain.Product, quantity int64, selectedVariant, selectedSize string) domain.CartState {
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		it := &e.items[i]
		if it.ProductID == product.ID && it.SelectedVariant == selectedVariant && it.SelectedSize == selectedSize {
			it.Quantity += quantity
			e.persist(ctx)
			return e.stateLocked()
		}
	}

	e.items = append(e.items, domain.CartItem{
		ID:              e.newItemID(product.ID, selectedVariant, selectedSize),
		ProductID:       product.ID,
		Title:           product.Title,
		Image:           product.DefaultImage(),
		PriceCents:      resolveUnitPrice(product, selectedVariant),
		Quantity:        quantity,
		SelectedVariant: selectedVariant,
		SelectedSize:    selectedSize,
		Slug:            product.Slug,
	})
	e.persist(ctx)
	return e.stateLocked()
}

// RemoveItem 删除指定行项目；不存在时为无操作而非错误
func (e *Engine) RemoveItem(ctx context.Context, itemID string) domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == itemID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			e.persist(ctx)
			break
		}
	}
	return e.stateLocked()
}

// UpdateQuantity 将行项目数量设置为指定值（非增量）。
// 数量小于等于0时行为与 RemoveItem 完全一致。引擎层不设数量上限。
func (e *Engine) UpdateQuantity(ctx context.Context, itemID string, quantity int64) domain.CartState {
	if quantity <= 0 {
		return e.RemoveItem(ctx, itemID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == itemID {
			e.items[i].Quantity = quantity
			e.persist(ctx)
			break
		}
	}
	return e.stateLocked()
}

// Clear 清空购物车
func (e *Engine) Clear(ctx context.Context) domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	e.persist(ctx)
	return e.stateLocked()
}

// Load 整体替换行项目（用于从外部快照恢复），与其他入口共用同一个汇总函数
func (e *Engine) Load(ctx context.Context, items []domain.CartItem) domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = sanitize(items)
	e.persist(ctx)
	return e.stateLocked()
}

// ItemCount 返回匹配 (商品, 款式, 尺码) 的行项目数量，未命中返回0
func (e *Engine) ItemCount(productID, selectedVariant, selectedSize string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		it := &e.items[i]
		if it.ProductID == productID && it.SelectedVariant == selectedVariant && it.SelectedSize == selectedSize {
			return it.Quantity
		}
	}
	return 0
}

// State 返回当前购物车状态快照
func (e *Engine) State() domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// stateLocked 在持锁状态下重算并返回状态，返回的切片为拷贝
func (e *Engine) stateLocked() domain.CartState {
	items := make([]domain.CartItem, len(e.items))
	copy(items, e.items)
	return CalculateTotals(items)
}

// persist 将行项目写穿到快照存储。
// 持久化失败不向调用方暴露，购物车继续以内存状态工作。
func (e *Engine) persist(ctx context.Context) {
	items := e.items
	if items == nil {
		items = []domain.CartItem{}
	}
	if err := e.store.Set(ctx, e.key, items, e.ttl); err != nil {
		e.logger.Error("failed to persist cart snapshot",
			zap.String("key", e.key), zap.Error(err))
	}
}

// newItemID 生成行项目合成ID。
// 携带加入时间戳，避免同一 (商品, 款式, 尺码) 在前一条目被删除后再次加入时发生ID冲突。
func (e *Engine) newItemID(productID, selectedVariant, selectedSize string) string {
	return fmt.Sprintf("%s-%s-%s-%d",
		productID,
		orDefault(selectedVariant),
		orDefault(selectedSize),
		e.now().UnixMilli(),
	)
}

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return "default"
	}
	return s
}

// resolveUnitPrice 解析行项目单价。
// 指定款式时查找同名颜色SKU的价格，未命中回退商品基础价；
// 划线价不参与计价（筛选/排序用划线价，收款用现价，两者刻意不同）。
func resolveUnitPrice(product *domain.Product, selectedVariant string) int64 {
	if selectedVariant != "" {
		for _, v := range product.Variants {
			if v.ColorName == selectedVariant {
				return v.PriceCents
			}
		}
	}
	return product.PriceCents
}
