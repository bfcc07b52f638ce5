// Package cart 实现购物车引擎：行项目合并、汇总计算与快照持久化。
package cart

import (
	"github.com/RuiQin/stride_store/internal/domain"
)

// 满件折扣规则：购物车内商品总件数（按数量计，非SKU数）达到门槛时，
// 小计享受固定比例折扣。
const (
	bundleDiscountThreshold = 2  // 触发门槛（总件数）
	bundleDiscountPercent   = 15 // 折扣百分比
)

// CalculateTotals 从行项目完整重算购物车状态。
// 汇总字段只能由该函数产生，任何变更后必须整体重算，禁止增量修补。
// 折扣金额按整数分计算，采用四舍五入（round-half-up）：
// (subtotal*15 + 50) / 100。
func CalculateTotals(items []domain.CartItem) domain.CartState {
	var totalItems, subtotal int64
	for _, item := range items {
		totalItems += item.Quantity
		subtotal += item.PriceCents * item.Quantity
	}

	hasDiscount := totalItems >= bundleDiscountThreshold
	var discount int64
	if hasDiscount {
		discount = (subtotal*bundleDiscountPercent + 50) / 100
	}

	return domain.CartState{
		Items:               items,
		TotalItems:          totalItems,
		SubtotalCents:       subtotal,
		BundleDiscountCents: discount,
		TotalCents:          subtotal - discount,
		HasBundleDiscount:   hasDiscount,
	}
}
