// Package checkout 实现结算试算。
// 运费与税费是结算侧策略，独立于购物车引擎的可复用契约。
package checkout

import (
	"github.com/RuiQin/stride_store/internal/domain"
)

const (
	// FreeShippingThresholdCents 小计达到该金额免运费
	FreeShippingThresholdCents int64 = 7500
	// FlatShippingCents 未达免邮门槛时的固定运费
	FlatShippingCents int64 = 500
	// 税率：折后小计的8%，四舍五入到分
	taxPercent int64 = 8
)

// Quote 基于购物车状态生成订单试算。
// 税基为折后小计（小计减去满件折扣），运费不计税。
func Quote(state domain.CartState) domain.OrderQuote {
	subtotal := state.SubtotalCents
	discount := state.BundleDiscountCents

	var shipping int64
	free := subtotal >= FreeShippingThresholdCents
	if !free && subtotal > 0 {
		shipping = FlatShippingCents
	}

	tax := ((subtotal-discount)*taxPercent + 50) / 100

	return domain.OrderQuote{
		SubtotalCents:       subtotal,
		BundleDiscountCents: discount,
		ShippingCents:       shipping,
		TaxCents:            tax,
		TotalCents:          subtotal - discount + shipping + tax,
		FreeShipping:        free,
	}
}
