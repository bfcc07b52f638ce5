package domain

// CartItem 表示购物车行项目。
// 标题、图片、价格均在加入时从目录快照，之后目录变更不影响已入车条目。
type CartItem struct {
	ID              string `json:"id"`         // 合成ID：商品+款式+尺码+加入时间戳
	ProductID       string `json:"product_id"` // 回引商品，不拥有目录数据
	Title           string `json:"title"`
	Image           string `json:"image"`
	PriceCents      int64  `json:"price_cents"`
	Quantity        int64  `json:"quantity"`
	SelectedVariant string `json:"selected_variant,omitempty"` // 颜色名
	SelectedSize    string `json:"selected_size,omitempty"`
	Slug            string `json:"slug"`
}

// CartState 表示购物车状态快照。
// 各汇总字段永远是 items 的纯函数结果，每次变更后整体重算。
type CartState struct {
	Items               []CartItem `json:"items"`
	TotalItems          int64      `json:"total_items"`
	SubtotalCents       int64      `json:"subtotal_cents"`
	BundleDiscountCents int64      `json:"bundle_discount_cents"`
	TotalCents          int64      `json:"total_cents"`
	HasBundleDiscount   bool       `json:"has_bundle_discount"`
}

// AddCartItemRequest 表示加入购物车请求
type AddCartItemRequest struct {
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	SelectedVariant string `json:"selected_variant,omitempty"`
	SelectedSize    string `json:"selected_size,omitempty"`
}

// UpdateCartItemRequest 表示修改行项目数量请求。
// 数量为设置语义而非增量；0 或负数等价于删除该行。
type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// OrderQuote 表示结算试算结果。
// 运费与税费是结算侧策略，不属于购物车引擎本身。
type OrderQuote struct {
	SubtotalCents       int64 `json:"subtotal_cents"`
	BundleDiscountCents int64 `json:"bundle_discount_cents"`
	ShippingCents       int64 `json:"shipping_cents"`
	TaxCents            int64 `json:"tax_cents"`
	TotalCents          int64 `json:"total_cents"`
	FreeShipping        bool  `json:"free_shipping"`
}
