package domain

import "time"

// WishlistItem 表示心愿单条目，保存加入时的商品完整快照
type WishlistItem struct {
	Product   Product   `json:"product"`
	DateAdded time.Time `json:"date_added"`
}

// WishlistState 表示心愿单状态。
// 集合语义：同一商品ID至多出现一次；TotalItems 恒等于条目数。
type WishlistState struct {
	Items      []WishlistItem `json:"items"`
	TotalItems int            `json:"total_items"`
}

// AddWishlistItemRequest 表示加入心愿单请求
type AddWishlistItemRequest struct {
	ProductID string `json:"product_id"`
}
