package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/catalog"
	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/middleware"
	"github.com/RuiQin/stride_store/internal/resp"
	"github.com/RuiQin/stride_store/internal/wishlist"
)

// WishlistHandler 心愿单相关的HTTP处理器
type WishlistHandler struct {
	wishlists *wishlist.Manager
	store     *catalog.Store
	logger    *zap.Logger
}

// NewWishlistHandler 创建心愿单处理器实例
func NewWishlistHandler(wishlists *wishlist.Manager, store *catalog.Store, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlists: wishlists,
		store:     store,
		logger:    logger,
	}
}

func (h *WishlistHandler) engine(r *http.Request) *wishlist.Engine {
	return h.wishlists.Session(middleware.SessionIDFromContext(r.Context()))
}

// GetWishlist 心愿单状态
// GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	resp.OK(w, h.engine(r).State(), reqID, "")
}

// AddItem 收藏商品
// POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.AddWishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}
	if req.ProductID == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "product_id is required", reqID, "")
		return
	}

	product := h.store.ProductByID(req.ProductID)
	if product == nil {
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, "")
		return
	}

	// 重复收藏是无操作而非错误
	h.engine(r).Add(r.Context(), product)
	resp.OK(w, h.engine(r).State(), reqID, "")
}

// RemoveItem 取消收藏
// DELETE /api/v1/wishlist/items/{id}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	productID := pathSegment(r.URL.Path, 5) // /api/v1/wishlist/items/{id}
	if productID == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product id", reqID, "")
		return
	}

	h.engine(r).Remove(r.Context(), productID)
	resp.OK(w, h.engine(r).State(), reqID, "")
}

// ClearWishlist 清空心愿单
// DELETE /api/v1/wishlist
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	h.engine(r).Clear(r.Context())
	resp.OK(w, h.engine(r).State(), reqID, "")
}
