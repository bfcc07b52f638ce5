package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/cart"
	"github.com/RuiQin/stride_store/internal/catalog"
	"github.com/RuiQin/stride_store/internal/checkout"
	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/middleware"
	"github.com/RuiQin/stride_store/internal/resp"
)

// CartHandler 购物车相关的HTTP处理器
type CartHandler struct {
	carts  *cart.Manager
	store  *catalog.Store
	logger *zap.Logger
}

// NewCartHandler 创建购物车处理器实例
func NewCartHandler(carts *cart.Manager, store *catalog.Store, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		store:  store,
		logger: logger,
	}
}

// engine 取当前会话的购物车引擎
func (h *CartHandler) engine(r *http.Request) *cart.Engine {
	return h.carts.Session(middleware.SessionIDFromContext(r.Context()))
}

// GetCart 购物车状态
// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	resp.OK(w, h.engine(r).State(), reqID, "")
}

// AddItem 加入商品
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.AddCartItemRequest
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

	state := h.engine(r).AddItem(r.Context(), product, req.Quantity, req.SelectedVariant, req.SelectedSize)
	resp.OK(w, state, reqID, "")
}

// UpdateItem 更新行项目数量
// PUT /api/v1/cart/items/{id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	itemID := pathSegment(r.URL.Path, 5) // /api/v1/cart/items/{id}
	if itemID == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid item id", reqID, "")
		return
	}

	var req domain.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	state := h.engine(r).UpdateQuantity(r.Context(), itemID, req.Quantity)
	resp.OK(w, state, reqID, "")
}

// RemoveItem 删除行项目
// DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	itemID := pathSegment(r.URL.Path, 5)
	if itemID == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid item id", reqID, "")
		return
	}

	state := h.engine(r).RemoveItem(r.Context(), itemID)
	resp.OK(w, state, reqID, "")
}

// ClearCart 清空购物车
// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	resp.OK(w, h.engine(r).Clear(r.Context()), reqID, "")
}

// Quote 结算试算
// GET /api/v1/cart/quote
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	resp.OK(w, checkout.Quote(h.engine(r).State()), reqID, "")
}
