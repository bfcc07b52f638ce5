// Package api 提供店面相关的HTTP API处理器实现。
package api

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/catalog"
	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/middleware"
	"github.com/RuiQin/stride_store/internal/resp"
)

// CatalogHandler 目录相关的HTTP处理器
type CatalogHandler struct {
	store  *catalog.Store
	logger *zap.Logger
}

// NewCatalogHandler 创建目录处理器实例
func NewCatalogHandler(store *catalog.Store, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:  store,
		logger: logger,
	}
}

// productPage 商品列表响应
type productPage struct {
	Products   []domain.Product `json:"products"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

// ListProducts 商品列表，支持筛选、排序与分页
// GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	q := r.URL.Query()

	filter, err := parseFilterState(q)
	if err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
		return
	}

	products := catalog.Filter(h.store.Products(), filter)
	products = catalog.Sort(products, domain.SortKey(q.Get("sort")))

	page := parseIntDefault(q.Get("page"), 1)
	pageSize := parseIntDefault(q.Get("page_size"), 6)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 6
	}

	// 越界页收敛到有效区间
	totalPages := catalog.TotalPages(len(products), pageSize)
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	items := catalog.Paginate(products, pageSize, page)
	if items == nil {
		items = []domain.Product{}
	}

	resp.OK(w, &productPage{
		Products:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(products),
		TotalPages: totalPages,
	}, reqID, "")
}

// GetProduct 商品详情
// GET /api/v1/products/{slug}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	slug := pathSegment(r.URL.Path, 4) // /api/v1/products/{slug}
	if slug == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product slug", reqID, "")
		return
	}

	product := h.store.ProductBySlug(slug)
	if product == nil {
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, "")
		return
	}

	resp.OK(w, product, reqID, "")
}

// ListCategories 分类参考数据
// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	resp.OK(w, h.store.Categories(), reqID, "")
}

// ListCollections 合集参考数据
// GET /api/v1/collections
func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	resp.OK(w, h.store.Collections(), reqID, "")
}

// ListContentBlocks 页面内容块，按位置过滤
// GET /api/v1/content-blocks?position=
func (h *CatalogHandler) ListContentBlocks(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	position := r.URL.Query().Get("position")
	if position == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "position is required", reqID, "")
		return
	}

	blocks := h.store.ContentBlocksByPosition(position)
	if blocks == nil {
		blocks = []domain.ContentBlock{}
	}
	resp.OK(w, blocks, reqID, "")
}

// parseFilterState 从查询参数解析筛选条件。
// gender 参数与 category 合并为复合标记，与前端路由形式保持一致。
func parseFilterState(q map[string][]string) (domain.FilterState, error) {
	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	f := domain.FilterState{
		Category:   get("category"),
		Collection: get("collection"),
	}

	if gender := get("gender"); gender != "" {
		if f.Category != "" {
			f.Category = gender + "-" + f.Category
		} else {
			f.Category = gender
		}
	}

	minStr, maxStr := get("min_price"), get("max_price")
	if minStr != "" || maxStr != "" {
		min, err := parsePriceCents(minStr, 0)
		if err != nil {
			return f, err
		}
		max, err := parsePriceCents(maxStr, 1<<62)
		if err != nil {
			return f, err
		}
		f.PriceRange = &[2]int64{min, max}
	}

	if colors := get("colors"); colors != "" {
		for _, c := range strings.Split(colors, ",") {
			if c = strings.TrimSpace(c); c != "" {
				f.Colors = append(f.Colors, c)
			}
		}
	}

	if v := get("new"); v != "" {
		b := v == "true" || v == "1"
		f.IsNew = &b
	}
	if v := get("featured"); v != "" {
		b := v == "true" || v == "1"
		f.IsFeatured = &b
	}

	return f, nil
}

func parsePriceCents(s string, def int64) (int64, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, errInvalidPrice
	}
	return n, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// pathSegment 返回URL路径的第n段（从0计），不存在时返回空串
func pathSegment(path string, n int) string {
	parts := strings.Split(path, "/")
	if len(parts) <= n {
		return ""
	}
	return parts[n]
}
