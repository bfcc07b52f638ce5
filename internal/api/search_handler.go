package api

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/catalog"
	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/middleware"
	"github.com/RuiQin/stride_store/internal/resp"
)

var errInvalidPrice = errors.New("invalid price parameter")

// SearchHandler 搜索相关的HTTP处理器
type SearchHandler struct {
	store  *catalog.Store
	logger *zap.Logger
}

// NewSearchHandler 创建搜索处理器实例
func NewSearchHandler(store *catalog.Store, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		store:  store,
		logger: logger,
	}
}

// searchResult 搜索响应
type searchResult struct {
	Query    string           `json:"query"`
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// Search 商品搜索
// GET /api/v1/search?q=&colors=&min_price=&max_price=&categories=&sort=&limit=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	q := r.URL.Query()

	query := q.Get("q")
	opts := catalog.SearchOptions{
		Query:  query,
		SortBy: catalog.SearchSort(q.Get("sort")),
	}

	if colors := q.Get("colors"); colors != "" {
		opts.Colors = splitCSV(colors)
	}
	if categories := q.Get("categories"); categories != "" {
		opts.Categories = splitCSV(categories)
	}

	minStr, maxStr := q.Get("min_price"), q.Get("max_price")
	if minStr != "" || maxStr != "" {
		min, err := parsePriceCents(minStr, 0)
		if err != nil {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
			return
		}
		max, err := parsePriceCents(maxStr, 1<<62)
		if err != nil {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
			return
		}
		opts.PriceRange = &[2]int64{min, max}
	}

	products := catalog.Search(h.store.Products(), opts)
	if products == nil {
		products = []domain.Product{}
	}

	if limit := parseIntDefault(q.Get("limit"), 0); limit > 0 && len(products) > limit {
		products = products[:limit]
	}

	resp.OK(w, &searchResult{
		Query:    strings.TrimSpace(query),
		Products: products,
		Total:    len(products),
	}, reqID, "")
}

// Suggestions 搜索联想词
// GET /api/v1/search/suggestions?q=&limit=
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	q := r.URL.Query()

	suggestions := catalog.Suggestions(h.store.Products(), q.Get("q"), parseIntDefault(q.Get("limit"), 5))
	if suggestions == nil {
		suggestions = []string{}
	}
	resp.OK(w, suggestions, reqID, "")
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
