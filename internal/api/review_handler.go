package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/catalog"
	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/middleware"
	"github.com/RuiQin/stride_store/internal/resp"
	"github.com/RuiQin/stride_store/internal/service"
)

// ReviewHandler 评价相关的HTTP处理器
type ReviewHandler struct {
	reviewService service.ReviewService
	store         *catalog.Store
	logger        *zap.Logger
}

// NewReviewHandler 创建评价处理器实例
func NewReviewHandler(reviewService service.ReviewService, store *catalog.Store, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		store:         store,
		logger:        logger,
	}
}

// resolveProductID 将路径中的slug解析为商品ID
// 路径形如 /api/v1/products/{slug}/reviews[/...]
func (h *ReviewHandler) resolveProductID(w http.ResponseWriter, r *http.Request, reqID string) (string, bool) {
	slug := pathSegment(r.URL.Path, 4)
	if slug == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product slug", reqID, "")
		return "", false
	}
	product := h.store.ProductBySlug(slug)
	if product == nil {
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, "")
		return "", false
	}
	return product.ID, true
}

// ListReviews 评价列表
// GET /api/v1/products/{slug}/reviews?sort=&page=&page_size=
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	productID, ok := h.resolveProductID(w, r, reqID)
	if !ok {
		return
	}

	q := r.URL.Query()
	reviews, err := h.reviewService.List(
		productID,
		domain.ReviewSortOption(q.Get("sort")),
		parseIntDefault(q.Get("page"), 1),
		parseIntDefault(q.Get("page_size"), 10),
	)
	if err != nil {
		h.writeReviewError(w, err, reqID)
		return
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	resp.OK(w, reviews, reqID, "")
}

// ReviewStats 评价汇总
// GET /api/v1/products/{slug}/reviews/stats
func (h *ReviewHandler) ReviewStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	productID, ok := h.resolveProductID(w, r, reqID)
	if !ok {
		return
	}

	stats, err := h.reviewService.Stats(productID)
	if err != nil {
		h.writeReviewError(w, err, reqID)
		return
	}
	resp.OK(w, stats, reqID, "")
}

// ReviewDistribution 星级分布
// GET /api/v1/products/{slug}/reviews/distribution
func (h *ReviewHandler) ReviewDistribution(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	productID, ok := h.resolveProductID(w, r, reqID)
	if !ok {
		return
	}

	buckets, err := h.reviewService.Distribution(productID)
	if err != nil {
		h.writeReviewError(w, err, reqID)
		return
	}
	resp.OK(w, buckets, reqID, "")
}

// SubmitReview 提交评价，需要认证
// POST /api/v1/products/{slug}/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		resp.Error(w, http.StatusUnauthorized, resp.CodeUnauthorized, "authentication required", reqID, "")
		return
	}

	productID, ok := h.resolveProductID(w, r, reqID)
	if !ok {
		return
	}

	var req domain.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	review, err := h.reviewService.Submit(productID, user.ID, &req)
	if err != nil {
		h.writeReviewError(w, err, reqID)
		return
	}
	resp.Created(w, review, reqID, "")
}

// writeReviewError 将评价业务错误映射为响应
func (h *ReviewHandler) writeReviewError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, "")
	case errors.Is(err, service.ErrDuplicateReview):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "you have already reviewed this product", reqID, "")
	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrReviewTextTooShort),
		errors.Is(err, service.ErrTooManyPhotos):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
	default:
		h.logger.Error("review operation failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "review operation failed", reqID, "")
	}
}
