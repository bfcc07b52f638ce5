package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/repo"
)

// 评价相关业务错误
var (
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrReviewTextTooShort = errors.New("review text must be at least 50 characters")
	ErrTooManyPhotos      = errors.New("at most 5 photos allowed")
	ErrDuplicateReview    = errors.New("user already reviewed this product")
	ErrProductNotFound    = errors.New("product not found")
)

const (
	minReviewTextLen = 50
	maxReviewPhotos  = 5
	defaultPageSize  = 10
	maxPageSize      = 50
)

// ProductLookup 提供商品存在性校验，由目录包实现
type ProductLookup interface {
	ProductByID(id string) *domain.Product
}

// ReviewService 定义评价服务接口
type ReviewService interface {
	Submit(productID string, userID int64, req *domain.SubmitReviewRequest) (*domain.Review, error)
	List(productID string, sortBy domain.ReviewSortOption, page, pageSize int) ([]*domain.Review, error)
	Stats(productID string) (*domain.ReviewStats, error)
	Distribution(productID string) ([]domain.RatingBucket, error)
}

// reviewService 是 ReviewService 接口的实现
type reviewService struct {
	reviewRepo repo.ReviewRepository
	products   ProductLookup
	logger     *zap.Logger
}

// NewReviewService 创建评价服务实例
func NewReviewService(reviewRepo repo.ReviewRepository, products ProductLookup, logger *zap.Logger) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		products:   products,
		logger:     logger,
	}
}

// Submit 提交评价。
// 校验规则：评分1到5、正文去除首尾空白后至少50字符、图片至多5张、
// 商品必须存在、同一用户对同一商品只能评价一次。
func (s *reviewService) Submit(productID string, userID int64, req *domain.SubmitReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	text := strings.TrimSpace(req.ReviewText)
	if len(text) < minReviewTextLen {
		return nil, ErrReviewTextTooShort
	}

	if len(req.Photos) > maxReviewPhotos {
		return nil, ErrTooManyPhotos
	}

	if s.products.ProductByID(productID) == nil {
		return nil, ErrProductNotFound
	}

	review := &domain.Review{
		ID:         uuid.NewString(),
		ProductID:  productID,
		UserID:     userID,
		Rating:     req.Rating,
		ReviewText: text,
		Photos:     req.Photos,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, repo.ErrDuplicateReview) {
			return nil, ErrDuplicateReview
		}
		s.logger.Error("failed to create review",
			zap.String("product_id", productID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("review submitted",
		zap.String("review_id", review.ID),
		zap.String("product_id", productID),
		zap.Int64("user_id", userID),
		zap.Int("rating", req.Rating),
	)
	return review, nil
}

// List 查询评价列表，页码从1开始
func (s *reviewService) List(productID string, sortBy domain.ReviewSortOption, page, pageSize int) ([]*domain.Review, error) {
	if s.products.ProductByID(productID) == nil {
		return nil, ErrProductNotFound
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	reviews, err := s.reviewRepo.ListByProduct(productID, sortBy, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("failed to list reviews", zap.String("product_id", productID), zap.Error(err))
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Stats 查询评价汇总
func (s *reviewService) Stats(productID string) (*domain.ReviewStats, error) {
	if s.products.ProductByID(productID) == nil {
		return nil, ErrProductNotFound
	}

	stats, err := s.reviewRepo.Stats(productID)
	if err != nil {
		s.logger.Error("failed to get review stats", zap.String("product_id", productID), zap.Error(err))
		return nil, fmt.Errorf("review stats: %w", err)
	}
	return stats, nil
}

// Distribution 查询星级分布
func (s *reviewService) Distribution(productID string) ([]domain.RatingBucket, error) {
	if s.products.ProductByID(productID) == nil {
		return nil, ErrProductNotFound
	}

	buckets, err := s.reviewRepo.Distribution(productID)
	if err != nil {
		s.logger.Error("failed to get review distribution", zap.String("product_id", productID), zap.Error(err))
		return nil, fmt.Errorf("review distribution: %w", err)
	}
	return buckets, nil
}
