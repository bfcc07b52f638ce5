package domain

import "time"

// Review 表示商品评价
type Review struct {
	ID                 string    `json:"id"`
	ProductID          string    `json:"product_id"`
	UserID             int64     `json:"user_id"`
	Rating             int       `json:"rating"` // 1..5
	ReviewText         string    `json:"review_text"`
	Photos             []string  `json:"photos"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ReviewStats 表示商品评价汇总
type ReviewStats struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// RatingBucket 表示某一星级的评价数
type RatingBucket struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// ReviewSortOption 评价列表排序方式
type ReviewSortOption string

const (
	ReviewSortNewest     ReviewSortOption = "newest"
	ReviewSortOldest     ReviewSortOption = "oldest"
	ReviewSortHighest    ReviewSortOption = "highest"
	ReviewSortLowest     ReviewSortOption = "lowest"
	ReviewSortWithPhotos ReviewSortOption = "with_photos"
)

// SubmitReviewRequest 表示提交评价请求
type SubmitReviewRequest struct {
	Rating     int      `json:"rating"`
	ReviewText string   `json:"review_text"`
	Photos     []string `json:"photos"`
}
