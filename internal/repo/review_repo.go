package repo

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/RuiQin/stride_store/internal/database"
	"github.com/RuiQin/stride_store/internal/domain"
)

// ErrDuplicateReview 表示同一用户对同一商品重复评价。
// 由数据库唯一约束 (product_id, user_id) 保证，并发提交也只会有一条成功。
var ErrDuplicateReview = errors.New("user already reviewed this product")

// mysqlDuplicateEntry MySQL 唯一键冲突错误码
const mysqlDuplicateEntry = 1062

// ReviewRepository 定义评价数据访问接口
type ReviewRepository interface {
	Create(review *domain.Review) error
	ListByProduct(productID string, sortBy domain.ReviewSortOption, offset, limit int) ([]*domain.Review, error)
	Stats(productID string) (*domain.ReviewStats, error)
	Distribution(productID string) ([]domain.RatingBucket, error)
}

// reviewRepo 是 ReviewRepository 接口的数据库实现
type reviewRepo struct {
	db *database.DB
}

// NewReviewRepository 创建评价仓储实例
func NewReviewRepository(db *database.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

// Create 写入评价，命中唯一约束时返回 ErrDuplicateReview
func (r *reviewRepo) Create(review *domain.Review) error {
	photos, err := json.Marshal(review.Photos)
	if err != nil {
		return fmt.Errorf("marshal photos: %w", err)
	}

	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, review_text, photos, is_verified_purchase)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.ReviewText,
		photos,
		review.IsVerifiedPurchase,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return ErrDuplicateReview
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// orderClause 将排序选项映射为 ORDER BY 子句。
// with_photos 把带图评价排前，桶内按时间倒序。
func orderClause(sortBy domain.ReviewSortOption) string {
	switch sortBy {
	case domain.ReviewSortOldest:
		return "created_at ASC"
	case domain.ReviewSortHighest:
		return "rating DESC, created_at DESC"
	case domain.ReviewSortLowest:
		return "rating ASC, created_at DESC"
	case domain.ReviewSortWithPhotos:
		return "(JSON_LENGTH(photos) > 0) DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

// ListByProduct 查询指定商品的评价列表
func (r *reviewRepo) ListByProduct(productID string, sortBy domain.ReviewSortOption, offset, limit int) ([]*domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT id, product_id, user_id, rating, review_text, photos, is_verified_purchase, created_at, updated_at
		FROM reviews WHERE product_id = ?
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, orderClause(sortBy))

	rows, err := r.db.Query(query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review := &domain.Review{}
		var photos []byte
		err := rows.Scan(
			&review.ID,
			&review.ProductID,
			&review.UserID,
			&review.Rating,
			&review.ReviewText,
			&photos,
			&review.IsVerifiedPurchase,
			&review.CreatedAt,
			&review.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if len(photos) > 0 {
			if err := json.Unmarshal(photos, &review.Photos); err != nil {
				return nil, fmt.Errorf("unmarshal photos: %w", err)
			}
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// Stats 返回商品的平均评分与评价总数，无评价时均为零值
func (r *reviewRepo) Stats(productID string) (*domain.ReviewStats, error) {
	stats := &domain.ReviewStats{}
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews WHERE product_id = ?
	`

	err := r.db.QueryRow(query, productID).Scan(&stats.AverageRating, &stats.ReviewCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return stats, nil
		}
		return nil, fmt.Errorf("review stats: %w", err)
	}

	return stats, nil
}

// Distribution 返回1到5星各档的评价数，无评价的档位计数为0
func (r *reviewRepo) Distribution(productID string) ([]domain.RatingBucket, error) {
	query := `
		SELECT rating, COUNT(*) FROM reviews
		WHERE product_id = ? GROUP BY rating
	`

	rows, err := r.db.Query(query, productID)
	if err != nil {
		return nil, fmt.Errorf("review distribution: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int64, 5)
	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		counts[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distribution: %w", err)
	}

	buckets := make([]domain.RatingBucket, 0, 5)
	for rating := 5; rating >= 1; rating-- {
		buckets = append(buckets, domain.RatingBucket{Rating: rating, Count: counts[rating]})
	}
	return buckets, nil
}
