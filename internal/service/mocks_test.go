package service

import (
	"errors"

	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/repo"
)

// Mock UserRepository for testing
type mockUserRepository struct {
	users    map[int64]*domain.User
	byName   map[string]*domain.User
	byEmail  map[string]*domain.User
	nextID   int64
	failWith error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:   make(map[int64]*domain.User),
		byName:  make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		nextID:  1,
	}
}

func (m *mockUserRepository) Create(user *domain.User) error {
	if m.failWith != nil {
		return m.failWith
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	m.byName[user.Username] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*domain.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.users[id], nil
}

func (m *mockUserRepository) GetByUsername(username string) (*domain.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.byName[username], nil
}

func (m *mockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.byEmail[email], nil
}

// Mock ReviewRepository for testing
type mockReviewRepository struct {
	reviews  []*domain.Review
	failWith error
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{}
}

func (m *mockReviewRepository) Create(review *domain.Review) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, r := range m.reviews {
		if r.ProductID == review.ProductID && r.UserID == review.UserID {
			return repo.ErrDuplicateReview
		}
	}
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *mockReviewRepository) ListByProduct(productID string, sortBy domain.ReviewSortOption, offset, limit int) ([]*domain.Review, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []*domain.Review
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockReviewRepository) Stats(productID string) (*domain.ReviewStats, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	stats := &domain.ReviewStats{}
	var sum int64
	for _, r := range m.reviews {
		if r.ProductID == productID {
			stats.ReviewCount++
			sum += int64(r.Rating)
		}
	}
	if stats.ReviewCount > 0 {
		stats.AverageRating = float64(sum) / float64(stats.ReviewCount)
	}
	return stats, nil
}

func (m *mockReviewRepository) Distribution(productID string) ([]domain.RatingBucket, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	counts := make(map[int]int64)
	for _, r := range m.reviews {
		if r.ProductID == productID {
			counts[r.Rating]++
		}
	}
	buckets := make([]domain.RatingBucket, 0, 5)
	for rating := 5; rating >= 1; rating-- {
		buckets = append(buckets, domain.RatingBucket{Rating: rating, Count: counts[rating]})
	}
	return buckets, nil
}

// Mock ProductLookup for testing
type mockProductLookup struct {
	products map[string]*domain.Product
}

func newMockProductLookup(ids ...string) *mockProductLookup {
	m := &mockProductLookup{products: make(map[string]*domain.Product)}
	for _, id := range ids {
		m.products[id] = &domain.Product{ID: id, Title: "Product " + id}
	}
	return m
}

func (m *mockProductLookup) ProductByID(id string) *domain.Product {
	return m.products[id]
}

var errRepoDown = errors.New("repository unavailable")
