package service

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/domain"
)

func validReviewText() string {
	return strings.Repeat("Great quality, fits perfectly. ", 3)
}

func TestReviewService_Submit(t *testing.T) {
	tests := []struct {
		name    string
		req     *domain.SubmitReviewRequest
		wantErr error
	}{
		{
			name: "valid review",
			req: &domain.SubmitReviewRequest{
				Rating:     5,
				ReviewText: validReviewText(),
			},
			wantErr: nil,
		},
		{
			name: "rating too low",
			req: &domain.SubmitReviewRequest{
				Rating:     0,
				ReviewText: validReviewText(),
			},
			wantErr: ErrInvalidRating,
		},
		{
			name: "rating too high",
			req: &domain.SubmitReviewRequest{
				Rating:     6,
				ReviewText: validReviewText(),
			},
			wantErr: ErrInvalidRating,
		},
		{
			name: "text too short",
			req: &domain.SubmitReviewRequest{
				Rating:     4,
				ReviewText: "Too short",
			},
			wantErr: ErrReviewTextTooShort,
		},
		{
			name: "whitespace does not count toward length",
			req: &domain.SubmitReviewRequest{
				Rating:     4,
				ReviewText: "   short   " + strings.Repeat(" ", 60),
			},
			wantErr: ErrReviewTextTooShort,
		},
		{
			name: "too many photos",
			req: &domain.SubmitReviewRequest{
				Rating:     4,
				ReviewText: validReviewText(),
				Photos:     []string{"a", "b", "c", "d", "e", "f"},
			},
			wantErr: ErrTooManyPhotos,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewReviewService(newMockReviewRepository(), newMockProductLookup("p1"), zap.NewNop())

			review, err := svc.Submit("p1", 1, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if review == nil {
					t.Fatal("Submit() returned nil review")
				}
				if review.ID == "" {
					t.Error("Submit() review has empty ID")
				}
				if review.ReviewText != strings.TrimSpace(tt.req.ReviewText) {
					t.Errorf("Submit() text = %q, want trimmed input", review.ReviewText)
				}
			}
		})
	}
}

func TestReviewService_Submit_UnknownProduct(t *testing.T) {
	svc := NewReviewService(newMockReviewRepository(), newMockProductLookup("p1"), zap.NewNop())

	_, err := svc.Submit("no-such", 1, &domain.SubmitReviewRequest{
		Rating:     5,
		ReviewText: validReviewText(),
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Submit() error = %v, want ErrProductNotFound", err)
	}
}

func TestReviewService_Submit_Duplicate(t *testing.T) {
	svc := NewReviewService(newMockReviewRepository(), newMockProductLookup("p1"), zap.NewNop())

	req := &domain.SubmitReviewRequest{Rating: 5, ReviewText: validReviewText()}
	if _, err := svc.Submit("p1", 1, req); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}

	_, err := svc.Submit("p1", 1, req)
	if !errors.Is(err, ErrDuplicateReview) {
		t.Errorf("second Submit() error = %v, want ErrDuplicateReview", err)
	}

	// A different user may still review the same product.
	if _, err := svc.Submit("p1", 2, req); err != nil {
		t.Errorf("Submit() by another user error = %v", err)
	}
}

func TestReviewService_List(t *testing.T) {
	repo := newMockReviewRepository()
	svc := NewReviewService(repo, newMockProductLookup("p1"), zap.NewNop())

	for userID := int64(1); userID <= 3; userID++ {
		if _, err := svc.Submit("p1", userID, &domain.SubmitReviewRequest{
			Rating:     int(userID) + 2,
			ReviewText: validReviewText(),
		}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	reviews, err := svc.List("p1", domain.ReviewSortNewest, 1, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(reviews) != 3 {
		t.Errorf("List() returned %d reviews, want 3", len(reviews))
	}

	// Out-of-range page yields an empty list, not an error.
	reviews, err = svc.List("p1", domain.ReviewSortNewest, 9, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("List() page 9 returned %d reviews, want 0", len(reviews))
	}

	if _, err := svc.List("no-such", domain.ReviewSortNewest, 1, 10); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("List() unknown product error = %v, want ErrProductNotFound", err)
	}
}

func TestReviewService_Stats(t *testing.T) {
	svc := NewReviewService(newMockReviewRepository(), newMockProductLookup("p1"), zap.NewNop())

	stats, err := svc.Stats("p1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.ReviewCount != 0 || stats.AverageRating != 0 {
		t.Errorf("Stats() on empty product = %+v, want zeros", stats)
	}

	svc.Submit("p1", 1, &domain.SubmitReviewRequest{Rating: 4, ReviewText: validReviewText()})
	svc.Submit("p1", 2, &domain.SubmitReviewRequest{Rating: 5, ReviewText: validReviewText()})

	stats, err = svc.Stats("p1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.ReviewCount != 2 {
		t.Errorf("ReviewCount = %d, want 2", stats.ReviewCount)
	}
	if stats.AverageRating != 4.5 {
		t.Errorf("AverageRating = %v, want 4.5", stats.AverageRating)
	}
}

func TestReviewService_Distribution(t *testing.T) {
	svc := NewReviewService(newMockReviewRepository(), newMockProductLookup("p1"), zap.NewNop())

	svc.Submit("p1", 1, &domain.SubmitReviewRequest{Rating: 5, ReviewText: validReviewText()})
	svc.Submit("p1", 2, &domain.SubmitReviewRequest{Rating: 5, ReviewText: validReviewText()})
	svc.Submit("p1", 3, &domain.SubmitReviewRequest{Rating: 2, ReviewText: validReviewText()})

	buckets, err := svc.Distribution("p1")
	if err != nil {
		t.Fatalf("Distribution() error = %v", err)
	}
	if len(buckets) != 5 {
		t.Fatalf("Distribution() returned %d buckets, want 5", len(buckets))
	}
	if buckets[0].Rating != 5 || buckets[0].Count != 2 {
		t.Errorf("bucket[0] = %+v, want rating 5 count 2", buckets[0])
	}
	if buckets[3].Rating != 2 || buckets[3].Count != 1 {
		t.Errorf("bucket[3] = %+v, want rating 2 count 1", buckets[3])
	}
	if buckets[4].Rating != 1 || buckets[4].Count != 0 {
		t.Errorf("bucket[4] = %+v, want rating 1 count 0", buckets[4])
	}
}

func TestReviewService_RepoFailure(t *testing.T) {
	repo := newMockReviewRepository()
	repo.failWith = errRepoDown
	svc := NewReviewService(repo, newMockProductLookup("p1"), zap.NewNop())

	if _, err := svc.Stats("p1"); err == nil {
		t.Error("Stats() with failing repo returned nil error")
	}
	if _, err := svc.Submit("p1", 1, &domain.SubmitReviewRequest{
		Rating:     5,
		ReviewText: validReviewText(),
	}); err == nil {
		t.Error("Submit() with failing repo returned nil error")
	}
}
