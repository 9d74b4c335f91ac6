package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillforge/codelab-api/internal/models"
)

// ReviewRepository exposes persistence helpers for AI code reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.CodeReview) error
	GetBySubmissionID(ctx context.Context, submissionID string) (models.CodeReview, error)
}

// NewReviewRepository constructs a review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

type reviewRepository struct {
	db *gorm.DB
}

func (r *reviewRepository) Create(ctx context.Context, review *models.CodeReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetBySubmissionID(ctx context.Context, submissionID string) (models.CodeReview, error) {
	var review models.CodeReview
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&review).Error
	if err != nil {
		return models.CodeReview{}, err
	}
	return review, nil
}
