package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/codelab-api/internal/dto"
	"github.com/skillforge/codelab-api/internal/models"
	"github.com/skillforge/codelab-api/internal/repository"
	"github.com/skillforge/codelab-api/pkg/ai"
)

// ErrReviewNotFound indicates no review exists for the submission.
var ErrReviewNotFound = errors.New("code review not found")

// ErrReviewerUnavailable indicates no AI reviewer is configured.
var ErrReviewerUnavailable = errors.New("reviewer unavailable")

// ReviewService exposes AI code review operations. Reviews are idempotent per
// submission: a second request returns the stored review flagged as cached.
type ReviewService interface {
	Get(ctx context.Context, submissionID string) (dto.ReviewResponse, error)
	Create(ctx context.Context, payload dto.ReviewRequest) (dto.ReviewResponse, error)
}

type reviewService struct {
	reviews     repository.ReviewRepository
	submissions repository.SubmissionRepository
	reviewer    ai.Reviewer
	provider    string
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewReviewService constructs a review service.
func NewReviewService(reviewRepo repository.ReviewRepository, submissionRepo repository.SubmissionRepository, reviewer ai.Reviewer, provider string, validate *validator.Validate, logger zerolog.Logger) ReviewService {
	return &reviewService{
		reviews:     reviewRepo,
		submissions: submissionRepo,
		reviewer:    reviewer,
		provider:    provider,
		validator:   validate,
		logger:      logger.With().Str("component", "review_service").Logger(),
	}
}

func (s *reviewService) Get(ctx context.Context, submissionID string) (dto.ReviewResponse, error) {
	review, err := s.reviews.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrReviewNotFound
		}
		return dto.ReviewResponse{}, err
	}

	return dto.NewReviewResponse(review, true), nil
}

func (s *reviewService) Create(ctx context.Context, payload dto.ReviewRequest) (dto.ReviewResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReviewResponse{}, err
	}

	if existing, err := s.reviews.GetBySubmissionID(ctx, payload.SubmissionID); err == nil {
		return dto.NewReviewResponse(existing, true), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ReviewResponse{}, err
	}

	if s.reviewer == nil {
		return dto.ReviewResponse{}, ErrReviewerUnavailable
	}

	submission, err := s.submissions.GetByID(ctx, payload.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrSubmissionNotFound
		}
		return dto.ReviewResponse{}, err
	}

	input := ai.ReviewInput{
		SubmissionID: submission.ID,
		ProblemTitle: submission.Problem.Title,
		Prompt:       submission.Problem.Description,
		Language:     submission.Language,
		Code:         submission.Code,
		Output:       submission.Output,
		Verdict:      submission.Verdict,
	}
	if input.ProblemTitle == "" {
		input.ProblemTitle = payload.ProblemTitle
	}
	if input.Code == "" {
		input.Code = payload.Code
	}

	start := time.Now()
	result, err := s.reviewer.Review(ctx, input)
	if err != nil {
		return dto.ReviewResponse{}, err
	}

	review := models.CodeReview{
		SubmissionID:     submission.ID,
		Summary:          result.Summary,
		QualityRating:    result.QualityRating,
		OverallScore:     result.OverallScore,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Provider:         s.provider,
	}
	if data, err := json.Marshal(result.Issues); err == nil {
		review.Issues = datatypes.JSON(data)
	}
	if data, err := json.Marshal(result.Suggestions); err == nil {
		review.Suggestions = datatypes.JSON(data)
	}

	if err := s.reviews.Create(ctx, &review); err != nil {
		// A concurrent request may have stored the review first; serve that one.
		if existing, getErr := s.reviews.GetBySubmissionID(ctx, submission.ID); getErr == nil {
			return dto.NewReviewResponse(existing, true), nil
		}
		return dto.ReviewResponse{}, err
	}

	return dto.NewReviewResponse(review, false), nil
}
