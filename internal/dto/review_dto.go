package dto

import (
	"encoding/json"

	"github.com/skillforge/codelab-api/internal/models"
)

// ReviewRequest is the payload for requesting an AI code review.
type ReviewRequest struct {
	SubmissionID string `json:"submission_id" validate:"required"`
	Code         string `json:"code"`
	Language     string `json:"language"`
	ProblemTitle string `json:"problem_title"`
}

// ReviewResponse is the AI code review payload.
type ReviewResponse struct {
	SubmissionID     string   `json:"submission_id"`
	Summary          string   `json:"summary"`
	Issues           []string `json:"issues"`
	Suggestions      []string `json:"suggestions"`
	QualityRating    int      `json:"quality_rating"`
	OverallScore     int      `json:"overall_score"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
	Cached           bool     `json:"cached"`
}

// NewReviewResponse converts a stored review into its API shape.
func NewReviewResponse(review models.CodeReview, cached bool) ReviewResponse {
	response := ReviewResponse{
		SubmissionID:     review.SubmissionID,
		Summary:          review.Summary,
		QualityRating:    review.QualityRating,
		OverallScore:     review.OverallScore,
		ProcessingTimeMs: review.ProcessingTimeMs,
		Cached:           cached,
	}

	if len(review.Issues) > 0 {
		var issues []string
		if err := json.Unmarshal(review.Issues, &issues); err == nil {
			response.Issues = issues
		}
	}
	if len(review.Suggestions) > 0 {
		var suggestions []string
		if err := json.Unmarshal(review.Suggestions, &suggestions); err == nil {
			response.Suggestions = suggestions
		}
	}

	return response
}
