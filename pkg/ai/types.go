package ai

import "context"

// ReviewInput contains the artefacts needed to review a code submission.
type ReviewInput struct {
	SubmissionID string
	ProblemTitle string
	Prompt       string
	Language     string
	Code         string
	Output       string
	Verdict      string
}

// ReviewResult is the structured critique returned by the AI reviewer.
// QualityRating ranges 1-5 and OverallScore 0-100.
type ReviewResult struct {
	Summary       string                 `json:"summary"`
	Issues        []string               `json:"issues"`
	Suggestions   []string               `json:"suggestions"`
	QualityRating int                    `json:"quality_rating"`
	OverallScore  int                    `json:"overall_score"`
	Raw           map[string]interface{} `json:"raw,omitempty"`
}

// Reviewer describes an AI model capable of reviewing code submissions.
type Reviewer interface {
	Review(ctx context.Context, input ReviewInput) (ReviewResult, error)
}
