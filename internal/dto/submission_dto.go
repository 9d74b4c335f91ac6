package dto

import (
	"encoding/json"

	"github.com/skillforge/codelab-api/internal/models"
)

// SubmissionRequest is the payload for POST /submissions. ProblemID accepts a
// numeric id or a slug.
type SubmissionRequest struct {
	ProblemID string `json:"problem_id" validate:"required"`
	Language  string `json:"language" validate:"required"`
	Code      string `json:"code" validate:"required,min=1"`
	Mode      string `json:"mode" validate:"omitempty,oneof=run submit"`
}

// TestCaseResult is one test case's outcome in an execution result payload.
type TestCaseResult struct {
	Name            string      `json:"name"`
	Passed          bool        `json:"passed"`
	Input           interface{} `json:"input,omitempty"`
	ExpectedOutput  interface{} `json:"expected_output,omitempty"`
	ActualOutput    string      `json:"actual_output,omitempty"`
	Error           string      `json:"error,omitempty"`
	ExecutionTimeMs int64       `json:"execution_time_ms"`
	Points          int         `json:"points"`
}

// ExecutionResult is the judged outcome for a run or submission.
type ExecutionResult struct {
	Status       string           `json:"status,omitempty"`
	Output       string           `json:"output,omitempty"`
	Stdout       string           `json:"stdout,omitempty"`
	Error        string           `json:"error,omitempty"`
	CompileError string           `json:"compile_error,omitempty"`
	Passed       bool             `json:"passed"`
	TestCases    []TestCaseResult `json:"test_cases,omitempty"`
	TotalPoints  int              `json:"total_points"`
	MaxPoints    int              `json:"max_points"`
	PassedCount  int              `json:"passed_count"`
	TotalCount   int              `json:"total_count"`
}

// SubmissionResponse is the data portion returned for submission endpoints.
// Run-mode responses carry an inline result; graded submissions carry the
// submission id and current status, plus the result once judging finishes.
type SubmissionResponse struct {
	SubmissionID string           `json:"submission_id,omitempty"`
	Status       string           `json:"status,omitempty"`
	Result       *ExecutionResult `json:"result,omitempty"`
}

// NewSubmissionResponse projects a persisted submission into its API shape.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		SubmissionID: submission.ID,
		Status:       submission.Status,
	}

	if submission.IsTerminal() {
		result := &ExecutionResult{
			Status:       submission.Verdict,
			Output:       submission.Output,
			Error:        submission.ErrorOutput,
			CompileError: submission.CompileOutput,
			Passed:       submission.Verdict == models.VerdictAccepted,
			TotalPoints:  submission.TotalPoints,
			MaxPoints:    submission.MaxPoints,
			PassedCount:  submission.PassedCount,
			TotalCount:   submission.TotalCount,
		}

		if len(submission.TestResults) > 0 {
			var cases []TestCaseResult
			if err := json.Unmarshal(submission.TestResults, &cases); err == nil {
				result.TestCases = cases
			}
		}

		response.Result = result
	}

	return response
}
