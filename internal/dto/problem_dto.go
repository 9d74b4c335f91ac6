package dto

import (
	"encoding/json"

	"github.com/skillforge/codelab-api/internal/models"
)

// ProblemCreateRequest is the payload for creating a problem.
type ProblemCreateRequest struct {
	Slug          string          `json:"slug" validate:"required,min=1,max=128"`
	Title         string          `json:"title" validate:"required,min=1,max=255"`
	Description   string          `json:"description" validate:"required"`
	Difficulty    string          `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Tags          []string        `json:"tags"`
	TimeLimitMs   int             `json:"time_limit_ms" validate:"omitempty,gt=0"`
	MemoryLimitKB int             `json:"memory_limit_kb" validate:"omitempty,gt=0"`
	IOSchema      json.RawMessage `json:"io_schema"`
	Hints         []string        `json:"hints"`
	TestCases     []TestCaseInput `json:"test_cases" validate:"dive"`
}

// TestCaseInput describes one test case in a problem create request.
type TestCaseInput struct {
	Name           string          `json:"name"`
	Input          json.RawMessage `json:"input"`
	ExpectedOutput string          `json:"expected_output" validate:"required"`
	Hidden         bool            `json:"hidden"`
	Points         int             `json:"points" validate:"gte=0"`
}

// ProblemSummary is the list-view projection of a problem.
type ProblemSummary struct {
	ID         uint     `json:"id"`
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
}

// SampleTestCase is a visible example test case shown alongside a problem.
type SampleTestCase struct {
	Name           string          `json:"name"`
	Input          json.RawMessage `json:"input"`
	ExpectedOutput string          `json:"expected_output"`
}

// ProblemResponse is the full problem payload served to the editor.
type ProblemResponse struct {
	ID            uint             `json:"id"`
	Slug          string           `json:"slug"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Difficulty    string           `json:"difficulty"`
	Tags          []string         `json:"tags"`
	TimeLimitMs   int              `json:"time_limit_ms"`
	MemoryLimitKB int              `json:"memory_limit_kb"`
	IOSchema      json.RawMessage  `json:"io_schema,omitempty"`
	Hints         []string         `json:"hints,omitempty"`
	SampleCases   []SampleTestCase `json:"sample_cases"`
}

// StarterCodeResponse carries generated starter code for one language.
type StarterCodeResponse struct {
	ProblemID uint   `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// NewProblemSummary projects a model into its list representation.
func NewProblemSummary(problem models.Problem) ProblemSummary {
	return ProblemSummary{
		ID:         problem.ID,
		Slug:       problem.Slug,
		Title:      problem.Title,
		Difficulty: problem.Difficulty,
		Tags:       problem.TagsSlice(),
	}
}

// NewProblemResponse builds the full problem DTO. Hidden test cases never
// leave the server.
func NewProblemResponse(problem models.Problem) ProblemResponse {
	response := ProblemResponse{
		ID:            problem.ID,
		Slug:          problem.Slug,
		Title:         problem.Title,
		Description:   problem.Description,
		Difficulty:    problem.Difficulty,
		Tags:          problem.TagsSlice(),
		TimeLimitMs:   problem.TimeLimitMs,
		MemoryLimitKB: problem.MemoryLimitKB,
	}

	if len(problem.IOSchema) > 0 {
		response.IOSchema = json.RawMessage(problem.IOSchema)
	}

	if len(problem.Hints) > 0 {
		var hints []string
		if err := json.Unmarshal(problem.Hints, &hints); err == nil {
			response.Hints = hints
		}
	}

	samples := problem.SampleCases()
	response.SampleCases = make([]SampleTestCase, 0, len(samples))
	for _, tc := range samples {
		response.SampleCases = append(response.SampleCases, SampleTestCase{
			Name:           tc.Name,
			Input:          json.RawMessage(tc.Input),
			ExpectedOutput: tc.ExpectedOutput,
		})
	}

	return response
}
