package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/skillforge/codelab-api/internal/codegen"
)

// Problem difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Problem represents a coding problem available in the editor.
type Problem struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Slug          string         `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Difficulty    string         `gorm:"size:32;not null" json:"difficulty"`
	Tags          string         `gorm:"type:text" json:"tags"`
	TimeLimitMs   int            `gorm:"default:5000" json:"time_limit_ms"`
	MemoryLimitKB int            `gorm:"default:262144" json:"memory_limit_kb"`
	IOSchema      datatypes.JSON `json:"io_schema"`
	Hints         datatypes.JSON `json:"hints"`
	TestCases     []TestCase     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"test_cases,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TagsSlice returns the comma separated tags as a slice.
func (p Problem) TagsSlice() []string {
	if p.Tags == "" {
		return nil
	}

	parts := strings.Split(p.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// Schema decodes the stored IO schema. A problem without a schema returns nil
// so starter code generation degrades to a zero-argument stub.
func (p Problem) Schema() *codegen.Schema {
	if len(p.IOSchema) == 0 {
		return nil
	}

	var schema codegen.Schema
	if err := json.Unmarshal(p.IOSchema, &schema); err != nil {
		return nil
	}
	if len(schema.Params) == 0 && schema.Output.Type == "" {
		return nil
	}
	return &schema
}

// SampleCases returns the visible subset of the problem's test cases.
func (p Problem) SampleCases() []TestCase {
	samples := make([]TestCase, 0, len(p.TestCases))
	for _, tc := range p.TestCases {
		if !tc.Hidden {
			samples = append(samples, tc)
		}
	}
	return samples
}

// TestCase is one judged input/output pair for a problem. Hidden cases are
// only exercised by graded submissions.
type TestCase struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ProblemID      uint           `gorm:"not null;index" json:"problem_id"`
	Name           string         `gorm:"size:128" json:"name"`
	Input          datatypes.JSON `json:"input"`
	ExpectedOutput string         `gorm:"type:text" json:"expected_output"`
	Hidden         bool           `gorm:"default:false" json:"hidden"`
	Points         int            `gorm:"default:0" json:"points"`
	OrderIndex     int            `gorm:"default:0" json:"order_index"`
	CreatedAt      time.Time      `json:"created_at"`
}

// InputMap decodes the stored test case input into a parameter map.
func (t TestCase) InputMap() (map[string]interface{}, error) {
	if len(t.Input) == 0 {
		return map[string]interface{}{}, nil
	}

	var input map[string]interface{}
	if err := json.Unmarshal(t.Input, &input); err != nil {
		return nil, err
	}
	return input, nil
}

// Language describes a selectable execution language and its sandbox image.
type Language struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Version       string    `gorm:"size:32" json:"version"`
	FileExtension string    `gorm:"size:16" json:"file_extension"`
	Image         string    `gorm:"size:128" json:"image"`
	Enabled       bool      `gorm:"default:true" json:"enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
