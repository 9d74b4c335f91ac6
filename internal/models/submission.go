package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Submission modes.
const (
	SubmissionModeRun    = "run"
	SubmissionModeSubmit = "submit"
)

// Submission statuses. A submission is terminal once done.
const (
	SubmissionStatusPending = "pending"
	SubmissionStatusQueued  = "queued"
	SubmissionStatusRunning = "running"
	SubmissionStatusDone    = "done"
)

// Judge verdicts recorded on completed submissions.
const (
	VerdictAccepted     = "accepted"
	VerdictWrongAnswer  = "wrong_answer"
	VerdictRuntimeError = "runtime_error"
	VerdictCompileError = "compile_error"
)

// Submission represents one graded code submission. Run-mode executions are
// never persisted; only graded submissions get a row and a queue entry.
type Submission struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	ProblemID     uint           `gorm:"not null;index" json:"problem_id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Language      string         `gorm:"size:32;not null" json:"language"`
	Code          string         `gorm:"type:text" json:"code"`
	Status        string         `gorm:"size:32;not null" json:"status"`
	Verdict       string         `gorm:"size:32" json:"verdict"`
	Output        string         `gorm:"type:text" json:"output"`
	ErrorOutput   string         `gorm:"type:text" json:"error_output"`
	CompileOutput string         `gorm:"type:text" json:"compile_output"`
	TotalPoints   int            `gorm:"default:0" json:"total_points"`
	MaxPoints     int            `gorm:"default:0" json:"max_points"`
	PassedCount   int            `gorm:"default:0" json:"passed_count"`
	TotalCount    int            `gorm:"default:0" json:"total_count"`
	TestResults   datatypes.JSON `json:"test_results"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Problem       Problem        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsTerminal reports whether the submission has finished judging.
func (s Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusDone
}

// SetTestResults stores the per-test-case breakdown as JSON.
func (s *Submission) SetTestResults(results interface{}) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	s.TestResults = datatypes.JSON(data)
	return nil
}

// CodeReview stores the AI critique generated for a submission. At most one
// review exists per submission; repeated requests return the stored row.
type CodeReview struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	SubmissionID     string         `gorm:"size:36;uniqueIndex;not null" json:"submission_id"`
	Summary          string         `gorm:"type:text" json:"summary"`
	Issues           datatypes.JSON `json:"issues"`
	Suggestions      datatypes.JSON `json:"suggestions"`
	QualityRating    int            `gorm:"default:0" json:"quality_rating"`
	OverallScore     int            `gorm:"default:0" json:"overall_score"`
	ProcessingTimeMs int64          `gorm:"default:0" json:"processing_time_ms"`
	Provider         string         `gorm:"size:32" json:"provider"`
	CreatedAt        time.Time      `json:"created_at"`
}
