package judge

// Submission modes accepted by the judge.
const (
	ModeRun    = "run"
	ModeSubmit = "submit"
)

// Submission statuses reported by the judge. A submission is terminal once it
// reaches done or finished; everything else means the result is still pending.
const (
	StatusPending  = "pending"
	StatusQueued   = "queued"
	StatusRunning  = "running"
	StatusDone     = "done"
	StatusFinished = "finished"
)

// Result statuses embedded in an execution result.
const (
	ResultAccepted     = "accepted"
	ResultWrongAnswer  = "wrong_answer"
	ResultRuntimeError = "runtime_error"
	ResultCompileError = "compile_error"
)

// IsTerminal reports whether a submission status is final.
func IsTerminal(status string) bool {
	return status == StatusDone || status == StatusFinished
}

// SubmissionRequest is the payload for POST /submissions.
type SubmissionRequest struct {
	ProblemID string `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
	Mode      string `json:"mode,omitempty"`
}

// TestCaseResult is one test case's outcome inside an execution result.
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

// ExecutionResult is the judge's verdict for a run or submission. The judge
// populates fields opportunistically, so consumers must go through the
// accessor helpers instead of trusting any single field.
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
	AIReview     string           `json:"ai_review,omitempty"`
}

// CombinedOutput resolves the human-readable program output: prefer output,
// fall back to stdout, else empty.
func (r *ExecutionResult) CombinedOutput() string {
	if r == nil {
		return ""
	}
	if r.Output != "" {
		return r.Output
	}
	return r.Stdout
}

// HasCompileError reports whether the result represents a compilation failure.
func (r *ExecutionResult) HasCompileError() bool {
	if r == nil {
		return false
	}
	return r.CompileError != "" || r.Status == ResultCompileError
}

// CompileMessage returns the compiler diagnostics for a failed compilation.
func (r *ExecutionResult) CompileMessage() string {
	if r == nil {
		return ""
	}
	if r.CompileError != "" {
		return r.CompileError
	}
	return r.Error
}

// SubmissionData is the data portion of the judge's response envelope.
type SubmissionData struct {
	SubmissionID string           `json:"submission_id,omitempty"`
	Status       string           `json:"status,omitempty"`
	Result       *ExecutionResult `json:"result,omitempty"`
}

// Envelope is the common judge response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Data    *SubmissionData `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// RejectionMessage extracts the judge's failure message with fallbacks.
func (e Envelope) RejectionMessage() string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return "submission rejected by judge"
}
