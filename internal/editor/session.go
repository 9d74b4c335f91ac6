package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillforge/codelab-api/internal/codegen"
	"github.com/skillforge/codelab-api/internal/judge"
	"github.com/skillforge/codelab-api/internal/review"
)

// ErrActionInFlight indicates a run or submit is already in progress for the
// session; controls stay disabled until it settles.
var ErrActionInFlight = errors.New("another action is in flight")

// ErrNoProblem indicates no problem has been selected yet.
var ErrNoProblem = errors.New("no problem selected")

// Default polling behaviour: every two seconds for up to two minutes.
const (
	DefaultPollInterval    = 2 * time.Second
	DefaultMaxPollAttempts = 60
)

// Dispatcher sends run/submit requests to the judge and fetches submission
// status. Satisfied by *judge.Client.
type Dispatcher interface {
	CreateSubmission(ctx context.Context, req judge.SubmissionRequest) (judge.SubmissionData, error)
	GetSubmission(ctx context.Context, submissionID string) (judge.SubmissionData, error)
}

// Reviewer obtains an AI code review for a graded submission. Satisfied by
// *review.Client.
type Reviewer interface {
	Fetch(ctx context.Context, req review.Request) (review.CodeReview, error)
}

// Config holds the session dependencies and tuning knobs.
type Config struct {
	Judge           Dispatcher
	Reviewer        Reviewer
	Logger          zerolog.Logger
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Session orchestrates one code-editor session: starter code generation,
// submission dispatch, result polling, and state reconciliation. All state is
// owned by the session and guarded by a single mutex; at most one polling
// task is live at any time.
type Session struct {
	judge           Dispatcher
	reviewer        Reviewer
	logger          zerolog.Logger
	pollInterval    time.Duration
	maxPollAttempts int

	mu         sync.Mutex
	generation uint64
	problem    *Problem
	language   Language
	code       string

	loading     bool
	output      string
	errMessage  string
	activeView  string
	testStates  []TestCaseState
	testResults []judge.TestCaseResult
	codeReview  *review.CodeReview
	reviewError string

	pollCancel context.CancelFunc
	pollDone   chan struct{}
	livePolls  atomic.Int32
}

// NewSession constructs an editor session.
func NewSession(cfg Config) *Session {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	attempts := cfg.MaxPollAttempts
	if attempts <= 0 {
		attempts = DefaultMaxPollAttempts
	}

	return &Session{
		judge:           cfg.Judge,
		reviewer:        cfg.Reviewer,
		logger:          cfg.Logger.With().Str("component", "editor_session").Logger(),
		pollInterval:    interval,
		maxPollAttempts: attempts,
		language:        DefaultLanguage(),
		activeView:      ViewOutput,
	}
}

// SetProblem switches the active problem. Any in-flight poll is cancelled,
// transient state is cleared, and starter code is regenerated from the new
// problem's schema.
func (s *Session) SetProblem(problem *Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.problem = problem
	s.resetLocked()
}

// SetLanguage switches the active language, regenerating starter code and
// discarding unsaved edits. No merge is attempted.
func (s *Session) SetLanguage(language Language) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.language = language
	s.resetLocked()
}

// Reset restores the generated starter code and clears output, test case
// results, review state, and any error.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

// resetLocked clears all transient state and cancels any active poll. The
// generation bump guarantees stale poll results can never be applied.
func (s *Session) resetLocked() {
	s.generation++
	s.cancelPollLocked()

	s.loading = false
	s.output = ""
	s.errMessage = ""
	s.activeView = ViewOutput
	s.codeReview = nil
	s.reviewError = ""
	s.testResults = nil

	if s.problem != nil {
		s.code = codegen.StarterCode(s.problem.Schema, s.language.Name)
		s.testStates = make([]TestCaseState, len(s.problem.SampleCases))
		for i := range s.testStates {
			s.testStates[i] = TestNotRun
		}
		return
	}
	s.code = ""
	s.testStates = nil
}

// SetCode replaces the session's edit buffer.
func (s *Session) SetCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
}

// Run executes the current code against the problem's sample test cases.
// The result is expected inline in the dispatch response; nothing is
// persisted and no AI review is requested.
func (s *Session) Run(ctx context.Context) error {
	req, generation, err := s.beginAction()
	if err != nil {
		return err
	}
	req.Mode = judge.ModeRun

	data, err := s.judge.CreateSubmission(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		// The problem or language changed while the request was in flight;
		// the result belongs to a session context that no longer exists.
		return nil
	}
	s.loading = false

	if err != nil {
		s.errMessage = err.Error()
		s.output = runFailedText
		return err
	}

	s.applyResultLocked(data.Result)
	return nil
}

// Submit sends the current code as a graded submission. A terminal inline
// result completes immediately; otherwise the session begins polling the
// judge for the submission's status.
func (s *Session) Submit(ctx context.Context) error {
	req, generation, err := s.beginAction()
	if err != nil {
		return err
	}
	req.Mode = judge.ModeSubmit

	data, err := s.judge.CreateSubmission(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return nil
	}

	if err != nil {
		s.loading = false
		s.errMessage = err.Error()
		s.output = submitFailText
		return err
	}

	if data.Result != nil && judge.IsTerminal(data.Status) {
		s.loading = false
		s.applyResultLocked(data.Result)
		s.requestReviewLocked(data.SubmissionID)
		return nil
	}

	s.output = fmt.Sprintf("Submission queued: %s", data.SubmissionID)
	for i := range s.testStates {
		s.testStates[i] = TestRunning
	}
	s.startPollLocked(data.SubmissionID)
	return nil
}

// beginAction validates preconditions and flips the loading guard. The
// returned generation must still match when the dispatch response arrives;
// otherwise the response belongs to a superseded problem or language context
// and must be dropped.
func (s *Session) beginAction() (judge.SubmissionRequest, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.problem == nil {
		return judge.SubmissionRequest{}, 0, ErrNoProblem
	}
	if s.loading {
		return judge.SubmissionRequest{}, 0, ErrActionInFlight
	}

	s.loading = true
	s.errMessage = ""
	s.output = ""

	return judge.SubmissionRequest{
		ProblemID: s.problem.ID,
		Language:  s.language.Name,
		Code:      s.code,
	}, s.generation, nil
}

// applyResultLocked reconciles a judge result into session state and switches
// to the test-case view when per-test-case data is present, so failures are
// visible without a manual tab switch.
func (s *Session) applyResultLocked(result *judge.ExecutionResult) {
	output, states, results := reconcileResult(result)
	s.output = output
	s.testResults = results

	if len(states) > 0 {
		copy(s.testStates, states)
		if len(states) > len(s.testStates) {
			s.testStates = states
		}
		s.activeView = ViewTestCases
	}

	if result != nil && result.AIReview != "" {
		s.codeReview = &review.CodeReview{Summary: result.AIReview}
	}
}

// startPollLocked launches the polling task for a submission, cancelling any
// previous one first so at most one poll is ever live.
func (s *Session) startPollLocked(submissionID string) {
	s.cancelPollLocked()

	ctx, cancel := context.WithCancel(context.Background())
	s.pollCancel = cancel
	done := make(chan struct{})
	s.pollDone = done

	go s.poll(ctx, s.generation, submissionID, done)
}

// cancelPollLocked stops the active polling task, if any.
func (s *Session) cancelPollLocked() {
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
}

// poll fetches the submission status on a fixed interval until a terminal
// status, the attempt ceiling, or cancellation. Transient fetch errors count
// toward the budget but do not stop polling; a flaky connection must not
// abandon a legitimate in-flight judge job.
func (s *Session) poll(ctx context.Context, generation uint64, submissionID string, done chan<- struct{}) {
	defer close(done)
	s.livePolls.Add(1)
	defer s.livePolls.Add(-1)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for attempts := 0; attempts < s.maxPollAttempts; attempts++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		data, err := s.judge.GetSubmission(ctx, submissionID)
		if err != nil {
			s.logger.Debug().Err(err).Str("submission_id", submissionID).Msg("poll attempt failed")
			continue
		}

		if judge.IsTerminal(data.Status) {
			s.completePoll(generation, submissionID, data.Result)
			return
		}

		status := data.Status
		if status == "" {
			status = judge.StatusPending
		}

		s.mu.Lock()
		if generation == s.generation {
			s.output = fmt.Sprintf("Submission %s status: %s", submissionID, status)
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return
	}
	s.loading = false
	s.errMessage = ErrPollTimeoutMessage()
	for i := range s.testStates {
		s.testStates[i] = TestNotRun
	}
}

// completePoll applies a terminal polled result, unless the session has moved
// on to a newer generation in the meantime.
func (s *Session) completePoll(generation uint64, submissionID string, result *judge.ExecutionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return
	}

	s.loading = false
	s.applyResultLocked(result)
	s.requestReviewLocked(submissionID)
}

// requestReviewLocked triggers the AI review for a graded submission. The
// request is fire-and-forget: a failure is recorded for the review panel only
// and never affects the submission's recorded result.
func (s *Session) requestReviewLocked(submissionID string) {
	if s.reviewer == nil || submissionID == "" {
		return
	}

	req := review.Request{
		SubmissionID: submissionID,
		Code:         s.code,
		Language:     s.language.Name,
	}
	if s.problem != nil {
		req.ProblemTitle = s.problem.Title
	}

	generation := s.generation
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		result, err := s.reviewer.Fetch(ctx, req)

		s.mu.Lock()
		defer s.mu.Unlock()
		if generation != s.generation {
			return
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("submission_id", submissionID).Msg("code review request failed")
			s.reviewError = err.Error()
			return
		}
		s.codeReview = &result
	}()
}

// ErrPollTimeoutMessage is the user-facing timeout wording.
func ErrPollTimeoutMessage() string {
	return judge.ErrPollTimeout.Error()
}

// Close cancels any background polling owned by the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.cancelPollLocked()
}

// Snapshot is a point-in-time copy of the session's UI-facing state.
type Snapshot struct {
	Problem     *Problem
	Language    Language
	Code        string
	Loading     bool
	Output      string
	Error       string
	ActiveView  string
	TestStates  []TestCaseState
	TestResults []judge.TestCaseResult
	Review      *review.CodeReview
	ReviewError string
}

// Snapshot returns a copy of the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]TestCaseState, len(s.testStates))
	copy(states, s.testStates)
	results := make([]judge.TestCaseResult, len(s.testResults))
	copy(results, s.testResults)

	var reviewCopy *review.CodeReview
	if s.codeReview != nil {
		clone := *s.codeReview
		reviewCopy = &clone
	}

	return Snapshot{
		Problem:     s.problem,
		Language:    s.language,
		Code:        s.code,
		Loading:     s.loading,
		Output:      s.output,
		Error:       s.errMessage,
		ActiveView:  s.activeView,
		TestStates:  states,
		TestResults: results,
		Review:      reviewCopy,
		ReviewError: s.reviewError,
	}
}

// WaitForPoll blocks until the active polling task finishes or the timeout
// elapses. Intended for tests and graceful teardown.
func (s *Session) WaitForPoll(timeout time.Duration) bool {
	s.mu.Lock()
	done := s.pollDone
	s.mu.Unlock()

	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
