package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillforge/codelab-api/internal/codegen"
	"github.com/skillforge/codelab-api/internal/dto"
	"github.com/skillforge/codelab-api/internal/models"
	"github.com/skillforge/codelab-api/internal/repository"
)

// ErrSubmissionNotFound indicates the submission cannot be located.
var ErrSubmissionNotFound = errors.New("submission not found")

// DefaultQueueKey is the Redis list graded submissions are enqueued on.
const DefaultQueueKey = "codelab:submissions:queue"

// SubmissionService exposes run and submit operations for the editor.
type SubmissionService interface {
	Create(ctx context.Context, userID uint, payload dto.SubmissionRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, id string) (dto.SubmissionResponse, error)
	Process(ctx context.Context, id string) (models.Submission, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	problems    repository.ProblemRepository
	engine      ExecutionEngine
	queue       redis.Cmdable
	queueKey    string
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewSubmissionService constructs a submission service. Run-mode requests are
// judged synchronously against sample cases; graded submissions are persisted
// and pushed onto the Redis queue for the worker.
func NewSubmissionService(submissionRepo repository.SubmissionRepository, problemRepo repository.ProblemRepository, engine ExecutionEngine, queue redis.Cmdable, queueKey string, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	if queueKey == "" {
		queueKey = DefaultQueueKey
	}

	return &submissionService{
		submissions: submissionRepo,
		problems:    problemRepo,
		engine:      engine,
		queue:       queue,
		queueKey:    queueKey,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) Create(ctx context.Context, userID uint, payload dto.SubmissionRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	language := codegen.Normalize(payload.Language)
	if !s.engine.Supports(language) {
		return dto.SubmissionResponse{}, ErrUnsupportedLanguage
	}

	problem, err := s.resolveProblem(ctx, payload.ProblemID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	mode := payload.Mode
	if mode == "" {
		mode = models.SubmissionModeRun
	}

	if mode == models.SubmissionModeRun {
		return s.run(ctx, problem, language, payload.Code)
	}

	submission := models.Submission{
		ID:        uuid.NewString(),
		ProblemID: problem.ID,
		UserID:    userID,
		Language:  language,
		Code:      payload.Code,
		Status:    models.SubmissionStatusPending,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := s.queue.LPush(ctx, s.queueKey, submission.ID).Err(); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := s.submissions.UpdateStatus(ctx, submission.ID, models.SubmissionStatusQueued); err != nil {
		s.logger.Error().Err(err).Str("submission_id", submission.ID).Msg("failed to mark submission queued")
	}

	return dto.SubmissionResponse{
		SubmissionID: submission.ID,
		Status:       models.SubmissionStatusQueued,
	}, nil
}

func (s *submissionService) run(ctx context.Context, problem models.Problem, language, code string) (dto.SubmissionResponse, error) {
	outcome, err := s.engine.Execute(ctx, problem, language, code, false)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.SubmissionResponse{
		Status: models.SubmissionStatusDone,
		Result: outcomeToResult(outcome),
	}, nil
}

func (s *submissionService) Get(ctx context.Context, id string) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// Process judges a queued submission against all test cases, hidden included,
// and persists the terminal result. Called by the queue worker.
func (s *submissionService) Process(ctx context.Context, id string) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	if submission.IsTerminal() {
		return submission, nil
	}

	if err := s.submissions.UpdateStatus(ctx, submission.ID, models.SubmissionStatusRunning); err != nil {
		s.logger.Error().Err(err).Str("submission_id", submission.ID).Msg("failed to mark submission running")
	}

	outcome, err := s.engine.Execute(ctx, submission.Problem, submission.Language, submission.Code, true)
	if err != nil {
		submission.Status = models.SubmissionStatusDone
		submission.Verdict = models.VerdictRuntimeError
		submission.ErrorOutput = err.Error()
		if updateErr := s.submissions.Update(ctx, &submission); updateErr != nil {
			return models.Submission{}, updateErr
		}
		return submission, nil
	}

	submission.Status = models.SubmissionStatusDone
	submission.Verdict = outcome.Verdict
	submission.Output = outcome.Output
	submission.ErrorOutput = outcome.ErrorOutput
	submission.CompileOutput = outcome.CompileOutput
	submission.TotalPoints = outcome.TotalPoints
	submission.MaxPoints = outcome.MaxPoints
	submission.PassedCount = outcome.PassedCount
	submission.TotalCount = outcome.TotalCount

	if err := submission.SetTestResults(sanitizeHiddenCases(outcome.TestCases)); err != nil {
		s.logger.Error().Err(err).Str("submission_id", submission.ID).Msg("failed to encode test results")
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (s *submissionService) resolveProblem(ctx context.Context, ref string) (models.Problem, error) {
	ref = strings.TrimSpace(ref)

	var problem models.Problem
	var err error
	if id, parseErr := strconv.ParseUint(ref, 10, 64); parseErr == nil {
		problem, err = s.problems.GetByID(ctx, uint(id))
	} else {
		problem, err = s.problems.GetBySlug(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Problem{}, ErrProblemNotFound
		}
		return models.Problem{}, err
	}
	return problem, nil
}

func outcomeToResult(outcome ExecutionOutcome) *dto.ExecutionResult {
	return &dto.ExecutionResult{
		Status:       outcome.Verdict,
		Output:       outcome.Output,
		Error:        outcome.ErrorOutput,
		CompileError: outcome.CompileOutput,
		Passed:       outcome.Passed(),
		TestCases:    outcome.TestCases,
		TotalPoints:  outcome.TotalPoints,
		MaxPoints:    outcome.MaxPoints,
		PassedCount:  outcome.PassedCount,
		TotalCount:   outcome.TotalCount,
	}
}

// sanitizeHiddenCases strips inputs and expected outputs from hidden test
// cases before they are stored for the client.
func sanitizeHiddenCases(cases []dto.TestCaseResult) []dto.TestCaseResult {
	sanitized := make([]dto.TestCaseResult, len(cases))
	for i, tc := range cases {
		if tc.Input == nil {
			tc.ExpectedOutput = nil
		}
		sanitized[i] = tc
	}
	return sanitized
}
