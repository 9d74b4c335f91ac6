package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/codelab-api/internal/dto"
	"github.com/skillforge/codelab-api/internal/models"
)

type stubProblemRepo struct {
	problems map[uint]models.Problem
}

func (r *stubProblemRepo) Create(ctx context.Context, problem *models.Problem) error {
	if r.problems == nil {
		r.problems = map[uint]models.Problem{}
	}
	if problem.ID == 0 {
		problem.ID = uint(len(r.problems) + 1)
	}
	r.problems[problem.ID] = *problem
	return nil
}

func (r *stubProblemRepo) List(ctx context.Context) ([]models.Problem, error) {
	problems := make([]models.Problem, 0, len(r.problems))
	for _, p := range r.problems {
		problems = append(problems, p)
	}
	return problems, nil
}

func (r *stubProblemRepo) GetByID(ctx context.Context, id uint) (models.Problem, error) {
	if p, ok := r.problems[id]; ok {
		return p, nil
	}
	return models.Problem{}, gorm.ErrRecordNotFound
}

func (r *stubProblemRepo) GetBySlug(ctx context.Context, slug string) (models.Problem, error) {
	for _, p := range r.problems {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Problem{}, gorm.ErrRecordNotFound
}

type stubSubmissionRepo struct {
	mu    sync.Mutex
	items map[string]models.Submission
}

func (r *stubSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		r.items = map[string]models.Submission{}
	}
	r.items[submission.ID] = *submission
	return nil
}

func (r *stubSubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[submission.ID] = *submission
	return nil
}

func (r *stubSubmissionRepo) GetByID(ctx context.Context, id string) (models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.items[id]; ok {
		return s, nil
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (r *stubSubmissionRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	r.items[id] = s
	return nil
}

type stubEngine struct {
	outcome       ExecutionOutcome
	err           error
	lastHidden    bool
	lastLanguage  string
	lastProblemID uint
}

func (e *stubEngine) Supports(language string) bool {
	switch language {
	case "python", "javascript", "cpp":
		return true
	}
	return false
}

func (e *stubEngine) Execute(ctx context.Context, problem models.Problem, language, code string, includeHidden bool) (ExecutionOutcome, error) {
	e.lastHidden = includeHidden
	e.lastLanguage = language
	e.lastProblemID = problem.ID
	return e.outcome, e.err
}

func newQueueClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func twoSumFixture() models.Problem {
	return models.Problem{
		ID:         1,
		Slug:       "two-sum",
		Title:      "Two Sum",
		Difficulty: models.DifficultyEasy,
		IOSchema:   datatypes.JSON(`{"params":[{"name":"nums","type":"array","element_type":"int"},{"name":"target","type":"int"}],"output":{"type":"array","element_type":"int"}}`),
		TestCases: []models.TestCase{
			{Name: "Test Case 1", Input: datatypes.JSON(`{"nums":[2,7,11,15],"target":9}`), ExpectedOutput: "[0,1]", Points: 5},
			{Name: "Hidden Case", Input: datatypes.JSON(`{"nums":[3,3],"target":6}`), ExpectedOutput: "[0,1]", Hidden: true, Points: 5},
		},
	}
}

func newSubmissionService(t *testing.T, engine ExecutionEngine) (SubmissionService, *stubSubmissionRepo, *miniredis.Miniredis) {
	t.Helper()

	problems := &stubProblemRepo{problems: map[uint]models.Problem{1: twoSumFixture()}}
	submissions := &stubSubmissionRepo{}
	queue, mr := newQueueClient(t)

	svc := NewSubmissionService(submissions, problems, engine, queue, "", validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	return svc, submissions, mr
}

func TestCreateRunModeReturnsInlineResult(t *testing.T) {
	engine := &stubEngine{outcome: ExecutionOutcome{
		Verdict:     models.VerdictAccepted,
		Output:      "[0,1]",
		TestCases:   []dto.TestCaseResult{{Name: "Test Case 1", Passed: true, Points: 5}},
		TotalPoints: 5, MaxPoints: 5, PassedCount: 1, TotalCount: 1,
	}}
	svc, submissions, mr := newSubmissionService(t, engine)

	response, err := svc.Create(context.Background(), 7, dto.SubmissionRequest{
		ProblemID: "1", Language: "python", Code: "code", Mode: "run",
	})
	require.NoError(t, err)
	require.NotNil(t, response.Result)
	require.Equal(t, models.VerdictAccepted, response.Result.Status)
	require.True(t, response.Result.Passed)
	require.Empty(t, response.SubmissionID)

	// Practice runs are neither persisted nor queued.
	require.Empty(t, submissions.items)
	require.False(t, engine.lastHidden)
	require.False(t, mr.Exists(DefaultQueueKey))
}

func TestCreateSubmitPersistsAndEnqueues(t *testing.T) {
	svc, submissions, mr := newSubmissionService(t, &stubEngine{})

	response, err := svc.Create(context.Background(), 7, dto.SubmissionRequest{
		ProblemID: "two-sum", Language: "python", Code: "code", Mode: "submit",
	})
	require.NoError(t, err)
	require.NotEmpty(t, response.SubmissionID)
	require.Equal(t, models.SubmissionStatusQueued, response.Status)
	require.Nil(t, response.Result)

	queued, err := mr.List(DefaultQueueKey)
	require.NoError(t, err)
	require.Equal(t, []string{response.SubmissionID}, queued)

	stored, ok := submissions.items[response.SubmissionID]
	require.True(t, ok)
	require.Equal(t, models.SubmissionStatusQueued, stored.Status)
	require.Equal(t, uint(7), stored.UserID)
}

func TestCreateRejectsUnsupportedLanguage(t *testing.T) {
	svc, _, _ := newSubmissionService(t, &stubEngine{})

	_, err := svc.Create(context.Background(), 7, dto.SubmissionRequest{
		ProblemID: "1", Language: "cobol", Code: "code", Mode: "run",
	})
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestCreateSubmitRejectsLanguageWithoutRuntime(t *testing.T) {
	svc, submissions, mr := newSubmissionService(t, &stubEngine{})

	// Starter code exists for java, but no sandbox runtime does; the gate must
	// reject before anything is persisted or queued.
	_, err := svc.Create(context.Background(), 7, dto.SubmissionRequest{
		ProblemID: "1", Language: "java", Code: "code", Mode: "submit",
	})
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
	require.Empty(t, submissions.items)
	require.False(t, mr.Exists(DefaultQueueKey))
}

func TestCreateUnknownProblem(t *testing.T) {
	svc, _, _ := newSubmissionService(t, &stubEngine{})

	_, err := svc.Create(context.Background(), 7, dto.SubmissionRequest{
		ProblemID: "missing-problem", Language: "python", Code: "code", Mode: "run",
	})
	require.ErrorIs(t, err, ErrProblemNotFound)
}

func TestProcessJudgesHiddenCasesAndPersists(t *testing.T) {
	engine := &stubEngine{outcome: ExecutionOutcome{
		Verdict: models.VerdictWrongAnswer,
		TestCases: []dto.TestCaseResult{
			{Name: "Test Case 1", Passed: true, Points: 5},
			{Name: "Hidden Case", Passed: false},
		},
		TotalPoints: 5, MaxPoints: 10, PassedCount: 1, TotalCount: 2,
	}}
	svc, submissions, _ := newSubmissionService(t, engine)

	created, err := svc.Create(context.Background(), 7, dto.SubmissionRequest{
		ProblemID: "1", Language: "python", Code: "code", Mode: "submit",
	})
	require.NoError(t, err)

	processed, err := svc.Process(context.Background(), created.SubmissionID)
	require.NoError(t, err)
	require.True(t, engine.lastHidden)
	require.Equal(t, models.SubmissionStatusDone, processed.Status)
	require.Equal(t, models.VerdictWrongAnswer, processed.Verdict)
	require.Equal(t, 5, processed.TotalPoints)
	require.Equal(t, 10, processed.MaxPoints)

	stored := submissions.items[created.SubmissionID]
	require.True(t, stored.IsTerminal())

	response, err := svc.Get(context.Background(), created.SubmissionID)
	require.NoError(t, err)
	require.NotNil(t, response.Result)
	require.Equal(t, 2, response.Result.TotalCount)
	require.Len(t, response.Result.TestCases, 2)
}

func TestProcessIsIdempotentForTerminalSubmissions(t *testing.T) {
	engine := &stubEngine{outcome: ExecutionOutcome{
		Verdict:     models.VerdictAccepted,
		TotalCount:  1,
		PassedCount: 1,
	}}
	svc, _, _ := newSubmissionService(t, engine)

	created, err := svc.Create(context.Background(), 7, dto.SubmissionRequest{
		ProblemID: "1", Language: "python", Code: "code", Mode: "submit",
	})
	require.NoError(t, err)

	first, err := svc.Process(context.Background(), created.SubmissionID)
	require.NoError(t, err)

	engine.lastHidden = false
	second, err := svc.Process(context.Background(), created.SubmissionID)
	require.NoError(t, err)
	require.Equal(t, first.Verdict, second.Verdict)
	require.False(t, engine.lastHidden)
}

func TestProcessUnknownSubmission(t *testing.T) {
	svc, _, _ := newSubmissionService(t, &stubEngine{})

	_, err := svc.Process(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
