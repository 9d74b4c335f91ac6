package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/codelab-api/internal/codegen"
	"github.com/skillforge/codelab-api/internal/dto"
	"github.com/skillforge/codelab-api/internal/models"
	"github.com/skillforge/codelab-api/internal/repository"
)

// ErrProblemNotFound indicates the problem cannot be located.
var ErrProblemNotFound = errors.New("problem not found")

// ProblemService exposes problem catalogue operations.
type ProblemService interface {
	Create(ctx context.Context, payload dto.ProblemCreateRequest) (dto.ProblemResponse, error)
	List(ctx context.Context) ([]dto.ProblemSummary, error)
	Get(ctx context.Context, id uint) (dto.ProblemResponse, error)
	StarterCode(ctx context.Context, id uint, language string) (dto.StarterCodeResponse, error)
}

type problemService struct {
	problems  repository.ProblemRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProblemService constructs a problem service. Problem descriptions are
// rendered as HTML in the editor, so they are sanitized on the way in.
func NewProblemService(problemRepo repository.ProblemRepository, validate *validator.Validate, logger zerolog.Logger) ProblemService {
	return &problemService{
		problems:  problemRepo,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "problem_service").Logger(),
	}
}

func (s *problemService) Create(ctx context.Context, payload dto.ProblemCreateRequest) (dto.ProblemResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProblemResponse{}, err
	}

	problem := models.Problem{
		Slug:          strings.ToLower(strings.TrimSpace(payload.Slug)),
		Title:         strings.TrimSpace(payload.Title),
		Description:   s.sanitizer.Sanitize(payload.Description),
		Difficulty:    payload.Difficulty,
		Tags:          strings.Join(payload.Tags, ","),
		TimeLimitMs:   payload.TimeLimitMs,
		MemoryLimitKB: payload.MemoryLimitKB,
	}

	if problem.TimeLimitMs <= 0 {
		problem.TimeLimitMs = 5000
	}
	if problem.MemoryLimitKB <= 0 {
		problem.MemoryLimitKB = 262144
	}

	if len(payload.IOSchema) > 0 {
		problem.IOSchema = datatypes.JSON(payload.IOSchema)
	}
	if len(payload.Hints) > 0 {
		if data, err := json.Marshal(payload.Hints); err == nil {
			problem.Hints = datatypes.JSON(data)
		}
	}

	for i, tc := range payload.TestCases {
		testCase := models.TestCase{
			Name:           tc.Name,
			ExpectedOutput: tc.ExpectedOutput,
			Hidden:         tc.Hidden,
			Points:         tc.Points,
			OrderIndex:     i,
		}
		if len(tc.Input) > 0 {
			testCase.Input = datatypes.JSON(tc.Input)
		}
		problem.TestCases = append(problem.TestCases, testCase)
	}

	if err := s.problems.Create(ctx, &problem); err != nil {
		return dto.ProblemResponse{}, err
	}

	return dto.NewProblemResponse(problem), nil
}

func (s *problemService) List(ctx context.Context) ([]dto.ProblemSummary, error) {
	problems, err := s.problems.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ProblemSummary, 0, len(problems))
	for _, problem := range problems {
		summaries = append(summaries, dto.NewProblemSummary(problem))
	}
	return summaries, nil
}

func (s *problemService) Get(ctx context.Context, id uint) (dto.ProblemResponse, error) {
	problem, err := s.problems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProblemResponse{}, ErrProblemNotFound
		}
		return dto.ProblemResponse{}, err
	}

	return dto.NewProblemResponse(problem), nil
}

func (s *problemService) StarterCode(ctx context.Context, id uint, language string) (dto.StarterCodeResponse, error) {
	problem, err := s.problems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StarterCodeResponse{}, ErrProblemNotFound
		}
		return dto.StarterCodeResponse{}, err
	}

	return dto.StarterCodeResponse{
		ProblemID: problem.ID,
		Language:  language,
		Code:      codegen.StarterCode(problem.Schema(), language),
	}, nil
}
