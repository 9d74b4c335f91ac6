package handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/codelab-api/internal/dto"
	"github.com/skillforge/codelab-api/internal/models"
	"github.com/skillforge/codelab-api/internal/service"
)

type stubProblemService struct {
	createResponse dto.ProblemResponse
	createErr      error
	listResponse   []dto.ProblemSummary
	getResponse    dto.ProblemResponse
	getErr         error
	starter        dto.StarterCodeResponse
	starterErr     error
	lastLanguage   string
}

func (s *stubProblemService) Create(ctx context.Context, payload dto.ProblemCreateRequest) (dto.ProblemResponse, error) {
	return s.createResponse, s.createErr
}

func (s *stubProblemService) List(ctx context.Context) ([]dto.ProblemSummary, error) {
	return s.listResponse, nil
}

func (s *stubProblemService) Get(ctx context.Context, id uint) (dto.ProblemResponse, error) {
	return s.getResponse, s.getErr
}

func (s *stubProblemService) StarterCode(ctx context.Context, id uint, language string) (dto.StarterCodeResponse, error) {
	s.lastLanguage = language
	return s.starter, s.starterErr
}

func newProblemApp(svc service.ProblemService) *fiber.App {
	app := fiber.New()
	h := NewProblemHandler(svc, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	h.Register(app.Group("/api/v1/problems"))
	return app
}

func TestProblemCreateReturnsCreated(t *testing.T) {
	svc := &stubProblemService{createResponse: dto.ProblemResponse{ID: 1, Slug: "two-sum", Title: "Two Sum"}}
	app := newProblemApp(svc)

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/problems", dto.ProblemCreateRequest{
		Slug:        "two-sum",
		Title:       "Two Sum",
		Description: "Find two indices.",
		Difficulty:  models.DifficultyEasy,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, envelope.Success)
}

func TestProblemListReturnsSummaries(t *testing.T) {
	svc := &stubProblemService{listResponse: []dto.ProblemSummary{
		{ID: 1, Slug: "two-sum", Title: "Two Sum", Difficulty: models.DifficultyEasy},
		{ID: 2, Slug: "valid-anagram", Title: "Valid Anagram", Difficulty: models.DifficultyEasy},
	}}
	app := newProblemApp(svc)

	resp, envelope := doJSON(t, app, fiber.MethodGet, "/api/v1/problems", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var summaries []dto.ProblemSummary
	require.NoError(t, json.Unmarshal(data, &summaries))
	require.Len(t, summaries, 2)
	require.Equal(t, "valid-anagram", summaries[1].Slug)
}

func TestProblemGetNotFound(t *testing.T) {
	svc := &stubProblemService{getErr: service.ErrProblemNotFound}
	app := newProblemApp(svc)

	resp, envelope := doJSON(t, app, fiber.MethodGet, "/api/v1/problems/42", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.False(t, envelope.Success)
}

func TestProblemGetRejectsNonNumericID(t *testing.T) {
	app := newProblemApp(&stubProblemService{})

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/problems/not-a-number", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProblemStarterDefaultsToPython(t *testing.T) {
	svc := &stubProblemService{starter: dto.StarterCodeResponse{ProblemID: 1, Language: "python", Code: "class Solution:"}}
	app := newProblemApp(svc)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/problems/1/starter", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "python", svc.lastLanguage)
}

func TestProblemStarterNormalizesLanguageAlias(t *testing.T) {
	svc := &stubProblemService{starter: dto.StarterCodeResponse{ProblemID: 1, Language: "javascript"}}
	app := newProblemApp(svc)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/problems/1/starter?language=js", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "javascript", svc.lastLanguage)
}
