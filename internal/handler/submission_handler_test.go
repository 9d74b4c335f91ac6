package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/codelab-api/internal/dto"
	"github.com/skillforge/codelab-api/internal/models"
	"github.com/skillforge/codelab-api/internal/service"
	"github.com/skillforge/codelab-api/internal/utils"
)

type stubSubmissionService struct {
	createResponse dto.SubmissionResponse
	createErr      error
	getResponse    dto.SubmissionResponse
	getErr         error
	lastUserID     uint
	lastPayload    dto.SubmissionRequest
}

func (s *stubSubmissionService) Create(ctx context.Context, userID uint, payload dto.SubmissionRequest) (dto.SubmissionResponse, error) {
	s.lastUserID = userID
	s.lastPayload = payload
	return s.createResponse, s.createErr
}

func (s *stubSubmissionService) Get(ctx context.Context, id string) (dto.SubmissionResponse, error) {
	return s.getResponse, s.getErr
}

func (s *stubSubmissionService) Process(ctx context.Context, id string) (models.Submission, error) {
	return models.Submission{}, nil
}

func newSubmissionApp(svc service.SubmissionService) *fiber.App {
	app := fiber.New()
	h := NewSubmissionHandler(svc, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	h.Register(app.Group("/api/v1/submissions"))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}) (*http.Response, utils.APIResponse) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestSubmissionCreateRunReturnsInlineResult(t *testing.T) {
	svc := &stubSubmissionService{createResponse: dto.SubmissionResponse{
		Status: models.SubmissionStatusDone,
		Result: &dto.ExecutionResult{Status: models.VerdictAccepted, Passed: true, PassedCount: 2, TotalCount: 2},
	}}
	app := newSubmissionApp(svc)

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", dto.SubmissionRequest{
		ProblemID: "1",
		Language:  "python",
		Code:      "class Solution: ...",
		Mode:      models.SubmissionModeRun,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)
	require.Equal(t, models.SubmissionModeRun, svc.lastPayload.Mode)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var response dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(data, &response))
	require.Equal(t, models.SubmissionStatusDone, response.Status)
	require.NotNil(t, response.Result)
	require.True(t, response.Result.Passed)
}

func TestSubmissionCreateSubmitReturnsQueuedID(t *testing.T) {
	svc := &stubSubmissionService{createResponse: dto.SubmissionResponse{
		SubmissionID: "sub-1",
		Status:       models.SubmissionStatusQueued,
	}}
	app := newSubmissionApp(svc)

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", dto.SubmissionRequest{
		ProblemID: "two-sum",
		Language:  "python",
		Code:      "class Solution: ...",
		Mode:      models.SubmissionModeSubmit,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var response dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(data, &response))
	require.Equal(t, "sub-1", response.SubmissionID)
	require.Equal(t, models.SubmissionStatusQueued, response.Status)
}

func TestSubmissionCreateRejectsInvalidBody(t *testing.T) {
	app := newSubmissionApp(&stubSubmissionService{})

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/submissions", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmissionCreateRejectsMissingFields(t *testing.T) {
	app := newSubmissionApp(&stubSubmissionService{})

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", dto.SubmissionRequest{
		Language: "python",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.False(t, envelope.Success)
}

func TestSubmissionCreateUnsupportedLanguage(t *testing.T) {
	svc := &stubSubmissionService{createErr: service.ErrUnsupportedLanguage}
	app := newSubmissionApp(svc)

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", dto.SubmissionRequest{
		ProblemID: "1",
		Language:  "cobol",
		Code:      "x",
		Mode:      models.SubmissionModeRun,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "language not supported", envelope.Error)
}

func TestSubmissionCreateInternalError(t *testing.T) {
	svc := &stubSubmissionService{createErr: errors.New("queue unavailable")}
	app := newSubmissionApp(svc)

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", dto.SubmissionRequest{
		ProblemID: "1",
		Language:  "python",
		Code:      "x",
		Mode:      models.SubmissionModeSubmit,
	})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "internal server error", envelope.Error)
}

func TestSubmissionGetNotFound(t *testing.T) {
	svc := &stubSubmissionService{getErr: service.ErrSubmissionNotFound}
	app := newSubmissionApp(svc)

	resp, envelope := doJSON(t, app, fiber.MethodGet, "/api/v1/submissions/missing", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.False(t, envelope.Success)
}

func TestSubmissionGetReturnsStoredResult(t *testing.T) {
	svc := &stubSubmissionService{getResponse: dto.SubmissionResponse{
		SubmissionID: "sub-1",
		Status:       models.SubmissionStatusDone,
		Result:       &dto.ExecutionResult{Status: models.VerdictWrongAnswer, PassedCount: 1, TotalCount: 2},
	}}
	app := newSubmissionApp(svc)

	resp, envelope := doJSON(t, app, fiber.MethodGet, "/api/v1/submissions/sub-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var response dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(data, &response))
	require.Equal(t, models.VerdictWrongAnswer, response.Result.Status)
}
