package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "codelab",
		Subsystem: "judge",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests to the judge service",
	}, []string{"operation"})

	requestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codelab",
		Subsystem: "judge",
		Name:      "request_failures_total",
		Help:      "Number of failed requests to the judge service",
	}, []string{"operation", "kind"})
)

// CredentialProvider supplies the bearer token used to authenticate against
// the judge. Injected so the client is testable without a real session store.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a plain function to the CredentialProvider interface.
type TokenFunc func(ctx context.Context) (string, error)

// Token implements CredentialProvider.
func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken returns a provider that always yields the same token.
func StaticToken(token string) CredentialProvider {
	return TokenFunc(func(context.Context) (string, error) {
		return token, nil
	})
}

// Config holds the judge client configuration.
type Config struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials CredentialProvider
	Logger      zerolog.Logger
}

// Client talks to the external judge service.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialProvider
	logger  zerolog.Logger
}

// NewClient constructs a judge client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("judge base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid judge base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		creds:   cfg.Credentials,
		logger:  cfg.Logger.With().Str("component", "judge_client").Logger(),
	}, nil
}

// CreateSubmission sends a run or submit request to the judge and classifies
// the immediate response. Transport failures surface as NetworkError; judge
// rejections surface as RejectedError carrying the judge's message.
func (c *Client) CreateSubmission(ctx context.Context, req SubmissionRequest) (SubmissionData, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SubmissionData{}, fmt.Errorf("encode submission: %w", err)
	}

	data, err := c.do(ctx, "create_submission", http.MethodPost, "/submissions", bytes.NewReader(body))
	if err != nil {
		return SubmissionData{}, err
	}

	if req.Mode == ModeSubmit && data.SubmissionID == "" {
		return SubmissionData{}, &RejectedError{Message: "judge response missing submission id"}
	}

	return data, nil
}

// GetSubmission fetches the current status of a persisted submission.
func (c *Client) GetSubmission(ctx context.Context, submissionID string) (SubmissionData, error) {
	if strings.TrimSpace(submissionID) == "" {
		return SubmissionData{}, fmt.Errorf("submission id is required")
	}

	return c.do(ctx, "get_submission", http.MethodGet, "/submissions/"+url.PathEscape(submissionID), nil)
}

func (c *Client) do(ctx context.Context, operation, method, path string, body io.Reader) (SubmissionData, error) {
	start := time.Now()

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return SubmissionData{}, fmt.Errorf("build judge request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			requestFailures.WithLabelValues(operation, "credentials").Inc()
			return SubmissionData{}, fmt.Errorf("resolve judge credentials: %w", err)
		}
		if token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	response, err := c.http.Do(request)
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		requestFailures.WithLabelValues(operation, "network").Inc()
		return SubmissionData{}, &NetworkError{Err: err}
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		requestFailures.WithLabelValues(operation, "network").Inc()
		return SubmissionData{}, &NetworkError{Err: err}
	}

	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		requestFailures.WithLabelValues(operation, "decode").Inc()
		return SubmissionData{}, &RejectedError{
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("unexpected judge response (%d)", response.StatusCode),
		}
	}

	if response.StatusCode >= http.StatusBadRequest || !envelope.Success {
		requestFailures.WithLabelValues(operation, "rejected").Inc()
		c.logger.Warn().
			Int("status", response.StatusCode).
			Str("operation", operation).
			Msg("judge rejected request")
		return SubmissionData{}, &RejectedError{
			StatusCode: response.StatusCode,
			Message:    envelope.RejectionMessage(),
		}
	}

	if envelope.Data == nil {
		return SubmissionData{}, nil
	}
	return *envelope.Data, nil
}
