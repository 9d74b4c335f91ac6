package review

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrReviewNotFound indicates no review exists yet for the submission.
var ErrReviewNotFound = errors.New("code review not found")

// CodeReview is the structured AI critique of a submission.
type CodeReview struct {
	SubmissionID     string   `json:"submission_id"`
	Summary          string   `json:"summary"`
	Issues           []string `json:"issues"`
	Suggestions      []string `json:"suggestions"`
	QualityRating    int      `json:"quality_rating"`
	OverallScore     int      `json:"overall_score"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
	Cached           bool     `json:"cached"`
}

// Request is the payload for requesting a review of a submission.
type Request struct {
	SubmissionID string `json:"submission_id"`
	Code         string `json:"code"`
	Language     string `json:"language"`
	ProblemTitle string `json:"problem_title,omitempty"`
}

type envelope struct {
	Success bool        `json:"success"`
	Data    *CodeReview `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Config holds the review client configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client consumes the AI code review endpoints. Reviews are idempotent per
// submission: requesting twice returns the cached result.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient constructs a review client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("review base url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		logger:  cfg.Logger.With().Str("component", "review_client").Logger(),
	}, nil
}

// Get fetches an existing review for a submission. Returns ErrReviewNotFound
// when no review has been generated yet.
func (c *Client) Get(ctx context.Context, submissionID string) (CodeReview, error) {
	review, status, err := c.do(ctx, http.MethodGet, "/ai/code-review/"+url.PathEscape(submissionID), nil)
	if err != nil {
		if status == http.StatusNotFound {
			return CodeReview{}, ErrReviewNotFound
		}
		return CodeReview{}, err
	}

	review.Cached = true
	return review, nil
}

// Create asks the review service to generate a review for the submission.
func (c *Client) Create(ctx context.Context, req Request) (CodeReview, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return CodeReview{}, fmt.Errorf("encode review request: %w", err)
	}

	review, _, err := c.do(ctx, http.MethodPost, "/ai/code-review", bytes.NewReader(body))
	if err != nil {
		return CodeReview{}, err
	}
	return review, nil
}

// Fetch implements the cached fast path: return the stored review when one
// exists, otherwise request a fresh one.
func (c *Client) Fetch(ctx context.Context, req Request) (CodeReview, error) {
	review, err := c.Get(ctx, req.SubmissionID)
	if err == nil {
		return review, nil
	}
	if !errors.Is(err, ErrReviewNotFound) {
		return CodeReview{}, err
	}

	return c.Create(ctx, req)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (CodeReview, int, error) {
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return CodeReview{}, 0, fmt.Errorf("build review request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		return CodeReview{}, 0, fmt.Errorf("review request failed: %w", err)
	}
	defer response.Body.Close()

	var env envelope
	if err := json.NewDecoder(response.Body).Decode(&env); err != nil {
		return CodeReview{}, response.StatusCode, fmt.Errorf("decode review response (%d): %w", response.StatusCode, err)
	}

	if response.StatusCode >= http.StatusBadRequest || !env.Success {
		message := env.Error
		if message == "" {
			message = env.Message
		}
		if message == "" {
			message = fmt.Sprintf("review request failed (%d)", response.StatusCode)
		}
		return CodeReview{}, response.StatusCode, errors.New(message)
	}

	if env.Data == nil {
		return CodeReview{}, response.StatusCode, errors.New("review response missing data")
	}
	return *env.Data, response.StatusCode, nil
}
