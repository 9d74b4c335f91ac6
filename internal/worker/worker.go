package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillforge/codelab-api/internal/models"
	"github.com/skillforge/codelab-api/internal/service"
)

// DefaultSubject is the NATS subject completed submissions are announced on.
const DefaultSubject = "codelab.submissions.completed"

var (
	jobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codelab",
		Subsystem: "worker",
		Name:      "jobs_processed_total",
		Help:      "Number of submission jobs processed by the queue worker",
	}, []string{"verdict"})

	jobFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "codelab",
		Subsystem: "worker",
		Name:      "job_failures_total",
		Help:      "Number of submission jobs that failed to process",
	})
)

// CompletedEvent is the payload published when a submission finishes judging.
type CompletedEvent struct {
	SubmissionID string `json:"submission_id"`
	ProblemID    uint   `json:"problem_id"`
	UserID       uint   `json:"user_id"`
	Verdict      string `json:"verdict"`
	TotalPoints  int    `json:"total_points"`
	MaxPoints    int    `json:"max_points"`
}

// Config groups worker dependencies and tuning knobs.
type Config struct {
	Queue       *redis.Client
	QueueKey    string
	Submissions service.SubmissionService
	NATS        *nats.Conn
	Subject     string
	PopTimeout  time.Duration
	Logger      zerolog.Logger
}

// Worker consumes queued submission ids from Redis and judges them. A nil
// NATS connection disables event publishing without affecting judging.
type Worker struct {
	queue       *redis.Client
	queueKey    string
	submissions service.SubmissionService
	nats        *nats.Conn
	subject     string
	popTimeout  time.Duration
	logger      zerolog.Logger
}

// New constructs a queue worker.
func New(cfg Config) *Worker {
	queueKey := cfg.QueueKey
	if queueKey == "" {
		queueKey = service.DefaultQueueKey
	}
	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	popTimeout := cfg.PopTimeout
	if popTimeout <= 0 {
		popTimeout = time.Second
	}

	return &Worker{
		queue:       cfg.Queue,
		queueKey:    queueKey,
		submissions: cfg.Submissions,
		nats:        cfg.NATS,
		subject:     subject,
		popTimeout:  popTimeout,
		logger:      cfg.Logger.With().Str("component", "submission_worker").Logger(),
	}
}

// Run consumes the queue until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Str("queue", w.queueKey).Msg("submission worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("submission worker stopped")
			return ctx.Err()
		default:
		}

		values, err := w.queue.BRPop(ctx, w.popTimeout, w.queueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error().Err(err).Msg("queue pop failed")
			time.Sleep(w.popTimeout)
			continue
		}

		// BRPop returns [key, value].
		if len(values) != 2 {
			continue
		}
		w.process(ctx, values[1])
	}
}

func (w *Worker) process(ctx context.Context, submissionID string) {
	submission, err := w.submissions.Process(ctx, submissionID)
	if err != nil {
		jobFailures.Inc()
		w.logger.Error().Err(err).Str("submission_id", submissionID).Msg("failed to process submission")
		return
	}

	jobsProcessed.WithLabelValues(submission.Verdict).Inc()
	w.logger.Info().
		Str("submission_id", submission.ID).
		Str("verdict", submission.Verdict).
		Int("total_points", submission.TotalPoints).
		Msg("submission judged")

	w.publish(submission)
}

func (w *Worker) publish(submission models.Submission) {
	if w.nats == nil {
		return
	}

	event := CompletedEvent{
		SubmissionID: submission.ID,
		ProblemID:    submission.ProblemID,
		UserID:       submission.UserID,
		Verdict:      submission.Verdict,
		TotalPoints:  submission.TotalPoints,
		MaxPoints:    submission.MaxPoints,
	}

	data, err := json.Marshal(event)
	if err != nil {
		w.logger.Error().Err(err).Str("submission_id", submission.ID).Msg("failed to encode completion event")
		return
	}

	if err := w.nats.Publish(w.subject, data); err != nil {
		w.logger.Error().Err(err).Str("submission_id", submission.ID).Msg("failed to publish completion event")
	}
}
