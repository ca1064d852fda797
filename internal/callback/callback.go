// Package callback implements the Orchestrator Callback collaborator:
// deliver the final BatchResult to the orchestrator exactly once over HTTP,
// and, if the BatchJob carries a secondary delivery target, best-effort
// mirror the same result over SQS or NATS.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/nats-io/nats.go"
	"github.com/proglv/evalworker/internal/evalmodel"
)

// Notifier delivers a BatchResult.
type Notifier interface {
	Notify(ctx context.Context, job evalmodel.BatchJob, result evalmodel.BatchResult) error
}

// HTTPNotifier is the primary, mandatory delivery path: one fire-and-forget
// POST per batch.
type HTTPNotifier struct {
	BaseURL       string
	APIHeaderName string
	APIKey        string
	Client        *http.Client
	Logger        *slog.Logger

	// Secondary is best-effort and never affects the HTTP outcome that gets
	// logged as the callback result.
	Secondary *SecondaryNotifier
}

// NewHTTPNotifier returns a Notifier. A nil logger falls back to
// slog.Default(); the HTTP client is created with a 10s timeout.
func NewHTTPNotifier(baseURL, apiHeaderName, apiKey string, secondary *SecondaryNotifier, logger *slog.Logger) *HTTPNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPNotifier{
		BaseURL:       baseURL,
		APIHeaderName: apiHeaderName,
		APIKey:        apiKey,
		Client:        &http.Client{Timeout: 10 * time.Second},
		Logger:        logger,
		Secondary:     secondary,
	}
}

// Notify POSTs result to <BaseURL>/api/evaluate/container-submit exactly
// once. Success/failure is logged, never retried. The secondary delivery,
// if configured on the job, is attempted afterwards and its outcome never
// changes what Notify returns.
func (n *HTTPNotifier) Notify(ctx context.Context, job evalmodel.BatchJob, result evalmodel.BatchResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		n.Logger.Error("callback: marshal result failed", "submission_id", job.SubmissionID, "error", err)
		return fmt.Errorf("callback: marshal result: %w", err)
	}

	url := n.BaseURL + "/api/evaluate/container-submit"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.Logger.Error("callback: build request failed", "submission_id", job.SubmissionID, "error", err)
		return fmt.Errorf("callback: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.APIHeaderName != "" {
		req.Header.Set(n.APIHeaderName, n.APIKey)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		n.Logger.Error("callback: http delivery failed", "submission_id", job.SubmissionID, "error", err)
	} else {
		defer resp.Body.Close()
		n.Logger.Info("callback: delivered", "submission_id", job.SubmissionID, "status", resp.StatusCode)
	}

	if n.Secondary != nil {
		n.Secondary.Notify(ctx, job, body, n.Logger)
	}

	if err != nil {
		return fmt.Errorf("callback: http delivery: %w", err)
	}
	return nil
}

// SecondaryNotifier mirrors the final BatchResult JSON to an SQS queue
// and/or a NATS subject named on the BatchJob, best-effort, after the
// primary HTTP callback.
type SecondaryNotifier struct {
	SQS  *sqs.Client
	NATS *nats.Conn
}

// Notify publishes body to whichever of job.SQSQueueURL / job.NATSSubject is
// set. Failures are logged, not surfaced: the primary HTTP callback is the
// delivery of record.
func (s *SecondaryNotifier) Notify(ctx context.Context, job evalmodel.BatchJob, body []byte, logger *slog.Logger) {
	if job.SQSQueueURL != "" && s.SQS != nil {
		_, err := s.SQS.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:    aws.String(job.SQSQueueURL),
			MessageBody: aws.String(string(body)),
		})
		if err != nil {
			logger.Warn("callback: secondary sqs delivery failed", "submission_id", job.SubmissionID, "error", err)
		}
	}
	if job.NATSSubject != "" && s.NATS != nil {
		if err := s.NATS.Publish(job.NATSSubject, body); err != nil {
			logger.Warn("callback: secondary nats delivery failed", "submission_id", job.SubmissionID, "error", err)
		}
	}
}
