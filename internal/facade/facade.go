// Package facade implements the Evaluation Service Facade: accept a batch
// job, acknowledge synchronously, evaluate on a background worker, and
// invoke the callback collaborator exactly once with the final BatchResult
// — including when blob resolution itself fails before the Batch Evaluator
// ever runs.
package facade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/proglv/evalworker/internal/batch"
	"github.com/proglv/evalworker/internal/blobstore"
	"github.com/proglv/evalworker/internal/callback"
	"github.com/proglv/evalworker/internal/evalmodel"
	"golang.org/x/sync/errgroup"
)

// TestCaseRequest is one entry of an inbound request's testCases array,
// referencing blob keys rather than resolved text.
type TestCaseRequest struct {
	TestCaseID             string
	InputFilePath          string
	ExpectedOutputFilePath string
	TimeLimitMs            int
	MaxRAMMB               int
}

// Request is the validated inbound job, still carrying blob keys for the
// source and every test case's input/expected-output.
type Request struct {
	Language     evalmodel.Language
	SubmissionID string
	CodeFilePath string
	TestCases    []TestCaseRequest
	SQSQueueURL  string
	NATSSubject  string
}

// Service wires the Blob Fetcher and Orchestrator Callback collaborators
// around a single-language Batch Evaluator.
type Service struct {
	Evaluator *batch.Evaluator
	Fetcher   blobstore.Fetcher
	Notifier  callback.Notifier
	Logger    *slog.Logger

	group *errgroup.Group
}

// New returns a Service whose background evaluations are bounded to
// maxConcurrent in flight at once; a non-positive maxConcurrent leaves the
// pool unbounded (one goroutine per submitted job).
func New(evaluator *batch.Evaluator, fetcher blobstore.Fetcher, notifier callback.Notifier, maxConcurrent int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	g := &errgroup.Group{}
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}
	return &Service{Evaluator: evaluator, Fetcher: fetcher, Notifier: notifier, Logger: logger, group: g}
}

// Submit dispatches req onto the bounded worker pool and returns without
// waiting for req's own evaluation. When maxConcurrent evaluations are
// already in flight, Submit blocks until one of them finishes and a slot is
// free; there is no separate queue. The callback is always invoked exactly
// once for every dispatched job, even if blob resolution fails outright.
func (s *Service) Submit(req Request) {
	s.group.Go(func() error {
		s.run(context.Background(), req)
		return nil
	})
}

// Wait blocks until every dispatched job has completed; intended for
// graceful shutdown and tests.
func (s *Service) Wait() error {
	return s.group.Wait()
}

func (s *Service) run(ctx context.Context, req Request) {
	job, resolveErr := s.resolve(ctx, req)
	var result evalmodel.BatchResult
	if resolveErr != nil {
		verdict := evalmodel.InternalError
		if errors.Is(resolveErr, blobstore.ErrNotFound) {
			verdict = evalmodel.FileError
		}
		s.Logger.Error("blob resolution failed", "submission_id", req.SubmissionID, "error", resolveErr)
		result = fabricateFileError(req, verdict, resolveErr)
	} else {
		result = s.Evaluator.Evaluate(ctx, job)
	}

	if err := s.Notifier.Notify(ctx, job, result); err != nil {
		s.Logger.Error("callback delivery failed", "submission_id", req.SubmissionID, "error", err)
	}
}

// resolve fetches the source and every test case's input/expected text,
// assembling the core BatchJob. Any fetch failure aborts resolution for the
// whole batch, surfaced as a whole-batch FILE_ERROR/INTERNAL_ERROR result,
// not a partial one.
func (s *Service) resolve(ctx context.Context, req Request) (evalmodel.BatchJob, error) {
	job := evalmodel.BatchJob{
		Language:     req.Language,
		SubmissionID: req.SubmissionID,
		SQSQueueURL:  req.SQSQueueURL,
		NATSSubject:  req.NATSSubject,
	}

	source, err := s.Fetcher.Fetch(ctx, req.CodeFilePath)
	if err != nil {
		return job, fmt.Errorf("fetch source %s: %w", req.CodeFilePath, err)
	}
	job.SourceCode = source

	job.TestCases = make([]evalmodel.TestCaseSpec, 0, len(req.TestCases))
	for _, tc := range req.TestCases {
		stdin, err := s.Fetcher.Fetch(ctx, tc.InputFilePath)
		if err != nil {
			return job, fmt.Errorf("fetch input %s: %w", tc.InputFilePath, err)
		}
		expected, err := s.Fetcher.Fetch(ctx, tc.ExpectedOutputFilePath)
		if err != nil {
			return job, fmt.Errorf("fetch expected output %s: %w", tc.ExpectedOutputFilePath, err)
		}
		job.TestCases = append(job.TestCases, evalmodel.TestCaseSpec{
			TestCaseID:  tc.TestCaseID,
			Stdin:       stdin,
			ExpectedOut: expected,
			TimeLimitMs: tc.TimeLimitMs,
			MaxRAMMB:    tc.MaxRAMMB,
		})
	}
	return job, nil
}

func fabricateFileError(req Request, verdict evalmodel.Verdict, cause error) evalmodel.BatchResult {
	result := evalmodel.BatchResult{
		SubmissionID:       req.SubmissionID,
		CompilationSuccess: false,
		CompilerOutput:     cause.Error(),
	}
	for _, tc := range req.TestCases {
		result.TestCaseResults = append(result.TestCaseResults, evalmodel.TestCaseResult{
			TestCaseID: tc.TestCaseID,
			Status:     verdict,
			Message:    cause.Error(),
		})
	}
	return result
}
