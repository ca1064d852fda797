// Package batch implements the Batch Evaluator: write source once, compile
// once, run every test case sequentially, aggregate, and clean up on every
// exit path.
package batch

import (
	"context"
	"log/slog"

	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/langkit"
	"github.com/proglv/evalworker/internal/sandbox"
)

// Evaluator runs BatchJobs against a single language adapter. Each Evaluate
// call works in its own sandbox directory, so calls may run concurrently.
type Evaluator struct {
	Adapter langkit.Adapter
	Sandbox *sandbox.Manager
	Limits  evalmodel.GlobalLimits
	Logger  *slog.Logger
}

// New returns an Evaluator. A nil logger falls back to slog.Default().
func New(adapter langkit.Adapter, sbox *sandbox.Manager, limits evalmodel.GlobalLimits, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{Adapter: adapter, Sandbox: sbox, Limits: limits, Logger: logger}
}

// Evaluate runs the full batch procedure and always returns a BatchResult
// with exactly len(job.TestCases) aligned results.
func (e *Evaluator) Evaluate(ctx context.Context, job evalmodel.BatchJob) evalmodel.BatchResult {
	logger := e.Logger.With("submission_id", job.SubmissionID, "language", job.Language)

	workDir, err := e.Sandbox.Acquire()
	if err != nil {
		logger.Error("sandbox acquire failed", "error", err)
		return fabricate(job, evalmodel.InternalError, "setup failed")
	}
	defer func() {
		if releaseErr := e.Sandbox.Release(workDir); releaseErr != nil {
			logger.Warn("sandbox release failed", "error", releaseErr)
		}
	}()

	sourcePath, _, err := e.Adapter.WriteSource(job.SourceCode, workDir)
	if err != nil {
		logger.Error("write source failed", "error", err)
		return fabricate(job, evalmodel.InternalError, "setup failed")
	}

	logger.Info("compiling")
	compileOutcome, err := e.Adapter.Compile(ctx, sourcePath, workDir)
	if err != nil {
		logger.Error("compile invocation failed", "error", err)
		return fabricate(job, evalmodel.InternalError, "setup failed")
	}
	if !compileOutcome.OK {
		logger.Info("compile failed", "output", compileOutcome.CompilerOutput)
		result := evalmodel.BatchResult{
			SubmissionID:       job.SubmissionID,
			CompilationSuccess: false,
			CompilerOutput:     compileOutcome.CompilerOutput,
		}
		for _, tc := range job.TestCases {
			result.TestCaseResults = append(result.TestCaseResults, evalmodel.TestCaseResult{
				TestCaseID: tc.TestCaseID,
				Status:     evalmodel.CompileError,
				Message:    "compilation failed",
			})
		}
		return result
	}

	results := make([]evalmodel.TestCaseResult, 0, len(job.TestCases))
	for _, tc := range job.TestCases {
		logger.Info("running test case", "test_case_id", tc.TestCaseID)
		result := e.Adapter.RunOne(ctx, workDir, compileOutcome.RunIdentifier, tc, e.Limits)
		logger.Info("test case finished", "test_case_id", tc.TestCaseID, "status", result.Status, "duration_ms", result.DurationMs)
		results = append(results, result)
	}

	return evalmodel.BatchResult{
		SubmissionID:       job.SubmissionID,
		CompilationSuccess: true,
		CompilerOutput:     compileOutcome.CompilerOutput,
		TestCaseResults:    results,
	}
}

// fabricate builds a whole-batch failure result where every test case
// carries the same verdict and message.
func fabricate(job evalmodel.BatchJob, verdict evalmodel.Verdict, message string) evalmodel.BatchResult {
	result := evalmodel.BatchResult{
		SubmissionID:       job.SubmissionID,
		CompilationSuccess: false,
	}
	for _, tc := range job.TestCases {
		result.TestCaseResults = append(result.TestCaseResults, evalmodel.TestCaseResult{
			TestCaseID: tc.TestCaseID,
			Status:     verdict,
			Message:    message,
		})
	}
	return result
}
