// Package langkit implements the Language Adapter capability set
// (write_source, compile, run_one) as a tagged variant per language plus a
// dispatch table keyed by evalmodel.Language — no inheritance, per the
// Design Notes.
package langkit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/proglv/evalworker/internal/compare"
	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/supervisor"
)

// CompileOutcome is the result of one Adapter.Compile call.
type CompileOutcome struct {
	OK             bool
	RunIdentifier  string
	CompilerOutput string
	ArtifactPath   string
}

// Adapter is the capability set the Batch Evaluator requires of a
// per-language implementation.
type Adapter interface {
	Language() evalmodel.Language
	WriteSource(code, workDir string) (sourcePath string, codeFileName string, err error)
	Compile(ctx context.Context, sourcePath, workDir string) (CompileOutcome, error)
	RunOne(ctx context.Context, workDir, runIdentifier string, tc evalmodel.TestCaseSpec, limits evalmodel.GlobalLimits) evalmodel.TestCaseResult
}

// runOneConfig captures the per-language knobs of the otherwise identical
// run-one procedure.
type runOneConfig struct {
	sup              *supervisor.Supervisor
	logger           *slog.Logger
	buildCommand     func(workDir, runIdentifier string, maxRAMMB int) (command string, args []string)
	memoryHeadroomMB int // added to the per-test memory cap before invoking the supervisor (Java: +64)
	isJava           bool
}

// runOne wraps the run command under the OS `timeout` helper (primary
// deadline) and the supervisor's own deadline watchdog (secondary, set to
// fire 2s later so the OS helper wins the race by design), then classifies
// the resulting ProcessOutcome into a verdict.
func runOne(ctx context.Context, cfg runOneConfig, workDir string, runIdentifier string, tc evalmodel.TestCaseSpec, limits evalmodel.GlobalLimits) evalmodel.TestCaseResult {
	timeLimitSec, maxRAMMB := limits.Clamp(tc.TimeLimitMs, tc.MaxRAMMB)
	supervisorMemoryMB := maxRAMMB + cfg.memoryHeadroomMB

	innerCmd, innerArgs := cfg.buildCommand(workDir, runIdentifier, maxRAMMB)

	timeoutSecs := strconv.Itoa(timeLimitSec)
	wrappedArgs := append([]string{"--signal=SIGKILL", timeoutSecs + "s", innerCmd}, innerArgs...)

	outcome := cfg.sup.Run(ctx, "timeout", wrappedArgs, workDir, []byte(tc.Stdin), timeLimitSec+2, supervisorMemoryMB)

	outcome.Stdout = strings.TrimRight(outcome.Stdout, "\r\n")
	outcome.Stderr = strings.TrimRight(outcome.Stderr, "\r\n")

	result := evalmodel.TestCaseResult{
		TestCaseID:     tc.TestCaseID,
		Stdout:         outcome.Stdout,
		Stderr:         outcome.Stderr,
		ExitCode:       outcome.ExitCode,
		DurationMs:     outcome.DurationMs,
		MemoryExceeded: outcome.MemoryExceeded,
	}
	javaOOM := cfg.isJava && strings.Contains(outcome.Stderr, javaOutOfMemoryMarker)
	result.Status = classify(outcome, tc.ExpectedOut, javaOOM)
	return result
}

// classify implements the single source of truth verdict table. javaOOM is
// true when the run's stderr contained the literal OutOfMemoryError marker,
// which escalates to MEMORY_LIMIT_EXCEEDED before the timeout/exit-code
// checks.
func classify(outcome evalmodel.ProcessOutcome, expectedStdout string, javaOOM bool) evalmodel.Verdict {
	switch {
	case outcome.MemoryExceeded || javaOOM:
		return evalmodel.MemoryLimitExceeded
	case outcome.TimedOut || outcome.ExitCode == 124 || outcome.ExitCode == 137:
		return evalmodel.TimeLimitExceeded
	case outcome.ExitCode != 0:
		return evalmodel.RuntimeError
	case compare.Equal(outcome.Stdout, expectedStdout):
		return evalmodel.Accepted
	default:
		return evalmodel.WrongAnswer
	}
}

// javaOutOfMemoryMarker is the literal stderr substring that escalates a
// Java run to MEMORY_LIMIT_EXCEEDED regardless of the RSS watchdog.
const javaOutOfMemoryMarker = "java.lang.OutOfMemoryError"

// stripBOMAndWrite writes code to path, first stripping a leading UTF-8 BOM
// if present, and always as UTF-8.
func stripBOMAndWrite(code, path string) error {
	const bom = "\uFEFF"
	code = strings.TrimPrefix(code, bom)
	return os.WriteFile(path, []byte(code), 0o644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeSourceAt(workDir, fileName, code string) (string, string, error) {
	path := filepath.Join(workDir, fileName)
	if err := stripBOMAndWrite(code, path); err != nil {
		return "", "", fmt.Errorf("write source %s: %w", fileName, err)
	}
	return path, fileName, nil
}
