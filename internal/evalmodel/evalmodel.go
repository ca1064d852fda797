// Package evalmodel holds the data types shared by every stage of the
// evaluation pipeline: the job accepted by the facade, the outcome of one
// supervised process, and the result reported back to the orchestrator.
package evalmodel

// Language identifies which per-language adapter a worker instance runs.
// A worker instance is single-language: the dispatch table in langkit picks
// exactly one Adapter for the process lifetime.
type Language string

const (
	LangC      Language = "c"
	LangPython Language = "python"
	LangJava   Language = "java"
	LangRust   Language = "rust"
	LangGo     Language = "go"
)

// Verdict is the fixed taxonomy a TestCaseResult carries.
type Verdict string

const (
	Accepted            Verdict = "ACCEPTED"
	WrongAnswer         Verdict = "WRONG_ANSWER"
	CompileError        Verdict = "COMPILE_ERROR"
	RuntimeError        Verdict = "RUNTIME_ERROR"
	TimeLimitExceeded   Verdict = "TIME_LIMIT_EXCEEDED"
	MemoryLimitExceeded Verdict = "MEMORY_LIMIT_EXCEEDED"
	FileError           Verdict = "FILE_ERROR"
	InternalError       Verdict = "INTERNAL_ERROR"
)

// TestCaseSpec is one test case within a BatchJob.
type TestCaseSpec struct {
	TestCaseID    string
	Stdin         string
	ExpectedOut   string
	TimeLimitMs   int
	MaxRAMMB      int
}

// BatchJob is the input to the core evaluation engine, already resolved from
// the inbound HTTP/NATS payload (blob keys fetched into text by the time the
// Batch Evaluator sees it).
type BatchJob struct {
	Language     Language
	SourceCode   string
	SubmissionID string
	TestCases    []TestCaseSpec

	// Secondary delivery targets, both optional.
	SQSQueueURL string
	NATSSubject string
}

// GlobalLimits are process-wide ceilings applied to every per-case limit.
type GlobalLimits struct {
	MaxTimeSec   int
	MaxMemoryMB  int
}

// Clamp returns the per-case limits clamped to the global ceilings, in
// (time_limit_sec, max_memory_mb).
func (g GlobalLimits) Clamp(timeLimitMs, maxRAMMB int) (int, int) {
	timeLimitSec := timeLimitMs / 1000
	if timeLimitMs%1000 != 0 {
		timeLimitSec++
	}
	if timeLimitSec < 1 {
		timeLimitSec = 1
	}
	if g.MaxTimeSec > 0 && timeLimitSec > g.MaxTimeSec {
		timeLimitSec = g.MaxTimeSec
	}
	if g.MaxMemoryMB > 0 && maxRAMMB > g.MaxMemoryMB {
		maxRAMMB = g.MaxMemoryMB
	}
	return timeLimitSec, maxRAMMB
}

// Process outcome exit-code sentinels.
const (
	ExitKilledByDeadline = -1
	ExitKilledByMemory   = -2
	ExitSupervisorFailed = -999
)

// ProcessOutcome is the result of one Process Supervisor run.
type ProcessOutcome struct {
	ExitCode       int
	Stdout         string
	Stderr         string
	DurationMs     int64
	TimedOut       bool
	MemoryExceeded bool
}

// TestCaseResult is the per-test-case outcome reported in a BatchResult.
type TestCaseResult struct {
	TestCaseID     string  `json:"testCaseId,omitempty"`
	Status         Verdict `json:"status"`
	Stdout         string  `json:"stdout,omitempty"`
	Stderr         string  `json:"stderr,omitempty"`
	ExitCode       int     `json:"exitCode"`
	DurationMs     int64   `json:"durationMs"`
	MemoryExceeded bool    `json:"memoryExceeded"`
	Message        string  `json:"message,omitempty"`
}

// BatchResult is the aggregate reported to the orchestrator callback.
type BatchResult struct {
	SubmissionID       string           `json:"submissionId"`
	CompilationSuccess bool             `json:"compilationSuccess"`
	CompilerOutput     string           `json:"compilerOutput,omitempty"`
	TestCaseResults    []TestCaseResult `json:"testCaseResults"`
}
