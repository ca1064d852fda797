package langkit

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/supervisor"
)

const pythonSourceFile = "solution.py"

type pythonAdapter struct {
	sup    *supervisor.Supervisor
	logger *slog.Logger
}

func (a *pythonAdapter) Language() evalmodel.Language { return evalmodel.LangPython }

func (a *pythonAdapter) WriteSource(code, workDir string) (string, string, error) {
	return writeSourceAt(workDir, pythonSourceFile, code)
}

// Compile only syntax-checks the script; python success only requires
// py_compile's exit code to be 0, there is no artifact to verify on disk.
func (a *pythonAdapter) Compile(ctx context.Context, sourcePath, workDir string) (CompileOutcome, error) {
	outcome := a.sup.Run(ctx, "python3", []string{"-m", "py_compile", pythonSourceFile}, workDir, nil, 10, 128)
	out := CompileOutcome{CompilerOutput: outcome.Stdout + outcome.Stderr}
	out.OK = outcome.ExitCode == 0
	if out.OK {
		out.RunIdentifier = filepath.Join(workDir, pythonSourceFile)
	}
	return out, nil
}

func (a *pythonAdapter) RunOne(ctx context.Context, workDir, runIdentifier string, tc evalmodel.TestCaseSpec, limits evalmodel.GlobalLimits) evalmodel.TestCaseResult {
	cfg := runOneConfig{
		sup: a.sup, logger: a.logger,
		buildCommand: func(workDir, runIdentifier string, maxRAMMB int) (string, []string) {
			return "python3", []string{pythonSourceFile}
		},
	}
	return runOne(ctx, cfg, workDir, runIdentifier, tc, limits)
}
