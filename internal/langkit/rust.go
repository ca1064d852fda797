package langkit

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/supervisor"
)

const rustSourceFile = "main.rs"
const rustArtifact = "solution_exec"

type rustAdapter struct {
	sup    *supervisor.Supervisor
	logger *slog.Logger
}

func (a *rustAdapter) Language() evalmodel.Language { return evalmodel.LangRust }

func (a *rustAdapter) WriteSource(code, workDir string) (string, string, error) {
	return writeSourceAt(workDir, rustSourceFile, code)
}

func (a *rustAdapter) Compile(ctx context.Context, sourcePath, workDir string) (CompileOutcome, error) {
	artifactPath := filepath.Join(workDir, rustArtifact)
	outcome := a.sup.Run(ctx, "rustc", []string{rustSourceFile, "-o", rustArtifact}, workDir, nil, 30, 256)
	out := CompileOutcome{CompilerOutput: outcome.Stdout + outcome.Stderr}
	out.OK = outcome.ExitCode == 0 && fileExists(artifactPath)
	if out.OK {
		out.RunIdentifier = artifactPath
		out.ArtifactPath = artifactPath
	}
	return out, nil
}

func (a *rustAdapter) RunOne(ctx context.Context, workDir, runIdentifier string, tc evalmodel.TestCaseSpec, limits evalmodel.GlobalLimits) evalmodel.TestCaseResult {
	cfg := runOneConfig{
		sup: a.sup, logger: a.logger,
		buildCommand: func(workDir, runIdentifier string, maxRAMMB int) (string, []string) {
			return runIdentifier, nil
		},
	}
	return runOne(ctx, cfg, workDir, runIdentifier, tc, limits)
}
