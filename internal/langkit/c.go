package langkit

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/supervisor"
)

const cSourceFile = "solution.c"
const cArtifact = "solution"

type cAdapter struct {
	sup    *supervisor.Supervisor
	logger *slog.Logger
}

func (a *cAdapter) Language() evalmodel.Language { return evalmodel.LangC }

func (a *cAdapter) WriteSource(code, workDir string) (string, string, error) {
	return writeSourceAt(workDir, cSourceFile, code)
}

func (a *cAdapter) Compile(ctx context.Context, sourcePath, workDir string) (CompileOutcome, error) {
	artifactPath := filepath.Join(workDir, cArtifact)
	outcome := a.sup.Run(ctx, "gcc", []string{cSourceFile, "-o", cArtifact, "-O2", "-Wall", "-lm"}, workDir, nil, 30, 4096)
	out := CompileOutcome{CompilerOutput: outcome.Stdout + outcome.Stderr}
	out.OK = outcome.ExitCode == 0 && fileExists(artifactPath)
	if out.OK {
		out.RunIdentifier = artifactPath
		out.ArtifactPath = artifactPath
	}
	return out, nil
}

func (a *cAdapter) RunOne(ctx context.Context, workDir, runIdentifier string, tc evalmodel.TestCaseSpec, limits evalmodel.GlobalLimits) evalmodel.TestCaseResult {
	cfg := runOneConfig{
		sup: a.sup, logger: a.logger,
		buildCommand: func(workDir, runIdentifier string, maxRAMMB int) (string, []string) {
			return runIdentifier, nil
		},
	}
	return runOne(ctx, cfg, workDir, runIdentifier, tc, limits)
}
