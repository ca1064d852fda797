package langkit

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/supervisor"
)

const goSourceFile = "main.go"
const goArtifact = "solution_exec"

type goAdapter struct {
	sup    *supervisor.Supervisor
	logger *slog.Logger
}

func (a *goAdapter) Language() evalmodel.Language { return evalmodel.LangGo }

func (a *goAdapter) WriteSource(code, workDir string) (string, string, error) {
	return writeSourceAt(workDir, goSourceFile, code)
}

func (a *goAdapter) Compile(ctx context.Context, sourcePath, workDir string) (CompileOutcome, error) {
	artifactPath := filepath.Join(workDir, goArtifact)
	outcome := a.sup.Run(ctx, "go", []string{"build", "-o", goArtifact, goSourceFile}, workDir, nil, 30, 256)
	out := CompileOutcome{CompilerOutput: outcome.Stdout + outcome.Stderr}
	out.OK = outcome.ExitCode == 0 && fileExists(artifactPath)
	if out.OK {
		out.RunIdentifier = artifactPath
		out.ArtifactPath = artifactPath
	}
	return out, nil
}

func (a *goAdapter) RunOne(ctx context.Context, workDir, runIdentifier string, tc evalmodel.TestCaseSpec, limits evalmodel.GlobalLimits) evalmodel.TestCaseResult {
	cfg := runOneConfig{
		sup: a.sup, logger: a.logger,
		buildCommand: func(workDir, runIdentifier string, maxRAMMB int) (string, []string) {
			return runIdentifier, nil
		},
	}
	return runOne(ctx, cfg, workDir, runIdentifier, tc, limits)
}
