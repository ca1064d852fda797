package langkit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/supervisor"
)

const javaSourceFile = "Solution.java"
const javaMemoryHeadroomMB = 64

type javaAdapter struct {
	sup    *supervisor.Supervisor
	logger *slog.Logger
}

func (a *javaAdapter) Language() evalmodel.Language { return evalmodel.LangJava }

// WriteSource strips a BOM and zero bytes before writing, as UTF-8; javac
// is invoked with -encoding UTF-8 to match.
func (a *javaAdapter) WriteSource(code, workDir string) (string, string, error) {
	code = strings.TrimPrefix(code, "\uFEFF")
	code = strings.ReplaceAll(code, "\x00", "")
	path := filepath.Join(workDir, javaSourceFile)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", "", fmt.Errorf("write source %s: %w", javaSourceFile, err)
	}
	return path, javaSourceFile, nil
}

// Compile succeeds only if javac exits 0; a successful compile leaves
// Solution.class in workDir.
func (a *javaAdapter) Compile(ctx context.Context, sourcePath, workDir string) (CompileOutcome, error) {
	outcome := a.sup.Run(ctx, "javac", []string{"-encoding", "UTF-8", "-d", ".", javaSourceFile}, workDir, nil, 30, 2048)
	out := CompileOutcome{CompilerOutput: outcome.Stdout + outcome.Stderr}
	out.OK = outcome.ExitCode == 0
	if out.OK {
		out.RunIdentifier = "Solution"
	}
	return out, nil
}

func (a *javaAdapter) RunOne(ctx context.Context, workDir, runIdentifier string, tc evalmodel.TestCaseSpec, limits evalmodel.GlobalLimits) evalmodel.TestCaseResult {
	cfg := runOneConfig{
		sup: a.sup, logger: a.logger,
		memoryHeadroomMB: javaMemoryHeadroomMB,
		isJava:           true,
		buildCommand: func(workDir, runIdentifier string, maxRAMMB int) (string, []string) {
			return "java", []string{"-cp", workDir, fmt.Sprintf("-Xmx%dm", maxRAMMB), runIdentifier}
		},
	}
	return runOne(ctx, cfg, workDir, runIdentifier, tc, limits)
}
