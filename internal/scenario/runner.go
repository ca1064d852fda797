package scenario

import (
	"context"
	"testing"

	"github.com/proglv/evalworker/internal/batch"
	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/langkit"
	"github.com/proglv/evalworker/internal/sandbox"
	"github.com/proglv/evalworker/internal/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run executes case against a real Batch Evaluator (real process supervisor,
// real language adapter, real sandbox — no mocks on the evaluation path
// itself) and asserts the outcome against the TOML's [expect] block.
func Run(t *testing.T, c Case) evalmodel.BatchResult {
	t.Helper()

	sup := supervisor.New(nil)
	adapter, err := langkit.New(c.Job.Language, sup, nil)
	require.NoError(t, err)
	sbox, err := sandbox.New(t.TempDir())
	require.NoError(t, err)
	evaluator := batch.New(adapter, sbox, evalmodel.GlobalLimits{MaxTimeSec: 30, MaxMemoryMB: 4096}, nil)

	result := evaluator.Evaluate(context.Background(), c.Job)

	if c.Expect.CompilationSuccess != nil {
		assert.Equal(t, *c.Expect.CompilationSuccess, result.CompilationSuccess, "scenario %q: compilation_success mismatch", c.Name)
	}
	if len(c.Expect.TestResults) > 0 {
		require.Len(t, result.TestCaseResults, len(c.Expect.TestResults), "scenario %q: test result count mismatch", c.Name)
		for i, expected := range c.Expect.TestResults {
			assert.Equal(t, evalmodel.Verdict(expected.Verdict), result.TestCaseResults[i].Status, "scenario %q: test %d verdict mismatch", c.Name, i+1)
		}
	}
	return result
}
