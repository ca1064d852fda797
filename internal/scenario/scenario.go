// Package scenario implements a TOML-described end-to-end scenario runner:
// a [[scenarios]] / request-as-array-of-tables fixture file drives the real
// Batch Evaluator and asserts the resulting evalmodel.BatchResult/Verdict.
package scenario

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/proglv/evalworker/internal/evalmodel"
)

// specTest is a single test case entry in the TOML file.
type specTest struct {
	In          string `toml:"in"`
	Ans         string `toml:"ans"`
	TimeLimitMs int    `toml:"time_limit_ms"`
	MaxRAMMB    int    `toml:"max_ram_mb"`
}

// specRequest is the [[scenarios.request]] block.
type specRequest struct {
	Code     string     `toml:"code"`
	Language string     `toml:"language"`
	Tests    []specTest `toml:"tests"`
}

// specTestVerdict is one expected per-test verdict.
type specTestVerdict struct {
	Verdict string `toml:"verdict"`
}

// specExpect is the [scenarios.expect] block.
type specExpect struct {
	CompilationSuccess *bool             `toml:"compilation_success"`
	TestResults        []specTestVerdict `toml:"test_results"`
}

type specSuite struct {
	Description string        `toml:"description"`
	RequestAOT  []specRequest `toml:"request"`
	Expect      specExpect    `toml:"expect"`
}

type specRoot struct {
	Suites []specSuite `toml:"scenarios"`
}

// Case is one runnable scenario converted from TOML.
type Case struct {
	Name   string
	Job    evalmodel.BatchJob
	Expect specExpect
}

const (
	defaultTimeLimitMs = 2000
	defaultMaxRAMMB    = 64
)

// Parse reads a scenario TOML file and converts it to runnable Cases.
func Parse(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("scenario: parse TOML %s: %w", path, err)
	}

	cases := make([]Case, 0, len(root.Suites))
	for _, suite := range root.Suites {
		if len(suite.RequestAOT) == 0 {
			return nil, fmt.Errorf("scenario %q: missing request block", suite.Description)
		}
		reqSpec := suite.RequestAOT[0]
		if reqSpec.Language == "" {
			return nil, fmt.Errorf("scenario %q: language is required", suite.Description)
		}

		testCases := make([]evalmodel.TestCaseSpec, 0, len(reqSpec.Tests))
		for i, t := range reqSpec.Tests {
			timeLimitMs := t.TimeLimitMs
			if timeLimitMs == 0 {
				timeLimitMs = defaultTimeLimitMs
			}
			maxRAMMB := t.MaxRAMMB
			if maxRAMMB == 0 {
				maxRAMMB = defaultMaxRAMMB
			}
			testCases = append(testCases, evalmodel.TestCaseSpec{
				TestCaseID:  fmt.Sprintf("t%d", i+1),
				Stdin:       t.In,
				ExpectedOut: t.Ans,
				TimeLimitMs: timeLimitMs,
				MaxRAMMB:    maxRAMMB,
			})
		}

		cases = append(cases, Case{
			Name: suite.Description,
			Job: evalmodel.BatchJob{
				Language:     evalmodel.Language(reqSpec.Language),
				SourceCode:   reqSpec.Code,
				SubmissionID: suite.Description,
				TestCases:    testCases,
			},
			Expect: suite.Expect,
		})
	}
	return cases, nil
}
