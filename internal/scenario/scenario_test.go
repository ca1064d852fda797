package scenario_test

import (
	"testing"

	"github.com/proglv/evalworker/internal/scenario"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	cases, err := scenario.Parse("testdata/scenarios.toml")
	require.NoError(t, err)
	require.Len(t, cases, 6)

	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			scenario.Run(t, c)
		})
	}
}
