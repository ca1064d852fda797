package config_test

import (
	"testing"

	"github.com/proglv/evalworker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"EXECUTION_LANGUAGE", "EXECUTION_WORKING_DIRECTORY",
		"ORCHESTRATOR_ADDRESS", "GLOBAL_LIMITS_MAX_TIME_SEC",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingLanguageIsFatal(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORCHESTRATOR_ADDRESS", "http://orchestrator")
	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_InvalidLanguageRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXECUTION_LANGUAGE", "brainfuck")
	t.Setenv("ORCHESTRATOR_ADDRESS", "http://orchestrator")
	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXECUTION_LANGUAGE", "c")
	t.Setenv("ORCHESTRATOR_ADDRESS", "http://orchestrator")
	t.Setenv("GLOBAL_LIMITS_MAX_TIME_SEC", "45")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "c", cfg.Language)
	assert.Equal(t, 45, cfg.MaxTimeSec)
	assert.Equal(t, "http://orchestrator", cfg.OrchestratorAddress)
}
