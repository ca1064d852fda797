// Package config loads process-wide configuration from a `.env` file and
// environment variables, validated eagerly so the caller decides how to
// fail startup rather than discovering a missing key mid-run.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the fully-resolved, read-only-after-startup process config.
type Config struct {
	Language             string // Execution:Language, required
	WorkingDirectory     string // Execution:WorkingDirectory, sandbox root
	MaxTimeSec           int    // GlobalLimits:MaxTimeSec
	MaxMemoryMB          int    // GlobalLimits:MaxMemoryMb
	OrchestratorAddress  string // Orchestrator:Address
	APIHeaderName        string // Orchestrator:ApiHeaderName
	APIKey               string // Orchestrator:ApiKey
	BlobEndpoint         string // AzureStorage:ConnectionString (reused as an S3 endpoint)
	BlobBucket           string // AzureStorage:ContainerName
	ServerAddr           string // Server:Addr
	NATSURL              string // Nats:URL, optional
	NATSSubject          string // Nats:Subject, optional intake subject
	MaxConcurrentBatches int    // bounds the facade's worker pool
}

// Load reads a `.env` file if present (missing is not an error, matching
// local-dev-only usage), then environment variables, and validates that
// every required key is set. The caller should exit the process on a
// non-nil error rather than run with an inferred default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Language:             os.Getenv("EXECUTION_LANGUAGE"),
		WorkingDirectory:     getEnvDefault("EXECUTION_WORKING_DIRECTORY", "/var/lib/evalworker/sandbox"),
		OrchestratorAddress:  os.Getenv("ORCHESTRATOR_ADDRESS"),
		APIHeaderName:        getEnvDefault("ORCHESTRATOR_API_HEADER_NAME", "X-Api-Key"),
		APIKey:               os.Getenv("ORCHESTRATOR_API_KEY"),
		BlobEndpoint:         os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
		BlobBucket:           os.Getenv("AZURE_STORAGE_CONTAINER_NAME"),
		ServerAddr:           getEnvDefault("SERVER_ADDR", ":8080"),
		NATSURL:              os.Getenv("NATS_URL"),
		NATSSubject:          os.Getenv("NATS_SUBJECT"),
	}

	var err error
	cfg.MaxTimeSec, err = getEnvIntDefault("GLOBAL_LIMITS_MAX_TIME_SEC", 30)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxMemoryMB, err = getEnvIntDefault("GLOBAL_LIMITS_MAX_MEMORY_MB", 4096)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxConcurrentBatches, err = getEnvIntDefault("MAX_CONCURRENT_BATCHES", 4)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Language == "" {
		return fmt.Errorf("config: EXECUTION_LANGUAGE is required")
	}
	switch c.Language {
	case "c", "python", "java", "rust", "go":
	default:
		return fmt.Errorf("config: EXECUTION_LANGUAGE %q is not one of c|python|java|rust|go", c.Language)
	}
	if c.OrchestratorAddress == "" {
		return fmt.Errorf("config: ORCHESTRATOR_ADDRESS is required")
	}
	return nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q: %w", key, v, err)
	}
	return n, nil
}
