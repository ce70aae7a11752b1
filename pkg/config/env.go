package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvContracts   = "CONTRACTSTUB_CONTRACTS"
	EnvOutput      = "CONTRACTSTUB_OUTPUT"
	EnvImposter    = "CONTRACTSTUB_IMPOSTER"
	EnvPort        = "CONTRACTSTUB_PORT"
	EnvParallelism = "CONTRACTSTUB_PARALLELISM"
	EnvStrict      = "CONTRACTSTUB_STRICT"
	EnvLogLevel    = "CONTRACTSTUB_LOG_LEVEL"
	EnvLogFormat   = "CONTRACTSTUB_LOG_FORMAT"
	EnvLogFile     = "CONTRACTSTUB_LOG_FILE"
)

// LoadEnv applies environment variables to cfg.
// It only sets values that are present in the environment.
func LoadEnv(cfg *Config) {
	if v := os.Getenv(EnvContracts); v != "" {
		cfg.ContractsDir = v
		cfg.Set("contracts", SourceEnv)
	}

	if v := os.Getenv(EnvOutput); v != "" {
		cfg.OutputDir = v
		cfg.Set("output", SourceEnv)
	}

	if v := os.Getenv(EnvImposter); v != "" {
		cfg.Imposter = v
		cfg.Set("imposter", SourceEnv)
	}

	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
			cfg.Set("port", SourceEnv)
		}
	}

	if v := os.Getenv(EnvParallelism); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Parallelism = n
			cfg.Set("parallelism", SourceEnv)
		}
	}

	if v := os.Getenv(EnvStrict); v != "" {
		cfg.Strict = parseBool(v)
		cfg.Set("strict", SourceEnv)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Set("logLevel", SourceEnv)
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Set("logFormat", SourceEnv)
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
		cfg.Set("logFile", SourceEnv)
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
