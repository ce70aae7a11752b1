package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
)

// ConfigError reports a configuration file problem with its location.
type ConfigError struct {
	Path string
	Line int
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %v", e.Path, e.Line, e.Err)
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars replaces ${VAR} and ${VAR:-default} references.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		if val := os.Getenv(submatch[1]); val != "" {
			return val
		}
		if len(submatch) >= 3 {
			return submatch[2]
		}
		return ""
	})
}

// Load resolves defaults, the configuration file and the environment.
// An empty path looks for DefaultFileName and skips the file layer when it
// does not exist; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		}
	} else {
		cfg.Set("configFile", SourceFlag)
	}

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	LoadEnv(cfg)
	return cfg, nil
}

// mergeFile overlays the non-zero values of a YAML file onto c.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("reading config: %w", err)
	}
	c.ConfigFile = path

	data = []byte(ExpandEnvVars(string(data)))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return &ConfigError{
			Path: path,
			Line: yamlErrorLine(err),
			Err:  fmt.Errorf("%w: %w", ErrInvalidYAML, err),
		}
	}

	if file.ContractsDir != "" {
		c.ContractsDir = file.ContractsDir
		c.Set("contracts", SourceFile)
	}
	if len(file.Patterns) > 0 {
		c.Patterns = file.Patterns
		c.Set("patterns", SourceFile)
	}
	if file.OutputDir != "" {
		c.OutputDir = file.OutputDir
		c.Set("output", SourceFile)
	}
	if file.Imposter != "" {
		c.Imposter = file.Imposter
		c.Set("imposter", SourceFile)
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.Set("port", SourceFile)
	}
	if file.Parallelism != 0 {
		c.Parallelism = file.Parallelism
		c.Set("parallelism", SourceFile)
	}
	if file.Strict {
		c.Strict = true
		c.Set("strict", SourceFile)
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.Set("logLevel", SourceFile)
	}
	if file.LogFormat != "" {
		c.LogFormat = file.LogFormat
		c.Set("logFormat", SourceFile)
	}
	if file.LogFile != "" {
		c.LogFile = file.LogFile
		c.Set("logFile", SourceFile)
	}
	return nil
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// yamlErrorLine extracts the line number yaml.v3 embeds in syntax errors.
func yamlErrorLine(err error) int {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return 0
	}
	line, _ := strconv.Atoi(m[1])
	return line
}
