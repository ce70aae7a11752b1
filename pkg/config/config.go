package config

// Value sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// DefaultFileName is looked up in the working directory when no file is given.
const DefaultFileName = "contractstub.yaml"

// Config is the effective CLI configuration.
type Config struct {
	// ContractsDir is the directory or file contracts are read from.
	ContractsDir string `yaml:"contracts,omitempty"`

	// Patterns are doublestar globs selecting contract files below ContractsDir.
	Patterns []string `yaml:"patterns,omitempty"`

	// OutputDir receives one stub template file per contract.
	OutputDir string `yaml:"output,omitempty"`

	// Imposter, when set, is the path of a combined imposter file.
	Imposter string `yaml:"imposter,omitempty"`

	// Port of the generated imposter. Zero lets Mountebank choose.
	Port int `yaml:"port,omitempty"`

	// Parallelism bounds concurrent conversions within one contract file.
	Parallelism int `yaml:"parallelism,omitempty"`

	// Strict fails the run when any contract produced a warning.
	Strict bool `yaml:"strict,omitempty"`

	LogLevel  string `yaml:"logLevel,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty"`

	// LogFile mirrors log records as JSON into this file.
	LogFile string `yaml:"logFile,omitempty"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `yaml:"-"`

	// Sources tracks where each value came from.
	Sources map[string]string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ContractsDir: "contracts",
		OutputDir:    "stubs",
		Parallelism:  1,
		LogLevel:     "warn",
		LogFormat:    "text",
		Sources: map[string]string{
			"contracts":   SourceDefault,
			"output":      SourceDefault,
			"parallelism": SourceDefault,
			"logLevel":    SourceDefault,
			"logFormat":   SourceDefault,
		},
	}
}

// Set records a value change from the given source.
func (c *Config) Set(key, source string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = source
}

// Source returns where key was last set, or SourceDefault.
func (c *Config) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}
