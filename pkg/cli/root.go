package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/contractstub/pkg/config"
	"github.com/getmockd/contractstub/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	logLevel   string
	logFormat  string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "contractstub",
	Short: "contractstub turns HTTP contracts into Mountebank stubs",
	Long: `contractstub converts consumer-driven HTTP contracts (YAML or JSON) into
Mountebank stub documents, one template file per contract, and can bundle
them into a single imposter file ready for 'mb --configfile'.

Configuration can be provided via flags, CONTRACTSTUB_* environment variables,
or a configuration file. By default, contractstub looks for contractstub.yaml
in the current directory.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./contractstub.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// loadConfig resolves the configuration and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
		cfg.Set("logLevel", config.SourceFlag)
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = logFormat
		cfg.Set("logFormat", config.SourceFlag)
	}
	return cfg, nil
}

// newLogger builds the command logger. Records go to the command's stderr and,
// when a log file is configured, are mirrored there as JSON. The returned
// function closes the log file.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, func(), error) {
	logCfg := logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	}

	closer := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logCfg.Mirror = f
		closer = func() { _ = f.Close() }
	}

	return logging.New(logCfg), closer, nil
}

// stdout returns the writer command results are printed to.
func stdout(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
