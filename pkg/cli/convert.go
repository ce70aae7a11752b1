package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/contractstub/internal/id"
	"github.com/getmockd/contractstub/pkg/cli/internal/output"
	"github.com/getmockd/contractstub/pkg/config"
	"github.com/getmockd/contractstub/pkg/contract"
	"github.com/getmockd/contractstub/pkg/mountebank"
)

var (
	convertOutputDir   string
	convertImposter    string
	convertPort        int
	convertParallelism int
	convertStrict      bool
	convertPatterns    []string
)

var convertCmd = &cobra.Command{
	Use:   "convert [paths...]",
	Short: "Convert contracts to Mountebank stub templates",
	Long: `Convert contracts to Mountebank stub templates.
Each path is a contract file or a directory searched with doublestar
patterns. Every contract with an HTTP request becomes one .ejs stub file
below the output directory, mirroring the layout of the contracts.

Examples:
  # Convert ./contracts into ./stubs
  contractstub convert

  # Convert a directory and bundle everything into one imposter
  contractstub convert ./contracts --out ./stubs --imposter ./imposter.json --port 4545

  # Only YAML contracts, four conversions at a time, fail on warnings
  contractstub convert ./contracts --pattern '**/*.yml' --parallel 4 --strict`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertOutputDir, "out", "o", "", "Output directory for stub templates (default: stubs)")
	convertCmd.Flags().StringVar(&convertImposter, "imposter", "", "Also write all stubs into this imposter file")
	convertCmd.Flags().IntVar(&convertPort, "port", 0, "Imposter port (default: chosen by Mountebank)")
	convertCmd.Flags().IntVar(&convertParallelism, "parallel", 0, "Contracts converted concurrently within a file (default: 1)")
	convertCmd.Flags().BoolVar(&convertStrict, "strict", false, "Fail when any contract produced a warning")
	convertCmd.Flags().StringSliceVar(&convertPatterns, "pattern", nil, "Glob selecting contract files in directories (repeatable)")
}

// ConvertOutput represents JSON output format
type ConvertOutput struct {
	RunID     string            `json:"runId"`
	Contracts int               `json:"contracts"`
	Stubs     int               `json:"stubs"`
	Files     []string          `json:"files"`
	Imposter  string            `json:"imposter,omitempty"`
	Warnings  []ConvertWarning  `json:"warnings"`
	Sources   map[string]string `json:"sources,omitempty"`
}

// ConvertWarning is a recovered conversion problem in JSON output.
type ConvertWarning struct {
	Contract string `json:"contract"`
	File     string `json:"file"`
	Kind     string `json:"kind"`
	Scope    string `json:"scope"`
	Message  string `json:"message"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyConvertFlags(cmd, cfg)

	log, closeLog, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	runID := id.Run()
	log = log.With("run", id.Short(runID))

	roots := args
	if len(roots) == 0 {
		roots = []string{cfg.ContractsDir}
	}

	conv := mountebank.NewConverter(mountebank.Options{Logger: log, Parallelism: cfg.Parallelism})
	stubs := newStubWriter(cfg.OutputDir, log)
	out := ConvertOutput{RunID: runID, Files: []string{}, Warnings: []ConvertWarning{}}
	var results []*mountebank.Result

	for _, root := range roots {
		base, err := contractBase(root)
		if err != nil {
			return err
		}
		sets, err := contract.LoadAll(root, cfg.Patterns...)
		if err != nil {
			return err
		}

		for _, md := range sets {
			out.Contracts += len(md.Contracts)
			log.Debug("converting contract file", "file", md.Path, "contracts", len(md.Contracts))

			result, err := conv.ConvertContractSet(md.Path, md)
			if err != nil {
				return fmt.Errorf("%s: %w", md.Path, err)
			}
			results = append(results, result)

			for _, stub := range result.Stubs() {
				path, err := stubs.write(base, md.Path, stub)
				if err != nil {
					return err
				}
				out.Files = append(out.Files, path)
				out.Stubs++
				for _, w := range stub.Warnings {
					out.Warnings = append(out.Warnings, ConvertWarning{
						Contract: stub.Contract.Name,
						File:     md.Path,
						Kind:     string(w.Kind),
						Scope:    w.Scope,
						Message:  w.Err.Error(),
					})
				}
			}
		}
	}

	if out.Contracts == 0 {
		return ErrNoContracts
	}

	if cfg.Imposter != "" {
		if err := writeImposter(cfg, results, log); err != nil {
			return err
		}
		out.Imposter = cfg.Imposter
	}

	if jsonOutput {
		out.Sources = cfg.Sources
		if err := output.JSON(stdout(cmd), out); err != nil {
			return err
		}
	} else {
		printConvertSummary(cmd.ErrOrStderr(), out)
	}

	if cfg.Strict && len(out.Warnings) > 0 {
		return fmt.Errorf("%w (%d warning(s))", ErrStrictWarnings, len(out.Warnings))
	}
	return nil
}

// applyConvertFlags overlays explicitly set convert flags onto cfg.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutputDir = convertOutputDir
		cfg.Set("output", config.SourceFlag)
	}
	if flags.Changed("imposter") {
		cfg.Imposter = convertImposter
		cfg.Set("imposter", config.SourceFlag)
	}
	if flags.Changed("port") {
		cfg.Port = convertPort
		cfg.Set("port", config.SourceFlag)
	}
	if flags.Changed("parallel") {
		cfg.Parallelism = convertParallelism
		cfg.Set("parallelism", config.SourceFlag)
	}
	if flags.Changed("strict") {
		cfg.Strict = convertStrict
		cfg.Set("strict", config.SourceFlag)
	}
	if flags.Changed("pattern") {
		cfg.Patterns = convertPatterns
		cfg.Set("patterns", config.SourceFlag)
	}
}

// contractBase returns the directory output paths are made relative to.
func contractBase(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("cannot access %s: %w", root, err)
	}
	if info.IsDir() {
		return root, nil
	}
	return filepath.Dir(root), nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// stubStem derives a file system safe template name from a contract name.
func stubStem(name string) string {
	name = strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "contract"
	}
	return name
}

func stubFileName(name string) string {
	return mountebank.OutputFileName(stubStem(name))
}

// stubWriter writes stub templates below an output directory. Paths are
// unique within one run: a contract whose name maps onto an already written
// file gets a _<n> suffix.
type stubWriter struct {
	outDir  string
	log     *slog.Logger
	written map[string]string // path -> contract name
}

func newStubWriter(outDir string, log *slog.Logger) *stubWriter {
	return &stubWriter{outDir: outDir, log: log, written: make(map[string]string)}
}

// write stores the template of stub, keeping the directory of its contract
// file relative to base.
func (w *stubWriter) write(base, contractPath string, stub *mountebank.Stub) (string, error) {
	rel, err := filepath.Rel(base, filepath.Dir(contractPath))
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = "."
	}
	dir := filepath.Join(w.outDir, rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := stub.Contract.Name
	path := filepath.Join(dir, stubFileName(name))
	if owner, taken := w.written[path]; taken {
		stem := stubStem(name)
		for n := 2; ; n++ {
			candidate := filepath.Join(dir, mountebank.OutputFileName(fmt.Sprintf("%s_%d", stem, n)))
			if _, used := w.written[candidate]; !used {
				w.log.Warn("stub file name already used, writing under a new name",
					"contract", name, "file", candidate, "taken_by", owner)
				path = candidate
				break
			}
		}
	}

	if err := os.WriteFile(path, []byte(stub.Text+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write stub: %w", err)
	}
	w.written[path] = name
	return path, nil
}

func writeImposter(cfg *config.Config, results []*mountebank.Result, log *slog.Logger) error {
	name := strings.TrimSuffix(filepath.Base(cfg.Imposter), filepath.Ext(cfg.Imposter))
	text, err := mountebank.ImposterFromResults(cfg.Port, name, results...).Render()
	if err != nil {
		return fmt.Errorf("failed to render imposter: %w", err)
	}
	if dir := filepath.Dir(cfg.Imposter); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create imposter directory: %w", err)
		}
	}
	if err := os.WriteFile(cfg.Imposter, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write imposter: %w", err)
	}
	log.Info("wrote imposter", "file", cfg.Imposter, "port", cfg.Port)
	return nil
}

func printConvertSummary(w io.Writer, out ConvertOutput) {
	if len(out.Warnings) > 0 {
		output.Warn(w, "%d problem(s) recovered during conversion:", len(out.Warnings))

		byKind := make(map[string][]ConvertWarning)
		for _, cw := range out.Warnings {
			byKind[cw.Kind] = append(byKind[cw.Kind], cw)
		}
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)

		title := cases.Title(language.English)
		for _, kind := range kinds {
			warnings := byKind[kind]
			fmt.Fprintf(w, "  %s (%d):\n", title.String(strings.ReplaceAll(kind, "_", " ")), len(warnings))
			for i, cw := range warnings {
				if i >= 3 {
					fmt.Fprintf(w, "    ... and %d more\n", len(warnings)-3)
					break
				}
				fmt.Fprintf(w, "    - %s [%s]: %s\n", cw.Contract, cw.Scope, cw.Message)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Processed %d contracts", out.Contracts)
	if skipped := out.Contracts - out.Stubs; skipped > 0 {
		fmt.Fprintf(w, " (skipped %d without an HTTP request)", skipped)
	}
	fmt.Fprintf(w, ", generated %d stubs\n", out.Stubs)
	if out.Imposter != "" {
		fmt.Fprintf(w, "Imposter written to: %s\n", out.Imposter)
	}
}
