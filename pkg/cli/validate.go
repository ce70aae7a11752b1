package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/contractstub/pkg/cli/internal/output"
	"github.com/getmockd/contractstub/pkg/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Validate generated stub or imposter documents",
	Long: `Validate generated stub or imposter documents.

This command checks:
  - JSON syntax
  - Stub shape (one "and" predicate, schema clause first, one "is" response)
  - Imposter shape when the document has a "stubs" array
  - Regular expressions under "matches" predicates compile

Examples:
  # Validate every generated stub
  contractstub validate stubs/*.ejs

  # Validate an imposter with machine-readable output
  contractstub validate imposter.json --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// ValidateOutput represents JSON output format for one file
type ValidateOutput struct {
	File string `json:"file"`
	*validation.Result
}

func runValidate(cmd *cobra.Command, args []string) error {
	v := validation.New()
	w := stdout(cmd)

	results := make([]ValidateOutput, 0, len(args))
	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		result, err := v.Validate(data)
		if err != nil {
			return err
		}
		if !result.Valid {
			failed++
		}
		results = append(results, ValidateOutput{File: path, Result: result})
	}

	if jsonOutput {
		if err := output.JSON(w, results); err != nil {
			return err
		}
	} else {
		tw := output.Table(w)
		for _, r := range results {
			status := "valid"
			if !r.Valid {
				status = "INVALID"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.File, r.Kind, status)
		}
		_ = tw.Flush()

		for _, r := range results {
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  [ERROR] %s: %s\n", r.File, e.Error())
			}
			for _, warn := range r.Warnings {
				output.Warn(cmd.ErrOrStderr(), "%s: %s", r.File, warn.Error())
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s) invalid", ErrValidationFailed, failed, len(results))
	}
	return nil
}
