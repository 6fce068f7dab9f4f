// =============================================================================
// Disperse Validator - Check Command
// =============================================================================
//
// COMMAND USAGE:
//   disperse check [file|-] [--numbered]
//
// Validates a list and prints every error. Reads standard input when no
// file is given. Exits with a non-zero status when the list has errors,
// including duplicated addresses.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/disperse-validator/internal/disperse"
	"github.com/ginjaninja78/disperse-validator/internal/source"
)

// checkNumbered prints the buffer with a line-number gutter before the report.
var checkNumbered bool

var checkCmd = &cobra.Command{
	Use:   "check [file|-]",
	Short: "Validate a disperse list and report every error",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, inputArg(args))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVarP(&checkNumbered, "numbered", "n", false, "Print the list with line numbers")
}

func runCheck(cmd *cobra.Command, path string) error {
	text, err := source.Read(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if checkNumbered {
		fmt.Fprintln(out, disperse.NumberLines(text))
		fmt.Fprintln(out)
	}

	result := newEngine().ParseAndValidate(text)
	printReport(out, inputName(path), result)

	if !result.Clean() {
		return fmt.Errorf("%w: %d error(s)", ErrValidationFailed, len(result.Errors))
	}
	return nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return source.Stdin
	}
	return args[0]
}
