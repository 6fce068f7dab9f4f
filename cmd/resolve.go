// =============================================================================
// Disperse Validator - Resolve Command
// =============================================================================
//
// COMMAND USAGE:
//   disperse resolve [file|-] --strategy keep|combine [--out path]
//
// Validates a list, merges duplicated addresses with the chosen strategy and
// validates the rewritten list again. The rewritten list is printed, or
// written to --out in the format matching its extension (.txt, .csv, .xlsx).
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/disperse-validator/internal/disperse"
	"github.com/ginjaninja78/disperse-validator/internal/source"
	"github.com/ginjaninja78/disperse-validator/internal/types"
	"github.com/ginjaninja78/disperse-validator/internal/writer"
)

var (
	strategyName string
	outPath      string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file|-]",
	Short: "Merge duplicated addresses in a disperse list",
	Long: `Merge duplicated addresses using one of two strategies:

  keep     keep the first occurrence of each address and its amount
  combine  keep the first occurrence and sum the amounts of all occurrences

Lines that could not be split into an address and an amount are dropped from
the rewritten list. The rewritten list is validated again before output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd, inputArg(args))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&strategyName, "strategy", "s", "keep", "Resolution strategy (keep, combine)")
	resolveCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the result to a file instead of standard output")
}

func runResolve(cmd *cobra.Command, path string) error {
	strategy, err := types.ParseStrategy(strategyName)
	if err != nil {
		return err
	}

	text, err := source.Read(path)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	session := disperse.NewSession(newEngine(), text).Submit()

	switch session.State() {
	case disperse.ErrorsShown:
		printReport(errOut, inputName(path), session.Result())
		return fmt.Errorf("%w: %d error(s)", ErrValidationFailed, len(session.Result().Errors))

	case disperse.DuplicatesPending:
		printReport(errOut, inputName(path), session.Result())

		session, err = session.Resolve(strategy)
		if err != nil {
			return err
		}
		logger.Info("resolved duplicates", "strategy", strategy.String())

		session = session.Submit()
		if session.State() != disperse.Clean {
			printReport(errOut, inputName(path)+" (resolved)", session.Result())
			return fmt.Errorf("%w after resolution: %d error(s)", ErrValidationFailed, len(session.Result().Errors))
		}
	}

	entries, err := newEngine().Canonical(session.Result())
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), newEngine().Serialize(entries))
		return nil
	}

	if err := writer.Write(outPath, entries, formatForPath(outPath)); err != nil {
		return err
	}
	fmt.Fprintln(errOut, okStyle.Render(fmt.Sprintf("✓ wrote %d entr(ies) to %s", len(entries), outPath)))
	return nil
}

// formatForPath picks the output format from a file extension. Unknown
// extensions are written as text.
func formatForPath(path string) writer.Format {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	format, err := writer.ParseFormat(ext)
	if errors.Is(err, writer.ErrUnsupportedFormat) {
		return writer.FormatText
	}
	return format
}
