package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/disperse-validator/internal/disperse"
)

var exampleNumbered bool

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example list showing each accepted delimiter",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		text := disperse.ExampleText
		if exampleNumbered {
			text = disperse.NumberLines(text)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)

	exampleCmd.Flags().BoolVarP(&exampleNumbered, "numbered", "n", false, "Print the example with line numbers")
}
