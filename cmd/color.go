package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/gaurav-prasanna/mailpipe/core/colors"
)

var colorCmd = &cobra.Command{
	Use:   "color <value>...",
	Short: "Normalize CSS colors to #rrggbb",
	Long: `Color prints the canonical lowercase 6-digit hex form of each value.
Accepted inputs are #rgb, #rrggbb, rgb() and rgba().

Examples:
  mailpipe color '#ABC' 'rgb(255, 0, 0)'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runColor,
}

func init() {
	rootCmd.AddCommand(colorCmd)
}

func runColor(cmd *cobra.Command, args []string) error {
	var errs error
	for _, value := range args {
		hex, ok := colors.Normalize(value)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("invalid color %q", value))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", value, hex)
	}
	return errs
}
