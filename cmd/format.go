package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mailpipe/core/pretty"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

var (
	flagCollapse bool
	flagClean    bool
)

var formatCmd = &cobra.Command{
	Use:   "format [file|url|-]",
	Short: "Pretty-print HTML for the source view",
	Long: `Format indents HTML one block element per line. With --collapse it does
the reverse and removes the whitespace between tags.

Examples:
  mailpipe format letter.html
  mailpipe format --clean < draft.html
  mailpipe format --collapse letter.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().BoolVar(&flagCollapse, "collapse", false, "Collapse whitespace between tags instead of indenting")
	formatCmd.Flags().BoolVar(&flagClean, "clean", false, "Sanitize before formatting")
}

func runFormat(cmd *cobra.Command, args []string) error {
	src, err := newLoader(cmd).Load(cmd.Context(), location(args))
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	html := src.HTML
	if flagClean {
		html = sanitize.New(nil, logger).Sanitize(html)
	}
	if flagCollapse {
		html = pretty.Collapse(html)
	} else {
		html = pretty.Format(html)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
	return err
}
