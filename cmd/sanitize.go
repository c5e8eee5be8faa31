package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mailpipe/core/pretty"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

var (
	flagPretty bool
	flagPaste  bool
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [file|url|-]",
	Short: "Reduce HTML to the email-safe subset",
	Long: `Sanitize reads HTML (a fragment or a full document, whose stylesheets are
inlined first) and prints the canonical email-safe markup.

Examples:
  mailpipe sanitize letter.html
  pbpaste | mailpipe sanitize --paste
  mailpipe sanitize https://example.com/newsletter.html --pretty`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSanitize,
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)

	sanitizeCmd.Flags().BoolVar(&flagPretty, "pretty", false, "Format the result for reading")
	sanitizeCmd.Flags().BoolVar(&flagPaste, "paste", false, "Treat the input as a clipboard payload")
}

func runSanitize(cmd *cobra.Command, args []string) error {
	body, err := readBody(cmd, args)
	if err != nil {
		return err
	}

	san := sanitize.New(nil, logger)
	var clean string
	if flagPaste {
		clean = san.SanitizePaste(body.Body)
	} else {
		clean = san.Sanitize(body.Body)
	}
	if flagPretty {
		clean = pretty.Format(clean)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), clean)
	return err
}
