package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/mailpipe/core/document"
	"github.com/gaurav-prasanna/mailpipe/core/editor"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
)

var (
	flagFrom   int
	flagTo     []int
	flagSource bool
)

var paintCmd = &cobra.Command{
	Use:   "paint [file|url|-] --from <block> --to <block>[,<block>...]",
	Short: "Copy the formatting of one block onto others",
	Long: `Paint captures the formatting of block --from (block type, alignment, line
height, marks, colors, font and link) and applies it to each --to block,
replacing their formatting. Blocks are the top-level elements of the
content, counted from 0.

Examples:
  mailpipe paint letter.html --from 0 --to 2,3
  mailpipe paint letter.html --from 1 --to 4 --source`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPaint,
}

func init() {
	rootCmd.AddCommand(paintCmd)

	paintCmd.Flags().IntVar(&flagFrom, "from", -1, "Block to copy the formatting from")
	paintCmd.Flags().IntSliceVar(&flagTo, "to", nil, "Blocks to apply the formatting to")
	paintCmd.Flags().BoolVar(&flagSource, "source", false, "Print the formatted source view")
	_ = paintCmd.MarkFlagRequired("from")
	_ = paintCmd.MarkFlagRequired("to")
}

func runPaint(cmd *cobra.Command, args []string) error {
	body, err := readBody(cmd, args)
	if err != nil {
		return err
	}

	s := editor.New(sanitize.New(nil, logger), logger)
	if err := s.SetContent(body.Body); err != nil {
		return err
	}
	if err := paint(s, flagFrom, flagTo); err != nil {
		return err
	}

	out := s.HTML()
	if flagSource {
		out = s.Source()
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// paint copies the formatting of block from onto every block in to.
func paint(s *editor.Session, from int, to []int) error {
	doc := s.Document()
	if err := doc.SelectBlock(from); err != nil {
		return fmt.Errorf("--from %d: %w", from, err)
	}
	snap, ok := s.CopyFormatting()
	if !ok {
		return errors.New("nothing to copy")
	}
	logger.Debug("Copied formatting", zap.Int("block", from), zap.Any("snapshot", snap))

	for _, idx := range to {
		if err := doc.SelectBlock(idx); err != nil {
			return fmt.Errorf("--to %d: %w", idx, err)
		}
		if !s.ApplyFormatting() {
			return fmt.Errorf("block %d: %w", idx, document.ErrNoTextBlocks)
		}
	}
	return nil
}
