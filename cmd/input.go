package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mailpipe/core"
	"github.com/gaurav-prasanna/mailpipe/core/extract"
	"github.com/gaurav-prasanna/mailpipe/core/fetch"
)

// newLoader returns a loader whose stdin is the command's input.
func newLoader(cmd *cobra.Command) *fetch.SourceLoader {
	l := fetch.New(cfg.Fetch.Timeout, logger)
	l.SetStdin(cmd.InOrStdin())
	return l
}

// location returns the single optional source argument, stdin by default.
func location(args []string) string {
	if len(args) == 0 {
		return fetch.Stdin
	}
	return args[0]
}

// loadBody loads a source and takes the email body out of it.
func loadBody(ctx context.Context, loader core.Loader, importer core.Importer, loc string) (*core.Imported, error) {
	src, err := loader.Load(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	imported, err := importer.Import(src.HTML)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return imported, nil
}

// readBody is loadBody for single-source commands.
func readBody(cmd *cobra.Command, args []string) (*core.Imported, error) {
	return loadBody(cmd.Context(), newLoader(cmd), extract.New(logger), location(args))
}
