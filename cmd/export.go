package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/mailpipe/config"
	"github.com/gaurav-prasanna/mailpipe/core"
	"github.com/gaurav-prasanna/mailpipe/core/extract"
	"github.com/gaurav-prasanna/mailpipe/core/normalize"
	"github.com/gaurav-prasanna/mailpipe/core/output"
	"github.com/gaurav-prasanna/mailpipe/core/render"
	"github.com/gaurav-prasanna/mailpipe/core/sanitize"
	"github.com/gaurav-prasanna/mailpipe/crawl"
)

// Flag variables.
var (
	flagAll  bool
	flagHTML bool
	flagText bool
	flagJSON bool
	flagPDF  bool
)

// exportCmd runs the pipeline:
// load → import → sanitize → normalize → render → write.
var exportCmd = &cobra.Command{
	Use:   "export <source>...",
	Short: "Export sources as email documents, text, JSON or PDF",
	Long: `Export loads each source, sanitizes it and writes it in the chosen format.
A source is a file, an http(s) URL or "-" for stdin. With --all every
source is a directory whose .html files are exported, mirroring the
directory structure under the output directory.

Examples:
  mailpipe export letter.html --html
  mailpipe export https://example.com/may.html --text --output_dir ./out
  mailpipe export ./campaigns --all --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&flagAll, "all", false, "Export every HTML file below the given directories")

	// Output format flags (mutually exclusive).
	exportCmd.Flags().BoolVar(&flagHTML, "html", false, "Output a complete HTML email document")
	exportCmd.Flags().BoolVar(&flagText, "text", false, "Output the plain-text alternative")
	exportCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	exportCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output a PDF proof")

	exportCmd.Flags().String("output_dir", "", "Output directory (default: current directory)")
	_ = viper.BindPFlag("output_dir", exportCmd.Flags().Lookup("output_dir"))
}

// pipeline holds the stages every source goes through.
type pipeline struct {
	loader     core.Loader
	importer   core.Importer
	sanitizer  *sanitize.Sanitizer
	normalizer core.Normalizer
	renderer   core.Renderer
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}

	renderer, err := selectRenderer(cfg)
	if err != nil {
		return err
	}

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	p := pipeline{
		loader:     newLoader(cmd),
		importer:   extract.New(logger),
		sanitizer:  sanitize.New(nil, logger),
		normalizer: normalize.New(),
		renderer:   renderer,
	}

	if flagAll {
		return runAll(cmd, args, p, writer)
	}
	return runOnly(cmd, args, p, writer)
}

// runOnly exports each source to a flat file named after it.
func runOnly(cmd *cobra.Command, sources []string, p pipeline, writer *output.Writer) error {
	var errs error
	for _, src := range sources {
		data, err := p.process(cmd.Context(), src)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", src, err))
			continue
		}

		path, err := writer.Write(src, data, p.renderer.Extension())
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	}
	return errs
}

// runAll discovers the HTML files below each root and exports them all.
// Failures are collected and returned together.
func runAll(cmd *cobra.Command, roots []string, p pipeline, writer *output.Writer) error {
	var errs error
	for _, root := range roots {
		files, err := crawl.DiscoverFiles(root)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		logger.Info("Discovered sources", zap.String("root", root), zap.Int("files", len(files)))

		for i, file := range files {
			logger.Debug("Processing", zap.String("file", file), zap.Int("n", i+1), zap.Int("of", len(files)))

			data, err := p.process(cmd.Context(), file)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", file, err))
				continue
			}

			path, err := writer.WriteMirrored(root, file, data, p.renderer.Extension())
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
		}
	}

	if n := len(multierr.Errors(errs)); n > 0 {
		logger.Warn("Some sources failed", zap.Int("failed", n))
	}
	return errs
}

// process runs a single source through the full pipeline.
func (p pipeline) process(ctx context.Context, location string) ([]byte, error) {
	// 1. Load and import
	imported, err := loadBody(ctx, p.loader, p.importer, location)
	if err != nil {
		return nil, err
	}

	// 2. Sanitize
	clean := p.sanitizer.Sanitize(imported.Body)

	// 3. Normalize to the text alternative
	text, err := p.normalizer.Normalize(clean)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	// 4. Render to output format
	data, err := p.renderer.Render(core.Message{
		Metadata: buildMetadata(location, imported),
		HTML:     clean,
		Text:     text,
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return data, nil
}

// buildMetadata constructs message metadata from the source and import.
func buildMetadata(location string, imported *core.Imported) core.Metadata {
	return core.Metadata{
		Source:     location,
		Title:      imported.Title,
		Language:   imported.Language,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// validateFlags checks that exactly one output format is chosen.
func validateFlags() error {
	formatCount := 0
	for _, set := range []bool{flagHTML, flagText, flagJSON, flagPDF} {
		if set {
			formatCount++
		}
	}

	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --html, --text, --json, or --pdf")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer(c *config.Config) (core.Renderer, error) {
	switch {
	case flagHTML:
		return render.NewEmailRenderer(render.EmailOptions{
			Lang:         c.Export.Lang,
			Title:        c.Export.Title,
			Background:   c.Export.Background,
			ContentWidth: c.Export.ContentWidth,
		}, nil), nil
	case flagText:
		return render.NewTextRenderer(), nil
	case flagJSON:
		return render.NewJSONRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(c.Export.Accent), nil
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}
