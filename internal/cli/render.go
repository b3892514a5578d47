package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photostrip/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file (single format) or base path (several)
	formats string // comma-separated: png, jpeg, pdf
	root    string // directory local photo paths resolve against
	archive bool   // also deliver to the gallery
	noCache bool
	export  pipeline.Options
}

// renderCommand creates the render command for exporting strips.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <template> [photo...]",
		Short: "Export a strip to PNG, JPEG or PDF",
		Long: `Export a strip to PNG, JPEG or PDF.

The template is a JSON record (as written by 'layout' or 'template show') or
the id of a stored template. Photos fill the slots in order; extra photos are
ignored and empty slots render as placeholders.

The PDF is a print sheet with several copies of the strip side by side.
Exports are cached by content, so re-rendering an unchanged strip is instant.`,
		Example: `  photostrip render party.json a.jpg b.jpg c.jpg
  photostrip render 01J9Z3... shots/*.jpg -f png,pdf -o out/strip --archive`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.export.Formats = parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(opts.export.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], args[1:], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one format) or base path (several)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), jpeg, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.root, "root", "", "directory photo paths resolve against (default from config, usually .)")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "also store the exports in the gallery")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.export.Refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().IntVar(&opts.export.Quality, "quality", 0, "JPEG quality 1-100 (default from config)")
	cmd.Flags().Float64Var(&opts.export.Oversample, "oversample", 0, "export pixels per canvas unit (default from config)")
	cmd.Flags().IntVar(&opts.export.Copies, "copies", 0, "strips per PDF sheet (default from config)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, tmpl string, photos []string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	s, err := c.newSession(ctx, sessionOpts{
		root:      opts.root,
		noCache:   opts.noCache,
		templates: !isFile(tmpl),
		gallery:   opts.archive,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(ctx, tmpl); err != nil {
		return err
	}
	placed, err := s.addPhotos(photos)
	if err != nil {
		return err
	}
	if placed < len(photos) {
		printWarning("%d of %d photos used; the template has %d slots", placed, len(photos), s.ed.TotalSlots())
	} else if !s.ed.Complete() {
		printWarning("%d of %d slots have photos", placed, s.ed.TotalSlots())
	}

	c.exportDefaults(&opts.export)
	var res *pipeline.Result
	err = spin(ctx, "Rendering strip...", "Rendered strip", func() error {
		var err error
		res, err = s.ed.Export(ctx, opts.export)
		return err
	})
	if err != nil {
		return err
	}
	printExportStats(res.Width, res.Height, res.CacheHit, res.RenderTime)

	multi := len(opts.export.Formats) > 1
	for _, format := range opts.export.Formats {
		path := outputPath(opts.output, format, multi)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	if opts.archive {
		locs, err := s.ed.Archive(ctx, opts.export)
		if err != nil {
			return err
		}
		for _, loc := range locs {
			printFile(loc)
		}
	}

	prog.done("export finished", "formats", len(opts.export.Formats))
	if !opts.archive {
		printNextStep("Keep a copy in the gallery", "photostrip render ... --archive")
	}
	return nil
}
