package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// galleryCommand creates the gallery command for archived exports.
func (c *CLI) galleryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Browse archived strips",
		Long: `Browse archived strips.

'render --archive' stores every export in the gallery: a local directory by
default, or an S3 bucket when gallery.s3_bucket is configured.`,
	}

	cmd.AddCommand(c.galleryListCommand())
	cmd.AddCommand(c.galleryClearCommand())
	cmd.AddCommand(c.galleryPathCommand())

	return cmd
}

func (c *CLI) galleryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List archived strips, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.newGallery(cmd.Context())
			if err != nil {
				return fmt.Errorf("open gallery: %w", err)
			}
			entries, err := g.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("Gallery is empty")
				return nil
			}
			now := time.Now()
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Name, humanBytes(e.Size), formatRelativeTime(e.ModTime, now)})
			}
			printTable([]string{"FILE", "SIZE", "ARCHIVED"}, rows)
			return nil
		},
	}
}

func (c *CLI) galleryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every archived strip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.newGallery(cmd.Context())
			if err != nil {
				return fmt.Errorf("open gallery: %w", err)
			}
			n, err := g.Clear(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Removed %d archived files", n)
			return nil
		},
	}
}

func (c *CLI) galleryPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the gallery location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg := c.config().Gallery; cfg.S3Bucket != "" {
				fmt.Fprintf(out, "s3://%s/%s\n", cfg.S3Bucket, cfg.S3Prefix)
				return nil
			}
			dir, err := c.galleryDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, dir)
			return nil
		},
	}
}
