package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photostrip/internal/server"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/template"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		remote  bool
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Clients post a template and photos (as data URIs) to /api/render and get the
strip back. Templates are stored in the configured backend. Photos are never
read from the server's disk; pass --remote to also fetch http(s) URLs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, remote, noStore)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&remote, "remote", false, "allow photos by http(s) URL")
	cmd.Flags().BoolVar(&noStore, "no-templates", false, "disable the template routes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, remote, noStore bool) error {
	cfg := c.config()
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	resolver := &imagesrc.Mux{Data: imagesrc.DataURI{}}
	if remote {
		resolver.HTTP = imagesrc.NewHTTP(runner.Cache)
	}

	defaults := pipeline.Options{}
	c.exportDefaults(&defaults)

	opts := []server.Option{
		server.WithRunner(runner),
		server.WithResolver(resolver),
		server.WithLogger(c.Logger),
		server.WithCORSOrigins(cfg.Server.CORSOrigins...),
		server.WithExportDefaults(defaults),
	}
	if !noStore {
		var store template.Store
		store, err = c.newTemplateStore(ctx)
		if err != nil {
			return fmt.Errorf("open template store: %w", err)
		}
		defer store.Close()
		opts = append(opts, server.WithTemplates(store))
	}

	printSuccess("Listening on %s", StyleHighlight.Render(addr))
	printDetail("Templates: %s", storeLabel(cfg.Storage.Backend, noStore))
	return server.New(opts...).ListenAndServe(ctx, addr)
}

func storeLabel(backend string, disabled bool) string {
	if disabled {
		return "disabled"
	}
	return backend
}
