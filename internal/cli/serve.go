package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringchart/internal/server"
	"github.com/matzehuels/ringchart/pkg/observability"
)

// serveCommand creates the serve command for the HTTP preview.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags chartFlags
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dataset]",
		Short: "Serve a live preview of the chart",
		Long: `Serve a live preview of the chart over HTTP.

Endpoints:
  /diagram.svg   /diagram.png   /outline.svg   /layout.json   /dataset.json   /healthz

Filters are query parameters: q, theme, barrier and type (comma-separated or
repeated). weighting, scale and title override the command-line values per
request. With --watch the dataset is reloaded whenever its file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, cfg, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts.Logger = c.Logger

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			counters := observability.NewCounters()
			runner.Hooks = counters
			runner.CacheHooks = counters

			srv, err := server.New(ctx, runner, server.Config{
				DatasetPath: args[0],
				Addr:        addr,
				Options:     opts,
				Watch:       watch,
			}, server.WithLogger(c.Logger), server.WithHTTPHooks(counters))
			if err != nil {
				return err
			}

			printSuccess("Serving %s", args[0])
			fmt.Println("  " + StyleLink.Render("http://"+addr+"/diagram.svg"))
			if watch {
				printDetail("Watching for changes")
			}

			if err := srv.Run(ctx); err != nil {
				return err
			}

			snap := counters.Snapshot()
			c.Logger.Info("preview summary",
				"requests", snap.Requests,
				"layouts", snap.Layouts,
				"renders", snap.Renders,
				"cache_hits", snap.CacheHits,
				"server_errors", snap.ServerErrors)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVarP(&watch, "watch", "w", true, "reload the dataset when its file changes")

	return cmd
}
