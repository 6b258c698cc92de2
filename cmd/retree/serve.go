package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/inspect"
	"github.com/vango-dev/retree/pkg/mount"
	"github.com/vango-dev/retree/pkg/snapshot"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr    string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Start the inspector for a document",
		Long: `Mount a document and serve the inspector: the tree as JSON and
HTML, metrics, snapshot export and a websocket that pushes the realized
tree after every cycle. The document is watched and recycled on change
unless --no-watch is set.

Examples:
  retree serve page.yaml
  retree serve page.yaml --addr=0.0.0.0:8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}
			exporter, err := a.exporter(ctx, true)
			if err != nil {
				return err
			}

			cfg := inspect.Config{
				Root:     s.root,
				Exporter: exporter,
				Logger:   a.logger,
			}
			if s.registry != nil {
				cfg.Gatherer = s.registry
			}
			server := inspect.New(cfg)
			defer server.Close()

			if addr == "" {
				addr = a.config.InspectorAddress()
			}
			out := cmd.OutOrStdout()
			success(out, "Inspecting %s on http://%s", documentName(args[0]), addr)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.ListenAndServe(ctx, addr)
			})
			if !noWatch {
				g.Go(func() error {
					return s.watch(ctx, func(stats mount.Stats) {
						printStats(out, stats)
					}, func(err error) {
						errors.Fprint(cmd.ErrOrStderr(), err)
					})
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			_, err = s.root.Unmount(context.WithoutCancel(ctx))
			return err
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from retree.json)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not watch the document")
	return cmd
}

// exporter builds a snapshot exporter for the configured store.
func (a *app) exporter(ctx context.Context, realized bool) (*snapshot.Exporter, error) {
	var store snapshot.Store
	if a.config.UsesS3() {
		s3cfg := a.config.Snapshot.S3
		client, err := snapshot.NewS3Client(ctx, s3cfg.Region)
		if err != nil {
			return nil, err
		}
		store = snapshot.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix)
	} else {
		fs, err := snapshot.NewFileStore(a.config.SnapshotPath())
		if err != nil {
			return nil, err
		}
		store = fs
	}
	return snapshot.NewExporter(store, snapshot.WithRealized(realized), snapshot.WithIndent(true)), nil
}
