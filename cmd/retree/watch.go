package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/mount"
)

func watchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Reconcile a document on every change",
		Long: `Mount a document, then recycle the tree against the document
every time it is saved and print what changed.

Examples:
  retree watch page.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			success(out, "Mounted %s", documentName(args[0]))

			err = s.watch(ctx, func(stats mount.Stats) {
				printStats(out, stats)
			}, func(err error) {
				errors.Fprint(cmd.ErrOrStderr(), err)
			})
			if err != nil {
				return err
			}
			_, err = s.root.Unmount(context.WithoutCancel(ctx))
			return err
		},
	}
	return cmd
}

// printStats prints the edits of one reconcile cycle.
func printStats(w io.Writer, stats mount.Stats) {
	if stats.Replaced {
		success(w, "Replaced root: %d constructed, %d destructed", stats.Constructed, stats.Destructed)
		return
	}
	success(w, "Recycled: %d inserted, %d kept, %d removed, %d refreshed, %d rendered",
		stats.Inserted, stats.Kept, stats.Removed, stats.Refreshed, stats.Rendered)
	if stats.Constructed+stats.Destructed > 0 {
		fmt.Fprintf(w, "  %d constructed, %d destructed\n", stats.Constructed, stats.Destructed)
	}
}
