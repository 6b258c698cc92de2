package main

import (
	"context"

	"github.com/spf13/cobra"
)

func exportCmd(a *app) *cobra.Command {
	var declared bool

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a document snapshot",
		Long: `Mount a document and write its snapshot to the configured store:
the snapshot directory, or the S3 bucket when snapshot.s3.bucket is set.

Examples:
  retree export page.yaml
  retree export page.yaml --declared`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx, args[0])
			if err != nil {
				return err
			}
			defer s.root.Unmount(context.WithoutCancel(ctx))

			exporter, err := a.exporter(ctx, !declared)
			if err != nil {
				return err
			}
			snap, err := s.snapshot(!declared)
			if err != nil {
				return err
			}
			key, err := exporter.ExportSnapshot(ctx, snap)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Exported %s", key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&declared, "declared", false, "Export declared children instead of realized ones")
	return cmd
}
