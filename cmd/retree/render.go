package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/retree/pkg/render"
	"github.com/vango-dev/retree/pkg/tree"
)

func renderCmd(a *app) *cobra.Command {
	var (
		html     bool
		realized bool
		pretty   bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Mount a document and print it",
		Long: `Mount a document and print its snapshot as JSON, or the rendered
HTML page with --html.

Examples:
  retree render page.yaml
  retree render page.yaml --realized
  retree render page.yaml --html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if html {
				r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
				return s.root.View(func(n *tree.Node) error {
					return r.RenderPage(out, render.PageData{Body: n, Title: documentName(args[0])})
				})
			}

			snap, err := s.snapshot(realized)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Print the rendered HTML page")
	cmd.Flags().BoolVarP(&realized, "realized", "r", false, "Print realized children instead of declared ones")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "Indent HTML output")
	return cmd
}
