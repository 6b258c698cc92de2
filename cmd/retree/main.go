package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/retree/internal/config"
	"github.com/vango-dev/retree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// app carries the state shared by every command.
type app struct {
	configPath string
	logLevel   string

	config *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "retree",
		Short: "Load, reconcile and inspect retained node trees",
		Long: `retree loads markup documents into a retained node tree and keeps
that tree reconciled as the document changes.

Documents are YAML or JSON. A node is a scalar (text) or a mapping with
one of tag, component or fragment, plus optional attrs and children.
The built-in types are the Group fragment and the Panel component.

Examples:
  retree render page.yaml --html
  retree watch page.yaml
  retree serve page.yaml --addr=:7070`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to retree.json (default: ./retree.json)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		renderCmd(a),
		watchCmd(a),
		serveCmd(a),
		exportCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.config = cfg

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(stderr, opts)
	} else {
		handler = slog.NewTextHandler(stderr, opts)
	}
	a.logger = slog.New(handler)
	return nil
}

// documentName returns a readable name for the document at path.
func documentName(path string) string {
	return filepath.Base(path)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
