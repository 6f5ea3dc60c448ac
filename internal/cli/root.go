// Package cli wires Cobra subcommands to application dependencies; it is a thin controller with no business logic.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/neoclaw-ai/filetransformer/internal/bootstrap"
	"github.com/neoclaw-ai/filetransformer/internal/config"
	"github.com/neoclaw-ai/filetransformer/internal/logging"
	"github.com/spf13/cobra"
)

// rootOptions holds persistent flags shared by subcommands.
type rootOptions struct {
	verbose   bool
	allowDirs []string
}

// NewRootCmd creates the root command and registers all subcommands.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "filetransformer",
		Short: "Sandboxed PDF, image, and zip tools served over MCP",
		// Let main handle fatal error rendering through structured logs.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// These commands only print static or merged data and should not
			// create the home directory.
			switch cmd.Name() {
			case "config", "version", "tools":
				if opts.verbose {
					logging.SetLevel(slog.LevelDebug)
				}
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.verbose {
				logging.SetLevel(slog.LevelDebug)
			} else {
				logging.SetLevel(logging.ParseLevel(cfg.Log.Level))
			}

			configPath := cfg.ConfigPath()
			firstRun := false
			if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
				firstRun = true
			} else if err != nil {
				return fmt.Errorf("stat config file %q: %w", configPath, err)
			}

			if err := bootstrap.Initialize(cfg); err != nil {
				return err
			}

			// MCP clients launch the server unattended, so first run continues
			// with defaults instead of stopping for edits.
			if firstRun {
				logging.Logger().Info("wrote default config", "path", configPath)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to `filetransformer serve` when no subcommand is provided.
			serveCmd, _, err := cmd.Find([]string{"serve"})
			if err != nil {
				return err
			}
			serveCmd.SetContext(cmd.Context())
			return serveCmd.RunE(serveCmd, args)
		},
	}

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newCallCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newToolsCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging (debug level)")
	root.PersistentFlags().StringArrayVar(&opts.allowDirs, "allow-dir", nil, "Allowed directory (repeatable); overrides sandbox.allowed_dirs")

	return root
}
