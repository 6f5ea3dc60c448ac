package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/neoclaw-ai/filetransformer/internal/config"
	"github.com/neoclaw-ai/filetransformer/internal/logging"
	"github.com/neoclaw-ai/filetransformer/internal/sandbox"
	"github.com/neoclaw-ai/filetransformer/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the file tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			guard, err := newGuard(cfg)
			if err != nil {
				return err
			}

			if err := sandbox.RestrictProcess(cfg.Security.Mode, guard.Roots()); err != nil {
				if cfg.Security.Mode == config.SecurityModeStrict {
					return err
				}
				logging.Logger().Warn("process sandbox not applied", "err", err)
			}

			logging.Logger().Info(
				"starting server",
				"version", Version,
				"roots", guard.Roots(),
				"mode", cfg.Security.Mode,
				"max_file_size", cfg.Sandbox.MaxFileSize.String(),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(newToolbox(cfg, guard), Version, cfg.Tools.CallTimeout)
			if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logging.Logger().Info("server stopped")
			return nil
		},
	}
}
