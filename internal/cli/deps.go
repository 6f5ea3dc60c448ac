package cli

import (
	"github.com/neoclaw-ai/filetransformer/internal/config"
	"github.com/neoclaw-ai/filetransformer/internal/sandbox"
	"github.com/neoclaw-ai/filetransformer/internal/tools"
)

// loadConfig loads and validates config, applying --allow-dir overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(opts.allowDirs) > 0 {
		cfg.Sandbox.AllowedDirs = opts.allowDirs
	}
	report, err := config.ValidateStartup(cfg)
	if err != nil {
		return nil, err
	}
	warnStartupConditions(cfg, report)
	return cfg, nil
}

func newGuard(cfg *config.Config) (*sandbox.Guard, error) {
	roots := sandbox.DefaultSandbox()
	if len(cfg.Sandbox.AllowedDirs) > 0 {
		roots = sandbox.ExplicitRoots(cfg.Sandbox.AllowedDirs...)
	}
	return sandbox.NewGuard(roots, sandbox.WithMaxFileSize(int64(cfg.Sandbox.MaxFileSize)))
}

func newToolbox(cfg *config.Config, guard *sandbox.Guard) *tools.Toolbox {
	return tools.New(guard, tools.Options{
		InlineOutputChars: cfg.Tools.InlineOutputChars,
		MaxImagePixels:    cfg.Sandbox.MaxImagePixels,
	})
}
