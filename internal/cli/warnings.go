package cli

import (
	"github.com/neoclaw-ai/filetransformer/internal/config"
	"github.com/neoclaw-ai/filetransformer/internal/logging"
	"github.com/neoclaw-ai/filetransformer/internal/sandbox"
)

// Emit startup warnings derived from non-fatal config/runtime conditions.
func warnStartupConditions(cfg *config.Config, report *config.ValidationReport) {
	if cfg == nil {
		return
	}
	if report != nil {
		for _, warning := range report.Warnings {
			logging.Logger().Warn(warning)
		}
	}
	if !sandbox.IsSandboxSupported() && cfg.Security.Mode == config.SecurityModeStandard {
		logging.Logger().Warn("process sandbox is unavailable on this host; relying on path checks only")
	}
}
