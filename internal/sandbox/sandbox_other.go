//go:build !linux && !darwin

package sandbox

import (
	"errors"

	"github.com/neoclaw-ai/filetransformer/internal/config"
)

// IsSandboxSupported reports sandbox support on non-Linux/non-Darwin platforms.
func IsSandboxSupported() bool {
	return false
}

func restrictProcessImpl(mode string, _ []string) error {
	if mode == config.SecurityModeStrict {
		return errors.New("process sandbox is not supported on this platform")
	}
	return nil
}
