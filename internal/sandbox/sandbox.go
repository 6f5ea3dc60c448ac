// Package sandbox confines file tools to a fixed set of directories. Guard
// checks every caller-supplied path; RestrictProcess adds an OS-level layer on
// platforms that support it.
package sandbox

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/neoclaw-ai/filetransformer/internal/config"
)

const sandboxedEnvVar = "FILETRANSFORMER_SANDBOXED"

// RestrictProcess limits filesystem writes of the current process to roots.
// Danger mode is a no-op. Roots should already be canonical, e.g. Guard.Roots.
// Missing roots are created first: once restricted, the process can no longer
// create them.
func RestrictProcess(mode string, roots []string) error {
	mode = strings.TrimSpace(mode)
	if mode == config.SecurityModeDanger {
		return nil
	}
	cleaned := make([]string, 0, len(roots))
	for _, root := range roots {
		if root = strings.TrimSpace(root); root != "" {
			cleaned = append(cleaned, root)
		}
	}
	if len(cleaned) == 0 {
		return errors.New("at least one writable root is required")
	}
	for _, root := range cleaned {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return fmt.Errorf("create allowed directory %q: %w", root, err)
		}
	}
	return restrictProcessImpl(mode, cleaned)
}

// IsAlreadySandboxed reports whether the current process already re-execed under sandbox constraints.
func IsAlreadySandboxed() bool {
	return strings.TrimSpace(os.Getenv(sandboxedEnvVar)) == "1"
}
