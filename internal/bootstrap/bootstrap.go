// Package bootstrap prepares the filetransformer home directory on first run.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/neoclaw-ai/filetransformer/internal/config"
	"github.com/neoclaw-ai/filetransformer/internal/store"
)

// Initialize creates the home directory and a starter config.toml if missing.
// Existing files are never overwritten.
func Initialize(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.HomeDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", cfg.HomeDir, err)
	}

	content, err := config.DefaultUserConfigTOML()
	if err != nil {
		return err
	}
	return writeFileIfMissing(cfg.ConfigPath(), content)
}

func writeFileIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %q: %w", path, err)
	}

	if err := store.WriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("write file %q: %w", path, err)
	}
	return nil
}
