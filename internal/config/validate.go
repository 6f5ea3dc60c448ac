package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Validatable is implemented by config sections that can self-validate.
type Validatable interface {
	Validate() error
}

type ValidationReport struct {
	Warnings []string
}

func (c SandboxConfig) Validate() error {
	if c.MaxFileSize <= 0 {
		return errors.New("max_file_size must be > 0")
	}
	if c.MaxImagePixels <= 0 {
		return errors.New("max_image_pixels must be > 0")
	}
	for i, dir := range c.AllowedDirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("allowed_dirs[%d] is empty", i)
		}
	}
	return nil
}

func (c SecurityConfig) Validate() error {
	return validateSecurityMode(c.Mode)
}

func (c ToolsConfig) Validate() error {
	if c.InlineOutputChars < 0 {
		return errors.New("inline_output_chars must be >= 0")
	}
	if c.CallTimeout <= 0 {
		return errors.New("call_timeout must be > 0")
	}
	return nil
}

func (c LogConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("invalid level %q", c.Level)
	}
}

// Validate returns every fatal configuration error joined together.
func (cfg *Config) Validate() error {
	var errs []error
	sections := []struct {
		name    string
		section Validatable
	}{
		{"sandbox", cfg.Sandbox},
		{"security", cfg.Security},
		{"tools", cfg.Tools},
		{"log", cfg.Log},
	}
	for _, s := range sections {
		if err := s.section.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateStartup validates startup configuration and returns warning messages.
func ValidateStartup(cfg *Config) (*ValidationReport, error) {
	report := &ValidationReport{}
	if err := cfg.Validate(); err != nil {
		return report, err
	}

	if len(cfg.Sandbox.AllowedDirs) == 0 {
		report.Warnings = append(report.Warnings, "sandbox.allowed_dirs is empty; using the default sandbox directory")
	}
	if cfg.Security.Mode == SecurityModeDanger {
		report.Warnings = append(report.Warnings, "security.mode is danger; the process sandbox is disabled")
	}
	if runtime.GOOS == "linux" && cfg.Security.Mode != SecurityModeDanger && !isLandlockAvailable() {
		report.Warnings = append(report.Warnings, "landlock is unavailable on this host")
	}
	return report, nil
}
