// Package config loads filetransformer runtime configuration from a TOML file and environment variables, exposing typed structs for each section.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const homeEnvVar = "FILETRANSFORMER_HOME"

const (
	// SecurityModeStandard applies the process sandbox on a best-effort basis.
	SecurityModeStandard = "standard"
	// SecurityModeDanger skips the process sandbox. Path guard checks still apply.
	SecurityModeDanger = "danger"
	// SecurityModeStrict requires the process sandbox and narrows readable paths.
	SecurityModeStrict = "strict"
)

// ByteSize is a size in bytes that decodes from human strings such as "50MiB".
type ByteSize int64

// String renders the size in binary units.
func (b ByteSize) String() string {
	return units.BytesSize(float64(b))
}

// Config is the runtime configuration loaded from defaults, config.toml, and env vars.
type Config struct {
	// HomeDir is runtime-resolved from FILETRANSFORMER_HOME and not read from config.
	HomeDir  string         `mapstructure:"-"`
	Sandbox  SandboxConfig  `mapstructure:"sandbox"`
	Security SecurityConfig `mapstructure:"security"`
	Tools    ToolsConfig    `mapstructure:"tools"`
	Log      LogConfig      `mapstructure:"log"`
}

// SandboxConfig configures the path guard. An empty AllowedDirs selects the default sandbox.
type SandboxConfig struct {
	AllowedDirs    []string `mapstructure:"allowed_dirs"`
	MaxFileSize    ByteSize `mapstructure:"max_file_size"`
	MaxImagePixels int64    `mapstructure:"max_image_pixels"`
}

// SecurityConfig controls the process-level sandbox layer.
type SecurityConfig struct {
	Mode string `mapstructure:"mode"`
}

// ToolsConfig controls tool call behavior.
type ToolsConfig struct {
	InlineOutputChars int           `mapstructure:"inline_output_chars"`
	CallTimeout       time.Duration `mapstructure:"call_timeout"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

var defaultConfig = Config{
	Sandbox: SandboxConfig{
		AllowedDirs:    []string{},
		MaxFileSize:    50 * units.MiB,
		MaxImagePixels: 100_000_000,
	},
	Security: SecurityConfig{
		Mode: SecurityModeStandard,
	},
	Tools: ToolsConfig{
		InlineOutputChars: 200_000,
		CallTimeout:       2 * time.Minute,
	},
	Log: LogConfig{
		Level: "info",
	},
}

// defaultUserConfig is the minimal bootstrap config written for first-time
// users. It only carries the settings users are expected to edit.
var defaultUserConfig = Config{
	Sandbox: SandboxConfig{
		AllowedDirs: []string{},
		MaxFileSize: 50 * units.MiB,
	},
	Security: SecurityConfig{
		Mode: SecurityModeStandard,
	},
}

// homeDir returns the filetransformer home directory.
// Uses FILETRANSFORMER_HOME if set, otherwise defaults to ~/.filetransformer.
func homeDir() (string, error) {
	if dir := os.Getenv(homeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return defaultHomePath(home), nil
}

// Load merges hardcoded defaults and config file values in that order.
// Config is always at $FILETRANSFORMER_HOME/config.toml.
func Load() (*Config, error) {
	homeDir, err := homeDir()
	if err != nil {
		return nil, err
	}

	v, err := readViper(homeDir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		expandEnvStringHook(),
		byteSizeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	if err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = decodeHook
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.HomeDir = homeDir

	return &cfg, nil
}

// Write writes the merged configuration (defaults overlaid by user
// config) to w in TOML format.
func Write(w io.Writer) error {
	if w == nil {
		return errors.New("writer is required")
	}

	homeDir, err := homeDir()
	if err != nil {
		return err
	}

	v, err := readViper(homeDir)
	if err != nil {
		return err
	}

	// Keep duration fields human-readable in generated TOML.
	v.Set("tools.call_timeout", v.GetDuration("tools.call_timeout").String())

	if err := v.WriteConfigTo(w); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultUserConfigTOML renders the minimal bootstrap user config as TOML.
func DefaultUserConfigTOML() (string, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.Set("sandbox.allowed_dirs", defaultUserConfig.Sandbox.AllowedDirs)
	v.Set("sandbox.max_file_size", defaultUserConfig.Sandbox.MaxFileSize.String())
	v.Set("security.mode", defaultUserConfig.Security.Mode)

	var out bytes.Buffer
	if err := v.WriteConfigTo(&out); err != nil {
		return "", fmt.Errorf("write default user config: %w", err)
	}
	return out.String(), nil
}

func readViper(homeDir string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sandbox.allowed_dirs", defaultConfig.Sandbox.AllowedDirs)
	v.SetDefault("sandbox.max_file_size", defaultConfig.Sandbox.MaxFileSize.String())
	v.SetDefault("sandbox.max_image_pixels", defaultConfig.Sandbox.MaxImagePixels)

	v.SetDefault("security.mode", defaultConfig.Security.Mode)

	v.SetDefault("tools.inline_output_chars", defaultConfig.Tools.InlineOutputChars)
	v.SetDefault("tools.call_timeout", defaultConfig.Tools.CallTimeout)

	v.SetDefault("log.level", defaultConfig.Log.Level)
}

func validateSecurityMode(mode string) error {
	switch mode {
	case SecurityModeStandard, SecurityModeDanger, SecurityModeStrict:
		return nil
	default:
		return fmt.Errorf("invalid security.mode %q (allowed: %q, %q, %q)", mode, SecurityModeStandard, SecurityModeDanger, SecurityModeStrict)
	}
}

func expandEnvStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		return os.ExpandEnv(value), nil
	}
}

func byteSizeHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(ByteSize(0))
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != target || from.Kind() != reflect.String {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		n, err := units.RAMInBytes(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("parse size %q: %w", value, err)
		}
		return ByteSize(n), nil
	}
}
