package config

import "path/filepath"

const (
	// Layout under FILETRANSFORMER_HOME.
	ConfigFilePath = "config.toml"
	homeDirName    = ".filetransformer"
)

func homeConfigPath(home string) string {
	return filepath.Join(home, ConfigFilePath)
}

func defaultHomePath(home string) string {
	return filepath.Join(home, homeDirName)
}

func (c *Config) ConfigPath() string {
	return homeConfigPath(c.HomeDir)
}
