// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DatabaseConfig selects the entry store backend.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// Config is the application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Language string         `mapstructure:"language" yaml:"language"`
	// Clipboard copies derived passwords instead of printing them.
	Clipboard bool `mapstructure:"clipboard" yaml:"clipboard"`
}

// FlagBindings maps command-line flag names to configuration keys. A flag
// only overrides its key when the user set it explicitly.
var FlagBindings = map[string]string{
	"db-path":  "database.dsn",
	"db-type":  "database.type",
	"language": "language",
	"copy":     "clipboard",
}

// dbFileName is the store file created in the user config directory.
const dbFileName = ".passwords.db"

// DefaultDBPath returns the default sqlite store location, which lives next
// to the user configuration file.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return dbFileName
	}
	return filepath.Join(dir, "keymaster", dbFileName)
}

// Defaults returns the built-in configuration values keyed like the file.
func Defaults() map[string]any {
	return map[string]any{
		"database.type": "sqlite",
		"database.dsn":  DefaultDBPath(),
		"language":      "en",
		"clipboard":     false,
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Keymaster")
		default: // Linux, macOS, etc.
			configDir = "/etc/keymaster"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "keymaster")
	}

	return filepath.Join(configDir, "keymaster.yaml"), nil
}

// LoadConfig merges defaults, config files, environment and the flags of
// cmd into a T. configFile, when non-nil and non-empty, names an explicit
// file that must exist.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("keymaster")
	v.SetConfigType("yaml")

	// 3. Explicit config file via --config has the highest file precedence.
	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	}

	// 4. Standard config locations
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 5. Read in the primary config file.
	if err := v.ReadInConfig(); err != nil {
		// It's okay if the file is not found, but other errors are fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	// 6. Merge a dotfile `.keymaster.yaml` from the current directory.
	mergeLocalConfig(v)

	// 7. Read from environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("keymaster")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 8. Explicitly set flags win over everything else.
	if cmd != nil {
		for name, key := range FlagBindings {
			if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
				v.Set(key, f.Value.String())
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// mergeLocalConfig checks for a `.keymaster.yaml` file in the current
// directory and merges it into the viper configuration if found.
func mergeLocalConfig(v *viper.Viper) {
	const localConfigFile = ".keymaster.yaml"
	if _, err := os.Stat(localConfigFile); err == nil {
		v.SetConfigFile(localConfigFile)
		// A malformed dotfile is ignored rather than blocking startup.
		_ = v.MergeInConfig()
		v.SetConfigFile("")
	}
}

// WriteConfigFile writes c as YAML to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600)
}
