// Package config loads the keurtrack configuration from file, environment
// and defaults, in that order of increasing precedence for the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings for the CLI and the HTTP API.
type Config struct {
	// DatabasePath is the SQLite file location. Empty means the default
	// under the keurtrack home directory.
	DatabasePath string `mapstructure:"database_path"`

	// CertificateDir is the base directory certificate references resolve
	// against.
	CertificateDir string `mapstructure:"certificate_dir"`

	// ListenAddr is the HTTP API bind address.
	ListenAddr string `mapstructure:"listen_addr"`

	// WorklistPerPage is the default page size for the worklist.
	WorklistPerPage int `mapstructure:"worklist_per_page"`

	// Actor is the default actor name recorded in the activity log when a
	// command does not name one.
	Actor string `mapstructure:"actor"`
}

// HomeDir returns the keurtrack home directory (~/.keurtrack).
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".keurtrack"), nil
}

// Load reads config.yaml from the keurtrack home directory, overlaid with
// KEURTRACK_* environment variables. A missing config file is not an error;
// the defaults apply.
func Load() (*Config, error) {
	dir, err := HomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads the configuration from the given directory.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("database_path", "")
	v.SetDefault("certificate_dir", filepath.Join(dir, "certificates"))
	v.SetDefault("listen_addr", ":8780")
	v.SetDefault("worklist_per_page", 25)
	v.SetDefault("actor", "")

	v.SetEnvPrefix("KEURTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.WorklistPerPage < 1 {
		cfg.WorklistPerPage = 25
	}
	return &cfg, nil
}

// Save writes the configuration as config.yaml into the given directory.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.Set("database_path", cfg.DatabasePath)
	v.Set("certificate_dir", cfg.CertificateDir)
	v.Set("listen_addr", cfg.ListenAddr)
	v.Set("worklist_per_page", cfg.WorklistPerPage)
	v.Set("actor", cfg.Actor)

	path := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
