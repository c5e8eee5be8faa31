// Package config loads MailPipe settings from a YAML file, MAILPIPE_*
// environment variables and command line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Name is used for the config file, its directory and the env prefix.
const Name = "mailpipe"

// Config is the resolved configuration.
type Config struct {
	LogLevel  string       `mapstructure:"log_level"`
	OutputDir string       `mapstructure:"output_dir"`
	Export    ExportConfig `mapstructure:"export"`
	Fetch     FetchConfig  `mapstructure:"fetch"`
}

// ExportConfig shapes exported documents.
type ExportConfig struct {
	Lang         string `mapstructure:"lang"`
	Title        string `mapstructure:"title"`
	Background   string `mapstructure:"background"`
	ContentWidth int    `mapstructure:"content_width"`
	// Accent colors headings in PDF proofs.
	Accent string `mapstructure:"accent"`
}

// FetchConfig controls URL loading.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// SetDefaults registers every key so environment variables can override
// keys that appear in no file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("output_dir", "")
	v.SetDefault("export.lang", "en")
	v.SetDefault("export.title", "Email")
	v.SetDefault("export.background", "#f4f5f8")
	v.SetDefault("export.content_width", 600)
	v.SetDefault("export.accent", "#1f2933")
	v.SetDefault("fetch.timeout", 30*time.Second)
}

// Load reads configuration into v and decodes it. An explicit path must
// exist; otherwise a missing default file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		for _, dir := range ConfigDirs() {
			v.AddConfigPath(dir)
		}
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values that decode but cannot be used.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Export.ContentWidth < 0 {
		return fmt.Errorf("export.content_width must not be negative, got %d", c.Export.ContentWidth)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must not be negative, got %s", c.Fetch.Timeout)
	}
	return nil
}

// ConfigDirs lists the directories searched for mailpipe.yaml, most
// specific first.
func ConfigDirs() []string {
	var dirs []string
	if c := os.Getenv("MAILPIPE_CONFIG_HOME"); c != "" {
		dirs = append(dirs, c)
	}
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append(dirs, filepath.Join(c, Name))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", Name))
	}
	return append(dirs, ".")
}
