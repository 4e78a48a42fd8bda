package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration. Every value can be set via
// environment (SHELFSAFE_ prefix, dots replaced by underscores), e.g.
// SHELFSAFE_GEMINI_API_KEY, SHELFSAFE_DB_PATH.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	DB     DBConfig     `mapstructure:"db"`
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// AppConfig holds HTTP server settings.
type AppConfig struct {
	Addr     string `mapstructure:"addr"`
	LogLevel string `mapstructure:"log_level"`
}

// DBConfig points at the overlay ingredient store.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// GeminiConfig holds the extraction model settings.
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from the environment with defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SHELFSAFE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.addr", ":8080")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("db.path", defaultDBPath())
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 0.2)
	v.SetDefault("gemini.max_output_tokens", 2048)
	v.SetDefault("gemini.timeout", 30*time.Second)

	// api_key has no default, so the key must be bound explicitly for
	// Unmarshal to see the env value.
	_ = v.BindEnv("gemini.api_key")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the parts the server cannot run without. The API key is
// deliberately not required: the pipeline degrades to fallback parsing and
// overlay-only results when the extractor is unavailable.
func (c *Config) Validate() error {
	if c.App.Addr == "" {
		return fmt.Errorf("app.addr is required")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}
	if c.Gemini.BaseURL == "" {
		return fmt.Errorf("gemini.base_url is required")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("gemini.model is required")
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".shelfsafe", "data.db")
}
