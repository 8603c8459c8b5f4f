// Package config handles configuration loading and persistence for bookchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment overrides (BOOKCHAT_ENDPOINT, ...)
const EnvPrefix = "BOOKCHAT"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
	SanitizeHTML     bool   `json:"sanitize_html"`      // Run HTML output through bluemonday
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the assistant URL queries are sent to.
	Endpoint string `json:"endpoint" validate:"required,url"`
	// TimeoutSeconds bounds each query. Zero leaves requests unbounded.
	TimeoutSeconds int `json:"timeout_seconds" validate:"gte=0"`
	// Order decides how replies to overlapping queries are applied.
	Order string `json:"order" validate:"oneof=arrival submission latest"`
	// LogLevel is the minimum level written to the diagnostic log.
	LogLevel string `json:"log_level" validate:"oneof=debug info warn error"`
	// LogFile is where diagnostics go; the TUI owns the terminal.
	LogFile string `json:"log_file,omitempty"`
	// LogStderr sends diagnostics to stderr instead of LogFile.
	LogStderr       bool           `json:"log_stderr"`
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// envOverrides lists the settings that may come from the environment
type envOverrides struct {
	Endpoint       string `envconfig:"ENDPOINT"`
	TimeoutSeconds *int   `envconfig:"TIMEOUT_SECONDS"`
	Order          string `envconfig:"ORDER"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	LogFile        string `envconfig:"LOG_FILE"`
}

var validate = validator.New()

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
		SanitizeHTML:     true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:        "http://127.0.0.1:1616/",
		TimeoutSeconds:  0,
		Order:           "arrival",
		LogLevel:        "info",
		LogStderr:       false,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the per-query timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AvailableOrders returns the accepted values of the order setting
func AvailableOrders() []string {
	return []string{
		"arrival",
		"submission",
		"latest",
	}
}

// Validate checks the configuration against its field constraints
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ApplyEnv overlays BOOKCHAT_* environment variables onto cfg
func ApplyEnv(cfg Config) (Config, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}

	if env.Endpoint != "" {
		cfg.Endpoint = env.Endpoint
	}
	if env.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *env.TimeoutSeconds
	}
	if env.Order != "" {
		cfg.Order = env.Order
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}
	if env.LogFile != "" {
		cfg.LogFile = env.LogFile
	}

	return cfg, nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".bookchat")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path, defaulting inside the config directory
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "bookchat.log"), nil
}

// LoadConfig loads the configuration from disk, then applies the environment
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration stored at path.
// A missing file yields the defaults.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg, err = ApplyEnv(cfg)
	if err != nil {
		return DefaultConfig(), err
	}

	if err := Validate(cfg); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(filepath.Join(configDir, "config.json"), cfg)
}

// SaveConfigTo validates cfg and writes it to path
func SaveConfigTo(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
