package appconfig

import (
	"os"
	"path/filepath"
	"time"

	"pkt.systems/tally/internal/themecodec"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int         `mapstructure:"config_version" yaml:"config_version"`
	HTTP          HTTPConfig  `mapstructure:"http" yaml:"http"`
	Theme         ThemeConfig `mapstructure:"theme" yaml:"theme"`
	API           APIConfig   `mapstructure:"api" yaml:"api"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	BasePath string `mapstructure:"base_path" yaml:"base_path"`
}

// ThemeConfig configures the theme cookie and the settings page.
type ThemeConfig struct {
	CookieName        string   `mapstructure:"cookie_name" yaml:"cookie_name"`
	CookiePath        string   `mapstructure:"cookie_path" yaml:"cookie_path"`
	ExpiryDays        int      `mapstructure:"expiry_days" yaml:"expiry_days"`
	AccentDelayMs     int      `mapstructure:"accent_delay_ms" yaml:"accent_delay_ms"`
	StructuralClasses []string `mapstructure:"structural_classes" yaml:"structural_classes"`
}

// APIConfig configures the accounting REST API client.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Currency       string `mapstructure:"currency" yaml:"currency"`
}

// Codec returns the cookie codec described by the theme settings.
func (c ThemeConfig) Codec() themecodec.Codec {
	return themecodec.Codec{Name: c.CookieName, Path: c.CookiePath, TTLDays: c.ExpiryDays}
}

// AccentDelay returns the accent capture delay.
func (c ThemeConfig) AccentDelay() time.Duration {
	return time.Duration(c.AccentDelayMs) * time.Millisecond
}

// Timeout returns the request timeout for API calls.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		HTTP: HTTPConfig{
			Addr:     ":27481",
			BaseURL:  "",
			BasePath: "",
		},
		Theme: ThemeConfig{
			CookieName:        themecodec.DefaultName,
			CookiePath:        themecodec.DefaultPath,
			ExpiryDays:        themecodec.DefaultTTLDays,
			AccentDelayMs:     100,
			StructuralClasses: []string{"app-shell"},
		},
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 10,
			Currency:       "EUR",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tally", "config.yaml"), nil
}
