package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pkt.systems/tally/internal/themestate"
	"pkt.systems/tally/schema"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.base_url", cfg.HTTP.BaseURL)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)
	v.SetDefault("theme.cookie_name", cfg.Theme.CookieName)
	v.SetDefault("theme.cookie_path", cfg.Theme.CookiePath)
	v.SetDefault("theme.expiry_days", cfg.Theme.ExpiryDays)
	v.SetDefault("theme.accent_delay_ms", cfg.Theme.AccentDelayMs)
	v.SetDefault("theme.structural_classes", cfg.Theme.StructuralClasses)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout_seconds", cfg.API.TimeoutSeconds)
	v.SetDefault("api.currency", cfg.API.Currency)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validateHTTPConfig(cfg.HTTP); err != nil {
		return Config{}, err
	}
	if err := validateThemeConfig(cfg.Theme); err != nil {
		return Config{}, err
	}
	if err := validateAPIConfig(cfg.API); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateHTTPConfig(cfg HTTPConfig) error {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("http.base_url must include scheme and host (e.g. https://example.com)")
		}
	}
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath != "" {
		if strings.Contains(basePath, "://") {
			return fmt.Errorf("http.base_path must be a path prefix, not a URL")
		}
		if strings.ContainsAny(basePath, "?#") {
			return fmt.Errorf("http.base_path must not include query or fragment")
		}
	}
	return nil
}

func validateThemeConfig(cfg ThemeConfig) error {
	if !schema.ValidTag(schema.Tag(cfg.CookieName)) {
		return fmt.Errorf("theme.cookie_name %q is not a valid cookie name", cfg.CookieName)
	}
	if !strings.HasPrefix(cfg.CookiePath, "/") || strings.ContainsAny(cfg.CookiePath, "; ") {
		return fmt.Errorf("theme.cookie_path must be an absolute path without separators")
	}
	if cfg.ExpiryDays <= 0 {
		return fmt.Errorf("theme.expiry_days must be positive")
	}
	if cfg.AccentDelayMs < 0 {
		return fmt.Errorf("theme.accent_delay_ms must not be negative")
	}
	for _, class := range cfg.StructuralClasses {
		if strings.TrimSpace(class) == "" || strings.ContainsAny(class, " \t") {
			return fmt.Errorf("theme.structural_classes entry %q is not a single class name", class)
		}
		if managedClass(class) {
			return fmt.Errorf("theme.structural_classes entry %q is managed by the theme settings", class)
		}
	}
	return nil
}

// managedClass reports whether class is one the reconciler adds or removes.
func managedClass(class string) bool {
	if strings.HasPrefix(class, themestate.ThemePrefix) {
		return true
	}
	for _, tag := range schema.Vocabulary() {
		if themestate.ClassForTag(tag) == class {
			return true
		}
	}
	return false
}

func validateAPIConfig(cfg APIConfig) error {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("api.base_url must include scheme and host (e.g. http://localhost:8080)")
		}
	}
	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive")
	}
	if money.GetCurrency(cfg.Currency) == nil {
		return fmt.Errorf("api.currency %q is not a known ISO 4217 code", cfg.Currency)
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.HTTP.Addr = expandEnv(cfg.HTTP.Addr)
	cfg.HTTP.BaseURL = expandEnv(cfg.HTTP.BaseURL)
	cfg.API.BaseURL = expandEnv(cfg.API.BaseURL)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
