package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme.CookieName != "theme" || cfg.API.Currency != "EUR" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadRequiresConfigVersion(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9000"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 7
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadOverridesTheme(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
theme:
  cookie_name: ui
  cookie_path: /app
  expiry_days: 7
  accent_delay_ms: 250
  structural_classes: [layout, font-inter]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme.CookieName != "ui" || cfg.Theme.CookiePath != "/app" || cfg.Theme.ExpiryDays != 7 {
		t.Fatalf("unexpected theme config: %+v", cfg.Theme)
	}
	if cfg.Theme.AccentDelayMs != 250 || len(cfg.Theme.StructuralClasses) != 2 {
		t.Fatalf("unexpected theme config: %+v", cfg.Theme)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"base-url", "http:\n  base_url: example.com", "http.base_url"},
		{"base-path", "http:\n  base_path: https://example.com/x", "http.base_path"},
		{"cookie-name", "theme:\n  cookie_name: \"a=b\"", "theme.cookie_name"},
		{"cookie-path", "theme:\n  cookie_path: app", "theme.cookie_path"},
		{"expiry", "theme:\n  expiry_days: 0", "theme.expiry_days"},
		{"delay", "theme:\n  accent_delay_ms: -5", "theme.accent_delay_ms"},
		{"structural", "theme:\n  structural_classes: [\"a b\"]", "theme.structural_classes"},
		{"structural-rtl", "theme:\n  structural_classes: [app-shell, rtl]", "theme.structural_classes"},
		{"structural-sidebar", "theme:\n  structural_classes: [ls-toggle-menu]", "theme.structural_classes"},
		{"structural-theme", "theme:\n  structural_classes: [theme-wide]", "theme.structural_classes"},
		{"api-url", "api:\n  base_url: localhost", "api.base_url"},
		{"timeout", "api:\n  timeout_seconds: 0", "api.timeout_seconds"},
		{"currency", "api:\n  currency: XYZ", "api.currency"},
	}
	for _, tc := range cases {
		path := writeConfig(t, "config_version: 1\n"+tc.content)
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected %s error, got %v", tc.name, tc.want, err)
		}
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
}

func TestLoadExpandsAPIBaseURL(t *testing.T) {
	t.Setenv("TALLY_API_HOST", "books.internal:8080")
	path := writeConfig(t, `
config_version: 1
api:
  base_url: http://${TALLY_API_HOST}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://books.internal:8080" {
		t.Fatalf("expected expanded base url, got %q", cfg.API.BaseURL)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config to exist: %v", err)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("expected written default to load: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
