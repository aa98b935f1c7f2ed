package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"

	"pkt.systems/tally/httpapi"
	"pkt.systems/tally/internal/appconfig"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg, err := appconfig.DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	srv := httpapi.NewServer(httpapi.Config{
		Addr:              cfg.HTTP.Addr,
		Codec:             cfg.Theme.Codec(),
		AccentDelay:       cfg.Theme.AccentDelay(),
		StructuralClasses: cfg.Theme.StructuralClasses,
	})
	server := httptest.NewServer(srv.Handler())
	t.Cleanup(server.Close)
	return server
}

func newBrowserClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

type themeState struct {
	Stored   bool            `json:"stored"`
	Tags     []string        `json:"tags"`
	Classes  []string        `json:"classes"`
	Controls map[string]bool `json:"controls"`
	Accent   string          `json:"accent"`
}

func readJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func requireLong(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

func requireChrome(t *testing.T) {
	t.Helper()
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("chrome not available")
}

func containsAll(value string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(value, term) {
			return false
		}
	}
	return true
}
