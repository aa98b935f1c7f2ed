package integration_test

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestHTTPThemeRoundTrip(t *testing.T) {
	requireLong(t)
	server := newTestServer(t)
	client := newBrowserClient(t)

	var state themeState
	resp, err := client.Get(server.URL + "/api/theme")
	if err != nil {
		t.Fatal(err)
	}
	readJSON(t, resp, &state)
	if state.Stored || len(state.Tags) != 0 || !state.Controls["lighttheme"] {
		t.Fatalf("unexpected initial state: %+v", state)
	}

	resp, err = client.PostForm(server.URL+"/theme", url.Values{
		"kind":       {"color-mode"},
		"element_id": {"darktheme"},
		"value":      {"dark"},
	})
	if err != nil {
		t.Fatal(err)
	}
	page, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected redirected page, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(page), `class="app-shell theme-dark"`) {
		t.Fatalf("expected dark page after redirect:\n%s", page)
	}

	resp, err = client.Post(server.URL+"/api/theme/events", "application/json",
		strings.NewReader(`{"kind":"accent","element_id":"accent-orange"}`))
	if err != nil {
		t.Fatal(err)
	}
	readJSON(t, resp, &state)
	if strings.Join(state.Tags, ",") != "dark,orange" || state.Accent != "orange" {
		t.Fatalf("unexpected state after accent: %+v", state)
	}

	// The jar sends comma values back quoted.
	resp, err = client.Post(server.URL+"/api/theme/events", "application/json",
		strings.NewReader(`{"kind":"sidebar","element_id":"checkbox2"}`))
	if err != nil {
		t.Fatal(err)
	}
	readJSON(t, resp, &state)
	if strings.Join(state.Tags, ",") != "dark,orange,toggle" || !state.Controls["checkbox2"] {
		t.Fatalf("unexpected state after sidebar: %+v", state)
	}

	resp, err = client.Get(server.URL + "/api/theme")
	if err != nil {
		t.Fatal(err)
	}
	readJSON(t, resp, &state)
	if !state.Stored || strings.Join(state.Tags, ",") != "dark,orange,toggle" || !state.Controls["darktheme"] {
		t.Fatalf("state did not survive reload: %+v", state)
	}
}

func TestHTTPThemeReplace(t *testing.T) {
	requireLong(t)
	server := newTestServer(t)
	client := newBrowserClient(t)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/theme", bytes.NewBufferString(`{"tags":["rtl","expanded","blush"]}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var state themeState
	readJSON(t, resp, &state)
	if strings.Join(state.Tags, ",") != "rtl,blush" {
		t.Fatalf("unexpected tags: %+v", state)
	}

	resp, err = client.Get(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	page, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !containsAll(string(page), []string{`class="app-shell rtl theme-blush"`, `data-stored="true"`, `id="accent-blush" data-theme="blush" class="active"`}) {
		t.Fatalf("unexpected page:\n%s", page)
	}
}
