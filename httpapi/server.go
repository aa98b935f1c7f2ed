package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pkt.systems/tally/internal/cookiejar"
	"pkt.systems/tally/internal/deferred"
	"pkt.systems/tally/internal/dom"
	"pkt.systems/tally/internal/logx"
	"pkt.systems/tally/internal/reconcile"
	"pkt.systems/tally/internal/sessionprefs"
	"pkt.systems/tally/internal/themestate"
	"pkt.systems/tally/schema"
)

const maxBodyBytes = 16 << 10

const deferredCaptureTimeout = 2 * time.Second

// Server serves the settings page and the theme API.
type Server struct {
	cfg      Config
	clock    deferred.Clock
	basePath string
	baseHref string
}

// NewServer constructs an HTTP server.
func NewServer(cfg Config) *Server {
	clock := cfg.Clock
	if clock == nil {
		clock = deferred.System
	}
	return &Server{
		cfg:      cfg,
		clock:    clock,
		basePath: normalizeBasePath(cfg.BasePath),
		baseHref: buildBaseHref(cfg.BaseURL, cfg.BasePath),
	}
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	mux.HandleFunc("/theme", s.handleThemeForm)
	mux.HandleFunc("/api/theme", s.handleTheme)
	mux.HandleFunc("/api/theme/events", s.handleThemeEvent)

	handler := withRequestLogging(s.withThemePrefs(mux), s.lookupTheme)
	if s.basePath == "" {
		return handler
	}
	prefix := s.basePath
	root := http.NewServeMux()
	root.Handle(prefix+"/", http.StripPrefix(prefix, handler))
	root.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != prefix {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, prefix+"/", http.StatusTemporaryRedirect)
	})
	return root
}

// cycle is one request's render target, cookie store and reconciler.
type cycle struct {
	doc *dom.Document
	jar *cookiejar.Jar
	rec *reconcile.Reconciler
}

func (s *Server) load(r *http.Request) *cycle {
	jar := cookiejar.FromHeader(s.clock, r.Header.Get("Cookie"))
	doc := dom.NewDocument(s.cfg.StructuralClasses...)
	cycleID := uuid.NewString()
	ctx := logx.ContextWithCycleLogger(r.Context(), logx.Ctx(r.Context()).With("cycle", cycleID), cycleID)
	rec := reconcile.New(ctx, doc, jar, reconcile.Options{
		Codec:       s.cfg.Codec,
		AccentDelay: s.cfg.AccentDelay,
		Clock:       s.clock,
	})
	rec.Load()
	return &cycle{doc: doc, jar: jar, rec: rec}
}

// dispatch applies ev the way the page does: an accent click is committed by
// the picker first and captured after the accent delay.
func (c *cycle) dispatch(ctx context.Context, ev reconcile.Event) error {
	if ev.Kind == reconcile.KindAccent {
		if _, ok := c.doc.SelectAccent(ev.ElementID); !ok {
			return fmt.Errorf("%w: %q", schema.ErrUnknownControl, ev.ElementID)
		}
	}
	if err := c.rec.Handle(ev); err != nil {
		return err
	}
	waitCtx, cancel := context.WithTimeout(ctx, deferredCaptureTimeout)
	defer cancel()
	return c.rec.Wait(waitCtx)
}

func (c *cycle) writeCookies(w http.ResponseWriter) {
	for _, raw := range c.jar.Written() {
		w.Header().Add("Set-Cookie", raw)
	}
}

type themeState struct {
	Stored   bool            `json:"stored"`
	Tags     []string        `json:"tags"`
	Classes  []string        `json:"classes"`
	Controls map[string]bool `json:"controls"`
	Accent   string          `json:"accent,omitempty"`
}

func (s *Server) state(c *cycle) themeState {
	stored := c.rec.Stored() != nil
	accent, _ := c.doc.ActiveAccent()
	return themeState{
		Stored:   stored,
		Tags:     themestate.Capture(c.doc).Strings(),
		Classes:  c.doc.Classes(),
		Controls: c.doc.Controls(),
		Accent:   string(accent),
	}
}

type pageData struct {
	BaseHref  string
	BodyClass string
	Stored    bool
	Tags      string
	Sidebar   bool
	Dark      bool
	Light     bool
	RTL       bool
	Accents   []dom.AccentItem
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	c := s.load(r)
	prefs := sessionprefs.FromContext(r.Context())
	data := pageData{
		BaseHref:  s.baseHref,
		BodyClass: c.doc.BodyClass(),
		Stored:    prefs != nil && prefs.Stored,
		Tags:      themestate.Capture(c.doc).String(),
		Sidebar:   c.doc.Checked(dom.SidebarCheckboxID),
		Dark:      c.doc.Checked(dom.DarkCheckboxID),
		Light:     c.doc.Checked(dom.LightCheckboxID),
		RTL:       c.doc.Checked(dom.RTLCheckboxID),
		Accents:   c.doc.AccentItems(),
	}
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "index.html", data); err != nil {
		logx.Ctx(r.Context()).Error("http render failed", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleThemeForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	log := logx.Ctx(r.Context()).With("remote", clientIP(r))
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		log.Warn("http theme form decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	kind, err := reconcile.ParseKind(r.PostFormValue("kind"))
	if err != nil {
		log.Warn("http theme form rejected", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ev := reconcile.Event{
		Kind:      kind,
		ElementID: strings.TrimSpace(r.PostFormValue("element_id")),
		Value:     r.PostFormValue("value"),
	}
	c := s.load(r)
	if err := c.dispatch(r.Context(), ev); err != nil {
		log.Warn("http theme event rejected", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	c.writeCookies(w)
	http.Redirect(w, r, pagePath(s.basePath), http.StatusSeeOther)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.state(s.load(r)))
	case http.MethodPut:
		s.handleThemeReplace(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

func (s *Server) handleThemeReplace(w http.ResponseWriter, r *http.Request) {
	log := logx.Ctx(r.Context()).With("remote", clientIP(r))
	var payload struct {
		Tags []string `json:"tags"`
	}
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &payload); err != nil {
		log.Warn("http theme decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	tags := make([]schema.Tag, 0, len(payload.Tags))
	for _, value := range payload.Tags {
		tag, err := schema.ParseTag(value)
		if err != nil {
			err = fmt.Errorf("%w: %q", err, value)
			log.Warn("http theme rejected", "err", err)
			writeError(w, http.StatusBadRequest, err)
			return
		}
		tags = append(tags, tag)
	}
	c := s.load(r)
	c.doc.ClearThemeClasses()
	c.rec.Apply(themestate.Normalize(tags))
	c.rec.CaptureAndPersist()
	c.writeCookies(w)
	writeJSON(w, http.StatusOK, s.state(c))
}

func (s *Server) handleThemeEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	log := logx.Ctx(r.Context()).With("remote", clientIP(r))
	var ev reconcile.Event
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &ev); err != nil {
		log.Warn("http theme event decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	kind, err := reconcile.ParseKind(string(ev.Kind))
	if err != nil {
		log.Warn("http theme event rejected", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ev.Kind = kind
	c := s.load(r)
	if err := c.dispatch(r.Context(), ev); err != nil {
		log.Warn("http theme event rejected", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	c.writeCookies(w)
	writeJSON(w, http.StatusOK, s.state(c))
}

func (s *Server) withThemePrefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefs := sessionprefs.FromCookieHeader(s.cfg.Codec, r.Header.Get("Cookie"))
		next.ServeHTTP(w, r.WithContext(sessionprefs.WithContext(r.Context(), prefs)))
	})
}

func (s *Server) lookupTheme(r *http.Request) (bool, string) {
	if s == nil || r == nil {
		return false, ""
	}
	prefs := sessionprefs.FromCookieHeader(s.cfg.Codec, r.Header.Get("Cookie"))
	return prefs.Stored, prefs.Settings.String()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrInvalidEvent), errors.Is(err, schema.ErrUnknownControl), errors.Is(err, schema.ErrInvalidTag):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
