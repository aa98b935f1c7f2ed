// Package cookiejar is a single-origin cookie store with document.cookie
// semantics: writes take a raw Set-Cookie string, reads return the request
// header form of every live cookie.
package cookiejar

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"pkt.systems/tally/internal/deferred"
)

type entry struct {
	name    string
	value   string
	expires time.Time
}

// Jar stores cookies by name.
type Jar struct {
	mu      sync.Mutex
	clock   deferred.Clock
	entries []entry
	written []string
}

// New returns an empty jar. A nil clock selects deferred.System.
func New(clock deferred.Clock) *Jar {
	if clock == nil {
		clock = deferred.System
	}
	return &Jar{clock: clock}
}

// FromHeader returns a jar seeded with the pairs of a Cookie request header.
// Seeded values are kept verbatim. A repeated name keeps its first value, the
// one the browser sent for the most specific path.
func FromHeader(clock deferred.Clock, header string) *Jar {
	jar := New(clock)
	for _, pair := range strings.Split(header, ";") {
		pair = strings.TrimSpace(pair)
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		name = strings.TrimSpace(name)
		if jar.hasLocked(name) {
			continue
		}
		jar.upsertLocked(entry{name: name, value: value})
	}
	return jar
}

// Cookie returns "name=value" pairs of live cookies joined by "; ".
func (j *Jar) Cookie() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.expireLocked()
	pairs := make([]string, 0, len(j.entries))
	for _, e := range j.entries {
		pairs = append(pairs, e.name+"="+e.value)
	}
	return strings.Join(pairs, "; ")
}

// SetCookie stores a raw cookie string. Malformed strings are ignored and an
// expiry in the past deletes the cookie.
func (j *Jar) SetCookie(raw string) {
	parsed, err := http.ParseSetCookie(raw)
	if err != nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.written = append(j.written, raw)
	now := j.clock.Now()
	e := entry{name: parsed.Name, value: parsed.Value, expires: parsed.Expires}
	if parsed.MaxAge > 0 {
		e.expires = now.Add(time.Duration(parsed.MaxAge) * time.Second)
	}
	if parsed.MaxAge < 0 || (!e.expires.IsZero() && !e.expires.After(now)) {
		j.deleteLocked(e.name)
		return
	}
	j.upsertLocked(e)
}

// Value returns the value of the named cookie.
func (j *Jar) Value(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.expireLocked()
	for _, e := range j.entries {
		if e.name == name {
			return e.value, true
		}
	}
	return "", false
}

// Written returns every raw string accepted by SetCookie, oldest first.
func (j *Jar) Written() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.written))
	copy(out, j.written)
	return out
}

func (j *Jar) hasLocked(name string) bool {
	for _, e := range j.entries {
		if e.name == name {
			return true
		}
	}
	return false
}

func (j *Jar) upsertLocked(e entry) {
	for i := range j.entries {
		if j.entries[i].name == e.name {
			j.entries[i] = e
			return
		}
	}
	j.entries = append(j.entries, e)
}

func (j *Jar) deleteLocked(name string) {
	kept := j.entries[:0]
	for _, e := range j.entries {
		if e.name != name {
			kept = append(kept, e)
		}
	}
	j.entries = kept
}

func (j *Jar) expireLocked() {
	now := j.clock.Now()
	kept := j.entries[:0]
	for _, e := range j.entries {
		if e.expires.IsZero() || e.expires.After(now) {
			kept = append(kept, e)
		}
	}
	j.entries = kept
}
