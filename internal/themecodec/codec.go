// Package themecodec serializes theme tags to and from the theme cookie.
package themecodec

import (
	"net/http"
	"strings"
	"time"

	"pkt.systems/tally/schema"
)

const (
	// DefaultName is the cookie key holding the theme tags.
	DefaultName = "theme"
	// DefaultPath is the cookie path attribute.
	DefaultPath = "/"
	// DefaultTTLDays is the number of calendar days until the cookie expires.
	DefaultTTLDays = 30
	// Delimiter separates tags inside the cookie value. Tags never contain it.
	Delimiter = ","
)

// Codec encodes tags into a cookie assignment and decodes them from a cookie header.
type Codec struct {
	Name    string
	Path    string
	TTLDays int
}

// Default returns the codec used by the web UI.
func Default() Codec {
	return Codec{Name: DefaultName, Path: DefaultPath, TTLDays: DefaultTTLDays}
}

// Encode renders the cookie assignment for tags using the default codec.
func Encode(tags []schema.Tag, now time.Time) string {
	return Default().Encode(tags, now)
}

// Decode recovers tags from a raw cookie header using the default codec.
func Decode(header string) ([]schema.Tag, bool) {
	return Default().Decode(header)
}

// Encode renders "name=a,b; expires=<GMT>; path=/;" with an absolute expiry
// TTLDays calendar days after now.
func (c Codec) Encode(tags []schema.Tag, now time.Time) string {
	c = c.withDefaults()
	var value strings.Builder
	for i, tag := range tags {
		value.WriteString(string(tag))
		if i < len(tags)-1 {
			value.WriteString(Delimiter)
		}
	}
	expires := now.AddDate(0, 0, c.TTLDays).UTC().Format(http.TimeFormat)
	return c.Name + "=" + value.String() + "; expires=" + expires + "; path=" + c.Path + ";"
}

// Decode scans a space separated "k=v;" header for the first pair whose key
// equals the cookie name. It reports false when the key is absent. Later
// duplicates of the key are ignored.
func (c Codec) Decode(header string) ([]schema.Tag, bool) {
	c = c.withDefaults()
	for _, pair := range strings.Split(header, " ") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key != c.Name {
			continue
		}
		value = strings.TrimSuffix(value, ";")
		value = unquote(value)
		parts := strings.Split(value, Delimiter)
		tags := make([]schema.Tag, 0, len(parts))
		for _, part := range parts {
			tags = append(tags, schema.Tag(part))
		}
		return tags, true
	}
	return nil, false
}

// Expires returns the expiry instant Encode would write for now.
func (c Codec) Expires(now time.Time) time.Time {
	c = c.withDefaults()
	return now.AddDate(0, 0, c.TTLDays)
}

func (c Codec) withDefaults() Codec {
	if strings.TrimSpace(c.Name) == "" {
		c.Name = DefaultName
	}
	if strings.TrimSpace(c.Path) == "" {
		c.Path = DefaultPath
	}
	if c.TTLDays <= 0 {
		c.TTLDays = DefaultTTLDays
	}
	return c
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}
