package sessionprefs

import (
	"context"

	"pkt.systems/tally/internal/themecodec"
	"pkt.systems/tally/internal/themestate"
)

// Prefs captures the theme preference a request arrived with.
type Prefs struct {
	Stored   bool
	Settings themestate.Settings
}

type prefsKey struct{}

// New returns a new Prefs instance with defaults applied.
func New() *Prefs {
	return &Prefs{}
}

// FromCookieHeader decodes the theme preference from a Cookie header.
func FromCookieHeader(codec themecodec.Codec, header string) *Prefs {
	tags, ok := codec.Decode(header)
	if !ok {
		return New()
	}
	return &Prefs{Stored: true, Settings: themestate.Normalize(tags)}
}

// WithContext stores prefs in the context.
func WithContext(ctx context.Context, prefs *Prefs) context.Context {
	if ctx == nil || prefs == nil {
		return ctx
	}
	return context.WithValue(ctx, prefsKey{}, prefs)
}

// FromContext returns the prefs stored in the context, if any.
func FromContext(ctx context.Context) *Prefs {
	if ctx == nil {
		return nil
	}
	if value := ctx.Value(prefsKey{}); value != nil {
		if prefs, ok := value.(*Prefs); ok {
			return prefs
		}
	}
	return nil
}
