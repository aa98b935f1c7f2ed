package sessionprefs

import (
	"context"
	"reflect"
	"testing"

	"pkt.systems/tally/internal/themecodec"
	"pkt.systems/tally/internal/themestate"
)

func TestWithContextAndFromContext(t *testing.T) {
	prefs := New()
	prefs.Stored = true
	prefs.Settings = themestate.Settings{"dark"}

	ctx := WithContext(context.Background(), prefs)
	got := FromContext(ctx)
	if got == nil {
		t.Fatalf("expected prefs")
	}
	if !got.Stored || !reflect.DeepEqual(got.Settings, themestate.Settings{"dark"}) {
		t.Fatalf("expected prefs to be preserved, got %+v", got)
	}
}

func TestWithContextNil(t *testing.T) {
	var nilCtx context.Context
	ctx := WithContext(nilCtx, New())
	if ctx != nil {
		t.Fatalf("expected nil context")
	}
	ctx = WithContext(context.Background(), nil)
	if ctx == nil {
		t.Fatalf("expected non-nil context to pass through")
	}
	if FromContext(context.Background()) != nil {
		t.Fatalf("expected no prefs for empty context")
	}
}

func TestFromCookieHeader(t *testing.T) {
	codec := themecodec.Default()
	prefs := FromCookieHeader(codec, "lang=de; theme=cyan,orange,light")
	if !prefs.Stored || !reflect.DeepEqual(prefs.Settings, themestate.Settings{"orange"}) {
		t.Fatalf("unexpected prefs: %+v", prefs)
	}
	missing := FromCookieHeader(codec, "lang=de")
	if missing.Stored || missing.Settings != nil {
		t.Fatalf("expected no stored preference, got %+v", missing)
	}
}
