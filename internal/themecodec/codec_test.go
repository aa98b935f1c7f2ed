package themecodec

import (
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"pkt.systems/tally/schema"
)

var fixedNow = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func TestEncodeFormat(t *testing.T) {
	got := Encode([]schema.Tag{"toggle", "dark", "cyan"}, fixedNow)
	want := "theme=toggle,dark,cyan; expires=Fri, 13 Nov 2026 09:30:00 GMT; path=/;"
	if got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	got := Encode(nil, fixedNow)
	if !strings.HasPrefix(got, "theme=; expires=") {
		t.Fatalf("unexpected empty encoding: %q", got)
	}
}

func TestEncodeNoSecurityAttributes(t *testing.T) {
	got := strings.ToLower(Encode([]schema.Tag{"dark"}, fixedNow))
	for _, attr := range []string{"secure", "httponly", "samesite", "max-age"} {
		if strings.Contains(got, attr) {
			t.Fatalf("did not expect %s attribute in %q", attr, got)
		}
	}
}

func TestEncodeUsesAbsoluteGMTExpiry(t *testing.T) {
	local := time.Date(2026, time.March, 1, 23, 0, 0, 0, time.FixedZone("CET", 3600))
	got := Encode([]schema.Tag{"rtl"}, local)
	if !strings.Contains(got, "expires=Tue, 31 Mar 2026 22:00:00 GMT") {
		t.Fatalf("expected GMT expiry 30 days out, got %q", got)
	}
}

func TestCodecCustomAttributes(t *testing.T) {
	codec := Codec{Name: "ui", Path: "/app", TTLDays: 7}
	got := codec.Encode([]schema.Tag{"dark"}, fixedNow)
	want := "ui=dark; expires=Wed, 21 Oct 2026 09:30:00 GMT; path=/app;"
	if got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
	tags, ok := codec.Decode("theme=blue ui=dark;")
	if !ok || !reflect.DeepEqual(tags, []schema.Tag{"dark"}) {
		t.Fatalf("Decode = %v, %v", tags, ok)
	}
}

func TestDecodeMissing(t *testing.T) {
	for _, header := range []string{"", "somethingelse=1;", "theme", "themes=dark;", "xtheme=dark"} {
		if tags, ok := Decode(header); ok || tags != nil {
			t.Fatalf("Decode(%q) = %v, %v; want nil, false", header, tags, ok)
		}
	}
}

func TestDecodeTrailingSemicolon(t *testing.T) {
	want := []schema.Tag{"dark", "toggle"}
	for _, header := range []string{"theme=dark,toggle;", "theme=dark,toggle"} {
		got, ok := Decode(header)
		if !ok || !reflect.DeepEqual(got, want) {
			t.Fatalf("Decode(%q) = %v, %v; want %v", header, got, ok, want)
		}
	}
}

func TestDecodeStripsExactlyOneSemicolon(t *testing.T) {
	got, ok := Decode("theme=dark;;")
	if !ok || !reflect.DeepEqual(got, []schema.Tag{"dark;"}) {
		t.Fatalf("Decode = %v, %v", got, ok)
	}
}

func TestDecodeAmongOtherCookies(t *testing.T) {
	got, ok := Decode("session=abc; theme=toggle,rtl,purple; lang=de")
	if !ok || !reflect.DeepEqual(got, []schema.Tag{"toggle", "rtl", "purple"}) {
		t.Fatalf("Decode = %v, %v", got, ok)
	}
}

func TestDecodeDuplicateKeyReturnsFirst(t *testing.T) {
	got, ok := Decode("theme=dark; theme=blue;")
	if !ok || !reflect.DeepEqual(got, []schema.Tag{"dark"}) {
		t.Fatalf("expected first theme pair, got %v, %v", got, ok)
	}
}

func TestDecodeEmptyValue(t *testing.T) {
	got, ok := Decode("theme=;")
	if !ok {
		t.Fatalf("expected key to be found")
	}
	if !reflect.DeepEqual(got, []schema.Tag{""}) {
		t.Fatalf("expected single empty tag, got %v", got)
	}
}

func TestDecodeQuotedValue(t *testing.T) {
	got, ok := Decode(`theme="toggle,dark"`)
	if !ok || !reflect.DeepEqual(got, []schema.Tag{"toggle", "dark"}) {
		t.Fatalf("Decode = %v, %v", got, ok)
	}
}

func TestRoundTrip(t *testing.T) {
	sets := [][]schema.Tag{
		{"toggle"},
		{"dark"},
		{"rtl"},
		{"blush"},
		{"toggle", "dark"},
		{"dark", "rtl", "green"},
		{"toggle", "dark", "rtl", "purple"},
		{"orange", "rtl", "toggle"},
	}
	for _, set := range sets {
		raw := Encode(set, fixedNow)
		assignment, _, _ := strings.Cut(raw, "; ")
		got, ok := Decode(assignment)
		if !ok {
			t.Fatalf("round trip of %v lost the cookie", set)
		}
		if !sameSet(got, set) {
			t.Fatalf("round trip of %v = %v", set, got)
		}
	}
}

func sameSet(a, b []schema.Tag) bool {
	if len(a) != len(b) {
		return false
	}
	x := make([]string, len(a))
	y := make([]string, len(b))
	for i := range a {
		x[i] = string(a[i])
		y[i] = string(b[i])
	}
	sort.Strings(x)
	sort.Strings(y)
	return reflect.DeepEqual(x, y)
}
