package schema

import (
	"errors"
	"testing"
)

func TestCategoryOf(t *testing.T) {
	cases := []struct {
		tag  Tag
		want TagCategory
		ok   bool
	}{
		{TagToggle, CategorySidebar, true},
		{TagExpanded, CategorySidebar, true},
		{TagDark, CategoryColorMode, true},
		{TagLight, CategoryColorMode, true},
		{TagRTL, CategoryDirection, true},
		{TagLTR, CategoryDirection, true},
		{AccentBlush, CategoryAccent, true},
		{"sepia", "", false},
	}
	for _, tc := range cases {
		got, ok := CategoryOf(tc.tag)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("CategoryOf(%q) = %q, %v; want %q, %v", tc.tag, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAccentsReturnsCopy(t *testing.T) {
	list := Accents()
	if len(list) != 6 {
		t.Fatalf("expected 6 accents, got %d", len(list))
	}
	list[0] = "mutated"
	if Accents()[0] != AccentPurple {
		t.Fatalf("expected palette to be immutable")
	}
}

func TestVocabularyCoversEveryCategory(t *testing.T) {
	tags := Vocabulary()
	if len(tags) != 12 {
		t.Fatalf("expected 12 tags, got %d", len(tags))
	}
	for _, tag := range tags {
		if _, ok := CategoryOf(tag); !ok {
			t.Fatalf("expected %q to have a category", tag)
		}
	}
}

func TestIsDefault(t *testing.T) {
	for _, tag := range []Tag{TagExpanded, TagLight, TagLTR} {
		if !IsDefault(tag) {
			t.Fatalf("expected %q to be a default", tag)
		}
	}
	for _, tag := range []Tag{TagToggle, TagDark, TagRTL, AccentCyan, "sepia"} {
		if IsDefault(tag) {
			t.Fatalf("did not expect %q to be a default", tag)
		}
	}
}

func TestParseTag(t *testing.T) {
	cases := []struct {
		in   string
		want Tag
		err  bool
	}{
		{"dark", TagDark, false},
		{" Dark ", TagDark, false},
		{"CYAN", AccentCyan, false},
		{"Sepia", "Sepia", false},
		{"high-contrast", "high-contrast", false},
		{"", "", true},
		{"a,b", "", true},
		{"a;b", "", true},
		{"a b", "", true},
		{"k=v", "", true},
	}
	for _, tc := range cases {
		got, err := ParseTag(tc.in)
		if tc.err {
			if !errors.Is(err, ErrInvalidTag) {
				t.Fatalf("ParseTag(%q) expected ErrInvalidTag, got %q, %v", tc.in, got, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseTag(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}
