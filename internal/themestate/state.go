// Package themestate holds the canonical theme settings value and maps it to
// and from root element classes.
package themestate

import (
	"strings"

	"pkt.systems/tally/schema"
)

const (
	// SidebarClass collapses the left sidebar.
	SidebarClass = "ls-toggle-menu"
	// RTLClass switches the layout to right-to-left.
	RTLClass = "rtl"
	// ThemePrefix prefixes every other theme class.
	ThemePrefix = "theme-"
)

// Settings is an ordered set of theme tags with at most one tag per category.
// A nil Settings means no stored preference.
type Settings []schema.Tag

// ClassSource exposes the root element classes for capture.
type ClassSource interface {
	Classes() []string
	IsStructural(class string) bool
}

// Normalize deduplicates tags per category, keeping the last occurrence in
// its position, and drops defaults and tokens the cookie cannot carry.
// Unknown tags are kept as-is. A nil input stays nil.
func Normalize(tags []schema.Tag) Settings {
	if tags == nil {
		return nil
	}
	out := make(Settings, 0, len(tags))
	for i, tag := range tags {
		if !schema.ValidTag(tag) {
			continue
		}
		if supersededLater(tag, tags[i+1:]) {
			continue
		}
		if schema.IsDefault(tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func supersededLater(tag schema.Tag, rest []schema.Tag) bool {
	key := categoryKey(tag)
	for _, later := range rest {
		if schema.ValidTag(later) && categoryKey(later) == key {
			return true
		}
	}
	return false
}

func categoryKey(tag schema.Tag) string {
	if category, ok := schema.CategoryOf(tag); ok {
		return "category:" + string(category)
	}
	return "tag:" + string(tag)
}

// Capture maps the non-structural root classes back into settings.
func Capture(src ClassSource) Settings {
	if src == nil {
		return Settings{}
	}
	classes := src.Classes()
	tags := make([]schema.Tag, 0, len(classes))
	for _, class := range classes {
		if class == "" || src.IsStructural(class) {
			continue
		}
		if tag := TagForClass(class); tag != "" {
			tags = append(tags, tag)
		}
	}
	return Normalize(tags)
}

// ClassForTag returns the root class that renders tag.
func ClassForTag(tag schema.Tag) string {
	switch tag {
	case schema.TagToggle:
		return SidebarClass
	case schema.TagRTL:
		return RTLClass
	default:
		return ThemePrefix + string(tag)
	}
}

// TagForClass is the inverse of ClassForTag. Other compound classes
// contribute the text after their first '-', bare classes contribute
// themselves.
func TagForClass(class string) schema.Tag {
	switch {
	case class == SidebarClass:
		return schema.TagToggle
	case class == RTLClass:
		return schema.TagRTL
	case strings.HasPrefix(class, ThemePrefix):
		return schema.Tag(strings.TrimPrefix(class, ThemePrefix))
	}
	if _, value, ok := strings.Cut(class, "-"); ok {
		return schema.Tag(value)
	}
	return schema.Tag(class)
}

// Has reports whether tag is active.
func (s Settings) Has(tag schema.Tag) bool {
	for _, current := range s {
		if current == tag {
			return true
		}
	}
	return false
}

// Accent returns the active accent tag, if any.
func (s Settings) Accent() (schema.Tag, bool) {
	for _, tag := range s {
		if schema.IsAccent(tag) {
			return tag, true
		}
	}
	return "", false
}

// With returns a new Settings where tag replaces any tag of the same category.
func (s Settings) With(tag schema.Tag) Settings {
	next := make([]schema.Tag, 0, len(s)+1)
	next = append(next, s...)
	next = append(next, tag)
	return Normalize(next)
}

// Without returns a new Settings lacking tag.
func (s Settings) Without(tag schema.Tag) Settings {
	next := make(Settings, 0, len(s))
	for _, current := range s {
		if current != tag {
			next = append(next, current)
		}
	}
	return next
}

// Equal compares two settings as sets.
func (s Settings) Equal(other Settings) bool {
	if len(s) != len(other) {
		return false
	}
	for _, tag := range s {
		if !other.Has(tag) {
			return false
		}
	}
	return true
}

// Strings returns the tags as plain strings.
func (s Settings) Strings() []string {
	out := make([]string, len(s))
	for i, tag := range s {
		out[i] = string(tag)
	}
	return out
}

// String joins the tags with the cookie delimiter.
func (s Settings) String() string {
	return strings.Join(s.Strings(), ",")
}
