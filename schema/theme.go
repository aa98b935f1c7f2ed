package schema

import "strings"

// Tag is a single theme-setting token as stored in the theme cookie.
type Tag string

// TagCategory groups tags that are mutually exclusive.
type TagCategory string

const (
	// CategorySidebar holds the sidebar mode.
	CategorySidebar TagCategory = "sidebar"
	// CategoryColorMode holds the dark/light colour scheme.
	CategoryColorMode TagCategory = "color-mode"
	// CategoryDirection holds the text direction.
	CategoryDirection TagCategory = "direction"
	// CategoryAccent holds the accent colour.
	CategoryAccent TagCategory = "accent"
)

const (
	TagToggle   Tag = "toggle"
	TagExpanded Tag = "expanded"
	TagDark     Tag = "dark"
	TagLight    Tag = "light"
	TagRTL      Tag = "rtl"
	TagLTR      Tag = "ltr"

	AccentPurple Tag = "purple"
	AccentBlue   Tag = "blue"
	AccentCyan   Tag = "cyan"
	AccentGreen  Tag = "green"
	AccentOrange Tag = "orange"
	AccentBlush  Tag = "blush"
)

var accents = []Tag{
	AccentPurple,
	AccentBlue,
	AccentCyan,
	AccentGreen,
	AccentOrange,
	AccentBlush,
}

// Accents returns the accent palette in display order.
func Accents() []Tag {
	out := make([]Tag, len(accents))
	copy(out, accents)
	return out
}

// Vocabulary returns every known tag, layout and colour tags first.
func Vocabulary() []Tag {
	return append([]Tag{TagToggle, TagExpanded, TagDark, TagLight, TagRTL, TagLTR}, accents...)
}

// IsAccent reports whether tag is part of the accent palette.
func IsAccent(tag Tag) bool {
	for _, accent := range accents {
		if accent == tag {
			return true
		}
	}
	return false
}

// CategoryOf returns the category of a known tag. Unknown tags report false.
func CategoryOf(tag Tag) (TagCategory, bool) {
	switch tag {
	case TagToggle, TagExpanded:
		return CategorySidebar, true
	case TagDark, TagLight:
		return CategoryColorMode, true
	case TagRTL, TagLTR:
		return CategoryDirection, true
	}
	if IsAccent(tag) {
		return CategoryAccent, true
	}
	return "", false
}

// IsDefault reports whether tag is a category default that is never stored.
func IsDefault(tag Tag) bool {
	switch tag {
	case TagExpanded, TagLight, TagLTR:
		return true
	default:
		return false
	}
}

// ValidTag reports whether tag can travel through the theme cookie unescaped.
func ValidTag(tag Tag) bool {
	if tag == "" {
		return false
	}
	return !strings.ContainsAny(string(tag), ",;=\" \t\r\n")
}

// ParseTag normalizes user input into a tag. Known tags match case-insensitively;
// unknown tags are kept verbatim apart from surrounding whitespace.
func ParseTag(value string) (Tag, error) {
	trimmed := strings.TrimSpace(value)
	lowered := Tag(strings.ToLower(trimmed))
	if _, ok := CategoryOf(lowered); ok {
		return lowered, nil
	}
	tag := Tag(trimmed)
	if !ValidTag(tag) {
		return "", ErrInvalidTag
	}
	return tag, nil
}
