package reconcile

import (
	"fmt"
	"strings"

	"pkt.systems/tally/schema"
)

// Kind names the control family that raised an event.
type Kind string

const (
	// KindSidebar is the mini sidebar checkbox or the sidebar toggle button.
	KindSidebar Kind = "sidebar"
	// KindColorMode is the dark/light radio pair.
	KindColorMode Kind = "color-mode"
	// KindDirection is the RTL checkbox.
	KindDirection Kind = "direction"
	// KindAccent is a click on an accent picker item.
	KindAccent Kind = "accent"
)

// Event is a user interaction with a theme control.
type Event struct {
	Kind      Kind   `json:"kind"`
	ElementID string `json:"element_id,omitempty"`
	Value     string `json:"value,omitempty"`
}

// ParseKind normalizes a kind name.
func ParseKind(value string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(value)))
	switch kind {
	case KindSidebar, KindColorMode, KindDirection, KindAccent:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", schema.ErrInvalidEvent, value)
	}
}

// Trigger returns a short label for logs.
func (e Event) Trigger() string {
	return string(e.Kind)
}

func (e Event) value() schema.Tag {
	return schema.Tag(strings.ToLower(strings.TrimSpace(e.Value)))
}
