// Package dom models the parts of the settings page the theme glue touches:
// the root element class list, checkbox controls and the accent picker.
package dom

import (
	"slices"
	"strings"

	"pkt.systems/tally/schema"
)

// Control ids rendered by the settings page.
const (
	SidebarCheckboxID = "checkbox2"
	RTLCheckboxID     = "checkbox1"
	DarkCheckboxID    = "darktheme"
	LightCheckboxID   = "lighttheme"
)

// AccentIDPrefix prefixes the element id of every accent picker item.
const AccentIDPrefix = "accent-"

// AccentItem is one entry of the accent picker list.
type AccentItem struct {
	ID     string
	Theme  schema.Tag
	Active bool
}

// Document is an in-memory render target. It is not safe for concurrent use.
type Document struct {
	classes    []string
	structural map[string]struct{}
	checked    map[string]bool
	accents    []AccentItem
}

// NewDocument returns a document with the default controls and accent palette.
// Structural classes belong to the page layout and are never captured or
// cleared by the theme glue.
func NewDocument(structural ...string) *Document {
	doc := &Document{
		structural: make(map[string]struct{}, len(structural)),
		checked: map[string]bool{
			SidebarCheckboxID: false,
			RTLCheckboxID:     false,
			DarkCheckboxID:    false,
			LightCheckboxID:   true,
		},
	}
	for _, class := range structural {
		class = strings.TrimSpace(class)
		if class == "" {
			continue
		}
		doc.structural[class] = struct{}{}
		doc.classes = append(doc.classes, class)
	}
	for _, accent := range schema.Accents() {
		doc.accents = append(doc.accents, AccentItem{ID: AccentIDPrefix + string(accent), Theme: accent})
	}
	return doc
}

// Classes returns a copy of the root class list in order.
func (d *Document) Classes() []string {
	return slices.Clone(d.classes)
}

// HasClass reports whether the root element carries class.
func (d *Document) HasClass(class string) bool {
	return slices.Contains(d.classes, class)
}

// AddClass appends class unless already present.
func (d *Document) AddClass(class string) {
	class = strings.TrimSpace(class)
	if class == "" || d.HasClass(class) {
		return
	}
	d.classes = append(d.classes, class)
}

// RemoveClass drops class from the root element.
func (d *Document) RemoveClass(class string) {
	d.classes = slices.DeleteFunc(d.classes, func(current string) bool {
		return current == class
	})
}

// ToggleClass flips class and reports whether it is now present.
func (d *Document) ToggleClass(class string) bool {
	if d.HasClass(class) {
		d.RemoveClass(class)
		return false
	}
	d.AddClass(class)
	return d.HasClass(class)
}

// IsStructural reports whether class is part of the page layout.
func (d *Document) IsStructural(class string) bool {
	_, ok := d.structural[class]
	return ok
}

// ClearThemeClasses removes every non-structural class.
func (d *Document) ClearThemeClasses() {
	d.classes = slices.DeleteFunc(d.classes, func(current string) bool {
		return !d.IsStructural(current)
	})
}

// BodyClass renders the class attribute value.
func (d *Document) BodyClass() string {
	return strings.Join(d.classes, " ")
}

// HasControl reports whether a checkbox with id is rendered.
func (d *Document) HasControl(id string) bool {
	_, ok := d.checked[id]
	return ok
}

// Checked returns the state of the checkbox with id.
func (d *Document) Checked(id string) bool {
	return d.checked[id]
}

// SetChecked sets the checkbox with id. Unknown ids are ignored.
func (d *Document) SetChecked(id string, checked bool) {
	if _, ok := d.checked[id]; !ok {
		return
	}
	d.checked[id] = checked
}

// Controls returns a copy of all checkbox states.
func (d *Document) Controls() map[string]bool {
	out := make(map[string]bool, len(d.checked))
	for id, checked := range d.checked {
		out[id] = checked
	}
	return out
}

// AccentItems returns a copy of the picker list.
func (d *Document) AccentItems() []AccentItem {
	return slices.Clone(d.accents)
}

// AccentOf returns the data-theme value of the picker item with elementID.
func (d *Document) AccentOf(elementID string) (schema.Tag, bool) {
	for _, item := range d.accents {
		if item.ID == elementID {
			return item.Theme, true
		}
	}
	return "", false
}

// ActivateAccent marks the item for theme active and every sibling inactive.
// An empty theme clears the selection. It reports whether an item matched.
func (d *Document) ActivateAccent(theme schema.Tag) bool {
	matched := false
	for i := range d.accents {
		active := theme != "" && d.accents[i].Theme == theme
		d.accents[i].Active = active
		matched = matched || active
	}
	return matched
}

// ActiveAccent returns the accent of the active picker item.
func (d *Document) ActiveAccent() (schema.Tag, bool) {
	for _, item := range d.accents {
		if item.Active {
			return item.Theme, true
		}
	}
	return "", false
}

// SelectAccent performs what the page widget library does on a picker click:
// the item becomes active and its theme class is appended. The previous
// accent class stays on the root element until the next capture.
func (d *Document) SelectAccent(elementID string) (schema.Tag, bool) {
	theme, ok := d.AccentOf(elementID)
	if !ok {
		return "", false
	}
	d.ActivateAccent(theme)
	d.AddClass("theme-" + string(theme))
	return theme, true
}
