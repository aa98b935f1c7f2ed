// Package reconcile keeps the rendered theme, the theme cookie and the user's
// control interactions in agreement.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pkt.systems/pslog"
	"pkt.systems/tally/internal/deferred"
	"pkt.systems/tally/internal/dom"
	"pkt.systems/tally/internal/logx"
	"pkt.systems/tally/internal/themecodec"
	"pkt.systems/tally/internal/themestate"
	"pkt.systems/tally/schema"
)

// DefaultAccentDelay is how long an accent click waits before capture, so the
// picker widget can commit its class first.
const DefaultAccentDelay = 100 * time.Millisecond

// Surface is the render target the reconciler reads and mutates.
type Surface interface {
	themestate.ClassSource
	HasClass(class string) bool
	AddClass(class string)
	RemoveClass(class string)
	ToggleClass(class string) bool
	ClearThemeClasses()
	SetChecked(id string, checked bool)
	ActivateAccent(theme schema.Tag) bool
	AccentOf(elementID string) (schema.Tag, bool)
}

// CookieStore reads and writes cookies the way document.cookie does.
type CookieStore interface {
	Cookie() string
	SetCookie(raw string)
}

// Options tune a Reconciler. Zero values select defaults.
type Options struct {
	Codec       themecodec.Codec
	AccentDelay time.Duration
	Clock       deferred.Clock
}

// Reconciler runs theme cycles against one surface and one cookie store.
// Calls are serialized, including deferred captures fired by the clock.
type Reconciler struct {
	surface Surface
	cookies CookieStore
	codec   themecodec.Codec
	clock   deferred.Clock
	ctx     context.Context

	mu     sync.Mutex
	accent *deferred.Task
	last   themestate.Settings
}

// New returns a reconciler bound to surface and cookies. The logger carried by
// ctx is used for every cycle including deferred ones.
func New(ctx context.Context, surface Surface, cookies CookieStore, opts Options) *Reconciler {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := opts.Clock
	if clock == nil {
		clock = deferred.System
	}
	delay := opts.AccentDelay
	if delay <= 0 {
		delay = DefaultAccentDelay
	}
	r := &Reconciler{
		surface: surface,
		cookies: cookies,
		codec:   opts.Codec,
		clock:   clock,
		ctx:     ctx,
	}
	r.accent = deferred.NewTask(clock, delay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.persistLocked(string(KindAccent))
	})
	return r
}

// Stored decodes the current theme cookie. A missing cookie returns nil.
func (r *Reconciler) Stored() themestate.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storedLocked()
}

func (r *Reconciler) storedLocked() themestate.Settings {
	tags, ok := r.codec.Decode(r.cookies.Cookie())
	if !ok {
		return nil
	}
	return themestate.Normalize(tags)
}

// Load runs the page-load cycle: the stored settings are applied without
// writing the cookie back.
func (r *Reconciler) Load() themestate.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings := r.storedLocked()
	r.applyLocked(settings)
	pslog.Ctx(r.ctx).Debug("theme loaded", "stored", settings != nil, "tags", settings.String())
	return settings
}

// Apply renders settings onto the surface. Nil settings leave it untouched.
func (r *Reconciler) Apply(settings themestate.Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyLocked(settings)
}

func (r *Reconciler) applyLocked(settings themestate.Settings) {
	if settings == nil {
		return
	}
	if len(settings) > 0 {
		r.surface.ClearThemeClasses()
	}
	r.surface.SetChecked(dom.SidebarCheckboxID, false)
	r.surface.SetChecked(dom.DarkCheckboxID, false)
	r.surface.SetChecked(dom.LightCheckboxID, true)
	r.surface.SetChecked(dom.RTLCheckboxID, false)
	r.surface.ActivateAccent("")
	for _, tag := range settings {
		r.surface.AddClass(themestate.ClassForTag(tag))
		switch tag {
		case schema.TagToggle:
			r.surface.SetChecked(dom.SidebarCheckboxID, true)
		case schema.TagDark:
			r.surface.SetChecked(dom.DarkCheckboxID, true)
			r.surface.SetChecked(dom.LightCheckboxID, false)
		case schema.TagRTL:
			r.surface.SetChecked(dom.RTLCheckboxID, true)
		default:
			if schema.IsAccent(tag) {
				r.surface.ActivateAccent(tag)
			}
		}
	}
	r.last = settings
}

// CaptureAndPersist reads the surface, writes the cookie and re-applies the
// captured settings.
func (r *Reconciler) CaptureAndPersist() themestate.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistLocked("capture")
}

func (r *Reconciler) persistLocked(trigger string) themestate.Settings {
	settings := themestate.Capture(r.surface)
	raw := r.codec.Encode(settings, r.clock.Now())
	r.cookies.SetCookie(raw)
	r.applyLocked(settings)
	cycleID := logx.CycleID(r.ctx)
	if cycleID == "" {
		cycleID = uuid.NewString()
	}
	logx.WithCycleTrigger(r.ctx, cycleID, trigger).Info("theme persisted", "tags", settings.String())
	return settings
}

// Handle applies a control event. Accent events defer their capture by the
// accent delay; the others capture immediately.
func (r *Reconciler) Handle(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := logx.WithControl(pslog.Ctx(r.ctx), ev.ElementID)
	switch ev.Kind {
	case KindSidebar:
		switch ev.value() {
		case "":
			r.surface.ToggleClass(themestate.SidebarClass)
		case schema.TagToggle:
			r.surface.AddClass(themestate.SidebarClass)
		case schema.TagExpanded:
			r.surface.RemoveClass(themestate.SidebarClass)
		default:
			return fmt.Errorf("%w: sidebar value %q", schema.ErrInvalidEvent, ev.Value)
		}
	case KindColorMode:
		dark := themestate.ClassForTag(schema.TagDark)
		switch ev.value() {
		case "":
			r.surface.ToggleClass(dark)
		case schema.TagDark:
			r.surface.AddClass(dark)
		case schema.TagLight:
			r.surface.RemoveClass(dark)
		default:
			return fmt.Errorf("%w: color mode value %q", schema.ErrInvalidEvent, ev.Value)
		}
	case KindDirection:
		switch ev.value() {
		case "":
			r.surface.ToggleClass(themestate.RTLClass)
		case schema.TagRTL:
			r.surface.AddClass(themestate.RTLClass)
		case schema.TagLTR:
			r.surface.RemoveClass(themestate.RTLClass)
		default:
			return fmt.Errorf("%w: direction value %q", schema.ErrInvalidEvent, ev.Value)
		}
	case KindAccent:
		if _, ok := r.surface.AccentOf(ev.ElementID); !ok {
			return fmt.Errorf("%w: %q", schema.ErrUnknownControl, ev.ElementID)
		}
		r.accent.Schedule()
		log.Debug("theme capture deferred", "delay_ms", r.accent.Delay().Milliseconds())
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", schema.ErrInvalidEvent, ev.Kind)
	}
	log.Debug("theme control changed", "kind", ev.Kind)
	r.persistLocked(ev.Trigger())
	return nil
}

// Wait blocks until no deferred capture is pending.
func (r *Reconciler) Wait(ctx context.Context) error {
	return r.accent.Wait(ctx)
}

// Pending reports whether a deferred capture is scheduled.
func (r *Reconciler) Pending() bool {
	return r.accent.Pending()
}

// Stop drops a deferred capture that has not fired yet.
func (r *Reconciler) Stop() bool {
	return r.accent.Cancel()
}

// Last returns the settings most recently applied.
func (r *Reconciler) Last() themestate.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
