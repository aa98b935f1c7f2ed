package logx

import (
	"context"

	"pkt.systems/pslog"
)

type contextKey int

const cycleKey contextKey = iota

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// CycleID returns the reconciliation cycle id stored on ctx.
func CycleID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(cycleKey).(string)
	return id
}

// WithCycle annotates the logger with the reconciliation cycle id if present.
func WithCycle(ctx context.Context, cycleID string) pslog.Logger {
	log := pslog.Ctx(ctx)
	if cycleID != "" && CycleID(ctx) != cycleID {
		log = log.With("cycle", cycleID)
	}
	return log
}

// WithCycleTrigger annotates the logger with cycle id and trigger.
func WithCycleTrigger(ctx context.Context, cycleID, trigger string) pslog.Logger {
	log := WithCycle(ctx, cycleID)
	if trigger != "" {
		log = log.With("trigger", trigger)
	}
	return log
}

// WithControl annotates the logger with the element id that raised an event.
func WithControl(log pslog.Logger, elementID string) pslog.Logger {
	if elementID != "" {
		log = log.With("control", elementID)
	}
	return log
}

// ContextWithCycle stores the cycle marker on the context for log de-duplication.
func ContextWithCycle(ctx context.Context, cycleID string) context.Context {
	if ctx == nil || cycleID == "" {
		return ctx
	}
	return context.WithValue(ctx, cycleKey, cycleID)
}

// ContextWithCycleLogger attaches the logger and cycle marker to the context.
func ContextWithCycleLogger(ctx context.Context, log pslog.Logger, cycleID string) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithCycle(ctx, cycleID)
}
