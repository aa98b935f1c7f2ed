package deferred

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func TestManualClockFiresInDeadlineOrder(t *testing.T) {
	clock := NewManualClock(epoch)
	var order []string
	clock.AfterFunc(30*time.Millisecond, func() { order = append(order, "late") })
	clock.AfterFunc(10*time.Millisecond, func() { order = append(order, "early") })
	clock.AfterFunc(10*time.Millisecond, func() { order = append(order, "early-second") })

	clock.Advance(20 * time.Millisecond)
	if len(order) != 2 || order[0] != "early" || order[1] != "early-second" {
		t.Fatalf("unexpected order after 20ms: %v", order)
	}
	if clock.Pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", clock.Pending())
	}
	clock.Advance(10 * time.Millisecond)
	if len(order) != 3 || order[2] != "late" {
		t.Fatalf("unexpected order after 30ms: %v", order)
	}
	if got := clock.Now(); !got.Equal(epoch.Add(30 * time.Millisecond)) {
		t.Fatalf("unexpected clock time: %v", got)
	}
}

func TestManualClockStop(t *testing.T) {
	clock := NewManualClock(epoch)
	fired := false
	timer := clock.AfterFunc(time.Millisecond, func() { fired = true })
	if !timer.Stop() {
		t.Fatalf("expected first stop to succeed")
	}
	if timer.Stop() {
		t.Fatalf("expected second stop to report false")
	}
	clock.Advance(time.Second)
	if fired {
		t.Fatalf("stopped timer fired")
	}
}

func TestTaskRunsAfterDelay(t *testing.T) {
	clock := NewManualClock(epoch)
	runs := 0
	task := NewTask(clock, 100*time.Millisecond, func() { runs++ })
	task.Schedule()
	clock.Advance(99 * time.Millisecond)
	if runs != 0 || !task.Pending() {
		t.Fatalf("expected task still pending before delay, runs=%d", runs)
	}
	clock.Advance(time.Millisecond)
	if runs != 1 || task.Pending() {
		t.Fatalf("expected one run after delay, runs=%d pending=%v", runs, task.Pending())
	}
}

func TestTaskRescheduleCancelsPreviousRun(t *testing.T) {
	clock := NewManualClock(epoch)
	runs := 0
	task := NewTask(clock, 100*time.Millisecond, func() { runs++ })
	task.Schedule()
	clock.Advance(60 * time.Millisecond)
	task.Schedule()
	clock.Advance(60 * time.Millisecond)
	if runs != 0 {
		t.Fatalf("expected first run cancelled, runs=%d", runs)
	}
	clock.Advance(40 * time.Millisecond)
	if runs != 1 {
		t.Fatalf("expected exactly one run, runs=%d", runs)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected no timers left, got %d", clock.Pending())
	}
}

func TestTaskCancel(t *testing.T) {
	clock := NewManualClock(epoch)
	runs := 0
	task := NewTask(clock, 10*time.Millisecond, func() { runs++ })
	if task.Cancel() {
		t.Fatalf("expected cancel on idle task to report false")
	}
	task.Schedule()
	if !task.Cancel() {
		t.Fatalf("expected cancel to report pending run")
	}
	clock.Advance(time.Second)
	if runs != 0 || task.Pending() {
		t.Fatalf("expected cancelled task to stay idle, runs=%d", runs)
	}
}

func TestTaskWaitHonoursContext(t *testing.T) {
	clock := NewManualClock(epoch)
	task := NewTask(clock, time.Hour, func() {})
	if err := task.Wait(context.Background()); err != nil {
		t.Fatalf("expected idle wait to return immediately: %v", err)
	}
	task.Schedule()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := task.Wait(ctx); err == nil {
		t.Fatalf("expected wait to time out while pending")
	}
}

func TestTaskWaitWithSystemClock(t *testing.T) {
	var runs atomic.Int32
	task := NewTask(nil, 5*time.Millisecond, func() { runs.Add(1) })
	task.Schedule()
	task.Schedule()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := task.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if got := runs.Load(); got != 1 {
		t.Fatalf("expected one run, got %d", got)
	}
}
