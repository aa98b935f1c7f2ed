package deferred

import (
	"context"
	"sync"
	"time"
)

// Task runs fn once, delay after the most recent Schedule call.
type Task struct {
	clock Clock
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   Timer
	seq     uint64
	pending bool
	idle    chan struct{}
}

// NewTask returns an idle task. A nil clock selects System.
func NewTask(clock Clock, delay time.Duration, fn func()) *Task {
	if clock == nil {
		clock = System
	}
	if delay < 0 {
		delay = 0
	}
	idle := make(chan struct{})
	close(idle)
	return &Task{clock: clock, delay: delay, fn: fn, idle: idle}
}

// Delay returns the configured delay.
func (t *Task) Delay() time.Duration {
	return t.delay
}

// Schedule starts the delay, cancelling any run that has not fired yet.
func (t *Task) Schedule() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.seq++
	seq := t.seq
	if !t.pending {
		t.pending = true
		t.idle = make(chan struct{})
	}
	t.timer = t.clock.AfterFunc(t.delay, func() { t.fire(seq) })
}

// Cancel drops a scheduled run. It reports whether one was pending.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
	if !t.pending {
		return false
	}
	t.markIdleLocked()
	return true
}

// Pending reports whether a run is scheduled or in progress.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Wait blocks until no run is pending or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	for {
		t.mu.Lock()
		if !t.pending {
			t.mu.Unlock()
			return nil
		}
		idle := t.idle
		t.mu.Unlock()
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *Task) fire(seq uint64) {
	t.mu.Lock()
	if seq != t.seq || !t.pending {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	if t.fn != nil {
		t.fn()
	}

	t.mu.Lock()
	if seq == t.seq && t.pending {
		t.markIdleLocked()
	}
	t.mu.Unlock()
}

func (t *Task) markIdleLocked() {
	t.pending = false
	close(t.idle)
}
