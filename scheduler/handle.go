package scheduler

import (
	"context"
	"sync"
)

// Handle refers to one scheduled task. Cancel flips a flag observed by the
// runner before it invokes the callback; re-scheduling on an interval
// preserves the same Handle's identity across runs.
type Handle struct {
	id uint64

	mu        sync.Mutex
	cancelled bool
	runCh     chan struct{}
}

func newHandle(id uint64) *Handle {
	return &Handle{id: id, runCh: make(chan struct{})}
}

// ID returns the handle's stable identifier.
func (h *Handle) ID() uint64 {
	return h.id
}

// Cancel marks the task cancelled. If the runner has not yet invoked the
// callback it will observe this and skip invocation entirely, with no side
// effects, producing ErrCancelled as the task's result.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return
	}
	h.cancelled = true
	close(h.runCh)
}

func (h *Handle) isCancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// signalRan wakes any Wait callers and, for interval tasks, prepares a fresh
// channel for the next cycle.
func (h *Handle) signalRan() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return
	}
	close(h.runCh)
	h.runCh = make(chan struct{})
}

// Wait blocks until the task next runs (or is cancelled), or ctx expires.
// It returns ErrCancelled when the wait ended because of Cancel.
func (h *Handle) Wait(ctx context.Context) error {
	h.mu.Lock()
	ch := h.runCh
	h.mu.Unlock()

	select {
	case <-ch:
		h.mu.Lock()
		cancelled := h.cancelled && h.runCh == ch
		h.mu.Unlock()
		if cancelled {
			return ErrCancelled
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
