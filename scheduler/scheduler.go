// Package scheduler provides the server's two task queues: a min-heap of
// wall-clock deadline tasks and a map of tick-indexed tasks driven by an
// external tick source. Both share cancellation handles and a single
// shutdown sequence.
package scheduler

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Callback is a unit of scheduled work. It receives the context passed to
// Run (wall-clock tasks) or Tick (tick tasks); Shutdown does not cancel it.
type Callback func(ctx context.Context) error

type wallTask struct {
	deadline time.Time
	interval time.Duration // zero means one-shot
	cb       Callback
	handle   *Handle
	seq      uint64
}

type taskHeap []*wallTask

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(*wallTask)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type tickTask struct {
	cb     Callback
	handle *Handle
}

// Scheduler holds the wall-clock heap and tick-indexed task map described
// in the server's scheduling model.
type Scheduler struct {
	logger *slog.Logger

	mu        sync.Mutex
	heap      taskHeap
	tickTasks map[uint64][]*tickTask
	seq       uint64

	currentTick  atomic.Uint64
	shuttingDown atomic.Bool
	nextHandleID atomic.Uint64

	wake   chan struct{}
	active sync.WaitGroup
}

// New creates an idle Scheduler. Run must be started separately to drive
// wall-clock tasks; Tick must be called by an external tick source to drive
// tick-indexed tasks.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		logger:    logger,
		tickTasks: make(map[uint64][]*tickTask),
		wake:      make(chan struct{}, 1),
	}
}

func (s *Scheduler) notifyWake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// ScheduleDelay runs cb once after delay.
func (s *Scheduler) ScheduleDelay(cb Callback, delay time.Duration) (*Handle, error) {
	return s.scheduleWall(cb, delay, 0)
}

// ScheduleInterval runs cb after delay, then again every interval until
// cancelled.
func (s *Scheduler) ScheduleInterval(cb Callback, delay, interval time.Duration) (*Handle, error) {
	return s.scheduleWall(cb, delay, interval)
}

func (s *Scheduler) scheduleWall(cb Callback, delay, interval time.Duration) (*Handle, error) {
	if s.shuttingDown.Load() {
		return nil, ErrShutdown
	}

	handle := newHandle(s.nextHandleID.Add(1))

	s.mu.Lock()
	s.seq++
	task := &wallTask{
		deadline: time.Now().Add(delay),
		interval: interval,
		cb:       cb,
		handle:   handle,
		seq:      s.seq,
	}
	heap.Push(&s.heap, task)
	s.mu.Unlock()

	s.notifyWake()
	return handle, nil
}

// ScheduleTick runs cb on tick (currentTick + delayInTicks + 1) — delay 0
// means the next tick processed by Tick.
func (s *Scheduler) ScheduleTick(cb Callback, delayInTicks uint64) (*Handle, error) {
	if s.shuttingDown.Load() {
		return nil, ErrShutdown
	}

	handle := newHandle(s.nextHandleID.Add(1))
	target := s.currentTick.Load() + delayInTicks + 1

	s.mu.Lock()
	s.tickTasks[target] = append(s.tickTasks[target], &tickTask{cb: cb, handle: handle})
	s.mu.Unlock()

	return handle, nil
}

// Tick advances the tick counter by one and spawns every task scheduled for
// the tick it reaches. Tick tasks are not waited on during Shutdown — the
// external tick driver may already have stopped.
func (s *Scheduler) Tick(ctx context.Context) {
	tick := s.currentTick.Add(1)

	s.mu.Lock()
	tasks := s.tickTasks[tick]
	delete(s.tickTasks, tick)
	s.mu.Unlock()

	for _, t := range tasks {
		go s.runTickTask(ctx, t)
	}
}

func (s *Scheduler) runTickTask(ctx context.Context, t *tickTask) {
	if t.handle.isCancelled() {
		return
	}
	if err := t.cb(ctx); err != nil {
		s.logger.Error("tick task failed", "err", err)
	}
	t.handle.signalRan()
}

// Run drives the wall-clock heap until Shutdown is observed: it peeks the
// head, spawns it if due (re-enqueueing at now+interval when one is set),
// and otherwise sleeps until the next deadline or a wake signal.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		s.mu.Lock()
		if s.heap.Len() == 0 {
			s.mu.Unlock()
			if s.shuttingDown.Load() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}

		next := s.heap[0]
		now := time.Now()
		if !next.deadline.After(now) {
			heap.Pop(&s.heap)
			s.mu.Unlock()

			s.active.Add(1)
			go s.runWallTask(ctx, next)

			if next.interval > 0 && !next.handle.isCancelled() {
				s.mu.Lock()
				s.seq++
				next.deadline = now.Add(next.interval)
				next.seq = s.seq
				heap.Push(&s.heap, next)
				s.mu.Unlock()
			}
			continue
		}

		wait := next.deadline.Sub(now)
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-time.After(wait):
		}

		if s.shuttingDown.Load() {
			return
		}
	}
}

func (s *Scheduler) runWallTask(ctx context.Context, t *wallTask) {
	defer s.active.Done()

	if t.handle.isCancelled() {
		return
	}
	if err := t.cb(ctx); err != nil {
		s.logger.Error("scheduled task failed", "err", err)
	}
	t.handle.signalRan()
}

// Shutdown stops new scheduling (ErrShutdown thereafter) and waits up to
// 10s for active wall-clock tasks to finish, logging a forced exit on
// timeout.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)
	s.notifyWake()

	done := make(chan struct{})
	go func() {
		s.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(10 * time.Second):
		s.logger.Warn("scheduler shutdown grace period exceeded, forcing exit")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
