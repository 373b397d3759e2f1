package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestCancelBeforeDeadlineProducesNoInvocation(t *testing.T) {
	s := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	var ran atomic.Bool
	handle, err := s.ScheduleDelay(func(context.Context) error {
		ran.Store(true)
		return nil
	}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("ScheduleDelay: %v", err)
	}

	handle.Cancel()
	time.Sleep(100 * time.Millisecond)

	if ran.Load() {
		t.Error("cancelled task ran")
	}
}

func TestRunThenShutdownDrains(t *testing.T) {
	s := New(nil)
	ctx, cancelRun := context.WithCancel(context.Background())
	go s.Run(ctx)

	var ran atomic.Bool
	_, err := s.ScheduleDelay(func(context.Context) error {
		time.Sleep(50 * time.Millisecond)
		ran.Store(true)
		return nil
	}, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("ScheduleDelay: %v", err)
	}

	time.Sleep(30 * time.Millisecond) // let the task start

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := s.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	cancelRun()

	if !ran.Load() {
		t.Error("in-flight task did not complete before shutdown returned")
	}

	if _, err := s.ScheduleDelay(func(context.Context) error { return nil }, 0); err != ErrShutdown {
		t.Errorf("got %v, want ErrShutdown", err)
	}
}

func TestScheduleTickRunsAtDelayPlusOne(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	ran := make(chan uint64, 1)
	_, err := s.ScheduleTick(func(context.Context) error {
		ran <- s.currentTick.Load()
		return nil
	}, 2)
	if err != nil {
		t.Fatalf("ScheduleTick: %v", err)
	}

	// currentTick starts at 0; delay=2 => fires on tick 0+2+1=3.
	for i := 0; i < 2; i++ {
		s.Tick(ctx)
		select {
		case <-ran:
			t.Fatalf("task ran early, on tick %d", i+1)
		case <-time.After(20 * time.Millisecond):
		}
	}

	s.Tick(ctx)
	select {
	case tick := <-ran:
		if tick != 3 {
			t.Errorf("got tick %d, want 3", tick)
		}
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
}

func TestScheduleIntervalCounter(t *testing.T) {
	s := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	var count atomic.Int32
	handle, err := s.ScheduleInterval(func(context.Context) error {
		count.Add(1)
		return nil
	}, 100*time.Millisecond, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("ScheduleInterval: %v", err)
	}

	time.Sleep(550 * time.Millisecond)
	n := count.Load()
	if n < 5 || n > 6 {
		t.Errorf("got count %d, want 5 or 6", n)
	}

	handle.Cancel()
	time.Sleep(450 * time.Millisecond)

	if count.Load() != n {
		t.Errorf("count advanced after cancel: %d -> %d", n, count.Load())
	}
}
