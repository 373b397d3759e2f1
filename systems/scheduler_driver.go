package systems

import (
	"context"
	"time"

	"github.com/k64z/ferrumgo/scheduler"
)

// tickInterval matches vanilla's 20 ticks/second.
const tickInterval = 50 * time.Millisecond

// SchedulerDriver runs the scheduler's wall-clock loop and advances its
// tick counter at a fixed 50ms cadence.
type SchedulerDriver struct {
	Scheduler *scheduler.Scheduler

	stop chan struct{}
}

func (d *SchedulerDriver) Name() string { return "scheduler-driver" }

func (d *SchedulerDriver) Start(ctx context.Context) error {
	d.stop = make(chan struct{})

	go d.Scheduler.Run(ctx)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.stop:
			return nil
		case <-ticker.C:
			d.Scheduler.Tick(ctx)
		}
	}
}

func (d *SchedulerDriver) Stop(ctx context.Context) error {
	if d.stop != nil {
		close(d.stop)
	}
	return d.Scheduler.Shutdown(ctx)
}
