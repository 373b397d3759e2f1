package systems

import (
	"context"
	"log/slog"
	"time"

	"github.com/k64z/ferrumgo/ecs"
	"github.com/k64z/ferrumgo/event"
	"github.com/k64z/ferrumgo/metrics"
	"github.com/k64z/ferrumgo/session"
)

// KeepAliveSweeper periodically pings every Play-state connection whose last
// KeepAlive has gone stale. It never enforces acknowledgment itself — a
// client that stops answering is dropped by its own client-side timeout, not
// by the server. It also reports the online-player-count diagnostic on the
// same cadence.
type KeepAliveSweeper struct {
	Registry *ecs.Registry
	Bus      *event.Bus
	Writers  *session.WriterTable
	Interval time.Duration
	Logger   *slog.Logger

	stop chan struct{}
}

func (k *KeepAliveSweeper) Name() string { return "keep-alive-sweeper" }

func (k *KeepAliveSweeper) Start(ctx context.Context) error {
	k.stop = make(chan struct{})
	ticker := time.NewTicker(k.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-k.stop:
			return nil
		case now := <-ticker.C:
			k.sweep(ctx, now)
		}
	}
}

func (k *KeepAliveSweeper) Stop(ctx context.Context) error {
	if k.stop != nil {
		close(k.stop)
	}
	return nil
}

func (k *KeepAliveSweeper) sweep(ctx context.Context, now time.Time) {
	entities := ecs.Query1[session.KeepAlive](k.Registry)
	metrics.OnlinePlayers.Set(float64(len(entities)))

	for _, entity := range entities {
		writer, ok := k.Writers.Get(entity)
		if !ok {
			continue
		}

		ref, err := ecs.TryGetExclusive[session.KeepAlive](k.Registry, entity)
		if err != nil {
			continue
		}
		ka := ref.Get()
		ref.Release()

		if now.Sub(ka.SentAt) <= k.Interval {
			continue
		}
		if err := session.SendKeepAlive(writer, k.Registry, entity, now); err != nil {
			k.Logger.Debug("keep-alive send failed", "entity", entity, "error", err)
		}
	}
}
