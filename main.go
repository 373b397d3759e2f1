package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/k64z/ferrumgo/config"
	"github.com/k64z/ferrumgo/ecs"
	"github.com/k64z/ferrumgo/event"
	"github.com/k64z/ferrumgo/metrics"
	"github.com/k64z/ferrumgo/scheduler"
	"github.com/k64z/ferrumgo/session"
	"github.com/k64z/ferrumgo/systems"
	"github.com/k64z/ferrumgo/velocity"
	"github.com/k64z/ferrumgo/whitelist"
)

func main() {
	configPath := flag.String("config", "ferrumgo.toml", "path to the server's TOML configuration")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	reg := ecs.New()
	bus := event.New()
	sched := scheduler.New(logger)
	writers := session.NewWriterTable()

	if cfg.Velocity.Enabled {
		velocity.Register(bus, reg, cfg.Velocity, cfg.CompressionThreshold)
	}
	if cfg.Whitelist.Enabled {
		list, err := whitelist.Load(cfg.Whitelist.Path)
		if err != nil {
			return err
		}
		whitelist.Register(bus, cfg.Whitelist, list)
	}
	systems.RegisterChatRelay(bus, writers)
	systems.RegisterPlayerListBroadcast(bus, writers)

	deps := session.Deps{
		Registry: reg,
		Bus:      bus,
		Config:   cfg,
		Logger:   logger,
		Writers:  writers,
	}

	backgroundSystems := []systems.System{
		&systems.Listener{Addr: cfg.ListenAddr, Deps: deps, Logger: logger},
		&systems.SchedulerDriver{Scheduler: sched},
		&systems.KeepAliveSweeper{
			Registry: reg,
			Bus:      bus,
			Writers:  writers,
			Interval: time.Duration(cfg.KeepAliveIntervalSeconds) * time.Second,
			Logger:   logger,
		},
	}
	if cfg.LAN.Enabled {
		_, port, _ := splitPort(cfg.ListenAddr)
		backgroundSystems = append(backgroundSystems, &systems.LANBroadcast{
			MOTD:       cfg.MOTD,
			ServerPort: port,
			Interval:   time.Duration(cfg.LAN.IntervalSeconds) * time.Second,
			Logger:     logger,
		})
	}

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.ListenAddr, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- systems.StartAll(ctx, backgroundSystems)
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	systems.StopAll(shutdownCtx, backgroundSystems)

	return <-errCh
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics listener stopped", "error", err)
	}
}

func splitPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	return host, port, err
}
