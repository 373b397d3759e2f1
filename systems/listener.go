package systems

import (
	"context"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/k64z/ferrumgo/ecs"
	"github.com/k64z/ferrumgo/protocol"
	"github.com/k64z/ferrumgo/session"
	"github.com/k64z/ferrumgo/text"
)

// Listener accepts TCP connections and hands each off to session.Handle on
// its own goroutine.
type Listener struct {
	Addr   string
	Deps   session.Deps
	Logger *slog.Logger

	listener net.Listener
}

func (l *Listener) Name() string { return "listener" }

// Start binds the listen address and begins accepting; it returns once the
// listener is closed (normally by Stop via ctx cancellation).
func (l *Listener) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return err
	}
	l.listener = ln

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	l.Logger.Info("listening", "addr", l.Addr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			l.Logger.Warn("accept failed", "error", err)
			continue
		}
		go session.Handle(ctx, conn, l.Deps)
	}
}

// Stop closes the listening socket, unblocking Accept, then kicks every
// still-live connection concurrently so a shutdown doesn't leave clients
// hanging on a socket nobody will ever write to again.
func (l *Listener) Stop(ctx context.Context) error {
	if l.listener != nil {
		l.listener.Close()
	}

	reason := text.Plain("Server closed")
	g, gctx := errgroup.WithContext(ctx)
	for entity, writer := range l.Deps.Writers.All() {
		entity, writer := entity, writer
		g.Go(func() error {
			state := protocol.Handshaking
			if ref, err := ecs.GetShared[session.ConnectionState](l.Deps.Registry, entity); err == nil {
				state = ref.Get().State
				ref.Release()
			}
			return writer.Kick(gctx, state, reason)
		})
	}
	return g.Wait()
}
