// Package systems implements the server's long-running background loops:
// the TCP listener, the keep-alive sweeper, the scheduler driver, and the
// LAN discovery broadcaster. Each is independently startable/stoppable.
package systems

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// System is the shared shape every background loop implements, so main can
// start and stop them uniformly.
type System interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// StartAll launches every system concurrently, returning once every Start
// call has returned (each System in this package blocks in Start until ctx
// is done or its Stop is called). The first non-nil error is returned once
// all have finished.
func StartAll(ctx context.Context, systems []System) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range systems {
		s := s
		g.Go(func() error {
			return s.Start(gctx)
		})
	}
	return g.Wait()
}

// StopAll stops every system concurrently and waits for all to finish,
// returning each system's Stop error at the same index as in systems.
func StopAll(ctx context.Context, systems []System) []error {
	g := new(errgroup.Group)
	errs := make([]error, len(systems))
	for i, s := range systems {
		i, s := i, s
		g.Go(func() error {
			errs[i] = s.Stop(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
