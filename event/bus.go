// Package event implements the named, ordered-listener event bus plugins
// and packet handlers observe protocol transitions through. It carries no
// domain knowledge of its own; the payload types live in the events
// package.
package event

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

type rawListener func(ctx context.Context, payload any) error

// Bus holds, per event name, an ordered chain of listeners registered at
// startup.
type Bus struct {
	mu        sync.Mutex
	listeners map[string][]rawListener
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{listeners: make(map[string][]rawListener)}
}

// On registers fn as the next listener for the named event, in registration
// order. fn mutates *payload in place and returns an error (ErrCancelled to
// stop the chain) or nil to let it continue.
func On[T any](b *Bus, name string, fn func(ctx context.Context, payload *T) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = append(b.listeners[name], func(ctx context.Context, payload any) error {
		return fn(ctx, payload.(*T))
	})
}

// Trigger runs every registered listener for name, in order, against
// payload. If a listener returns ErrCancelled the chain stops immediately
// and Trigger returns ErrCancelled; any other listener error also stops the
// chain and is returned as-is. Listeners may await but must not hold an
// exclusive component borrow across an await that could re-enter the same
// entity they were invoked for.
func Trigger[T any](ctx context.Context, b *Bus, name string, payload *T) error {
	b.mu.Lock()
	chain := append([]rawListener(nil), b.listeners[name]...)
	b.mu.Unlock()

	for _, listener := range chain {
		if err := listener(ctx, payload); err != nil {
			if errors.Is(err, ErrCancelled) {
				return ErrCancelled
			}
			return err
		}
	}
	return nil
}
