// Package whitelist rejects LoginStart for any profile uuid not present in
// a configured allow-list file, one uuid per line.
package whitelist

import (
	"bufio"
	"context"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/k64z/ferrumgo/config"
	"github.com/k64z/ferrumgo/event"
	"github.com/k64z/ferrumgo/events"
)

// ErrNotWhitelisted is returned to kick a player whose uuid is absent from
// the list.
var ErrNotWhitelisted = errors.New("multiplayer.disconnect.not_whitelisted")

// List is the loaded set of allowed player uuids, safe for concurrent
// reads from every connection's login path.
type List struct {
	mu      sync.RWMutex
	allowed map[uuid.UUID]struct{}
}

// Load reads path, one uuid per line; blank lines and '#'-prefixed lines
// are ignored.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "whitelist: open %s", path)
	}
	defer f.Close()

	allowed := make(map[uuid.UUID]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		id, err := uuid.Parse(line)
		if err != nil {
			continue
		}
		allowed[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "whitelist: read %s", path)
	}

	return &List{allowed: allowed}, nil
}

// Contains reports whether id is on the list.
func (l *List) Contains(id uuid.UUID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.allowed[id]
	return ok
}

// Register wires the Login gate onto bus. It checks the profile claimed in
// LoginStart. Listeners registered before this one run first; when velocity
// forwarding is registered ahead of it and enabled, that listener cancels the
// chain, so this check does not run for that login.
func Register(bus *event.Bus, cfg config.WhitelistConfig, list *List) {
	event.On(bus, events.PlayerStartLoginName, func(ctx context.Context, ev *events.PlayerStartLogin) error {
		if !cfg.Enabled {
			return nil
		}
		if !list.Contains(ev.Profile.UUID) {
			return ErrNotWhitelisted
		}
		return nil
	})
}
