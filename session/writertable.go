package session

import (
	"sync"

	"github.com/k64z/ferrumgo/ecs"
	"github.com/k64z/ferrumgo/netio"
)

// WriterTable maps a live connection's entity to the StreamWriter serving
// it, so systems that fan out across connections (the keep-alive sweeper,
// chat relay, broadcasts) can reach a specific entity's socket without
// threading it through the ecs registry as a component.
type WriterTable struct {
	mu sync.RWMutex
	m  map[ecs.EntityID]*netio.StreamWriter
}

// NewWriterTable creates an empty table.
func NewWriterTable() *WriterTable {
	return &WriterTable{m: make(map[ecs.EntityID]*netio.StreamWriter)}
}

func (t *WriterTable) put(id ecs.EntityID, w *netio.StreamWriter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[id] = w
}

func (t *WriterTable) delete(id ecs.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.m, id)
}

// Get returns the writer for id, if its connection is still live.
func (t *WriterTable) Get(id ecs.EntityID) (*netio.StreamWriter, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	w, ok := t.m[id]
	return w, ok
}

// All returns a snapshot of every live (entity, writer) pair.
func (t *WriterTable) All() map[ecs.EntityID]*netio.StreamWriter {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[ecs.EntityID]*netio.StreamWriter, len(t.m))
	for k, v := range t.m {
		out[k] = v
	}
	return out
}
