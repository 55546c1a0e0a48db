// Package ingest holds the hand-off state between the HTTP boundary
// and the tick loop: a latest-batch mailbox and the locally
// authoritative probe command state.
package ingest

import (
	"sync"

	"github.com/luki/thermo/internal/sensor"
)

// Mailbox is a single-slot hand-off buffer from the network handler to
// the tick loop. Put never blocks and overwrites any unconsumed batch:
// only the most recent device state matters for display, so
// intermediate batches between ticks are dropped on purpose.
type Mailbox struct {
	mu    sync.Mutex
	batch sensor.Batch
	full  bool
}

// Put stores the batch, replacing any pending one.
func (m *Mailbox) Put(b sensor.Batch) {
	m.mu.Lock()
	m.batch = b
	m.full = true
	m.mu.Unlock()
}

// TakeLatest returns the most recent batch received since the last
// call, or false if none arrived.
func (m *Mailbox) TakeLatest() (sensor.Batch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return sensor.Batch{}, false
	}
	b := m.batch
	m.batch = sensor.Batch{}
	m.full = false
	return b, true
}
