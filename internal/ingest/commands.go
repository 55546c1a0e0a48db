package ingest

import (
	"sync"
	"time"

	"github.com/luki/thermo/internal/sensor"
)

// Snapshot is the command tuple returned to the device on every poll.
type Snapshot struct {
	Sensor1   bool
	Sensor2   bool
	DisplayOn bool
}

// Commands owns the desired on/off intent per probe plus the device
// display flag. The device reports its own switch state, but the
// authoritative desired state lives here and is pushed down on the
// device's next poll; the device converges to it, not the other way
// around. A remote-reported state is accepted only after the debounce
// window has elapsed since the last local change, so a UI toggle
// always wins for that window.
type Commands struct {
	mu       sync.Mutex
	debounce time.Duration

	desired     map[sensor.ID]bool
	lastChanged map[sensor.ID]time.Time

	displayOn        bool
	displayChangedAt time.Time
}

// NewCommands creates command state with all probes off and the
// display on, matching the device's power-up defaults.
func NewCommands(debounce time.Duration) *Commands {
	return &Commands{
		debounce:    debounce,
		desired:     map[sensor.ID]bool{sensor.Probe1: false, sensor.Probe2: false},
		lastChanged: map[sensor.ID]time.Time{},
		displayOn:   true,
	}
}

// Toggle flips the desired state for a probe and stamps the change
// time. Called only from the UI side.
func (c *Commands) Toggle(id sensor.ID, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.desired[id] = !c.desired[id]
	c.lastChanged[id] = now
	return c.desired[id]
}

// SetFromRemote applies a device-reported switch state, unless a local
// toggle happened within the debounce window.
func (c *Commands) SetFromRemote(id sensor.ID, on bool, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.lastChanged[id]; ok && now.Sub(last) <= c.debounce {
		return
	}
	c.desired[id] = on
}

// Desired reports whether the probe is wanted on.
func (c *Commands) Desired(id sensor.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.desired[id]
}

// ToggleDisplay flips the device display flag.
func (c *Commands) ToggleDisplay(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayOn = !c.displayOn
	c.displayChangedAt = now
	return c.displayOn
}

// Get returns both probe states and the display flag in one locked
// read, so callers never observe a half-updated pair.
func (c *Commands) Get() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Sensor1:   c.desired[sensor.Probe1],
		Sensor2:   c.desired[sensor.Probe2],
		DisplayOn: c.displayOn,
	}
}
