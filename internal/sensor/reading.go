// Package sensor defines the core data types for the two-probe remote
// thermometer: sensor identities, present-or-missing samples, display
// units, and the batch shape posted by the device.
package sensor

import (
	"fmt"
	"time"
)

// ID identifies one of the device's two temperature probes.
type ID int

const (
	Probe1 ID = 1
	Probe2 ID = 2
)

// IDs lists all probe identifiers in display order.
var IDs = []ID{Probe1, Probe2}

func (id ID) String() string {
	return fmt.Sprintf("sensor%d", int(id))
}

// Unit is the display temperature unit. Samples are always stored in
// Celsius; conversion happens at read time only.
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
)

func (u Unit) String() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == Celsius {
		return Fahrenheit
	}
	return Celsius
}

// CtoF converts Celsius to Fahrenheit.
func CtoF(c float64) float64 {
	return c*9/5 + 32
}

// FtoC converts Fahrenheit to Celsius.
func FtoC(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Sample is a single history slot: either a temperature in Celsius or
// an explicit missing marker. The zero value is missing, so freshly
// allocated buffers start out as gaps rather than as 0°C readings.
type Sample struct {
	C  float64
	OK bool
}

// Value returns a present sample holding c degrees Celsius.
func Value(c float64) Sample {
	return Sample{C: c, OK: true}
}

// Missing returns the explicit no-value sample.
func Missing() Sample {
	return Sample{}
}

// In returns the sample's value in the given unit. Missing samples
// have no value in any unit.
func (s Sample) In(u Unit) (float64, bool) {
	if !s.OK {
		return 0, false
	}
	if u == Fahrenheit {
		return CtoF(s.C), true
	}
	return s.C, true
}

// Batch is one inbound post from the device: a sample per probe, the
// device's self-reported probe switch states (nil when not reported),
// and the server-side receive time.
type Batch struct {
	Temps      map[ID]Sample
	ProbeState map[ID]*bool
	ReceivedAt time.Time
}

// Sample returns the batch's sample for the given probe, or missing
// when the probe did not report this round.
func (b Batch) Sample(id ID) Sample {
	if b.Temps == nil {
		return Missing()
	}
	return b.Temps[id]
}
