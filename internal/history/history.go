// Package history provides a fixed-length rolling buffer of
// temperature samples with explicit missing markers, plus windowed
// snapshot and gap-aware segment views for rendering.
package history

import (
	"github.com/luki/thermo/internal/sensor"
)

// Buffer is a rolling window of exactly Cap() samples. New buffers are
// pre-padded with missing markers, so the length never changes: every
// append evicts the oldest slot. Values are stored in Celsius
// regardless of display unit; conversion happens at read time so unit
// toggles never compound rounding error.
type Buffer struct {
	samples []sensor.Sample
	head    int // index of the oldest slot
}

// NewBuffer creates a buffer of the given capacity, fully padded with
// missing markers.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{samples: make([]sensor.Sample, capacity)}
}

// Restore creates a buffer of the given capacity from a stored
// oldest-first sequence. Shorter input is left-padded with missing
// markers; longer input keeps only the most recent entries.
func Restore(capacity int, oldest []sensor.Sample) *Buffer {
	b := NewBuffer(capacity)
	if len(oldest) > capacity {
		oldest = oldest[len(oldest)-capacity:]
	}
	copy(b.samples[capacity-len(oldest):], oldest)
	return b
}

// Cap returns the fixed window length.
func (b *Buffer) Cap() int {
	return len(b.samples)
}

// Append records a sample as the newest entry, evicting the oldest.
func (b *Buffer) Append(s sensor.Sample) {
	b.samples[b.head] = s
	b.head = (b.head + 1) % len(b.samples)
}

// Last returns the most recent sample.
func (b *Buffer) Last() sensor.Sample {
	return b.samples[(b.head+len(b.samples)-1)%len(b.samples)]
}

// Values returns all samples oldest-first in Celsius. The slice is a
// fresh copy each call.
func (b *Buffer) Values() []sensor.Sample {
	out := make([]sensor.Sample, len(b.samples))
	n := copy(out, b.samples[b.head:])
	copy(out[n:], b.samples[:b.head])
	return out
}

// Snapshot returns the most recent window samples oldest-first in the
// given unit, right-aligned so the newest entry is last. A window
// longer than the buffer is left-padded with missing markers. Missing
// samples stay missing under conversion.
func (b *Buffer) Snapshot(window int, u sensor.Unit) []sensor.Sample {
	if window < 1 {
		return nil
	}
	all := b.Values()
	out := make([]sensor.Sample, window)
	src := all
	if len(src) > window {
		src = src[len(src)-window:]
	}
	for i, s := range src {
		idx := window - len(src) + i
		if v, ok := s.In(u); ok {
			out[idx] = sensor.Sample{C: v, OK: true}
		}
	}
	return out
}

// Segment is a maximal run of present values within a snapshot.
// Start is the run's offset from the left edge of the window.
type Segment struct {
	Start  int
	Values []float64
}

// Segments splits Snapshot(window, u) at every missing entry and
// returns the non-empty runs, for drawing discontinuous lines.
func (b *Buffer) Segments(window int, u sensor.Unit) []Segment {
	snap := b.Snapshot(window, u)
	var segs []Segment
	var cur *Segment
	for i, s := range snap {
		if !s.OK {
			cur = nil
			continue
		}
		if cur == nil {
			segs = append(segs, Segment{Start: i})
			cur = &segs[len(segs)-1]
		}
		cur.Values = append(cur.Values, s.C)
	}
	return segs
}
