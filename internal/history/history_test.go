package history

import (
	"math"
	"testing"

	"github.com/luki/thermo/internal/sensor"
)

func TestBufferFixedLength(t *testing.T) {
	b := NewBuffer(5)

	if b.Cap() != 5 {
		t.Fatalf("Cap: got %d, want 5", b.Cap())
	}
	if got := len(b.Values()); got != 5 {
		t.Fatalf("fresh buffer length: got %d, want 5", got)
	}
	for _, s := range b.Values() {
		if s.OK {
			t.Fatal("fresh buffer should be all missing")
		}
	}

	for i := 0; i < 12; i++ {
		b.Append(sensor.Value(float64(20 + i)))
		if got := len(b.Values()); got != 5 {
			t.Fatalf("length after %d appends: got %d, want 5", i+1, got)
		}
	}

	vals := b.Values()
	for i, s := range vals {
		want := float64(20 + 7 + i)
		if !s.OK || s.C != want {
			t.Errorf("slot %d: got %+v, want %.0f", i, s, want)
		}
	}
	if last := b.Last(); !last.OK || last.C != 31 {
		t.Errorf("Last: got %+v, want 31", last)
	}
}

func TestRestorePadsAndTruncates(t *testing.T) {
	short := []sensor.Sample{sensor.Value(21), sensor.Value(22)}
	b := Restore(5, short)
	vals := b.Values()
	for i := 0; i < 3; i++ {
		if vals[i].OK {
			t.Errorf("slot %d: expected left-padded missing, got %+v", i, vals[i])
		}
	}
	if vals[3].C != 21 || vals[4].C != 22 {
		t.Errorf("restored tail: got %+v", vals[3:])
	}

	long := make([]sensor.Sample, 8)
	for i := range long {
		long[i] = sensor.Value(float64(i))
	}
	b = Restore(5, long)
	vals = b.Values()
	for i, s := range vals {
		if !s.OK || s.C != float64(3+i) {
			t.Errorf("truncated slot %d: got %+v, want %d", i, s, 3+i)
		}
	}
}

func TestSnapshotAlignmentAndUnits(t *testing.T) {
	b := NewBuffer(4)
	b.Append(sensor.Value(0))
	b.Append(sensor.Missing())
	b.Append(sensor.Value(100))

	snap := b.Snapshot(6, sensor.Celsius)
	if len(snap) != 6 {
		t.Fatalf("snapshot length: got %d, want 6", len(snap))
	}
	// 4-slot buffer right-aligned in a 6-slot window: two pad slots,
	// one pre-pad slot, then the three appended samples.
	if snap[0].OK || snap[1].OK || snap[2].OK {
		t.Error("expected left padding to be missing")
	}
	if !snap[3].OK || snap[3].C != 0 {
		t.Errorf("snap[3]: got %+v, want 0", snap[3])
	}
	if snap[4].OK {
		t.Error("snap[4]: missing sample should stay missing")
	}
	if !snap[5].OK || snap[5].C != 100 {
		t.Errorf("snap[5]: got %+v, want 100", snap[5])
	}

	f := b.Snapshot(6, sensor.Fahrenheit)
	if !f[3].OK || f[3].C != 32 {
		t.Errorf("0°C in F: got %+v, want 32", f[3])
	}
	if !f[5].OK || f[5].C != 212 {
		t.Errorf("100°C in F: got %+v, want 212", f[5])
	}
	if f[4].OK {
		t.Error("missing must stay missing under conversion")
	}
}

func TestSnapshotIdempotent(t *testing.T) {
	b := NewBuffer(10)
	for i := 0; i < 7; i++ {
		if i%3 == 0 {
			b.Append(sensor.Missing())
		} else {
			b.Append(sensor.Value(float64(18 + i)))
		}
	}

	first := b.Snapshot(10, sensor.Celsius)
	second := b.Snapshot(10, sensor.Celsius)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSegments(t *testing.T) {
	b := NewBuffer(8)
	for _, v := range []float64{20, 21} {
		b.Append(sensor.Value(v))
	}
	b.Append(sensor.Missing())
	b.Append(sensor.Value(25))
	b.Append(sensor.Missing())
	b.Append(sensor.Missing())
	for _, v := range []float64{30, 31} {
		b.Append(sensor.Value(v))
	}

	segs := b.Segments(8, sensor.Celsius)
	if len(segs) != 3 {
		t.Fatalf("segments: got %d, want 3", len(segs))
	}
	if segs[0].Start != 0 || len(segs[0].Values) != 2 {
		t.Errorf("seg 0: %+v", segs[0])
	}
	if segs[1].Start != 3 || len(segs[1].Values) != 1 || segs[1].Values[0] != 25 {
		t.Errorf("seg 1: %+v", segs[1])
	}
	if segs[2].Start != 6 || len(segs[2].Values) != 2 {
		t.Errorf("seg 2: %+v", segs[2])
	}

	empty := NewBuffer(4)
	if segs := empty.Segments(4, sensor.Celsius); len(segs) != 0 {
		t.Errorf("all-missing buffer: got %d segments, want 0", len(segs))
	}
}

func TestUnitRoundTrip(t *testing.T) {
	for _, c := range []float64{-40, 0, 21.5, 32, 100} {
		back := sensor.FtoC(sensor.CtoF(c))
		if math.Abs(back-c) > 1e-9 {
			t.Errorf("round trip %v: got %v", c, back)
		}
	}
}
