package sensor

import (
	"math"
	"testing"
)

func TestSampleMissingIsZeroValue(t *testing.T) {
	var s Sample
	if s.OK {
		t.Error("zero value should be missing")
	}
	if _, ok := s.In(Fahrenheit); ok {
		t.Error("missing sample has no value in any unit")
	}

	v := Value(21.5)
	if c, ok := v.In(Celsius); !ok || c != 21.5 {
		t.Errorf("In(C): got %v %v", c, ok)
	}
	if f, ok := v.In(Fahrenheit); !ok || math.Abs(f-70.7) > 1e-9 {
		t.Errorf("In(F): got %v %v", f, ok)
	}
}

func TestUnitToggleAndString(t *testing.T) {
	if Celsius.Toggle() != Fahrenheit || Fahrenheit.Toggle() != Celsius {
		t.Error("Toggle should flip units")
	}
	if Celsius.String() != "°C" || Fahrenheit.String() != "°F" {
		t.Error("unexpected unit strings")
	}
	if Probe1.String() != "sensor1" || Probe2.String() != "sensor2" {
		t.Error("unexpected probe strings")
	}
}

func TestBatchSample(t *testing.T) {
	var empty Batch
	if empty.Sample(Probe1).OK {
		t.Error("empty batch should yield missing")
	}

	b := Batch{Temps: map[ID]Sample{Probe1: Value(20)}}
	if got := b.Sample(Probe1); !got.OK || got.C != 20 {
		t.Errorf("Probe1: got %+v", got)
	}
	if b.Sample(Probe2).OK {
		t.Error("unreported probe should yield missing")
	}
}
