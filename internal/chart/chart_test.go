package chart

import (
	"strings"
	"testing"

	"github.com/luki/thermo/internal/sensor"
)

func TestRenderGaps(t *testing.T) {
	snap := []sensor.Sample{
		sensor.Value(20),
		sensor.Missing(),
		sensor.Value(45),
	}
	out := Render(snap, 3, 10, 50, 32, 21)
	if out == "" {
		t.Fatal("expected output")
	}
	if !strings.Contains(out, "╌") {
		t.Error("missing sample should render as a gap dash")
	}
	t.Logf("sparkline: %s", out)
}

func TestRenderPadsShortSnapshot(t *testing.T) {
	snap := []sensor.Sample{sensor.Value(25)}
	out := Render(snap, 5, 10, 50, 32, 21)
	if n := strings.Count(out, "╌"); n != 4 {
		t.Errorf("pad dashes: got %d, want 4", n)
	}
}

func TestRenderTruncatesWideSnapshot(t *testing.T) {
	snap := make([]sensor.Sample, 10)
	for i := range snap {
		snap[i] = sensor.Value(float64(10 + i*4))
	}
	out := Render(snap, 4, 10, 50, 32, 21)
	if out == "" {
		t.Fatal("expected output")
	}
	if strings.Contains(out, "╌") {
		t.Error("full-width snapshot should have no gaps")
	}
}

func TestTempColorBands(t *testing.T) {
	if TempColor(35, 32, 21) != colorHigh {
		t.Error("above high threshold should be the alert color")
	}
	if TempColor(15, 32, 21) != colorLow {
		t.Error("below low threshold should be the cold color")
	}
	if TempColor(25, 32, 21) != colorOk {
		t.Error("in-band value should be the ok color")
	}
}

func TestRange(t *testing.T) {
	lo, hi := Range(sensor.Celsius)
	if lo != 10 || hi != 50 {
		t.Errorf("celsius range: got %v..%v", lo, hi)
	}
	lo, hi = Range(sensor.Fahrenheit)
	if lo != 50 || hi != 122 {
		t.Errorf("fahrenheit range: got %v..%v", lo, hi)
	}
}
