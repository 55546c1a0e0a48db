// Package chart renders the temperature history as a sparkline with
// explicit gaps: missing samples draw as dim dashes so a disabled
// probe or a dead link is visible as a hole in the line, never as a
// fake reading.
package chart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/thermo/internal/sensor"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	colorGap  = lipgloss.Color("236")
	colorOk   = lipgloss.Color("78")
	colorWarm = lipgloss.Color("220")
	colorHigh = lipgloss.Color("196")
	colorLow  = lipgloss.Color("33")
)

// TempColor returns the color for a value given the alert band.
func TempColor(v, highC, lowC float64) lipgloss.Color {
	switch {
	case v > highC:
		return colorHigh
	case v >= highC*0.9:
		return colorWarm
	case v < lowC:
		return colorLow
	default:
		return colorOk
	}
}

// Render draws one row of spark blocks for a snapshot, most recent
// sample rightmost. The snapshot values are in display units; the
// thresholds must be given in the same unit. A snapshot wider than
// width is truncated to its most recent samples.
func Render(snap []sensor.Sample, width int, rangeMin, rangeMax, highC, lowC float64) string {
	if width <= 0 {
		return ""
	}
	if len(snap) > width {
		snap = snap[len(snap)-width:]
	}

	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	dim := lipgloss.NewStyle().Foreground(colorGap)

	for i := 0; i < width-len(snap); i++ {
		sb.WriteString(dim.Render("╌"))
	}

	for _, s := range snap {
		if !s.OK {
			sb.WriteString(dim.Render("╌"))
			continue
		}
		norm := (s.C - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))
		idx := int(norm * 7)
		style := lipgloss.NewStyle().Foreground(TempColor(s.C, highC, lowC))
		if s.C > highC {
			style = style.Bold(true)
		}
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}

	return sb.String()
}

// Range returns the fixed y-axis bounds for a display unit, matching
// the thermometer's plotting range.
func Range(u sensor.Unit) (min, max float64) {
	if u == sensor.Fahrenheit {
		return 50, 122
	}
	return 10, 50
}
