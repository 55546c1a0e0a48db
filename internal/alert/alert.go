// Package alert implements the per-sensor threshold state machine that
// decides when a temperature crossing fires a notification.
package alert

import (
	"time"

	"github.com/luki/thermo/internal/notify"
	"github.com/luki/thermo/internal/sensor"
)

// State is the alert condition of one probe.
type State int

const (
	Normal State = iota
	AlertedHigh
	AlertedLow
)

func (s State) String() string {
	switch s {
	case AlertedHigh:
		return "alerted-high"
	case AlertedLow:
		return "alerted-low"
	default:
		return "normal"
	}
}

// Config holds the alert thresholds and re-fire policy. The two GUI
// builds this replaces disagreed on both knobs (21°C edge-triggered vs
// 18°C with a 30s cooldown), so both are configuration rather than
// constants. A zero Cooldown means pure edge triggering: one
// notification per crossing, re-armed only when the value returns
// inside the safe band. A positive Cooldown re-fires after that long
// even while the value stays out of range.
type Config struct {
	HighC    float64
	LowC     float64
	Cooldown time.Duration
}

type probeState struct {
	state       State
	lastFiredAt time.Time
}

// Engine evaluates readings against the thresholds and invokes the
// fire callback on every firing transition, at most once per
// transition. Owned by the tick loop; not safe for concurrent use.
type Engine struct {
	cfg    Config
	fire   func(notify.Event)
	probes map[sensor.ID]*probeState
}

// NewEngine creates an engine that calls fire for every alert that
// should go out.
func NewEngine(cfg Config, fire func(notify.Event)) *Engine {
	return &Engine{
		cfg:    cfg,
		fire:   fire,
		probes: map[sensor.ID]*probeState{},
	}
}

// State returns the probe's current alert condition.
func (e *Engine) State(id sensor.ID) State {
	if p, ok := e.probes[id]; ok {
		return p.state
	}
	return Normal
}

// Evaluate feeds one present reading into the state machine. Missing
// readings are never evaluated; the caller skips them.
func (e *Engine) Evaluate(id sensor.ID, valueC float64, now time.Time) {
	p, ok := e.probes[id]
	if !ok {
		p = &probeState{}
		e.probes[id] = p
	}

	switch {
	case valueC > e.cfg.HighC:
		if p.state != AlertedHigh {
			e.emit(notify.KindHigh, id, valueC, e.cfg.HighC, now, p)
			p.state = AlertedHigh
		} else if e.refireDue(p, now) {
			e.emit(notify.KindHigh, id, valueC, e.cfg.HighC, now, p)
		}
	case valueC < e.cfg.LowC:
		if p.state != AlertedLow {
			e.emit(notify.KindLow, id, valueC, e.cfg.LowC, now, p)
			p.state = AlertedLow
		} else if e.refireDue(p, now) {
			e.emit(notify.KindLow, id, valueC, e.cfg.LowC, now, p)
		}
	default:
		// Back inside the safe band: silent transition, re-arms
		// both directions.
		p.state = Normal
	}
}

func (e *Engine) refireDue(p *probeState, now time.Time) bool {
	return e.cfg.Cooldown > 0 && now.Sub(p.lastFiredAt) >= e.cfg.Cooldown
}

func (e *Engine) emit(kind notify.Kind, id sensor.ID, valueC, limitC float64, now time.Time, p *probeState) {
	p.lastFiredAt = now
	if e.fire != nil {
		e.fire(notify.NewEvent(kind, id, valueC, limitC, now))
	}
}
