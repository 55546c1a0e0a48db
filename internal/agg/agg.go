// Package agg drives the once-per-second aggregation step: it drains
// the ingest mailbox, reconciles readings with the desired probe
// state, tracks link liveness, appends to the rolling histories,
// evaluates alerts, schedules persistence, and produces the display
// frame for the dashboard.
package agg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/luki/thermo/internal/alert"
	"github.com/luki/thermo/internal/history"
	"github.com/luki/thermo/internal/ingest"
	"github.com/luki/thermo/internal/notify"
	"github.com/luki/thermo/internal/sensor"
	"github.com/luki/thermo/internal/store"
)

// ProbeView is the per-sensor display state for one tick.
type ProbeView struct {
	ID sensor.ID
	// Label is the status text: "OFF", "no data", "no data available"
	// (link down), or a formatted temperature like "23.50°C".
	Label string
	// Present is true when Label carries a temperature.
	Present bool
	Desired bool
	Alert   alert.State
	// Series is the display window in the active unit, oldest first;
	// missing entries are gaps.
	Series []sensor.Sample
	// Segments are the drawable runs of Series; gaps between them are
	// missing data.
	Segments []history.Segment
}

// Frame is the view model handed to the dashboard once per tick.
type Frame struct {
	At       time.Time
	Live     bool
	Unit     sensor.Unit
	Window   int
	Commands ingest.Snapshot
	Probes   []ProbeView
}

// Options configures an Aggregator.
type Options struct {
	Capacity    int
	Window      int
	LinkTimeout time.Duration
	Unit        sensor.Unit
	Alerts      alert.Config
}

// Aggregator owns the rolling histories, link state, and alert engine.
// All methods must be called from the single tick goroutine; the only
// concurrency-safe surfaces it touches are the mailbox and commands.
type Aggregator struct {
	opts     Options
	log      *slog.Logger
	mailbox  *ingest.Mailbox
	commands *ingest.Commands
	engine   *alert.Engine
	notifier notify.Notifier
	saver    *store.Saver

	histories map[sensor.ID]*history.Buffer
	lastValue map[sensor.ID]sensor.Sample

	lastMessageAt time.Time
	live          bool
	unit          sensor.Unit
}

// New creates an aggregator. The restored map may hold previously
// persisted oldest-first histories; missing entries start empty. The
// saver may be nil to disable persistence (tests).
func New(opts Options, mailbox *ingest.Mailbox, commands *ingest.Commands, notifier notify.Notifier, saver *store.Saver, restored map[sensor.ID][]sensor.Sample, log *slog.Logger) *Aggregator {
	a := &Aggregator{
		opts:      opts,
		log:       log,
		mailbox:   mailbox,
		commands:  commands,
		notifier:  notifier,
		saver:     saver,
		histories: map[sensor.ID]*history.Buffer{},
		lastValue: map[sensor.ID]sensor.Sample{},
		unit:      opts.Unit,
	}
	for _, id := range sensor.IDs {
		a.histories[id] = history.Restore(opts.Capacity, restored[id])
	}
	a.engine = alert.NewEngine(opts.Alerts, a.dispatch)
	return a
}

// dispatch delivers one alert without blocking the tick loop.
func (a *Aggregator) dispatch(ev notify.Event) {
	a.log.Info("alert fired",
		"event_id", ev.ID, "sensor", ev.Sensor.String(), "kind", string(ev.Kind), "value_c", ev.ValueC)
	notifier := a.notifier
	if notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := notifier.Notify(ctx, ev); err != nil {
			a.log.Error("alert delivery failed", "event_id", ev.ID, "error", err)
		}
	}()
}

// Unit returns the active display unit.
func (a *Aggregator) Unit() sensor.Unit {
	return a.unit
}

// ToggleUnit switches the display unit and returns the new one.
// Stored values stay in Celsius; only read-time conversion changes.
func (a *Aggregator) ToggleUnit() sensor.Unit {
	a.unit = a.unit.Toggle()
	return a.unit
}

// Tick runs one aggregation step at the given instant and returns the
// display frame. A panic inside the step is logged and yields the
// previous state's frame; the next tick proceeds normally.
func (a *Aggregator) Tick(now time.Time) (frame Frame) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("tick panicked", "panic", fmt.Sprint(r))
			frame = a.frame(now)
		}
	}()

	batch, got := a.mailbox.TakeLatest()

	// Effective value per probe: the batch reading gated by desired
	// state. A disabled probe's data is never recorded, whatever the
	// device reports.
	effective := map[sensor.ID]sensor.Sample{}
	if got {
		a.lastMessageAt = batch.ReceivedAt
		for _, id := range sensor.IDs {
			s := batch.Sample(id)
			a.lastValue[id] = s
			if a.commands.Desired(id) && s.OK {
				effective[id] = s
			} else {
				effective[id] = sensor.Missing()
			}
		}
	}

	// Liveness is recomputed every tick from message recency, never
	// event-driven.
	wasLive := a.live
	a.live = !a.lastMessageAt.IsZero() && now.Sub(a.lastMessageAt) <= a.opts.LinkTimeout
	if wasLive != a.live {
		a.log.Info("device link changed", "live", a.live)
	}

	for _, id := range sensor.IDs {
		if !a.live {
			// No data can mean no data: the graph keeps scrolling
			// with gaps while the device is unreachable.
			a.histories[id].Append(sensor.Missing())
			continue
		}
		v := effective[id] // missing when no batch arrived this tick
		a.histories[id].Append(v)
		if v.OK {
			a.engine.Evaluate(id, v.C, now)
		}
	}

	if a.saver != nil {
		a.saver.Enqueue(a.histories[sensor.Probe1].Values(), a.histories[sensor.Probe2].Values())
	}

	return a.frame(now)
}

// Histories returns the full stored sequences oldest-first, for the
// final shutdown snapshot.
func (a *Aggregator) Histories() (h1, h2 []sensor.Sample) {
	return a.histories[sensor.Probe1].Values(), a.histories[sensor.Probe2].Values()
}

func (a *Aggregator) frame(now time.Time) Frame {
	f := Frame{
		At:       now,
		Live:     a.live,
		Unit:     a.unit,
		Window:   a.opts.Window,
		Commands: a.commands.Get(),
	}
	for _, id := range sensor.IDs {
		v := ProbeView{
			ID:       id,
			Desired:  a.commands.Desired(id),
			Alert:    a.engine.State(id),
			Series:   a.histories[id].Snapshot(a.opts.Window, a.unit),
			Segments: a.histories[id].Segments(a.opts.Window, a.unit),
		}
		v.Label, v.Present = a.label(id)
		f.Probes = append(f.Probes, v)
	}
	return f
}

func (a *Aggregator) label(id sensor.ID) (string, bool) {
	if !a.live {
		return "no data available", false
	}
	if !a.commands.Desired(id) {
		return "OFF", false
	}
	last := a.lastValue[id]
	v, ok := last.In(a.unit)
	if !ok {
		return "no data", false
	}
	return fmt.Sprintf("%.2f%s", v, a.unit), true
}
