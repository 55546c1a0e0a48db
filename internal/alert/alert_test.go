package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luki/thermo/internal/notify"
	"github.com/luki/thermo/internal/sensor"
)

func collectEngine(cfg Config) (*Engine, *[]notify.Event) {
	var fired []notify.Event
	e := NewEngine(cfg, func(ev notify.Event) {
		fired = append(fired, ev)
	})
	return e, &fired
}

func TestEdgeTriggeredFiresOncePerCrossing(t *testing.T) {
	e, fired := collectEngine(Config{HighC: 32, LowC: 18})
	now := time.Now()

	// The dip through the safe band at index 4 re-arms, so the
	// second 33 fires again; the repeated 34/33 while alerted do not.
	values := []float64{30, 33, 34, 33, 20, 33}
	var firedAt []int
	for i, v := range values {
		before := len(*fired)
		e.Evaluate(sensor.Probe1, v, now.Add(time.Duration(i)*time.Second))
		if len(*fired) > before {
			firedAt = append(firedAt, i)
		}
	}

	require.Equal(t, []int{1, 5}, firedAt)
	for _, ev := range *fired {
		require.Equal(t, notify.KindHigh, ev.Kind)
		require.Equal(t, sensor.Probe1, ev.Sensor)
	}
}

func TestLowCrossing(t *testing.T) {
	e, fired := collectEngine(Config{HighC: 32, LowC: 21})
	now := time.Now()

	e.Evaluate(sensor.Probe2, 22, now)
	require.Empty(t, *fired)
	require.Equal(t, Normal, e.State(sensor.Probe2))

	e.Evaluate(sensor.Probe2, 19.5, now.Add(time.Second))
	require.Len(t, *fired, 1)
	require.Equal(t, notify.KindLow, (*fired)[0].Kind)
	require.Equal(t, 21.0, (*fired)[0].LimitC)
	require.Equal(t, AlertedLow, e.State(sensor.Probe2))

	// Still low: no re-fire without a cooldown.
	e.Evaluate(sensor.Probe2, 19.0, now.Add(2*time.Second))
	require.Len(t, *fired, 1)

	// Back in band: silent re-arm.
	e.Evaluate(sensor.Probe2, 22, now.Add(3*time.Second))
	require.Len(t, *fired, 1)
	require.Equal(t, Normal, e.State(sensor.Probe2))
}

func TestHighToLowJumpFires(t *testing.T) {
	e, fired := collectEngine(Config{HighC: 32, LowC: 18})
	now := time.Now()

	e.Evaluate(sensor.Probe1, 35, now)
	e.Evaluate(sensor.Probe1, 10, now.Add(time.Second))

	require.Len(t, *fired, 2)
	require.Equal(t, notify.KindHigh, (*fired)[0].Kind)
	require.Equal(t, notify.KindLow, (*fired)[1].Kind)
	require.Equal(t, AlertedLow, e.State(sensor.Probe1))
}

func TestCooldownRefiresWhileOutOfRange(t *testing.T) {
	e, fired := collectEngine(Config{HighC: 32, LowC: 18, Cooldown: 30 * time.Second})
	base := time.Now()

	e.Evaluate(sensor.Probe1, 35, base)
	require.Len(t, *fired, 1)

	// Within the cooldown: still suppressed.
	e.Evaluate(sensor.Probe1, 36, base.Add(10*time.Second))
	require.Len(t, *fired, 1)

	// Cooldown elapsed and still out of range: re-fire.
	e.Evaluate(sensor.Probe1, 36, base.Add(31*time.Second))
	require.Len(t, *fired, 2)
}

func TestProbesAreIndependent(t *testing.T) {
	e, fired := collectEngine(Config{HighC: 32, LowC: 18})
	now := time.Now()

	e.Evaluate(sensor.Probe1, 40, now)
	e.Evaluate(sensor.Probe2, 25, now)

	require.Len(t, *fired, 1)
	require.Equal(t, AlertedHigh, e.State(sensor.Probe1))
	require.Equal(t, Normal, e.State(sensor.Probe2))
}
