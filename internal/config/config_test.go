package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luki/thermo/internal/sensor"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	require.Equal(t, ":8080", c.Listen)
	require.Equal(t, 500, c.History.Capacity)
	require.Equal(t, 300, c.History.Window)
	require.Equal(t, time.Second, c.Tick)
	require.Equal(t, 2*time.Second, c.LinkTimeout)
	require.Equal(t, time.Second, c.CommandDebounce)
	require.Equal(t, 32.0, c.Alerts.HighC)
	require.Equal(t, 21.0, c.Alerts.LowC)
	require.Zero(t, c.Alerts.Cooldown)
	require.Equal(t, sensor.Celsius, c.Unit())
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thermo.yaml")
	doc := `
listen: ":9090"
history:
  capacity: 600
  window: 120
link_timeout: 5s
alerts:
  high_c: 30
  low_c: 18
  cooldown: 30s
  sms_webhook: "https://sms.example/send"
display:
  unit: F
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", c.Listen)
	require.Equal(t, 600, c.History.Capacity)
	require.Equal(t, 120, c.History.Window)
	require.Equal(t, 5*time.Second, c.LinkTimeout)
	require.Equal(t, 18.0, c.Alerts.LowC)
	require.Equal(t, 30*time.Second, c.Alerts.Cooldown)
	require.Equal(t, "https://sms.example/send", c.Alerts.SMSWebhook)
	require.Equal(t, sensor.Fahrenheit, c.Unit())

	// Untouched fields keep their defaults.
	require.Equal(t, time.Second, c.CommandDebounce)
	require.Equal(t, "temp_history.json", c.Persistence.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"inverted thresholds": "alerts:\n  high_c: 10\n  low_c: 20\n",
		"bad unit":            "display:\n  unit: K\n",
		"zero window":         "history:\n  window: 0\n",
		"not yaml":            ":::{",
	}
	for name, doc := range cases {
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
		_, err := Load(path)
		require.Error(t, err, name)
	}
}
