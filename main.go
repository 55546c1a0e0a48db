// Command thermo runs the smart thermometer station: an HTTP endpoint
// the ESP32 posts temperature readings to, a once-per-second
// aggregation loop feeding two rolling histories, threshold SMS
// alerts, and a terminal dashboard. Run with -view to browse the
// persisted history offline instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/handlers"
	"github.com/lmittmann/tint"

	"github.com/luki/thermo/internal/agg"
	"github.com/luki/thermo/internal/alert"
	"github.com/luki/thermo/internal/api"
	"github.com/luki/thermo/internal/config"
	"github.com/luki/thermo/internal/ingest"
	"github.com/luki/thermo/internal/monitor"
	"github.com/luki/thermo/internal/notify"
	"github.com/luki/thermo/internal/sensor"
	"github.com/luki/thermo/internal/store"
	"github.com/luki/thermo/internal/viewer"
)

func main() {
	configPath := flag.String("config", "thermo.yaml", "path to the YAML configuration file")
	view := flag.Bool("view", false, "browse the persisted history instead of running the station")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	alertCfg := alert.Config{
		HighC:    cfg.Alerts.HighC,
		LowC:     cfg.Alerts.LowC,
		Cooldown: cfg.Alerts.Cooldown,
	}

	if *view {
		if err := viewer.Run(cfg.Persistence.Path, cfg.History.Capacity, cfg.Unit(), alertCfg); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	log, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg, alertCfg, log); err != nil {
		log.Error("station failed", "error", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the station logger. The TUI owns the terminal, so
// logs default to a file; tint colors are disabled there.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
		return log, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log := slog.New(tint.NewHandler(f, &tint.Options{Level: slog.LevelInfo, NoColor: true}))
	return log, func() { f.Close() }, nil
}

func run(cfg config.Config, alertCfg alert.Config, log *slog.Logger) error {
	mailbox := &ingest.Mailbox{}
	commands := ingest.NewCommands(cfg.CommandDebounce)

	fs := store.New(cfg.Persistence.Path)
	restored := map[sensor.ID][]sensor.Sample{}
	if h1, h2, err := fs.Load(); err != nil {
		log.Info("no usable history snapshot, starting empty", "path", fs.Path(), "reason", err)
	} else {
		restored[sensor.Probe1] = h1
		restored[sensor.Probe2] = h2
		log.Info("restored history snapshot", "path", fs.Path(), "points", len(h1))
	}
	saver := store.NewSaver(fs, log)

	var notifier notify.Notifier
	if cfg.Alerts.SMSWebhook != "" {
		gw, err := notify.NewSMSGateway(cfg.Alerts.SMSWebhook, cfg.Alerts.SMSTo, cfg.Alerts.SMSFrom)
		if err != nil {
			return fmt.Errorf("sms gateway: %w", err)
		}
		notifier = gw
	} else {
		log.Info("no SMS webhook configured, alerts go to the log only")
		notifier = notify.LogNotifier{Log: log}
	}

	aggregator := agg.New(agg.Options{
		Capacity:    cfg.History.Capacity,
		Window:      cfg.History.Window,
		LinkTimeout: cfg.LinkTimeout,
		Unit:        cfg.Unit(),
		Alerts:      alertCfg,
	}, mailbox, commands, notifier, saver, restored, log)

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: handlers.LoggingHandler(logWriter{log}, api.NewServer(mailbox, commands, log, nil).Router()),
	}
	go func() {
		log.Info("device endpoint listening", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "error", err)
		}
	}()

	var flushOnce sync.Once
	flush := func() {
		flushOnce.Do(func() {
			// Final snapshot is best-effort: the periodic saver
			// already wrote recent state.
			saver.Close()
			h1, h2 := aggregator.Histories()
			if err := fs.Save(h1, h2); err != nil {
				log.Error("final history snapshot failed", "error", err)
			}
		})
	}

	p := tea.NewProgram(
		monitor.New(aggregator, commands, alertCfg, cfg.Tick, flush),
		tea.WithAltScreen(),
	)
	_, runErr := p.Run()
	flush()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("dashboard: %w", runErr)
	}
	log.Info("station stopped")
	return nil
}

// logWriter adapts slog for gorilla's request logging middleware.
type logWriter struct {
	log *slog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.log.Debug("http", "line", string(p))
	return len(p), nil
}
