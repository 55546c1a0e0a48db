// Package notify delivers threshold alerts. The core only needs a
// "send a notification for this event" capability; delivery runs over
// an SMS gateway webhook, with a log-only fallback for running without
// one configured.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/luki/thermo/internal/sensor"
)

// Kind is the alert direction.
type Kind string

const (
	KindHigh Kind = "high"
	KindLow  Kind = "low"
)

// Event is one fired alert.
type Event struct {
	ID     string // uuid, stamped by NewEvent
	Kind   Kind
	Sensor sensor.ID
	ValueC float64
	ValueF float64
	LimitC float64 // the threshold that was crossed
	At     time.Time
}

// NewEvent builds an event with a fresh delivery ID.
func NewEvent(kind Kind, id sensor.ID, valueC, limitC float64, at time.Time) Event {
	return Event{
		ID:     uuid.NewString(),
		Kind:   kind,
		Sensor: id,
		ValueC: valueC,
		ValueF: sensor.CtoF(valueC),
		LimitC: limitC,
		At:     at,
	}
}

// Body renders the SMS text for the event.
func (e Event) Body() string {
	if e.Kind == KindLow {
		return fmt.Sprintf(
			"Smart Thermometer Alert: Temperature dropped below %.0f°C (%.1f°F).\nCurrent: %.1f°C / %.1f°F.",
			e.LimitC, sensor.CtoF(e.LimitC), e.ValueC, e.ValueF)
	}
	return fmt.Sprintf(
		"Smart Thermometer Alert: Temperature exceeded %.0f°C (%.1f°F).\nCurrent: %.1f°C / %.1f°F.",
		e.LimitC, sensor.CtoF(e.LimitC), e.ValueC, e.ValueF)
}

// Notifier delivers one event. Implementations must be safe to call
// from a goroutine; a returned error means the delivery is dropped,
// not retried.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// SMSGateway posts alert bodies to an SMS webhook endpoint.
type SMSGateway struct {
	url    string
	to     string
	from   string
	client *http.Client
}

// Option configures the gateway.
type Option func(*SMSGateway)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *SMSGateway) {
		if c != nil {
			g.client = c
		}
	}
}

// NewSMSGateway constructs a gateway for the given webhook URL and
// phone numbers.
func NewSMSGateway(url, to, from string, opts ...Option) (*SMSGateway, error) {
	if url == "" {
		return nil, errors.New("sms gateway: empty url")
	}
	g := &SMSGateway{
		url:    url,
		to:     to,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type smsPayload struct {
	ID   string `json:"id"`
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

// Notify posts the event body to the gateway.
func (g *SMSGateway) Notify(ctx context.Context, e Event) error {
	payload, err := json.Marshal(smsPayload{
		ID:   e.ID,
		To:   g.to,
		From: g.from,
		Body: e.Body(),
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier writes alert events to the logger only. Used when no
// gateway URL is configured.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(_ context.Context, e Event) error {
	n.Log.Warn("temperature alert",
		"event_id", e.ID,
		"sensor", e.Sensor.String(),
		"kind", string(e.Kind),
		"value_c", e.ValueC,
		"value_f", e.ValueF,
	)
	return nil
}
