// Package monitor implements the live station dashboard using
// BubbleTea. Its 1s tick drives the aggregator, and each resulting
// frame is rendered as per-probe readouts plus gap-aware sparklines.
package monitor

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/thermo/internal/agg"
	"github.com/luki/thermo/internal/alert"
	"github.com/luki/thermo/internal/chart"
	"github.com/luki/thermo/internal/ingest"
	"github.com/luki/thermo/internal/sensor"
)

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the dashboard.
type Model struct {
	agg      *agg.Aggregator
	commands *ingest.Commands
	alerts   alert.Config
	interval time.Duration

	frame     agg.Frame
	width     int
	height    int
	startTime time.Time
	onQuit    func()
}

// New creates the dashboard model. onQuit runs once when the user
// quits, before the program exits (used for the final snapshot flush).
func New(a *agg.Aggregator, commands *ingest.Commands, alerts alert.Config, interval time.Duration, onQuit func()) Model {
	return Model{
		agg:       a,
		commands:  commands,
		alerts:    alerts,
		interval:  interval,
		startTime: time.Now(),
		onQuit:    onQuit,
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		case "1":
			m.commands.Toggle(sensor.Probe1, time.Now())
		case "2":
			m.commands.Toggle(sensor.Probe2, time.Now())
		case "u":
			m.agg.ToggleUnit()
		case "d":
			m.commands.ToggleDisplay(time.Now())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.frame = m.agg.Tick(time.Time(msg))
		return m, m.tickCmd()
	}

	return m, nil
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg = lipgloss.Color("17")
	colorTitleFg = lipgloss.Color("51")
	colorBorder  = lipgloss.Color("62")
	colorLabel   = lipgloss.Color("252")
	colorDim     = lipgloss.Color("240")
	colorFooter  = lipgloss.Color("235")
	colorLive    = lipgloss.Color("78")
	colorDown    = lipgloss.Color("196")
	colorAlert   = lipgloss.Color("208")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderTitleBar(contentWidth))
	for _, p := range m.frame.Probes {
		sections = append(sections, m.renderProbePanel(p, contentWidth))
	}
	sections = append(sections, m.renderFooter(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("SMART THERMOMETER")

	var statusParts []string

	link := lipgloss.NewStyle().Foreground(colorDown).Render("LINK DOWN")
	if m.frame.Live {
		link = lipgloss.NewStyle().Foreground(colorLive).Render("LINK LIVE")
	}
	statusParts = append(statusParts, link)

	display := "display off"
	if m.frame.Commands.DisplayOn {
		display = "display on"
	}
	statusParts = append(statusParts, lipgloss.NewStyle().Foreground(colorDim).Render(display))

	uptime := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime))))
	statusParts = append(statusParts, uptime)

	if !m.frame.At.IsZero() {
		ts := lipgloss.NewStyle().
			Foreground(colorDim).
			Render(m.frame.At.Format("15:04:05"))
		statusParts = append(statusParts, ts)
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderProbePanel(p agg.ProbeView, totalWidth int) string {
	innerWidth := totalWidth - 4
	if innerWidth < 30 {
		innerWidth = 30
	}

	name := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorLabel).
		Render(fmt.Sprintf("Sensor %d", int(p.ID)))

	labelStyle := lipgloss.NewStyle().Foreground(colorDim)
	if p.Present {
		labelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorLive)
		if p.Alert != alert.Normal {
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAlert)
		}
	}
	label := labelStyle.Render(p.Label)

	alertTag := ""
	if p.Alert != alert.Normal {
		alertTag = "  " + lipgloss.NewStyle().
			Foreground(colorDown).
			Bold(true).
			Render(strings.ToUpper(p.Alert.String()))
	}

	header := name + "  " + label + alertTag

	chartWidth := innerWidth
	if chartWidth > m.frame.Window {
		chartWidth = m.frame.Window
	}

	rangeMin, rangeMax := chart.Range(m.frame.Unit)
	highC, lowC := m.alerts.HighC, m.alerts.LowC
	if m.frame.Unit == sensor.Fahrenheit {
		highC = sensor.CtoF(highC)
		lowC = sensor.CtoF(lowC)
	}
	spark := chart.Render(p.Series, chartWidth, rangeMin, rangeMax, highC, lowC)

	content := lipgloss.JoinVertical(lipgloss.Left, header, spark)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(content)
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	unit := dimS.Render("unit ") + keyS.Render(m.frame.Unit.String())

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  1/2") + keyS.Render(":toggle sensor") +
		dimS.Render("  u") + keyS.Render(":unit") +
		dimS.Render("  d") + keyS.Render(":display")

	gap := width - lipgloss.Width(unit) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooter).
		Width(width).
		Padding(0, 1).
		Render(unit + strings.Repeat(" ", gap) + keys)
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	min := d / time.Minute
	d -= min * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, min, s)
	}
	return fmt.Sprintf("%dm%02ds", min, s)
}
