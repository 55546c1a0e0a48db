// Package viewer implements the offline snapshot browser: it loads the
// persisted history file and lets you scrub through the stored window
// without a device attached.
package viewer

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/thermo/internal/alert"
	"github.com/luki/thermo/internal/chart"
	"github.com/luki/thermo/internal/history"
	"github.com/luki/thermo/internal/sensor"
	"github.com/luki/thermo/internal/store"
)

// Run loads the snapshot at path and launches the browser.
func Run(path string, capacity int, unit sensor.Unit, alerts alert.Config) error {
	h1, h2, err := store.New(path).Load()
	if err != nil {
		return fmt.Errorf("no usable history at %s: %w", path, err)
	}

	m := model{
		path:   path,
		unit:   unit,
		alerts: alerts,
		buffers: map[sensor.ID]*history.Buffer{
			sensor.Probe1: history.Restore(capacity, h1),
			sensor.Probe2: history.Restore(capacity, h2),
		},
		capacity: capacity,
		cursor:   capacity - 1,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// ── Model ────────────────────────────────────────────────────────────

type model struct {
	path     string
	unit     sensor.Unit
	alerts   alert.Config
	buffers  map[sensor.ID]*history.Buffer
	capacity int
	cursor   int // slot index, 0 = oldest
	width    int
	height   int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < m.capacity-1 {
				m.cursor++
			}
		case "shift+left", "H":
			m.cursor -= 60
			if m.cursor < 0 {
				m.cursor = 0
			}
		case "shift+right", "L":
			m.cursor += 60
			if m.cursor >= m.capacity {
				m.cursor = m.capacity - 1
			}
		case "home":
			m.cursor = 0
		case "end":
			m.cursor = m.capacity - 1
		case "u":
			m.unit = m.unit.Toggle()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// ── View ─────────────────────────────────────────────────────────────

var (
	colorTitleBg = lipgloss.Color("17")
	colorTitleFg = lipgloss.Color("51")
	colorBorder  = lipgloss.Color("62")
	colorLabel   = lipgloss.Color("252")
	colorDim     = lipgloss.Color("240")
	colorCursor  = lipgloss.Color("214")
)

func (m model) View() string {
	if m.width == 0 {
		return "  Loading..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderTitle(contentWidth))
	sections = append(sections, m.renderCursorInfo(contentWidth))
	for _, id := range sensor.IDs {
		sections = append(sections, m.renderPanel(id, contentWidth))
	}
	sections = append(sections, m.renderFooter(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) renderTitle(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("THERMO HISTORY")

	info := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("%s  (%d slots)", m.path, m.capacity))

	gap := width - lipgloss.Width(logo) - lipgloss.Width(info) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + info)
}

func (m model) renderCursorInfo(width int) string {
	secondsAgo := m.capacity - 1 - m.cursor
	pos := lipgloss.NewStyle().
		Foreground(colorCursor).
		Bold(true).
		Render(fmt.Sprintf("%ds ago", secondsAgo))

	var parts []string
	for _, id := range sensor.IDs {
		snap := m.buffers[id].Snapshot(m.capacity, m.unit)
		text := "no data"
		if s := snap[m.cursor]; s.OK {
			text = fmt.Sprintf("%.2f%s", s.C, m.unit)
		}
		parts = append(parts, fmt.Sprintf("S%d %s", int(id), text))
	}

	detail := lipgloss.NewStyle().
		Foreground(colorLabel).
		Render(strings.Join(parts, "   "))

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render("  " + pos + "   " + detail)
}

func (m model) renderPanel(id sensor.ID, totalWidth int) string {
	innerWidth := totalWidth - 4
	if innerWidth < 30 {
		innerWidth = 30
	}

	chartWidth := innerWidth
	if chartWidth > m.capacity {
		chartWidth = m.capacity
	}

	rangeMin, rangeMax := chart.Range(m.unit)
	highC, lowC := m.alerts.HighC, m.alerts.LowC
	if m.unit == sensor.Fahrenheit {
		highC = sensor.CtoF(highC)
		lowC = sensor.CtoF(lowC)
	}

	snap := m.buffers[id].Snapshot(m.capacity, m.unit)
	spark := chart.Render(snap, chartWidth, rangeMin, rangeMax, highC, lowC)

	name := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorLabel).
		Render(fmt.Sprintf("Sensor %d", int(id)))

	content := lipgloss.JoinVertical(lipgloss.Left, name, spark)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(content)
}

func (m model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  h/l") + keyS.Render(":scrub") +
		dimS.Render("  H/L") + keyS.Render(":skip 1m") +
		dimS.Render("  home/end") + keyS.Render(":jump") +
		dimS.Render("  u") + keyS.Render(":unit")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(width).
		Padding(0, 1).
		Render(keys)
}
