package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-salat/internal/astro"
	"github.com/litescript/ls-salat/internal/render"
	"github.com/litescript/ls-salat/internal/state"
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9D4EDD")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// tierColors colour the sun line by elevation tier.
var tierColors = map[astro.ElevationTier]lipgloss.Color{
	astro.ElevationNight:        lipgloss.Color("60"),
	astro.ElevationAstronomical: lipgloss.Color("63"),
	astro.ElevationNautical:     lipgloss.Color("99"),
	astro.ElevationCivil:        lipgloss.Color("214"),
	astro.ElevationDay:          lipgloss.Color("226"),
}

// DashboardModel is the schedule view.
type DashboardModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	lastErr  error
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel() DashboardModel {
	return DashboardModel{}
}

// Init implements the Bubble Tea model interface.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	m.lastErr = snapshot.LastError
	return m
}

// SetError sets the last error for display.
func (m DashboardModel) SetError(err error) DashboardModel {
	m.lastErr = err
	return m
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	snap := m.snapshot
	if snap.Displayed == nil {
		if m.lastErr == nil {
			b.WriteString("Computing schedule...\n")
		}
		return b.String()
	}

	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(render.Table(snap.Displayed, snap.Now))
	b.WriteString("\n")

	if snap.Live != nil {
		b.WriteString(render.Status(snap.Live, snap.Now))
		b.WriteString("\n")
		if snap.HasNext {
			b.WriteString("  " + m.renderProgressBar(periodProgress(snap.Since, snap.NextAt, snap.Now), 30))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(m.renderSun())
	b.WriteString("\n")
	b.WriteString(m.renderQiblah())
	b.WriteString("\n")

	if events := m.renderEvents(5); events != "" {
		b.WriteString("\n")
		b.WriteString(events)
	}

	return b.String()
}

func (m DashboardModel) renderTitle() string {
	pt := m.snapshot.Displayed
	title := titleStyle.Render(fmt.Sprintf("%s  %s", pt.Date().Format("Monday 2 January 2006"), pt.Coordinates()))

	var offset string
	switch d := m.snapshot.DayOffset; {
	case d == 0:
		offset = "today"
	case d > 0:
		offset = fmt.Sprintf("today +%dd", d)
	default:
		offset = fmt.Sprintf("today %dd", d)
	}

	params := pt.Parameters()
	return title + "  " + labelStyle.Render(fmt.Sprintf("(%s) %s · %s", offset, params.Method, params.Madhab))
}

// periodProgress returns how far now is between start and end, in [0, 1].
func periodProgress(start, end, now time.Time) float64 {
	if start.IsZero() || !end.After(start) {
		return 0
	}
	f := float64(now.Sub(start)) / float64(end.Sub(start))
	return math.Max(0, math.Min(1, f))
}

func (m DashboardModel) renderProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + accentStyle.Render(bar) + "]"
}

func (m DashboardModel) renderSun() string {
	sun := m.snapshot.Sun
	tier := m.snapshot.Tier
	style := lipgloss.NewStyle().Foreground(tierColors[tier])

	return labelStyle.Render("Sun     ") +
		valueStyle.Render(fmt.Sprintf("el %+6.1f°  az %5.1f°  ", sun.ElDeg, sun.AzDeg)) +
		style.Render(tier.String())
}

func (m DashboardModel) renderQiblah() string {
	bearing := m.snapshot.Qiblah
	return labelStyle.Render("Qiblah  ") +
		valueStyle.Render(fmt.Sprintf("%5.1f° from true north  ", bearing)) +
		accentStyle.Render(compassArrow(bearing))
}

// compassArrow returns the arrow nearest to a bearing in degrees.
func compassArrow(bearing float64) string {
	arrows := []string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}
	b := math.Mod(bearing, 360)
	if b < 0 {
		b += 360
	}
	idx := int(math.Floor((b+22.5)/45)) % len(arrows)
	return arrows[idx]
}

func (m DashboardModel) renderEvents(n int) string {
	events := m.snapshot.Events
	if len(events) == 0 {
		return ""
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent"))
	b.WriteString("\n")
	for _, e := range events {
		line := fmt.Sprintf("  %s  %-8s %s", e.Timestamp.Format("15:04:05"), e.Type, e.Name)
		b.WriteString(labelStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
