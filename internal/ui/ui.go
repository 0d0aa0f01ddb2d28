// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-salat/internal/state"
	"github.com/litescript/ls-salat/internal/version"
)

// TickMsg triggers a refresh of the live schedule.
type TickMsg time.Time

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager
	clock func() time.Time

	width  int
	height int
	ready  bool
	frame  int

	dashboard DashboardModel
	snapshot  state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager) Model {
	return Model{
		state:     stateMgr,
		clock:     time.Now,
		dashboard: NewDashboardModel(),
	}
}

// WithClock returns a copy of the model reading time from clock.
func (m Model) WithClock(clock func() time.Time) Model {
	m.clock = clock
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return TickMsg(m.clock()) },
		m.dashboard.Init(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "right":
			m.stepDay(1)
		case "k", "left":
			m.stepDay(-1)
		case "t":
			m.state.ResetDay()
			m.pullSnapshot()
		default:
			var cmd tea.Cmd
			m.dashboard, cmd = m.dashboard.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// Header takes 3 lines, footer 2
		m.dashboard = m.dashboard.SetSize(msg.Width, msg.Height-5)

	case TickMsg:
		m.frame++
		_ = m.state.Refresh(m.clock())
		m.pullSnapshot()
		cmds = append(cmds, tickCmd(m.state.RefreshInterval()))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) stepDay(n int) {
	if err := m.state.StepDay(n); err != nil {
		m.dashboard = m.dashboard.SetError(err)
		return
	}
	m.pullSnapshot()
}

func (m *Model) pullSnapshot() {
	m.snapshot = m.state.Snapshot()
	m.dashboard = m.dashboard.UpdateData(m.snapshot)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + m.dashboard.View() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	return "\n  " + gradientText("ls-salat") + muted.Render(fmt.Sprintf("  ·  prayer times  ·  v%s", version.Version)) + "\n"
}

// gradientText renders text with a horizontal blue to pink gradient.
func gradientText(text string) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(i, len(runes))))
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor returns a hex colour for position col of width.
// Blue (#3B82F6) -> Purple (#8B5CF6) -> Magenta (#D946EF) -> Pink (#EC4899)
func gradientColor(col, width int) string {
	x := 0.0
	if width > 1 {
		x = float64(col) / float64(width-1)
	}

	var r, g, b float64
	switch {
	case x < 0.33:
		t := x / 0.33
		r, g, b = 59+t*(139-59), 130+t*(92-130), 246
	case x < 0.66:
		t := (x - 0.33) / 0.33
		r, g, b = 139+t*(217-139), 92+t*(70-92), 246+t*(239-246)
	default:
		t := (x - 0.66) / 0.34
		r, g, b = 217+t*(236-217), 70+t*(72-70), 239+t*(153-239)
	}
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.frame%len(spinnerFrames)]

	var status string
	if !m.snapshot.Now.IsZero() {
		status = accent.Render(spinner) + dimStyle.Render(" "+m.snapshot.Now.Format("15:04:05 MST"))
		if m.snapshot.BuildDuration > 0 {
			status += dimStyle.Render(" (built in " + m.snapshot.BuildDuration.Round(time.Microsecond).String() + ")")
		}
	} else {
		status = accent.Render(spinner) + dimStyle.Render(" waiting for first refresh")
	}

	help := dimStyle.Render("j/k: next/prev day | t: today | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
