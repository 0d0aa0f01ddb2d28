package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-salat/internal/salat"
)

// Styles for the schedule table
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	activeRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	nightRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(0, 1)

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	restrictedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// Table renders the schedule as a styled table. The row in effect at at is
// highlighted and absent instants are flagged.
func Table(pt *salat.PrayerTimes, at time.Time) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-16s %-6s", "Prayer", "Time")))
	b.WriteString("\n")

	for _, r := range GenerateSummaryRows(pt, at) {
		line := fmt.Sprintf("%-16s %-6s", truncateStr(r.Name, 16), r.Time())
		switch {
		case r.Active:
			b.WriteString(activeRowStyle.Render(line))
		case !r.OK:
			b.WriteString(rowStyle.Render(line) + missingStyle.Render("undefined"))
		case r.Prayer == salat.Midnight || r.Prayer == salat.Qiyam || r.Prayer == salat.FajrTomorrow:
			b.WriteString(nightRowStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Status renders the current event and the countdown to the next one.
func Status(pt *salat.PrayerTimes, at time.Time) string {
	current := pt.Current(at)
	name := current.DisplayName(pt.Date())
	if current.IsRestricted() {
		name = restrictedStyle.Render(name)
	}

	line := "Now: " + name
	if next, _, ok := pt.Next(at); ok {
		remaining, _ := pt.TimeRemaining(at)
		line += fmt.Sprintf("  ·  %s in %s", next.DisplayName(pt.Date()), Countdown(remaining))
	}
	return line
}
