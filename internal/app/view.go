package app

import (
	"fmt"
	"strings"

	"github.com/wahlandcase/subsync/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current screen
func (m Model) View() string {
	var sections []string

	sections = append(sections, ui.RenderBanner(m.dryRun))
	sections = append(sections, "")
	sections = append(sections, m.flow)
	sections = append(sections, "")

	switch m.screen {
	case ScreenRunning:
		sections = append(sections, m.renderRunning())
	case ScreenSummary:
		sections = append(sections, ui.RenderSummary(m.results, m.dryRun))
	case ScreenHistory:
		sections = append(sections, m.renderHistory())
	}

	sections = append(sections, "")
	sections = append(sections, m.renderStatusBar())

	content := strings.Join(sections, "\n")
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
}

func (m Model) renderRunning() string {
	var lines []string

	countStyle := lipgloss.NewStyle().Foreground(ui.ColorWhite)
	header := fmt.Sprintf("Updating Repositories %s", countStyle.Render(fmt.Sprintf("(%d/%d)", m.completed(), len(m.rows))))
	lines = append(lines, ui.SectionHeader(header, ui.ColorMagenta))
	lines = append(lines, "")

	spinnerStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan)
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)

	for _, row := range m.rows {
		var icon string
		var color lipgloss.Color
		if row.status == "running" {
			icon = spinnerStyle.Render(ui.Spinner(m.spinnerFrame))
			color = ui.StepColor(row.step)
		} else {
			var c lipgloss.Color
			icon, c = ui.StatusIcon(row.status)
			icon = lipgloss.NewStyle().Foreground(c).Render(icon)
			color = c
		}

		name := lipgloss.NewStyle().Foreground(color).Bold(row.status == "running").Render(row.name)
		line := fmt.Sprintf("   %s %s", icon, name)
		if row.status == "running" && row.message != "" {
			line += dimStyle.Render(fmt.Sprintf("  %s → %s", row.step, row.message))
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "   "+ui.ProgressBar(m.completed(), len(m.rows), 30))
	return strings.Join(lines, "\n")
}

func (m Model) renderHistory() string {
	var lines []string
	lines = append(lines, "")

	if len(m.history) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
		lines = append(lines, dimStyle.Render("  No pull requests opened in the last 24h"))
		lines = append(lines, "")
	} else {
		for i, pr := range m.history {
			isSelected := i == m.historyIndex
			arrow := "  "
			if isSelected {
				arrow = "▶ "
			}

			var repoStyle, baseStyle, urlStyle, arrowStyle lipgloss.Style
			if isSelected {
				repoStyle = lipgloss.NewStyle().Foreground(ui.ColorCyan).Bold(true).Background(ui.ColorDarkGray)
				baseStyle = lipgloss.NewStyle().Foreground(ui.ColorYellow).Background(ui.ColorDarkGray)
				urlStyle = lipgloss.NewStyle().Foreground(ui.ColorWhite).Background(ui.ColorDarkGray)
				arrowStyle = lipgloss.NewStyle().Foreground(ui.ColorCyan).Background(ui.ColorDarkGray)
			} else {
				repoStyle = lipgloss.NewStyle().Foreground(ui.ColorCyan).Bold(true)
				baseStyle = lipgloss.NewStyle().Foreground(ui.ColorYellow)
				urlStyle = lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
				arrowStyle = lipgloss.NewStyle().Foreground(ui.ColorCyan)
			}

			line := arrowStyle.Render(arrow) + repoStyle.Render(pr.RepoName) + " " +
				baseStyle.Render("(→ "+pr.Base+", "+pr.CreatedAt.Local().Format("15:04")+")")
			lines = append(lines, line)
			lines = append(lines, "   "+urlStyle.Render(pr.URL))
			lines = append(lines, "")
		}
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorMagenta)
	return titleStyle.Render(fmt.Sprintf(" 📋 History (%d) ", len(m.history))) + "\n" + strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	var keys []string
	switch m.screen {
	case ScreenRunning:
		keys = append(keys, ui.KeyBinding("q", "abort", ui.ColorRed))
	case ScreenSummary:
		keys = append(keys,
			ui.KeyBinding("h", "history", ui.ColorMagenta),
			ui.KeyBinding("q", "quit", ui.ColorRed),
		)
	case ScreenHistory:
		keys = append(keys,
			ui.KeyBinding("↑/↓", "move", ui.ColorCyan),
			ui.KeyBinding("esc", "back", ui.ColorYellow),
			ui.KeyBinding("q", "quit", ui.ColorRed),
		)
	}
	return "  " + strings.Join(keys, "   ")
}

// RenderHistory renders history entries for the non-interactive history command
func RenderHistory(entries []HistoryEntry) string {
	var b strings.Builder
	b.WriteString(ui.SectionHeader("LAST 24H", ui.ColorMagenta))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorDarkGray).Render("  No pull requests opened in the last 24h"))
		b.WriteString("\n")
		return b.String()
	}

	repoStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s %s %s\n",
			dimStyle.Render(e.CreatedAt.Local().Format("15:04")),
			repoStyle.Render(e.RepoName),
			e.URL,
		)
	}
	return b.String()
}
