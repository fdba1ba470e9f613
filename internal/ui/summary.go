package ui

import (
	"fmt"
	"strings"

	"github.com/wahlandcase/subsync/internal/models"

	"github.com/charmbracelet/lipgloss"
)

// RenderSummary renders one line per target followed by the totals
func RenderSummary(results []models.TargetResult, dryRun bool) string {
	var b strings.Builder
	b.WriteString(SectionHeader("SUMMARY", ColorCyan))
	b.WriteString("\n")

	if len(results) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorDarkGray).Render("  no repositories configured"))
		b.WriteString("\n")
		return b.String()
	}

	nameWidth := 0
	for _, r := range results {
		nameWidth = max(nameWidth, lipgloss.Width(r.Target.Name))
	}
	nameStyle := lipgloss.NewStyle().Width(nameWidth + 2)
	dim := lipgloss.NewStyle().Foreground(ColorDarkGray)

	var created, dry, failed int
	for _, r := range results {
		label := models.StatusLabel(r.Status)
		icon, _ := StatusIcon(label)
		color := StatusColor(r.Status)
		statusStyle := lipgloss.NewStyle().Foreground(color)

		var detail string
		switch {
		case models.IsStatusCreated(r.Status):
			created++
			detail = r.PrURL
		case models.IsStatusDryRun(r.Status):
			dry++
			detail = "would open " + r.Target.Base + " pull request"
		case models.IsStatusFailed(r.Status):
			failed++
			detail = fmt.Sprintf("%s: %s", r.Step, models.GetStatusReason(r.Status))
		}
		if r.Closed > 0 {
			detail += dim.Render(fmt.Sprintf(" (replaced %d)", r.Closed))
		}

		fmt.Fprintf(&b, "  %s %s%s %s\n",
			statusStyle.Render(icon),
			nameStyle.Render(r.Target.Name),
			statusStyle.Render(fmt.Sprintf("%-8s", label)),
			detail,
		)
	}

	b.WriteString("\n")
	var totals []string
	if dryRun {
		totals = append(totals, fmt.Sprintf("%d dry-run", dry))
	} else {
		totals = append(totals, fmt.Sprintf("%d created", created))
	}
	totals = append(totals, fmt.Sprintf("%d failed", failed))
	b.WriteString("  " + strings.Join(totals, ", ") + "\n")

	return b.String()
}
