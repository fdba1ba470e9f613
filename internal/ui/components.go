package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SectionHeader creates a styled section header with a title and color
// Example: "─── TITLE ───────────"
func SectionHeader(title string, color lipgloss.Color) string {
	dashes := strings.Repeat("─", max(25-len(title), 0))
	headerStyle := lipgloss.NewStyle().Foreground(color)
	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return fmt.Sprintf("%s%s%s",
		headerStyle.Render("  ─── "),
		titleStyle.Render(title),
		headerStyle.Render(" "+dashes),
	)
}

// SubtreeFlow shows where the subtree comes from and where it lands
// Example: mu_common_github@main ====> .github/ ====> <N> repos
func SubtreeFlow(source, branch, prefix string, targets int) string {
	sourceStyle := lipgloss.NewStyle().Foreground(ColorMagenta).Bold(true)
	prefixStyle := lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	targetStyle := lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	arrowStyle := lipgloss.NewStyle().Foreground(ColorCyan)

	name := source[strings.LastIndex(strings.TrimSuffix(source, "/"), "/")+1:]
	name = strings.TrimSuffix(name, ".git")

	noun := "repos"
	if targets == 1 {
		noun = "repo"
	}

	return "  " + sourceStyle.Render(name+"@"+branch) +
		arrowStyle.Render("  ====>  ") + prefixStyle.Render(prefix) +
		arrowStyle.Render("  ====>  ") + targetStyle.Render(fmt.Sprintf("%d %s", targets, noun))
}

// SpinnerFrames are braille spinner characters
var SpinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner returns the spinner character at the given frame index
func Spinner(frame int) string {
	return string(SpinnerFrames[frame%len(SpinnerFrames)])
}

// ProgressBar creates a progress bar
func ProgressBar(current, total int, width int) string {
	if total == 0 {
		return ""
	}

	progress := float64(current) / float64(total)
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	barStyle := lipgloss.NewStyle().Foreground(ColorGreen)
	percentStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	return fmt.Sprintf("%s %s",
		barStyle.Render(fmt.Sprintf("[%s]", bar)),
		percentStyle.Render(fmt.Sprintf("%d%%", percentage)),
	)
}

// KeyBinding renders a key binding hint
func KeyBinding(key, description string, color lipgloss.Color) string {
	keyStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	return fmt.Sprintf("%s %s",
		keyStyle.Render(key),
		descStyle.Render(description),
	)
}

// StatusIcon returns the icon and color for a status label
func StatusIcon(status string) (string, lipgloss.Color) {
	switch status {
	case "created":
		return "✓", ColorGreen
	case "dry-run":
		return "⊘", ColorYellow
	case "failed":
		return "✗", ColorRed
	case "running":
		return "⏳", ColorCyan
	default:
		return "·", ColorDarkGray
	}
}
