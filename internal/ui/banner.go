package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner is the ASCII art header
var Banner = []string{
	` ____  _   _ ____  ______   ___   _  ____ `,
	`/ ___|| | | | __ )/ ___\ \ / / \ | |/ ___|`,
	`\___ \| | | |  _ \\___ \\ V /|  \| | |    `,
	` ___) | |_| | |_) |___) || | | |\  | |___ `,
	`|____/ \___/|____/|____/ |_| |_| \_|\____|`,
}

// RenderBanner returns the styled banner as a string
func RenderBanner(dryRun bool) string {
	bannerStyle := lipgloss.NewStyle().Foreground(ColorCyan)

	var lines []string
	for _, line := range Banner {
		lines = append(lines, bannerStyle.Render(line))
	}

	if dryRun {
		lines = append(lines, "")
		warningStyle := lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)
		lines = append(lines, warningStyle.Render("⚠ DRY RUN MODE"))
	}

	return strings.Join(lines, "\n")
}
