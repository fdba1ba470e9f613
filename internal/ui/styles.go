package ui

import (
	"os"

	"github.com/wahlandcase/subsync/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Note: Warp terminal fix is in internal/termfix package, imported first in main.go

var (
	ColorCyan     = lipgloss.Color("#00FFFF")
	ColorGreen    = lipgloss.Color("#00FF00")
	ColorYellow   = lipgloss.Color("#FFFF00")
	ColorRed      = lipgloss.Color("#FF0000")
	ColorMagenta  = lipgloss.Color("#FF00FF")
	ColorBlue     = lipgloss.Color("#5555FF")
	ColorWhite    = lipgloss.Color("#FFFFFF")
	ColorDarkGray = lipgloss.Color("8")
)

// SetupColor picks the color profile for stdout. Non-terminals and NO_COLOR
// already resolve to plain text; noColor forces it.
func SetupColor(noColor bool) termenv.Profile {
	profile := termenv.NewOutput(os.Stdout).EnvColorProfile()
	if noColor {
		profile = termenv.Ascii
	}
	lipgloss.SetColorProfile(profile)
	return profile
}

// StatusColor returns the color a target outcome is rendered in
func StatusColor(status models.TargetStatus) lipgloss.Color {
	switch {
	case models.IsStatusCreated(status):
		return ColorGreen
	case models.IsStatusDryRun(status):
		return ColorYellow
	case models.IsStatusFailed(status):
		return ColorRed
	default:
		return ColorWhite
	}
}

// StepColor returns the color of an in-flight step
func StepColor(step models.Step) lipgloss.Color {
	switch step {
	case models.StepReconcile:
		return ColorMagenta
	case models.StepClone:
		return ColorBlue
	case models.StepSync:
		return ColorCyan
	case models.StepPublish:
		return ColorGreen
	default:
		return ColorWhite
	}
}
