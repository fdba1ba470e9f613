package app

// Screen represents the current view in the application
type Screen int

const (
	ScreenRunning Screen = iota
	ScreenSummary
	ScreenHistory
)

func (s Screen) String() string {
	names := []string{
		"Running",
		"Summary",
		"History",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}
