// Package termfix adjusts terminal environment variables before lipgloss and
// termenv read them. Import it first in main:
//
//	_ "github.com/wahlandcase/subsync/internal/termfix"
package termfix

import "os"

// ciVariables are set by the pipeline runners subsync is usually scheduled on
var ciVariables = []string{"TF_BUILD", "GITHUB_ACTIONS", "GITLAB_CI", "CI"}

func init() {
	apply(os.Getenv, os.Setenv)
}

func apply(getenv func(string) string, setenv func(string, string) error) {
	// Warp answers terminal queries slowly, which stalls startup
	if getenv("TERM_PROGRAM") == "WarpTerminal" {
		_ = setenv("TERM", "dumb")
		_ = setenv("COLORTERM", "truecolor")
		return
	}

	// Pipeline logs are not terminals; keep termenv from querying one
	for _, key := range ciVariables {
		if getenv(key) != "" && getenv("TERM") == "" {
			_ = setenv("TERM", "dumb")
			return
		}
	}
}
