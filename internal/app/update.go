package app

import (
	"time"

	"github.com/wahlandcase/subsync/internal/models"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % 10
		return m, tickCmd()

	case progressMsg:
		m.applyProgress(msg.progress.Target, msg.progress.Step, msg.progress.Message)
		// Continue listening for more progress updates
		return m, listenForProgress(m.progressCh)

	case runFinishedMsg:
		return m.handleRunFinished(msg)
	}

	return m, nil
}

func (m *Model) applyProgress(target string, step models.Step, message string) {
	for i := range m.rows {
		if m.rows[i].name != target {
			continue
		}
		m.current = i
		if step == models.StepDone {
			m.rows[i].status = message
			m.rows[i].message = ""
		} else {
			m.rows[i].status = "running"
			m.rows[i].message = message
		}
		m.rows[i].step = step
		return
	}
}

func (m Model) handleRunFinished(msg runFinishedMsg) (tea.Model, tea.Cmd) {
	m.results = msg.results
	m.finished = true
	m.progressCh = nil

	now := time.Now()
	for i, r := range msg.results {
		if i < len(m.rows) {
			m.rows[i].status = models.StatusLabel(r.Status)
			m.rows[i].step = r.Step
			m.rows[i].message = ""
		}
		if models.IsStatusCreated(r.Status) && r.PrURL != "" {
			m.history = append(m.history, HistoryEntry{
				RepoName:  r.Target.Name,
				URL:       r.PrURL,
				Base:      r.Target.Base,
				CreatedAt: now,
			})
		}
	}

	m.screen = ScreenSummary
	return m, nil
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.screen {
	case ScreenRunning:
		if msg.String() == "q" {
			return m.quit()
		}
	case ScreenSummary:
		return m.handleSummaryKey(msg)
	case ScreenHistory:
		return m.handleHistoryKey(msg)
	}

	return m, nil
}

// quit cancels an unfinished run before leaving
func (m Model) quit() (tea.Model, tea.Cmd) {
	if !m.finished {
		m.interrupted = true
	}
	m.cancel()
	return m, tea.Quit
}

func (m Model) handleSummaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "enter", "esc":
		return m.quit()
	case "h":
		m.screen = ScreenHistory
		m.historyIndex = 0
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "esc", "h", "backspace":
		m.screen = ScreenSummary
	case "up", "k":
		if m.historyIndex > 0 {
			m.historyIndex--
		}
	case "down", "j":
		if m.historyIndex < len(m.history)-1 {
			m.historyIndex++
		}
	}
	return m, nil
}
