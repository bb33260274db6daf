// Package tui is a terminal dashboard for the render service. It polls
// the HTTP API for status, lists the available themes, and lets the
// operator kick off a render without leaving the terminal.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"slidecast/timeline"
	"slidecast/types"
)

// Model is the main TUI model
type Model struct {
	Client        *StudioClient
	Status        *types.StatusResponse
	Themes        []string
	Cursor        int
	Connected     bool
	Err           error
	Waveform      []timeline.PeakPair
	WaveformTheme string
}

// NewModel creates a new TUI model
func NewModel(baseURL string) Model {
	return Model{
		Client: NewStudioClient(baseURL),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadThemes(m.Client),
		pollStatus(m.Client),
		tickCmd(),
	)
}

// getStateText returns a human-readable description of the service state.
func (m Model) getStateText() string {
	if m.Status == nil {
		return "Unknown"
	}

	switch m.Status.State {
	case types.StateIdle:
		return "Idle - waiting for jobs"
	case types.StateRendering:
		if m.Status.Stage != "" {
			return fmt.Sprintf("Rendering (%s)", m.Status.Stage)
		}
		return "Rendering"
	case types.StateComplete:
		return "Last job complete"
	case types.StateError:
		return "Last job failed"
	default:
		return string(m.Status.State)
	}
}
