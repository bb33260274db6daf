package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// pollStatus creates a command to poll the render service status
func pollStatus(client *StudioClient) tea.Cmd {
	return func() tea.Msg {
		status, err := client.GetStatus()
		return StatusUpdateMsg{
			Status: status,
			Err:    err,
		}
	}
}

// loadThemes creates a command to fetch the sheet theme list
func loadThemes(client *StudioClient) tea.Cmd {
	return func() tea.Msg {
		themes, err := client.ListThemes()
		return ThemesLoadedMsg{Themes: themes, Err: err}
	}
}

// triggerRender creates a command to start a render for the theme
func triggerRender(client *StudioClient, theme string) tea.Cmd {
	return func() tea.Msg {
		err := client.RenderTheme(theme)
		return RenderStartedMsg{Theme: theme, Err: err}
	}
}

// loadWaveform creates a command to fetch the waveform of the theme's
// narration audio
func loadWaveform(client *StudioClient, theme string) tea.Cmd {
	return func() tea.Msg {
		detail, err := client.GetTheme(theme)
		if err != nil {
			return WaveformLoadedMsg{Theme: theme, Err: err}
		}
		if detail.AudioPath == "" {
			return WaveformLoadedMsg{Theme: theme, Err: fmt.Errorf("no narration audio for %q", theme)}
		}

		peaks, err := client.GetWaveform(detail.AudioPath, waveformWidth, waveformHeight)
		return WaveformLoadedMsg{Theme: theme, Peaks: peaks, Err: err}
	}
}

// tickCmd creates a command that ticks every 500ms for polling
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
