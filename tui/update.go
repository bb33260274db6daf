package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}

		case "down", "j":
			if m.Cursor < len(m.Themes)-1 {
				m.Cursor++
			}

		case "enter":
			if m.Cursor >= 0 && m.Cursor < len(m.Themes) {
				return m, triggerRender(m.Client, m.Themes[m.Cursor])
			}

		case "r":
			return m, loadThemes(m.Client)

		case "w":
			if m.Cursor >= 0 && m.Cursor < len(m.Themes) {
				return m, loadWaveform(m.Client, m.Themes[m.Cursor])
			}
		}

	case StatusUpdateMsg:
		if msg.Err != nil {
			m.Connected = false
			m.Err = msg.Err
		} else {
			m.Connected = true
			m.Status = msg.Status
			m.Err = nil
		}

	case ThemesLoadedMsg:
		if msg.Err == nil {
			m.Themes = msg.Themes
			if m.Cursor >= len(m.Themes) {
				m.Cursor = 0
			}
		}

	case RenderStartedMsg:
		if msg.Err != nil {
			m.Err = msg.Err
		}

	case WaveformLoadedMsg:
		if msg.Err != nil {
			m.Err = msg.Err
		} else {
			m.Waveform = msg.Peaks
			m.WaveformTheme = msg.Theme
			m.Err = nil
		}

	case TickMsg:
		return m, tea.Batch(
			pollStatus(m.Client),
			tickCmd(),
		)
	}

	return m, nil
}
