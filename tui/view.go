package tui

import (
	"fmt"
	"strings"
)

const maxVisibleLogs = 8

// Waveform preview dimensions requested from the API. The height feeds
// the peak scaling; on screen the bar is one character row deep.
const (
	waveformWidth  = 60
	waveformHeight = 16
)

var waveformRamp = []rune("▁▂▃▄▅▆▇█")

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🎬 Slidecast Studio"))
	b.WriteString("\n")

	// Connection status
	if m.Connected {
		b.WriteString(StatusStyle.Render("● Connected"))
	} else {
		b.WriteString(ErrorStyle.Render("○ Disconnected"))
		if m.Err != nil {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("  (%v)", m.Err)))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(HighlightStyle.Render(m.getStateText()))
	b.WriteString("\n\n")

	b.WriteString(m.renderThemeList())
	b.WriteString("\n")

	if len(m.Waveform) > 0 {
		b.WriteString(m.renderWaveform())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBox())
	b.WriteString("\n")

	b.WriteString(InfoStyle.Render("↑/↓: select theme • enter: render • w: waveform • r: refresh • q: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderWaveform() string {
	var bar strings.Builder
	for _, p := range m.Waveform {
		idx := int((p.Top + p.Bottom) * float64(len(waveformRamp)) / waveformHeight)
		if idx >= len(waveformRamp) {
			idx = len(waveformRamp) - 1
		}
		bar.WriteRune(waveformRamp[idx])
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Narration: %s\n", m.WaveformTheme))
	b.WriteString(StatusStyle.Render(bar.String()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderThemeList() string {
	var b strings.Builder

	b.WriteString("Themes:\n")
	if len(m.Themes) == 0 {
		b.WriteString(InfoStyle.Render("  (none loaded)"))
		b.WriteString("\n")
		return b.String()
	}

	for i, theme := range m.Themes {
		if i == m.Cursor {
			b.WriteString(CursorStyle.Render("▸ " + theme))
		} else {
			b.WriteString("  " + theme)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderStatusBox() string {
	var b strings.Builder

	if m.Status != nil {
		b.WriteString(fmt.Sprintf("Completed: %d   Failed: %d\n", m.Status.CompletedCount, m.Status.FailedCount))
		if m.Status.ActiveJob != "" {
			b.WriteString(fmt.Sprintf("Active job: %s\n", m.Status.ActiveJob))
		}
		if m.Status.Error != "" {
			b.WriteString(ErrorStyle.Render("Error: " + m.Status.Error))
			b.WriteString("\n")
		}

		logs := m.Status.Logs
		if len(logs) > maxVisibleLogs {
			logs = logs[len(logs)-maxVisibleLogs:]
		}
		for _, entry := range logs {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("%s  %s", entry.Timestamp.Format("15:04:05"), entry.Message)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(InfoStyle.Render("Waiting for status..."))
		b.WriteString("\n")
	}

	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
