package tui

import (
	"time"

	"slidecast/timeline"
	"slidecast/types"
)

// Messages for the tea program (polling-based)

// StatusUpdateMsg is sent when we receive status from the render service
type StatusUpdateMsg struct {
	Status *types.StatusResponse
	Err    error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}

// ThemesLoadedMsg is sent when the theme list arrives
type ThemesLoadedMsg struct {
	Themes []string
	Err    error
}

// RenderStartedMsg is sent after asking the service to render a theme
type RenderStartedMsg struct {
	Theme string
	Err   error
}

// WaveformLoadedMsg carries the narration waveform for a theme
type WaveformLoadedMsg struct {
	Theme string
	Peaks []timeline.PeakPair
	Err   error
}
