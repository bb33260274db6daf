// Package timeline implements the audio timeline: track admission, trim
// policy, multi-track mixing, and the waveform summary used by display
// clients. It talks to the media layer only through the small interfaces
// in backend.go, so the whole pipeline is testable without FFmpeg.
package timeline

// TrackSpec describes one audio resource and its placement on the output
// timeline. The JSON field names are part of the saved-project contract
// (the `audio_tracks_info` array) and must not change.
type TrackSpec struct {
	Path      string  `json:"path"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

// Drop reasons reported for tracks excluded from a mix.
const (
	ReasonMissingFile      = "missing-file"
	ReasonUndecodable      = "undecodable"
	ReasonOffsetOutOfRange = "offset-out-of-range"
)

// DroppedTrack records one track excluded from a mix and why. Drops are
// per-track and never abort the surrounding mix.
type DroppedTrack struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// MixReport summarizes one mix call: how many tracks made it into the
// composite and which were dropped.
type MixReport struct {
	Mixed   int            `json:"mixed"`
	Dropped []DroppedTrack `json:"dropped,omitempty"`
}
