// Package types holds the wire types shared by the API, the worker and
// the terminal UI.
package types

import (
	"time"

	"slidecast/project"
	"slidecast/timeline"
)

// State represents the worker state machine
type State string

const (
	StateIdle      State = "idle"
	StateRendering State = "rendering"
	StateComplete  State = "complete"
	StateError     State = "error"
)

// RenderJob is one unit of work: a project plus delivery options.
type RenderJob struct {
	ID      string       `json:"id"`
	Project project.Data `json:"project"`
	Quality string       `json:"quality,omitempty"`
	Fade    bool         `json:"fade,omitempty"`
	Upload  bool         `json:"upload,omitempty"`
}

// JobResult summarizes a finished render.
type JobResult struct {
	JobID      string              `json:"job_id"`
	OutputPath string              `json:"output_path,omitempty"`
	VideoID    string              `json:"video_id,omitempty"`
	ArchiveKey string              `json:"archive_key,omitempty"`
	Captions   string              `json:"captions,omitempty"`
	Audio      *timeline.MixReport `json:"audio,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// LogEntry represents a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// StatusResponse is the JSON response for GET /api/status
type StatusResponse struct {
	State          State      `json:"state"`
	Stage          string     `json:"stage,omitempty"`
	ActiveJob      string     `json:"active_job,omitempty"`
	Logs           []LogEntry `json:"logs"`
	CompletedCount int        `json:"completed_count"`
	FailedCount    int        `json:"failed_count"`
	LastResult     *JobResult `json:"last_result,omitempty"`
	Error          string     `json:"error,omitempty"`
}
