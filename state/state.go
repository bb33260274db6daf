// Package state tracks what the worker is doing, for the status API and
// the terminal UI.
package state

import (
	"fmt"
	"sync"
	"time"

	"slidecast/types"
)

// Manager holds the worker state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	currentState types.State
	stage        string
	activeJob    string

	completed  int
	failed     int
	lastResult *types.JobResult
	lastErr    error

	// Logs (ring buffer)
	logs    []types.LogEntry
	maxLogs int
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{
		currentState: types.StateIdle,
		logs:         make([]types.LogEntry, 0),
		maxLogs:      50, // Keep last 50 log entries
	}
}

// AddLog adds a log entry (thread-safe).
func (m *Manager) AddLog(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLogLocked(message)
}

// StartJob transitions to rendering and clears the previous error.
func (m *Manager) StartJob(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentState = types.StateRendering
	m.activeJob = jobID
	m.stage = ""
	m.lastErr = nil
	m.appendLogLocked(fmt.Sprintf("Job %s started", jobID))
}

// SetStage records the current pipeline stage of the active job.
func (m *Manager) SetStage(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stage = stage
	m.appendLogLocked(fmt.Sprintf("Stage: %s", stage))
}

// CompleteJob records a successful render.
func (m *Manager) CompleteJob(result *types.JobResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentState = types.StateComplete
	m.activeJob = ""
	m.completed++
	m.lastResult = result
	m.appendLogLocked(fmt.Sprintf("Job %s finished: %s", result.JobID, result.OutputPath))
}

// FailJob records a failed render.
func (m *Manager) FailJob(jobID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentState = types.StateError
	m.activeJob = ""
	m.failed++
	m.lastErr = err
	m.appendLogLocked(fmt.Sprintf("Job %s failed: %v", jobID, err))
}

// GetState gets the current state (thread-safe).
func (m *Manager) GetState() types.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState
}

// GetStatus returns a snapshot of the current state (thread-safe).
func (m *Manager) GetStatus() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := types.StatusResponse{
		State:          m.currentState,
		Stage:          m.stage,
		ActiveJob:      m.activeJob,
		Logs:           append([]types.LogEntry{}, m.logs...), // Copy slice
		CompletedCount: m.completed,
		FailedCount:    m.failed,
		LastResult:     m.lastResult,
	}

	if m.lastErr != nil {
		resp.Error = m.lastErr.Error()
	}

	return resp
}

// appendLogLocked pushes onto the ring buffer; the caller holds the lock.
func (m *Manager) appendLogLocked(message string) {
	m.logs = append(m.logs, types.LogEntry{
		Timestamp: time.Now(),
		Message:   message,
	})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}
