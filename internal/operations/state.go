package operations

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the run state machine position. Stages advance it strictly in
// order; Failed is terminal for the run.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoaded        Status = "loaded"
	StatusCleaned       Status = "cleaned"
	StatusEnriched      Status = "enriched"
	StatusExported      Status = "exported"
	StatusFailed        Status = "failed"
)

// statusRank orders the states for precondition checks.
var statusRank = map[Status]int{
	StatusUninitialized: 0,
	StatusLoaded:        1,
	StatusCleaned:       2,
	StatusEnriched:      3,
	StatusExported:      4,
}

// StageResult records one executed stage for run reporting.
type StageResult struct {
	Name      string        `json:"name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// RunState is the mutable state of a single pipeline run.
type RunState struct {
	mu sync.RWMutex

	ID        string        `json:"id"`
	Status    Status        `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Stages    []StageResult `json:"stages"`
	Err       error         `json:"-"`
}

// NewRunState creates a fresh run state with a generated run ID.
func NewRunState() *RunState {
	return &RunState{
		ID:        uuid.New().String(),
		Status:    StatusUninitialized,
		StartTime: time.Now(),
	}
}

// CurrentStatus returns the state machine position.
func (s *RunState) CurrentStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// AtLeast reports whether the run has reached the given state. A failed run
// satisfies nothing.
func (s *RunState) AtLeast(status Status) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Status == StatusFailed {
		return false
	}
	return statusRank[s.Status] >= statusRank[status]
}

// Advance moves the state machine to the given state. Moving backwards is
// allowed: reloading the source resets a run to Loaded, which also clears
// the end time so Duration tracks the run in progress again.
func (s *RunState) Advance(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
	if status == StatusExported {
		now := time.Now()
		s.EndTime = &now
	} else {
		s.EndTime = nil
	}
}

// Fail marks the run failed with its first error.
func (s *RunState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusFailed {
		return
	}
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusFailed
	s.Err = err
}

// RecordStage appends one stage result.
func (s *RunState) RecordStage(name string, start time.Time, duration time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := StageResult{Name: name, StartTime: start, Duration: duration}
	if err != nil {
		result.Error = err.Error()
	}
	s.Stages = append(s.Stages, result)
}

// StageResults returns a copy of the recorded stage results.
func (s *RunState) StageResults() []StageResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StageResult, len(s.Stages))
	copy(out, s.Stages)
	return out
}

// Duration returns how long the run has been going, or took.
func (s *RunState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}
