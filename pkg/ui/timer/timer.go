// Package timer provides stage-aware wall-clock timing for user-facing
// success notifications.
package timer

import "time"

// Timer measures total elapsed time and the elapsed time of the current stage.
type Timer interface {
	// Start begins timing. Calling Start again resets the timer.
	Start()
	// NewStage marks the beginning of a new stage, resetting the stage clock.
	NewStage()
	// GetTiming returns the total elapsed duration and the current stage duration.
	GetTiming() (total time.Duration, stage time.Duration)
}

type realTimer struct {
	start      time.Time
	stageStart time.Time
}

// New creates a started Timer.
func New() Timer {
	now := time.Now()

	return &realTimer{start: now, stageStart: now}
}

func (t *realTimer) Start() {
	now := time.Now()
	t.start = now
	t.stageStart = now
}

func (t *realTimer) NewStage() {
	t.stageStart = time.Now()
}

func (t *realTimer) GetTiming() (time.Duration, time.Duration) {
	now := time.Now()

	return now.Sub(t.start), now.Sub(t.stageStart)
}
