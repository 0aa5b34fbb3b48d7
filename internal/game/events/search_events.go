package events

import (
	"time"
)

// Event type constants
const (
	TypeSearchStarted    = "search.started"
	TypeAttemptStarted   = "attempt.started"
	TypeAttemptCompleted = "attempt.completed"
	TypeSearchCompleted  = "search.completed"
)

// SearchStartedEvent is published once before the first attempt
type SearchStartedEvent struct {
	BaseEvent
	Players     int
	Layout      string
	Version     string
	Aggression  string
	Iterations  int
	MaxAttempts int
	Workers     int
}

// NewSearchStartedEvent creates a new SearchStartedEvent
func NewSearchStartedEvent(runID string, players int, layout, version, aggression string, iterations, maxAttempts, workers int) *SearchStartedEvent {
	return &SearchStartedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeSearchStarted,
			Time:      time.Now(),
			Run:       runID,
		},
		Players:     players,
		Layout:      layout,
		Version:     version,
		Aggression:  aggression,
		Iterations:  iterations,
		MaxAttempts: maxAttempts,
		Workers:     workers,
	}
}

// AttemptStartedEvent is published when an attempt draws a fresh pool
type AttemptStartedEvent struct {
	BaseEvent
	Attempt   int
	Tolerance float64
	// Pool holds the drawn system IDs, equidistant pool first
	Pool []string
}

// NewAttemptStartedEvent creates a new AttemptStartedEvent
func NewAttemptStartedEvent(runID string, attempt int, tolerance float64, pool []string) *AttemptStartedEvent {
	return &AttemptStartedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeAttemptStarted,
			Time:      time.Now(),
			Run:       runID,
		},
		Attempt:   attempt,
		Tolerance: tolerance,
		Pool:      pool,
	}
}

// AttemptCompletedEvent is published after each attempt's inner loop
type AttemptCompletedEvent struct {
	BaseEvent
	Attempt       int
	Tolerance     float64
	Iterations    int64
	Valid         int64
	BestImbalance float64
	Converged     bool
	Duration      time.Duration
}

// NewAttemptCompletedEvent creates a new AttemptCompletedEvent
func NewAttemptCompletedEvent(runID string, attempt int, tolerance float64, iterations, valid int64, best float64, converged bool, duration time.Duration) *AttemptCompletedEvent {
	return &AttemptCompletedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeAttemptCompleted,
			Time:      time.Now(),
			Run:       runID,
		},
		Attempt:       attempt,
		Tolerance:     tolerance,
		Iterations:    iterations,
		Valid:         valid,
		BestImbalance: best,
		Converged:     converged,
		Duration:      duration,
	}
}

// SearchCompletedEvent is published when the search returns a result
type SearchCompletedEvent struct {
	BaseEvent
	Attempts   int
	Iterations int64
	Imbalance  float64
	Converged  bool
	Duration   time.Duration
}

// NewSearchCompletedEvent creates a new SearchCompletedEvent
func NewSearchCompletedEvent(runID string, attempts int, iterations int64, imbalance float64, converged bool, duration time.Duration) *SearchCompletedEvent {
	return &SearchCompletedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeSearchCompleted,
			Time:      time.Now(),
			Run:       runID,
		},
		Attempts:   attempts,
		Iterations: iterations,
		Imbalance:  imbalance,
		Converged:  converged,
		Duration:   duration,
	}
}
