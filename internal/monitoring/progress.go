package monitoring

import (
	"math"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/common"
)

// Snapshot is a point-in-time view of a running search
type Snapshot struct {
	Attempt       int
	Tolerance     float64
	Iterations    int64
	Valid         int64
	BestImbalance float64
}

// Source supplies snapshots. Implementations must be safe to call from
// another goroutine while the search runs.
type Source interface {
	Snapshot() Snapshot
}

// ProgressMonitor periodically logs search progress
type ProgressMonitor struct {
	mu       sync.Mutex
	source   Source
	interval time.Duration
	logger   zerolog.Logger
	started  time.Time
	last     Snapshot
	lastAt   time.Time
	running  bool
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewProgressMonitor creates a monitor that reports every interval
func NewProgressMonitor(source Source, interval time.Duration, logger zerolog.Logger) *ProgressMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &ProgressMonitor{
		source:   source,
		interval: interval,
		logger:   logger.With().Str("component", "progress").Logger(),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins reporting in the background. Calls after the first, or after
// Stop, do nothing.
func (pm *ProgressMonitor) Start() {
	now := time.Now()
	pm.mu.Lock()
	select {
	case <-pm.stopChan:
		pm.mu.Unlock()
		return
	default:
	}
	if pm.running {
		pm.mu.Unlock()
		return
	}
	pm.running = true
	pm.started = now
	pm.lastAt = now
	pm.mu.Unlock()

	go pm.monitor()
	pm.logger.Debug().
		Dur("interval", pm.interval).
		Msg("Started progress monitoring")
}

// Stop stops the monitor and waits for the reporting goroutine to exit. It
// is safe to call more than once, and before Start.
func (pm *ProgressMonitor) Stop() {
	pm.stopOnce.Do(func() {
		pm.mu.Lock()
		close(pm.stopChan)
		running := pm.running
		pm.mu.Unlock()
		if running {
			<-pm.done
		}
	})
}

func (pm *ProgressMonitor) monitor() {
	defer close(pm.done)
	defer func() {
		if r := recover(); r != nil {
			pm.logger.Error().
				Interface("panic", r).
				Msg("Progress monitor panicked")
		}
	}()

	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pm.Report()
		case <-pm.stopChan:
			return
		}
	}
}

// Report logs the current progress once and returns the snapshot it logged
func (pm *ProgressMonitor) Report() Snapshot {
	snap := pm.source.Snapshot()
	now := time.Now()

	pm.mu.Lock()
	elapsed := now.Sub(pm.lastAt).Seconds()
	delta := snap.Iterations - pm.last.Iterations
	pm.last = snap
	pm.lastAt = now
	pm.mu.Unlock()

	rate := 0.0
	if elapsed > 0 && delta > 0 {
		rate = float64(delta) / elapsed
	}

	event := pm.logger.Info().
		Int("attempt", snap.Attempt).
		Float64("tolerance", snap.Tolerance).
		Str("iterations", humanize.Comma(snap.Iterations)).
		Str("valid", humanize.Comma(snap.Valid)).
		Str("rate", humanize.CommafWithDigits(rate, 0)+"/s")
	if !math.IsInf(snap.BestImbalance, 0) && !math.IsNaN(snap.BestImbalance) {
		event = event.Float64("best_imbalance", common.Round(snap.BestImbalance, 4))
	}
	event.Msg("Search progress")
	return snap
}
