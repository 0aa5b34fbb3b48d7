package mapgen

import (
	"math"
	"sync/atomic"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/monitoring"
)

// Progress exposes live search counters to a monitoring.ProgressMonitor.
// Workers flush their local counts every few thousand iterations, so a
// snapshot may lag slightly behind the loop.
type Progress struct {
	attempt    atomic.Int64
	tolerance  atomic.Uint64
	iterations atomic.Int64
	valid      atomic.Int64
	best       atomic.Uint64
}

func newProgress() *Progress {
	p := &Progress{}
	p.reset()
	return p
}

func (p *Progress) reset() {
	p.attempt.Store(0)
	p.tolerance.Store(0)
	p.iterations.Store(0)
	p.valid.Store(0)
	p.best.Store(math.Float64bits(math.Inf(1)))
}

func (p *Progress) startAttempt(attempt int, tolerance float64) {
	p.attempt.Store(int64(attempt))
	p.tolerance.Store(math.Float64bits(tolerance))
}

func (p *Progress) add(iterations, valid int64) {
	p.iterations.Add(iterations)
	p.valid.Add(valid)
}

func (p *Progress) setBest(imbalance float64) {
	p.best.Store(math.Float64bits(imbalance))
}

// Snapshot implements monitoring.Source.
func (p *Progress) Snapshot() monitoring.Snapshot {
	return monitoring.Snapshot{
		Attempt:       int(p.attempt.Load()),
		Tolerance:     math.Float64frombits(p.tolerance.Load()),
		Iterations:    p.iterations.Load(),
		Valid:         p.valid.Load(),
		BestImbalance: math.Float64frombits(p.best.Load()),
	}
}
