package monitoring

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls atomic.Int64
	snap  Snapshot
}

func (f *fakeSource) Snapshot() Snapshot {
	f.calls.Add(1)
	return f.snap
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressMonitor_Report(t *testing.T) {
	var buf bytes.Buffer
	src := &fakeSource{snap: Snapshot{Attempt: 2, Tolerance: 0.026, Iterations: 1234567, Valid: 89012, BestImbalance: 0.031}}
	pm := NewProgressMonitor(src, time.Second, zerolog.New(&buf))

	snap := pm.Report()
	assert.Equal(t, src.snap, snap)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Search progress", line["message"])
	assert.Equal(t, "progress", line["component"])
	assert.Equal(t, "1,234,567", line["iterations"])
	assert.Equal(t, "89,012", line["valid"])
	assert.Equal(t, float64(2), line["attempt"])
	assert.Equal(t, 0.031, line["best_imbalance"])
}

func TestProgressMonitor_ReportWithoutBest(t *testing.T) {
	var buf bytes.Buffer
	src := &fakeSource{snap: Snapshot{BestImbalance: math.Inf(1)}}
	pm := NewProgressMonitor(src, time.Second, zerolog.New(&buf))

	pm.Report()

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	_, present := line["best_imbalance"]
	assert.False(t, present, "an infinite imbalance is not logged")
}

func TestProgressMonitor_StartStop(t *testing.T) {
	var buf syncBuffer
	src := &fakeSource{snap: Snapshot{Iterations: 10}}
	pm := NewProgressMonitor(src, 5*time.Millisecond, zerolog.New(&buf))

	pm.Start()
	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, time.Millisecond)
	pm.Stop()
	pm.Stop()

	calls := src.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, src.calls.Load(), "no reports after Stop")
	assert.True(t, strings.Contains(buf.String(), "Search progress"))
}

func TestNewProgressMonitor_DefaultInterval(t *testing.T) {
	pm := NewProgressMonitor(&fakeSource{}, 0, zerolog.Nop())
	assert.Equal(t, 5*time.Second, pm.interval)
}

func TestProgressMonitor_StopWithoutStart(t *testing.T) {
	src := &fakeSource{}
	pm := NewProgressMonitor(src, time.Millisecond, zerolog.Nop())

	stopped := make(chan struct{})
	go func() {
		pm.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without Start")
	}

	pm.Start()
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, src.calls.Load(), "Start after Stop does nothing")
}

func TestProgressMonitor_StartTwice(t *testing.T) {
	pm := NewProgressMonitor(&fakeSource{}, time.Millisecond, zerolog.Nop())
	pm.Start()
	pm.Start()
	assert.NotPanics(t, pm.Stop)
}
