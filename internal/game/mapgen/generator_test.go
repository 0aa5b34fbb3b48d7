package mapgen

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/catalog"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/events"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/layout"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/testutil"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) Publish(e events.Event) { r.events = append(r.events, e) }

func (r *recorder) types() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func testOptions(players int) Options {
	opts := DefaultOptions(players)
	opts.IterationsPerAttempt = 2000
	opts.MaxAttempts = 3
	return opts
}

func newTestGenerator(t *testing.T, opts Options, seed int64, pub events.Publisher) (*Generator, *catalog.Catalog) {
	t.Helper()
	cat := loadCatalog(t)
	l, topo := buildTopology(t, opts.Players, layout.SizeRegular)
	g, err := NewGenerator(opts, cat, l, topo, testutil.NewTestRNG(seed), testutil.NopLogger(), pub)
	require.NoError(t, err)
	return g, cat
}

func TestNewGenerator_AllLayouts(t *testing.T) {
	cat := loadCatalog(t)
	reg, err := layout.Load()
	require.NoError(t, err)

	for _, l := range reg.All() {
		t.Run(l.Name, func(t *testing.T) {
			tiles, err := l.Tiles()
			require.NoError(t, err)
			_, topo := buildTopology(t, l.Players, l.Size)
			assert.Equal(t, l.SystemCount(), testutil.FreeTileCount(tiles))

			g, err := NewGenerator(DefaultOptions(l.Players), cat, l, topo, testutil.NewTestRNG(1), testutil.NopLogger(), nil)
			require.NoError(t, err)
			assert.Equal(t, catalog.VersionPoK, g.Version())
		})
	}
}

func TestNewGenerator_ForcesExpansion(t *testing.T) {
	opts := DefaultOptions(7)
	opts.Version = catalog.VersionBase
	g, _ := newTestGenerator(t, opts, 1, nil)
	assert.Equal(t, catalog.VersionPoK, g.Version())
}

func TestNewGenerator_TileCountMismatch(t *testing.T) {
	cat := loadCatalog(t)
	l, topo := buildTopology(t, 6, layout.SizeRegular)

	broken := *l
	broken.PlanetaryExtra = 1
	_, err := NewGenerator(DefaultOptions(6), cat, &broken, topo, testutil.NewTestRNG(1), testutil.NopLogger(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTileCountMismatch))
	assert.True(t, core.IsConfigurationError(err))
}

func TestNewGenerator_PlayerMismatch(t *testing.T) {
	cat := loadCatalog(t)
	l, topo := buildTopology(t, 6, layout.SizeRegular)

	_, err := NewGenerator(DefaultOptions(5), cat, l, topo, testutil.NewTestRNG(1), testutil.NopLogger(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrPlayerMismatch))
}

func TestNewGenerator_InvalidOptions(t *testing.T) {
	cat := loadCatalog(t)
	l, topo := buildTopology(t, 6, layout.SizeRegular)
	opts := DefaultOptions(6)
	opts.MaxAttempts = 0

	_, err := NewGenerator(opts, cat, l, topo, testutil.NewTestRNG(1), testutil.NopLogger(), nil)
	require.Error(t, err)
	assert.False(t, core.IsConfigurationError(err))
}

func TestGenerate_SixPlayers(t *testing.T) {
	g, cat := newTestGenerator(t, testOptions(6), 1, nil)
	topo := g.topo

	result, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "6 players", result.Layout)
	assert.LessOrEqual(t, result.Attempts, 3)
	assert.Positive(t, result.Iterations)
	assert.LessOrEqual(t, result.Iterations, int64(result.Attempts*2000))
	assert.Equal(t, result.Converged, result.Imbalance <= result.Tolerance)

	t.Run("assignment", func(t *testing.T) {
		// 30 searched tiles plus the center
		assert.Len(t, result.Assignment, 31)
		assert.Equal(t, layout.MecatolRexID, result.Assignment[core.Center])
		for _, p := range topo.Players() {
			assert.NotContains(t, result.Assignment, topo.Home(p))
		}

		seen := make(map[string]bool)
		for pos, id := range result.Assignment {
			if pos == core.Center {
				continue
			}
			assert.False(t, seen[id], "system %s used twice", id)
			seen[id] = true
		}
	})

	t.Run("tiles carry the assignment", func(t *testing.T) {
		for _, tile := range result.Tiles {
			if tile.IsHome() {
				assert.Empty(t, tile.SystemID())
				continue
			}
			assert.Equal(t, result.Assignment[tile.Position], tile.SystemID(), "%s", tile.Position)
		}
	})

	t.Run("board is valid", func(t *testing.T) {
		for _, pair := range topo.AdjacentPairs() {
			a, okA := result.Assignment[pair[0]]
			b, okB := result.Assignment[pair[1]]
			if !okA || !okB || pair[0] == core.Center || pair[1] == core.Center {
				continue
			}
			sa, err := cat.Lookup(a)
			require.NoError(t, err)
			sb, err := cat.Lookup(b)
			require.NoError(t, err)
			assert.False(t, conflict(sa, sb), "%s next to %s", sa, sb)
		}
	})

	t.Run("scores match the assignment", func(t *testing.T) {
		assign := make([]*catalog.System, len(g.scorer.slots))
		for k, sl := range g.scorer.slots {
			sys, err := cat.Lookup(result.Assignment[sl.pos])
			require.NoError(t, err)
			assign[k] = sys
		}
		scores := make([]float64, 6)
		g.scorer.score(assign, scores, make([]totals, 6))

		require.Len(t, result.Scores, 6)
		for i, s := range scores {
			assert.InDelta(t, s, result.Scores[core.Player(i+1)], 1e-9)
		}
		assert.Equal(t, Imbalance(scores), result.Imbalance)
	})

	t.Run("progress matches the result", func(t *testing.T) {
		snap := g.Progress().Snapshot()
		assert.Equal(t, result.Iterations, snap.Iterations)
		assert.Positive(t, snap.Valid)
		assert.Equal(t, result.Imbalance, snap.BestImbalance)
	})

	t.Run("slice listing", func(t *testing.T) {
		slice, shared := result.SliceSystems(topo, core.Player1)
		assert.Len(t, slice, len(topo.Slice(core.Player1)))
		assert.Len(t, shared, len(topo.SharedWith(core.Player1)))
		assert.Contains(t, result.String(), "6 players")
	})
}

func TestGenerate_Deterministic(t *testing.T) {
	first, _ := newTestGenerator(t, testOptions(4), 99, nil)
	second, _ := newTestGenerator(t, testOptions(4), 99, nil)

	a, err := first.Generate(context.Background())
	require.NoError(t, err)
	b, err := second.Generate(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Assignment, b.Assignment)
	assert.Equal(t, a.Scores, b.Scores)
	assert.Equal(t, a.Iterations, b.Iterations)
}

func TestGenerate_Workers(t *testing.T) {
	opts := testOptions(6)
	opts.Workers = 3
	g, _ := newTestGenerator(t, opts, 5, nil)

	result, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Assignment, 31)
	assert.Len(t, result.Scores, 6)
	assert.LessOrEqual(t, result.Iterations, int64(result.Attempts*2000))
	assert.Equal(t, result.Iterations, g.Progress().Snapshot().Iterations)
}

func TestGenerate_HyperlaneLayout(t *testing.T) {
	g, _ := newTestGenerator(t, testOptions(5), 11, nil)

	result, err := g.Generate(context.Background())
	require.NoError(t, err)
	for _, h := range g.layout.Hyperlanes {
		assert.Equal(t, h.SystemID, result.Assignment[h.Position])
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	g, _ := newTestGenerator(t, testOptions(6), 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := g.Generate(ctx)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGenerate_Events(t *testing.T) {
	rec := &recorder{}
	g, _ := newTestGenerator(t, testOptions(6), 1, rec)

	result, err := g.Generate(context.Background())
	require.NoError(t, err)

	types := rec.types()
	require.GreaterOrEqual(t, len(types), 4)
	assert.Equal(t, events.TypeSearchStarted, types[0])
	assert.Equal(t, events.TypeSearchCompleted, types[len(types)-1])

	attempts := types[1 : len(types)-1]
	require.Len(t, attempts, 2*result.Attempts)
	for i := 0; i < len(attempts); i += 2 {
		assert.Equal(t, events.TypeAttemptStarted, attempts[i])
		assert.Equal(t, events.TypeAttemptCompleted, attempts[i+1])
	}

	for _, e := range rec.events {
		assert.Equal(t, result.RunID, e.RunID())
	}
}

func TestAttemptResult_Better(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name    string
		current attemptResult
		other   attemptResult
		better  bool
	}{
		{"nothing found yet", attemptResult{imbalance: inf}, attemptResult{found: true, imbalance: inf, spread: 9}, true},
		{"candidate not found", attemptResult{found: true, imbalance: 0.2}, attemptResult{imbalance: 0.1}, false},
		{"lower imbalance", attemptResult{found: true, imbalance: 0.2, spread: 1}, attemptResult{found: true, imbalance: 0.1, spread: 5}, true},
		{"higher imbalance", attemptResult{found: true, imbalance: 0.1}, attemptResult{found: true, imbalance: 0.2}, false},
		{"non-positive average ranked by spread", attemptResult{found: true, imbalance: inf, spread: 6}, attemptResult{found: true, imbalance: inf, spread: 4}, true},
		{"wider spread at infinity", attemptResult{found: true, imbalance: inf, spread: 4}, attemptResult{found: true, imbalance: inf, spread: 6}, false},
		{"finite beats infinite", attemptResult{found: true, imbalance: inf, spread: 1}, attemptResult{found: true, imbalance: 3, spread: 50}, true},
		{"equal is not better", attemptResult{found: true, imbalance: 0.1, spread: 2}, attemptResult{found: true, imbalance: 0.1, spread: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.better, tt.current.better(tt.other))
		})
	}
}
