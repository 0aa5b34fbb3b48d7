package mapgen

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/catalog"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/events"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/layout"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/topology"
)

// ErrNoValidBoard means no iteration of any attempt produced a board without
// adjacent anomalies or matching wormholes.
var ErrNoValidBoard = errors.New("no valid board found")

// checkInterval is how many iterations run between cancellation checks and
// progress flushes.
const checkInterval = 4096

// Result is the best board a run found.
type Result struct {
	RunID      string
	Layout     string
	Players    int
	Version    catalog.Version
	Aggression Aggression

	// Assignment holds every tile with a system: the center, hyperlanes and
	// the searched tiles. Homes are absent.
	Assignment map[core.Position]string
	Scores     map[core.Player]float64
	Imbalance  float64

	Attempts   int
	Iterations int64
	// Converged reports whether Imbalance met Tolerance.
	Converged bool
	Tolerance float64
	Duration  time.Duration

	// Tiles is the layout's tile table with system IDs filled in.
	Tiles []core.Tile
}

// Generator searches for a balanced assignment of catalog systems to the free
// tiles of one layout.
type Generator struct {
	opts      Options
	version   catalog.Version
	layout    *layout.Layout
	topo      *topology.Topology
	selector  *PoolSelector
	scorer    *scorer
	rng       *rand.Rand
	logger    zerolog.Logger
	publisher events.Publisher
	progress  *Progress
}

// NewGenerator checks that the layout, topology and catalog agree and prepares
// a search. rng drives every random choice; publisher may be nil.
func NewGenerator(opts Options, cat *catalog.Catalog, l *layout.Layout, topo *topology.Topology, rng *rand.Rand, logger zerolog.Logger, publisher events.Publisher) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Players != l.Players || len(topo.Players()) != l.Players {
		return nil, core.NewConfigurationError("new generator", core.ErrPlayerMismatch,
			"%d players requested, layout %s seats %d, topology has %d",
			opts.Players, l.Name, l.Players, len(topo.Players()))
	}

	free := len(topo.Equidistant()) + len(topo.InSlice())
	if free != l.SystemCount() {
		return nil, core.NewConfigurationError("new generator", core.ErrTileCountMismatch,
			"layout %s has %d free tiles but needs %d systems", l.Name, free, l.SystemCount())
	}

	logger = logger.With().Str("component", "mapgen").Logger()
	version, forced := ResolveVersion(opts.Version, l)
	if forced {
		logger.Warn().
			Str("requested", opts.Version.String()).
			Str("layout", l.Name).
			Msg("Layout needs expansion systems, using pok")
	}

	selector, err := NewPoolSelector(cat, version, l, len(topo.Equidistant()), opts.Aggression)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &Generator{
		opts:      opts,
		version:   version,
		layout:    l,
		topo:      topo,
		selector:  selector,
		scorer:    newScorer(topo),
		rng:       rng,
		logger:    logger,
		publisher: publisher,
		progress:  newProgress(),
	}, nil
}

// Progress returns the live counters of the running search.
func (g *Generator) Progress() *Progress { return g.progress }

// Version is the catalog version the generator draws from.
func (g *Generator) Version() catalog.Version { return g.version }

type attemptResult struct {
	found      bool
	imbalance  float64
	spread     float64
	assign     []*catalog.System
	scores     []float64
	iterations int64
	valid      int64
}

// better reports whether other beats r: lower imbalance, then lower spread.
func (r *attemptResult) better(other attemptResult) bool {
	if !other.found {
		return false
	}
	if !r.found || other.imbalance < r.imbalance {
		return true
	}
	return other.imbalance == r.imbalance && other.spread < r.spread
}

// Generate runs the search. It returns ctx.Err() when cancelled and
// ErrNoValidBoard when nothing valid was found; a board that misses the
// tolerance is still returned, with Converged false.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	started := time.Now()
	logger := g.logger.With().Str("run_id", runID).Logger()

	g.progress.reset()
	g.publisher.Publish(events.NewSearchStartedEvent(runID, g.opts.Players, g.layout.Name,
		g.version.String(), g.opts.Aggression.String(), g.opts.IterationsPerAttempt,
		g.opts.MaxAttempts, g.opts.Workers))
	logger.Info().
		Str("layout", g.layout.Name).
		Str("version", g.version.String()).
		Str("aggression", g.opts.Aggression.String()).
		Int("iterations_per_attempt", g.opts.IterationsPerAttempt).
		Int("workers", g.opts.Workers).
		Msg("Starting search")

	var (
		best       attemptResult
		attempts   int
		iterations int64
		tolerance  float64
		converged  bool
	)
	for attempt := 0; attempt < g.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tolerance = g.opts.InitialTolerance * math.Pow(g.opts.ToleranceGrowth, float64(attempt))
		if best.found && best.imbalance <= tolerance {
			converged = true
			break
		}

		attemptStart := time.Now()
		pool := g.selector.Draw(g.rng)
		attempts++
		g.progress.startAttempt(attempt, tolerance)
		eq, in := pool.IDs()
		g.publisher.Publish(events.NewAttemptStartedEvent(runID, attempt, tolerance, append(eq, in...)))

		res, err := g.runAttempt(ctx, pool, tolerance)
		if err != nil {
			return nil, err
		}
		iterations += res.iterations
		if best.better(res) {
			best = res
			g.progress.setBest(best.imbalance)
		}
		converged = best.found && best.imbalance <= tolerance

		g.publisher.Publish(events.NewAttemptCompletedEvent(runID, attempt, tolerance,
			res.iterations, res.valid, res.imbalance, converged, time.Since(attemptStart)))
		logger.Debug().
			Int("attempt", attempt).
			Float64("tolerance", tolerance).
			Int64("iterations", res.iterations).
			Int64("valid", res.valid).
			Float64("attempt_best", res.imbalance).
			Float64("best", best.imbalance).
			Msg("Attempt finished")

		if converged {
			break
		}
	}

	duration := time.Since(started)
	g.publisher.Publish(events.NewSearchCompletedEvent(runID, attempts, iterations, best.imbalance, converged, duration))
	if !best.found {
		logger.Error().
			Int("attempts", attempts).
			Int64("iterations", iterations).
			Msg("No valid board found")
		return nil, fmt.Errorf("%w for %s after %d attempts", ErrNoValidBoard, g.layout.Name, attempts)
	}

	result, err := g.buildResult(runID, best)
	if err != nil {
		return nil, err
	}
	result.Attempts = attempts
	result.Iterations = iterations
	result.Converged = converged
	result.Tolerance = tolerance
	result.Duration = duration

	if !converged {
		logger.Warn().
			Float64("imbalance", best.imbalance).
			Float64("tolerance", tolerance).
			Int("attempts", attempts).
			Msg("Search did not converge, returning best board")
	}
	logger.Info().
		Float64("imbalance", result.Imbalance).
		Bool("converged", converged).
		Int("attempts", attempts).
		Int64("iterations", iterations).
		Dur("duration", duration).
		Msg("Search finished")
	return result, nil
}

// runAttempt runs one attempt's inner loop, split across workers when asked.
func (g *Generator) runAttempt(ctx context.Context, pool SelectedSystems, tolerance float64) (attemptResult, error) {
	var stop atomic.Bool
	workers := g.opts.Workers
	if workers <= 1 {
		return g.search(ctx, g.rng, pool, tolerance, g.opts.IterationsPerAttempt, &stop)
	}

	seeds := make([]int64, workers)
	for i := range seeds {
		seeds[i] = g.rng.Int63()
	}
	results := make([]attemptResult, workers)

	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		budget := g.opts.IterationsPerAttempt / workers
		if w < g.opts.IterationsPerAttempt%workers {
			budget++
		}
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[w]))
			res, err := g.search(egCtx, rng, pool, tolerance, budget, &stop)
			results[w] = res
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return attemptResult{}, err
	}

	merged := attemptResult{imbalance: math.Inf(1)}
	for _, res := range results {
		merged.iterations += res.iterations
		merged.valid += res.valid
		if merged.better(res) {
			merged.found = true
			merged.imbalance = res.imbalance
			merged.spread = res.spread
			merged.assign = res.assign
			merged.scores = res.scores
		}
	}
	return merged, nil
}

// search is the inner loop: shuffle both pools, lay them out in slot order,
// skip invalid boards and keep the most balanced one.
func (g *Generator) search(ctx context.Context, rng *rand.Rand, pool SelectedSystems, tolerance float64, budget int, stop *atomic.Bool) (attemptResult, error) {
	eq := append([]*catalog.System(nil), pool.Equidistant...)
	in := append([]*catalog.System(nil), pool.InSlice...)
	assign := make([]*catalog.System, len(eq)+len(in))
	players := len(g.topo.Players())
	scores := make([]float64, players)
	work := make([]totals, players)

	res := attemptResult{imbalance: math.Inf(1)}
	var pendingIterations, pendingValid int64
	flush := func() {
		g.progress.add(pendingIterations, pendingValid)
		pendingIterations, pendingValid = 0, 0
	}
	defer flush()

	for i := 0; i < budget; i++ {
		if i > 0 && i%checkInterval == 0 {
			flush()
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if stop.Load() {
				break
			}
		}

		rng.Shuffle(len(eq), func(a, b int) { eq[a], eq[b] = eq[b], eq[a] })
		rng.Shuffle(len(in), func(a, b int) { in[a], in[b] = in[b], in[a] })
		copy(assign, eq)
		copy(assign[len(eq):], in)
		res.iterations++
		pendingIterations++

		if !g.scorer.valid(assign) {
			continue
		}
		res.valid++
		pendingValid++

		g.scorer.score(assign, scores, work)
		candidate := attemptResult{found: true, imbalance: Imbalance(scores), spread: Spread(scores)}
		if res.better(candidate) {
			res.found = true
			res.imbalance = candidate.imbalance
			res.spread = candidate.spread
			res.assign = append(res.assign[:0], assign...)
			res.scores = append(res.scores[:0], scores...)
		}
		if res.imbalance <= tolerance {
			stop.Store(true)
			break
		}
	}
	return res, nil
}

func (g *Generator) buildResult(runID string, best attemptResult) (*Result, error) {
	tiles := g.topo.Tiles()
	for k, sys := range best.assign {
		i, ok := g.topo.Index(g.scorer.slots[k].pos)
		if !ok {
			return nil, core.NewConfigurationError("build result", core.ErrInvalidPosition,
				"slot %s has no tile", g.scorer.slots[k].pos)
		}
		if err := tiles[i].SetSystemID(sys.ID, sys.Category); err != nil {
			return nil, err
		}
	}

	result := &Result{
		RunID:      runID,
		Layout:     g.layout.Name,
		Players:    g.opts.Players,
		Version:    g.version,
		Aggression: g.opts.Aggression,
		Assignment: make(map[core.Position]string, len(tiles)),
		Scores:     make(map[core.Player]float64, len(best.scores)),
		Imbalance:  best.imbalance,
		Tiles:      tiles,
	}
	for i := range tiles {
		if id := tiles[i].SystemID(); id != "" {
			result.Assignment[tiles[i].Position] = id
		}
	}
	for i, s := range best.scores {
		result.Scores[core.Player(i+1)] = s
	}
	return result, nil
}

// SliceSystems lists the systems assigned to p's slice and to the equidistant
// tiles p shares, in table order.
func (r *Result) SliceSystems(topo *topology.Topology, p core.Player) (slice, shared []string) {
	for _, pos := range topo.Slice(p) {
		slice = append(slice, r.Assignment[pos])
	}
	for _, pos := range topo.SharedWith(p) {
		shared = append(shared, r.Assignment[pos])
	}
	return slice, shared
}

// String is a one-line summary.
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %s): imbalance %.4f", r.Layout, r.Version, r.Aggression, r.Imbalance)
	if !r.Converged {
		fmt.Fprintf(&b, " (tolerance %.4f not met)", r.Tolerance)
	}
	return b.String()
}
