package mapgen

import (
	"math/rand"
	"sort"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/catalog"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/layout"
)

// SelectedSystems is the candidate pool of one attempt.
type SelectedSystems struct {
	Equidistant []*catalog.System
	InSlice     []*catalog.System
}

// IDs returns the system IDs of both pools.
func (s SelectedSystems) IDs() (equidistant, inSlice []string) {
	return systemIDs(s.Equidistant), systemIDs(s.InSlice)
}

func systemIDs(systems []*catalog.System) []string {
	ids := make([]string, len(systems))
	for i, sys := range systems {
		ids[i] = sys.ID
	}
	return ids
}

// PoolSelector draws candidate pools for one layout.
type PoolSelector struct {
	planetary        []*catalog.System
	anomaly          []*catalog.System
	planetaryCount   int
	anomalyCount     int
	equidistantSlots int
	aggression       Aggression
}

// NewPoolSelector collects the systems of version that may fill free tiles.
func NewPoolSelector(cat *catalog.Catalog, version catalog.Version, l *layout.Layout, equidistantSlots int, aggression Aggression) (*PoolSelector, error) {
	ps := &PoolSelector{
		planetary:        cat.Filter(version, core.CategoryPlanetary),
		anomaly:          cat.Filter(version, core.CategoryAnomalyWormholeEmpty),
		planetaryCount:   l.PlanetaryCount(),
		anomalyCount:     l.AnomalyCount(),
		equidistantSlots: equidistantSlots,
		aggression:       aggression,
	}

	if len(ps.planetary) < ps.planetaryCount {
		return nil, core.NewConfigurationError("select pool", core.ErrInsufficientSystems,
			"%s needs %d planetary systems, %s has %d", l.Name, ps.planetaryCount, version, len(ps.planetary))
	}
	if len(ps.anomaly) < ps.anomalyCount {
		return nil, core.NewConfigurationError("select pool", core.ErrInsufficientSystems,
			"%s needs %d anomaly, wormhole or empty systems, %s has %d", l.Name, ps.anomalyCount, version, len(ps.anomaly))
	}
	if equidistantSlots < 0 || equidistantSlots > ps.planetaryCount+ps.anomalyCount {
		return nil, core.NewConfigurationError("select pool", core.ErrTileCountMismatch,
			"%d equidistant slots for %d systems", equidistantSlots, ps.planetaryCount+ps.anomalyCount)
	}
	return ps, nil
}

// Size is the total number of systems in every drawn pool.
func (ps *PoolSelector) Size() int { return ps.planetaryCount + ps.anomalyCount }

// Draw samples a fresh pool and splits it by aggression.
func (ps *PoolSelector) Draw(rng *rand.Rand) SelectedSystems {
	sample := make([]*catalog.System, 0, ps.Size())
	sample = append(sample, sampleSystems(rng, ps.planetary, ps.planetaryCount)...)
	sample = append(sample, sampleSystems(rng, ps.anomaly, ps.anomalyCount)...)
	return ps.partition(sample)
}

// sampleSystems picks n systems uniformly without replacement.
func sampleSystems(rng *rand.Rand, from []*catalog.System, n int) []*catalog.System {
	out := make([]*catalog.System, n)
	for i, j := range rng.Perm(len(from))[:n] {
		out[i] = from[j]
	}
	return out
}

func (ps *PoolSelector) partition(sample []*catalog.System) SelectedSystems {
	ranked := append([]*catalog.System(nil), sample...)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score() != ranked[j].Score() {
			return ranked[i].Score() > ranked[j].Score()
		}
		return catalog.LessID(ranked[i].ID, ranked[j].ID)
	})

	n := ps.equidistantSlots
	start := windowStart(ps.aggression, len(ranked), n)

	equidistant := append([]*catalog.System(nil), ranked[start:start+n]...)
	inSlice := make([]*catalog.System, 0, len(ranked)-n)
	inSlice = append(inSlice, ranked[:start]...)
	inSlice = append(inSlice, ranked[start+n:]...)
	return SelectedSystems{Equidistant: equidistant, InSlice: inSlice}
}

// windowStart is the ranked index where the equidistant window of n systems
// begins in a pool of size p.
func windowStart(a Aggression, p, n int) int {
	spare := p - n
	switch a {
	case AggressionVeryHigh:
		return 0
	case AggressionHigh:
		return spare / 4
	case AggressionLow:
		return 3 * spare / 4
	case AggressionVeryLow:
		return spare
	default:
		return spare / 2
	}
}
