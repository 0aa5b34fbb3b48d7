package mapgen

import (
	"math"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/common"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/catalog"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/topology"
)

// Scoring constants.
const (
	ForwardPenalty   = -6.0
	AlternateWeight  = 0.5
	LateralRiftScale = 3.0

	SupernovaPathPenalty     = -4.0
	AsteroidPathPenalty      = -1.0
	NebulaNearPathPenalty    = -1.0
	NebulaFarPathPenalty     = -2.0
	GravityRiftPathPenalty   = -3.0
	HomeAdjacentPlanetTarget = 2.0
	HomeAdjacentPlanetWeight = 1.0
)

// Average slice contents of a five-system slice, and the weight of each
// deviation from them.
const (
	avgPlanets     = 5.05
	avgResources   = 5.15
	avgInfluence   = 5.76
	avgSpecialties = 1.32
	avgTrait       = 2.0

	weightPlanets     = 1.0
	weightResources   = 2.0
	weightInfluence   = 1.5
	weightSpecialties = 1.0
	weightTrait       = 1.0

	referenceSliceSize = 5.0
)

// distanceDecay scales a tile's value by its hop distance from a home.
func distanceDecay(d core.Distance) float64 {
	switch {
	case d <= 1:
		return 1.0
	case d == 2:
		return 0.8
	default:
		return 0.6
	}
}

// Imbalance is max(avg-min, max-avg)/avg over scores. Equal scores give 0; a
// spread around a non-positive average gives +Inf, and such boards are then
// ranked by Spread.
func Imbalance(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	lo, hi := common.MinMax(scores)
	if lo == hi {
		return 0
	}
	avg := common.Mean(scores)
	if avg <= 0 {
		return math.Inf(1)
	}
	return math.Max(avg-lo, hi-avg) / avg
}

// Spread is max-min over scores.
func Spread(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	lo, hi := common.MinMax(scores)
	return hi - lo
}

type slot struct {
	pos        core.Position
	players    []int
	decay      []float64
	share      float64
	nearCenter bool
}

type totals struct {
	planets, resources, influence, specialties float64
	traits                                     [3]float64
}

// scorer holds the topology flattened to slot indexes. Slots are the free
// tiles: equidistant tiles first, then in-slice tiles, both in table order.
// It is read-only and shared by all workers.
type scorer struct {
	players   int
	slots     []slot
	slotIndex map[core.Position]int
	pairs     [][2]int

	forward   [][]int
	lateral   [][]int
	pathways  [][][]int
	preferred [][]int
	alternate [][]int

	balanceScale float64
}

func newScorer(topo *topology.Topology) *scorer {
	players := topo.Players()
	s := &scorer{
		players:   len(players),
		slotIndex: make(map[core.Position]int),
	}

	positions := append(append([]core.Position(nil), topo.Equidistant()...), topo.InSlice()...)
	for k, pos := range positions {
		relevant := topo.RelevantPlayers(pos)
		sl := slot{
			pos:        pos,
			share:      1 / float64(len(relevant)),
			nearCenter: topo.DistanceToCenter(pos) == 1,
		}
		for _, p := range relevant {
			sl.players = append(sl.players, p.Index())
			sl.decay = append(sl.decay, distanceDecay(topo.DistanceToHome(p, pos)))
		}
		s.slots = append(s.slots, sl)
		s.slotIndex[pos] = k
	}

	for _, pair := range topo.AdjacentPairs() {
		a, okA := s.slotIndex[pair[0]]
		b, okB := s.slotIndex[pair[1]]
		if okA && okB {
			s.pairs = append(s.pairs, [2]int{a, b})
		}
	}

	s.forward = make([][]int, len(players))
	s.lateral = make([][]int, len(players))
	s.pathways = make([][][]int, len(players))
	s.preferred = make([][]int, len(players))
	s.alternate = make([][]int, len(players))
	for i, p := range players {
		s.forward[i] = s.indexes(topo.Forward(p))
		s.lateral[i] = s.indexes(topo.Lateral(p))
		s.preferred[i] = s.indexes(topo.Preferred(p))
		s.alternate[i] = s.indexes(topo.Alternate(p))
		for _, pw := range topo.Pathways(p) {
			s.pathways[i] = append(s.pathways[i], s.indexes(pw))
		}
	}

	if len(players) > 0 {
		s.balanceScale = float64(len(s.slots)) / float64(len(players)) / referenceSliceSize
	}
	return s
}

// indexes maps positions to slot indexes, dropping positions that are not slots.
func (s *scorer) indexes(positions []core.Position) []int {
	out := make([]int, 0, len(positions))
	for _, pos := range positions {
		if k, ok := s.slotIndex[pos]; ok {
			out = append(out, k)
		}
	}
	return out
}

// conflict reports whether two systems may not sit next to each other.
func conflict(a, b *catalog.System) bool {
	return (a.HasAnomaly() && b.HasAnomaly()) ||
		(a.HasWormhole(catalog.Alpha) && b.HasWormhole(catalog.Alpha)) ||
		(a.HasWormhole(catalog.Beta) && b.HasWormhole(catalog.Beta))
}

// valid reports whether no adjacent pair of slots conflicts.
func (s *scorer) valid(assign []*catalog.System) bool {
	for _, pair := range s.pairs {
		if conflict(assign[pair[0]], assign[pair[1]]) {
			return false
		}
	}
	return true
}

func pathwayPenalty(sys *catalog.System, nearCenter bool) float64 {
	penalty := 0.0
	if sys.HasAnomalyKind(catalog.Supernova) {
		penalty += SupernovaPathPenalty
	}
	if sys.HasAnomalyKind(catalog.AsteroidField) {
		penalty += AsteroidPathPenalty
	}
	if sys.HasAnomalyKind(catalog.Nebula) {
		if nearCenter {
			penalty += NebulaNearPathPenalty
		} else {
			penalty += NebulaFarPathPenalty
		}
	}
	if sys.HasAnomalyKind(catalog.GravityRift) {
		penalty += GravityRiftPathPenalty
	}
	return penalty
}

func (s *scorer) meanExpansion(assign []*catalog.System, slots []int) float64 {
	if len(slots) == 0 {
		return 0
	}
	sum := 0.0
	for _, k := range slots {
		sum += assign[k].ExpansionScore()
	}
	return sum / float64(len(slots))
}

// score writes each player's slice score for assign into scores. work must
// have one entry per player.
func (s *scorer) score(assign []*catalog.System, scores []float64, work []totals) {
	for i := range scores {
		scores[i] = 0
		work[i] = totals{}
	}

	// base value with distance decay, and balance totals
	for k, sys := range assign {
		sl := &s.slots[k]
		base := sys.Score() * sl.share
		for j, p := range sl.players {
			scores[p] += base * sl.decay[j]

			t := &work[p]
			t.planets += sl.share * float64(sys.PlanetCount())
			t.resources += sl.share * sys.UsefulResources()
			t.influence += sl.share * sys.UsefulInfluence()
			t.specialties += sl.share * float64(sys.Specialties())
			for ti, trait := range catalog.Traits {
				t.traits[ti] += sl.share * float64(sys.TraitCount(trait))
			}
		}
	}

	for p := 0; p < s.players; p++ {
		// forward
		hasForwardPlanet := false
		for _, k := range s.forward[p] {
			if assign[k].HasPlanets() && !assign[k].HasAnomaly() {
				hasForwardPlanet = true
				break
			}
		}
		if !hasForwardPlanet {
			scores[p] += ForwardPenalty
		}

		// lateral
		for _, k := range s.lateral[p] {
			sys := assign[k]
			if sys.HasAnomalyKind(catalog.GravityRift) {
				scores[p] -= LateralRiftScale * catalog.AnomalyScore(catalog.GravityRift)
			}
			scores[p] -= catalog.WormholeBonus * float64(sys.WormholeCount())
		}

		// pathway to the center
		if len(s.pathways[p]) > 0 {
			best := math.Inf(-1)
			for _, pw := range s.pathways[p] {
				penalty := 0.0
				for _, k := range pw {
					penalty += pathwayPenalty(assign[k], s.slots[k].nearCenter)
				}
				best = math.Max(best, penalty)
			}
			scores[p] += best
		}

		// expansion
		scores[p] += s.meanExpansion(assign, s.preferred[p]) +
			AlternateWeight*s.meanExpansion(assign, s.alternate[p])

		// balance
		t := &work[p]
		scale := s.balanceScale
		scores[p] += weightPlanets*(t.planets-avgPlanets*scale) +
			weightResources*(t.resources-avgResources*scale) +
			weightInfluence*(t.influence-avgInfluence*scale) +
			weightSpecialties*(t.specialties-avgSpecialties*scale)
		for _, count := range t.traits {
			scores[p] += weightTrait * (count - avgTrait*scale)
		}

		// planets next to home
		withPlanets := 0
		for _, k := range s.forward[p] {
			if assign[k].HasPlanets() {
				withPlanets++
			}
		}
		for _, k := range s.lateral[p] {
			if assign[k].HasPlanets() {
				withPlanets++
			}
		}
		scores[p] += HomeAdjacentPlanetWeight * (1 - math.Abs(float64(withPlanets)-HomeAdjacentPlanetTarget))
	}
}
