// Package topology derives the static structure of a board from its tile
// table: adjacency, distance tables, slices, forward and lateral positions,
// pathways to the center and expansion positions.
package topology

import (
	"sort"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
)

// Topology is the derived, read-only view of one board. Build it once per
// layout and share it between runs.
type Topology struct {
	players []core.Player
	tiles   []core.Tile
	index   map[core.Position]int

	adjacency  map[core.Position][]core.Position
	center     core.Position
	centerDist map[core.Position]core.Distance

	homes    []core.Position
	homeDist []map[core.Position]core.Distance

	relevant    map[core.Position][]core.Player
	equidistant []core.Position
	inSlice     []core.Position
	owner       map[core.Position]core.Player
	slices      [][]core.Position
	shared      [][]core.Position

	forward   [][]core.Position
	lateral   [][]core.Position
	pathways  [][]core.Pathway
	preferred [][]core.Position
	alternate [][]core.Position
}

// Build derives the topology of tiles for a table of the given player count.
// Tiles are copied; their system IDs are kept but ignored.
func Build(tiles []core.Tile, players int) (*Topology, error) {
	t := &Topology{
		players: core.Players(players),
		tiles:   append([]core.Tile(nil), tiles...),
		index:   make(map[core.Position]int, len(tiles)),
	}
	for i, tile := range t.tiles {
		if !tile.Position.Valid() {
			return nil, core.NewConfigurationError("build topology", core.ErrInvalidPosition, "%s", tile.Position)
		}
		if _, dup := t.index[tile.Position]; dup {
			return nil, core.NewConfigurationError("build topology", core.ErrInvalidPosition, "duplicate tile %s", tile.Position)
		}
		t.index[tile.Position] = i
	}

	steps := []func() error{
		t.buildAdjacency,
		t.locateCenter,
		t.locateHomes,
		t.classifyTiles,
		t.splitHomeNeighbors,
		t.buildPathways,
		t.buildExpansion,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Topology) tileAt(pos core.Position) (*core.Tile, bool) {
	i, ok := t.index[pos]
	if !ok {
		return nil, false
	}
	return &t.tiles[i], true
}

func (t *Topology) buildAdjacency() error {
	t.adjacency = make(map[core.Position][]core.Position, len(t.tiles))
	for i := range t.tiles {
		tile := &t.tiles[i]
		if tile.IsHyperlane() {
			continue
		}

		set := make(map[core.Position]bool, 6)
		candidates := append(tile.Position.Neighbors(), tile.HyperlaneNeighbors...)
		for _, n := range candidates {
			other, ok := t.tileAt(n)
			if !ok || other.IsHyperlane() || n == tile.Position {
				continue
			}
			set[n] = true
		}

		neighbors := make([]core.Position, 0, len(set))
		for n := range set {
			neighbors = append(neighbors, n)
		}
		sortPositions(neighbors)
		t.adjacency[tile.Position] = neighbors
	}

	for pos, neighbors := range t.adjacency {
		for _, n := range neighbors {
			if !contains(t.adjacency[n], pos) {
				return core.NewConfigurationError("build topology", core.ErrAsymmetricAdjacency,
					"%s lists %s as a neighbor but not the reverse", pos, n)
			}
		}
	}
	return nil
}

func (t *Topology) locateCenter() error {
	for i := range t.tiles {
		if t.tiles[i].IsCenter() {
			t.center = t.tiles[i].Position
			t.centerDist = DistancesFrom(t.center, t)
			return nil
		}
	}
	return core.NewConfigurationError("build topology", core.ErrMissingCenter, "")
}

func (t *Topology) locateHomes() error {
	t.homes = make([]core.Position, len(t.players))
	found := make([]bool, len(t.players))
	count := 0
	for i := range t.tiles {
		tile := &t.tiles[i]
		if !tile.IsHome() {
			continue
		}
		count++
		idx := tile.Home.Index()
		if idx < 0 || idx >= len(t.players) || found[idx] {
			return core.NewConfigurationError("build topology", core.ErrPlayerMismatch,
				"unexpected home %s at %s", tile.Home, tile.Position)
		}
		found[idx] = true
		t.homes[idx] = tile.Position
	}
	if count != len(t.players) {
		return core.NewConfigurationError("build topology", core.ErrPlayerMismatch,
			"expected %d homes, found %d", len(t.players), count)
	}

	t.homeDist = make([]map[core.Position]core.Distance, len(t.players))
	for i, home := range t.homes {
		t.homeDist[i] = DistancesFrom(home, t)
	}
	return nil
}

func (t *Topology) classifyTiles() error {
	t.relevant = make(map[core.Position][]core.Player)
	t.owner = make(map[core.Position]core.Player)
	t.slices = make([][]core.Position, len(t.players))
	t.shared = make([][]core.Position, len(t.players))

	for i := range t.tiles {
		tile := &t.tiles[i]
		if !tile.IsFree() {
			continue
		}

		best := core.Unreachable
		var players []core.Player
		for _, p := range t.players {
			d := lookup(t.homeDist[p.Index()], tile.Position)
			switch {
			case d == core.Unreachable:
			case best == core.Unreachable || d < best:
				best = d
				players = []core.Player{p}
			case d == best:
				players = append(players, p)
			}
		}
		if len(players) == 0 {
			return core.NewConfigurationError("build topology", core.ErrInvalidPosition,
				"tile %s is unreachable from every home", tile.Position)
		}

		t.relevant[tile.Position] = players
		if len(players) == 1 {
			p := players[0]
			t.inSlice = append(t.inSlice, tile.Position)
			t.owner[tile.Position] = p
			t.slices[p.Index()] = append(t.slices[p.Index()], tile.Position)
			continue
		}
		t.equidistant = append(t.equidistant, tile.Position)
		for _, p := range players {
			t.shared[p.Index()] = append(t.shared[p.Index()], tile.Position)
		}
	}
	return nil
}

func (t *Topology) splitHomeNeighbors() error {
	t.forward = make([][]core.Position, len(t.players))
	t.lateral = make([][]core.Position, len(t.players))
	for i, home := range t.homes {
		homeDist := lookup(t.centerDist, home)
		for _, n := range t.adjacency[home] {
			d := lookup(t.centerDist, n)
			if d != core.Unreachable && d < homeDist {
				t.forward[i] = append(t.forward[i], n)
			} else {
				t.lateral[i] = append(t.lateral[i], n)
			}
		}
	}
	return nil
}

func (t *Topology) buildPathways() error {
	t.pathways = make([][]core.Pathway, len(t.players))
	for i := range t.players {
		var all []core.Pathway
		for _, f := range t.forward[i] {
			all = append(all, t.grow(core.Pathway{f})...)
		}
		if len(all) == 0 {
			continue
		}

		shortest := all[0].Distance()
		for _, pw := range all[1:] {
			shortest = min(shortest, pw.Distance())
		}
		for _, pw := range all {
			if pw.Distance() == shortest {
				t.pathways[i] = append(t.pathways[i], pw)
			}
		}
	}
	return nil
}

// grow extends pw toward the center, forking at every step where more than
// one neighbor is strictly nearer.
func (t *Topology) grow(pw core.Pathway) []core.Pathway {
	tail := pw.Tail()
	if tail == t.center {
		return []core.Pathway{pw}
	}

	tailDist := lookup(t.centerDist, tail)
	var out []core.Pathway
	for _, n := range t.adjacency[tail] {
		d := lookup(t.centerDist, n)
		if d == core.Unreachable || d >= tailDist {
			continue
		}
		next := make(core.Pathway, len(pw), len(pw)+1)
		copy(next, pw)
		out = append(out, t.grow(append(next, n))...)
	}
	return out
}

// expansionIndexes maps a pathway length (positions, center included) to the
// pathway indexes of the preferred and alternate expansion positions. -1 means
// none.
func expansionIndexes(n int) (preferred, alternate int) {
	switch n {
	case 2:
		return 0, -1
	case 3:
		return 0, 1
	case 4:
		return 1, 0
	case 5:
		return 1, 2
	default:
		return -1, -1
	}
}

func (t *Topology) buildExpansion() error {
	t.preferred = make([][]core.Position, len(t.players))
	t.alternate = make([][]core.Position, len(t.players))
	for i, p := range t.players {
		var prefCandidates, altCandidates []core.Position
		for _, pw := range t.pathways[i] {
			pref, alt := expansionIndexes(len(pw))
			if pref >= 0 {
				prefCandidates = appendUnique(prefCandidates, pw[pref])
			}
			if alt >= 0 {
				altCandidates = appendUnique(altCandidates, pw[alt])
			}
		}
		t.preferred[i] = t.bestExpansion(p, prefCandidates)
		t.alternate[i] = t.bestExpansion(p, altCandidates)
	}
	return nil
}

// bestExpansion keeps the candidates that jointly maximize the distance to the
// nearest rival home and then the number of equidistant neighbors.
func (t *Topology) bestExpansion(p core.Player, candidates []core.Position) []core.Position {
	type rank struct {
		rival, shared int
	}
	rankOf := func(pos core.Position) rank {
		r := rank{rival: -1}
		for _, other := range t.players {
			if other == p {
				continue
			}
			d := lookup(t.homeDist[other.Index()], pos)
			if d == core.Unreachable {
				continue
			}
			if r.rival < 0 || int(d) < r.rival {
				r.rival = int(d)
			}
		}
		for _, n := range t.adjacency[pos] {
			if t.IsEquidistant(n) {
				r.shared++
			}
		}
		return r
	}

	var best []core.Position
	var top rank
	for _, pos := range candidates {
		r := rankOf(pos)
		switch {
		case len(best) == 0 || r.rival > top.rival || (r.rival == top.rival && r.shared > top.shared):
			top = r
			best = []core.Position{pos}
		case r == top:
			best = append(best, pos)
		}
	}
	sortPositions(best)
	return best
}

// Neighbors returns the board neighbors of pos, hyperlane links included and
// hyperlane tiles excluded.
func (t *Topology) Neighbors(pos core.Position) []core.Position {
	return t.adjacency[pos]
}

// Players returns Player1..PlayerN.
func (t *Topology) Players() []core.Player { return t.players }

// Tiles returns a copy of the tile table in input order.
func (t *Topology) Tiles() []core.Tile { return append([]core.Tile(nil), t.tiles...) }

// Index returns the tile-table index of pos.
func (t *Topology) Index(pos core.Position) (int, bool) {
	i, ok := t.index[pos]
	return i, ok
}

// Tile returns the static tile at pos.
func (t *Topology) Tile(pos core.Position) (core.Tile, bool) {
	tile, ok := t.tileAt(pos)
	if !ok {
		return core.Tile{}, false
	}
	return *tile, true
}

func (t *Topology) Center() core.Position { return t.center }

// Home returns the home position of p.
func (t *Topology) Home(p core.Player) core.Position { return t.homes[p.Index()] }

// DistanceToCenter returns the hop distance from pos to the center, or
// core.Unreachable.
func (t *Topology) DistanceToCenter(pos core.Position) core.Distance {
	return lookup(t.centerDist, pos)
}

// DistanceToHome returns the hop distance from p's home to pos, or
// core.Unreachable.
func (t *Topology) DistanceToHome(p core.Player, pos core.Position) core.Distance {
	return lookup(t.homeDist[p.Index()], pos)
}

// RelevantPlayers returns the players tied for the nearest home to pos.
func (t *Topology) RelevantPlayers(pos core.Position) []core.Player { return t.relevant[pos] }

// IsEquidistant reports whether two or more players are tied nearest to pos.
func (t *Topology) IsEquidistant(pos core.Position) bool { return len(t.relevant[pos]) > 1 }

// Equidistant returns the equidistant positions in table order.
func (t *Topology) Equidistant() []core.Position { return t.equidistant }

// InSlice returns the in-slice positions in table order.
func (t *Topology) InSlice() []core.Position { return t.inSlice }

// Owner returns the player whose slice holds pos, or core.NoPlayer.
func (t *Topology) Owner(pos core.Position) core.Player { return t.owner[pos] }

// Slice returns the in-slice positions of p.
func (t *Topology) Slice(p core.Player) []core.Position { return t.slices[p.Index()] }

// SharedWith returns the equidistant positions p is relevant to.
func (t *Topology) SharedWith(p core.Player) []core.Position { return t.shared[p.Index()] }

func (t *Topology) Forward(p core.Player) []core.Position { return t.forward[p.Index()] }
func (t *Topology) Lateral(p core.Player) []core.Position { return t.lateral[p.Index()] }

// Pathways returns p's shortest pathways to the center.
func (t *Topology) Pathways(p core.Player) []core.Pathway { return t.pathways[p.Index()] }

func (t *Topology) Preferred(p core.Player) []core.Position { return t.preferred[p.Index()] }
func (t *Topology) Alternate(p core.Player) []core.Position { return t.alternate[p.Index()] }

// AdjacentPairs returns every adjacent pair of positions once, smaller first.
func (t *Topology) AdjacentPairs() [][2]core.Position {
	var out [][2]core.Position
	for i := range t.tiles {
		pos := t.tiles[i].Position
		for _, n := range t.adjacency[pos] {
			if pos.Less(n) {
				out = append(out, [2]core.Position{pos, n})
			}
		}
	}
	return out
}

func sortPositions(ps []core.Position) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
}

func contains(ps []core.Position, pos core.Position) bool {
	for _, p := range ps {
		if p == pos {
			return true
		}
	}
	return false
}

func appendUnique(ps []core.Position, pos core.Position) []core.Position {
	if contains(ps, pos) {
		return ps
	}
	return append(ps, pos)
}
