package topology

import "github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"

// Adjacency supplies the neighbors of a position on some board.
type Adjacency interface {
	Neighbors(pos core.Position) []core.Position
}

// DistancesFrom runs a breadth-first search from target and returns the hop
// distance of every reachable position. Positions that cannot be reached are
// absent from the map.
func DistancesFrom(target core.Position, adj Adjacency) map[core.Position]core.Distance {
	dist := map[core.Position]core.Distance{target: 0}
	frontier := []core.Position{target}

	for d := core.Distance(1); len(frontier) > 0; d++ {
		var next []core.Position
		for _, pos := range frontier {
			for _, n := range adj.Neighbors(pos) {
				if _, seen := dist[n]; seen {
					continue
				}
				dist[n] = d
				next = append(next, n)
			}
		}
		frontier = next
	}
	return dist
}

// lookup returns the distance of pos, or core.Unreachable.
func lookup(dist map[core.Position]core.Distance, pos core.Position) core.Distance {
	if d, ok := dist[pos]; ok {
		return d
	}
	return core.Unreachable
}
