package core

import "fmt"

// Position represents a hex on the board as a (layer, azimuth) pair.
// Layer 0 is the single center hex; layer L holds 6L hexes numbered
// clockwise starting from the corner of side 0.
type Position struct {
	Layer   int
	Azimuth int
}

// Distance is a hop count between two positions. 0 means same position.
type Distance int

// Unreachable marks a position a search never reached.
const Unreachable Distance = -1

// Center is the board-center position.
var Center = Position{}

// NewPosition creates a new position with the given layer and azimuth
func NewPosition(layer, azimuth int) Position {
	return Position{Layer: layer, Azimuth: azimuth}
}

// Valid reports whether the azimuth fits the layer.
func (p Position) Valid() bool {
	if p.Layer < 0 || p.Azimuth < 0 {
		return false
	}
	if p.Layer == 0 {
		return p.Azimuth == 0
	}
	return p.Azimuth < 6*p.Layer
}

// IsCorner reports whether the position sits on one of the six corners of its layer.
// The center counts as a corner.
func (p Position) IsCorner() bool {
	return p.Layer == 0 || p.Azimuth%p.Layer == 0
}

// Less orders positions by layer, then azimuth.
func (p Position) Less(other Position) bool {
	if p.Layer != other.Layer {
		return p.Layer < other.Layer
	}
	return p.Azimuth < other.Azimuth
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Layer, p.Azimuth)
}

// wrap builds a position on layer, reducing azimuth modulo the layer size.
func wrap(layer, azimuth int) Position {
	if layer == 0 {
		return Center
	}
	size := 6 * layer
	return Position{Layer: layer, Azimuth: ((azimuth % size) + size) % size}
}

// Neighbors returns the up to six positions adjacent to p. The result does not
// depend on any board: callers filter to positions that exist.
//
// Corners have one inner and three outer neighbors; other positions have two
// of each. Both always have two neighbors on their own layer.
func (p Position) Neighbors() []Position {
	if p.Layer == 0 {
		out := make([]Position, 6)
		for k := range 6 {
			out[k] = Position{Layer: 1, Azimuth: k}
		}
		return out
	}

	l, a := p.Layer, p.Azimuth
	side, offset := a/l, a%l
	out := make([]Position, 0, 6)
	out = append(out, wrap(l, a-1), wrap(l, a+1))

	if offset == 0 {
		out = append(out, wrap(l-1, side*(l-1)))
		outer := side * (l + 1)
		out = append(out, wrap(l+1, outer-1), wrap(l+1, outer), wrap(l+1, outer+1))
		return out
	}

	inner := side*(l-1) + offset
	out = append(out, wrap(l-1, inner-1), wrap(l-1, inner))
	outer := side*(l+1) + offset
	out = append(out, wrap(l+1, outer), wrap(l+1, outer+1))
	return out
}

// IsAdjacentTo checks if two positions share an edge
func (p Position) IsAdjacentTo(other Position) bool {
	return p.DistanceTo(other) == 1
}

// Cube is a cube hex coordinate; Q+R+S is always zero.
type Cube struct {
	Q, R, S int
}

// cornerDirections lists the unit cube vectors of the six corners in azimuth order.
var cornerDirections = [6]Cube{
	{Q: 1, R: -1, S: 0},
	{Q: 1, R: 0, S: -1},
	{Q: 0, R: 1, S: -1},
	{Q: -1, R: 1, S: 0},
	{Q: -1, R: 0, S: 1},
	{Q: 0, R: -1, S: 1},
}

// Cube converts the position to cube coordinates centered on the board center.
func (p Position) Cube() Cube {
	if p.Layer == 0 {
		return Cube{}
	}
	side, offset := p.Azimuth/p.Layer, p.Azimuth%p.Layer
	from := cornerDirections[side]
	to := cornerDirections[(side+1)%6]
	return Cube{
		Q: p.Layer*from.Q + offset*(to.Q-from.Q),
		R: p.Layer*from.R + offset*(to.R-from.R),
		S: p.Layer*from.S + offset*(to.S-from.S),
	}
}

// DistanceTo returns the geometric hex distance to other, ignoring which
// positions exist on a particular board.
func (p Position) DistanceTo(other Position) Distance {
	a, b := p.Cube(), other.Cube()
	return Distance(max(abs(a.Q-b.Q), abs(a.R-b.R), abs(a.S-b.S)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
