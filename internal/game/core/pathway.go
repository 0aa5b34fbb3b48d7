package core

import "strings"

// Pathway is an ordered walk from a forward position to the board center,
// center included.
type Pathway []Position

// Distance sums the geometric hop distance between consecutive positions.
// A hyperlane jump counts its full geometric length.
func (pw Pathway) Distance() Distance {
	var total Distance
	for i := 1; i < len(pw); i++ {
		total += pw[i-1].DistanceTo(pw[i])
	}
	return total
}

// Tail returns the last position of the pathway.
func (pw Pathway) Tail() Position { return pw[len(pw)-1] }

func (pw Pathway) String() string {
	parts := make([]string, len(pw))
	for i, p := range pw {
		parts[i] = p.String()
	}
	return strings.Join(parts, "->")
}
