package core

import (
	"fmt"
	"strings"
)

// Category classifies a system by the role it can play on the board.
type Category int

const (
	CategoryPlanetary Category = iota
	CategoryAnomalyWormholeEmpty
	CategoryHome
	CategoryMecatolRex
	CategoryWormholeNexus
	CategoryCreussGate
	CategoryHyperlane
)

var categoryNames = map[Category]string{
	CategoryPlanetary:            "planetary",
	CategoryAnomalyWormholeEmpty: "anomaly_wormhole_empty",
	CategoryHome:                 "home",
	CategoryMecatolRex:           "mecatol_rex",
	CategoryWormholeNexus:        "wormhole_nexus",
	CategoryCreussGate:           "creuss_gate",
	CategoryHyperlane:            "hyperlane",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == strings.ToLower(s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// CategorySet is a bit set of categories.
type CategorySet uint16

// NewCategorySet builds a set holding the given categories.
func NewCategorySet(cats ...Category) CategorySet {
	var s CategorySet
	for _, c := range cats {
		s |= 1 << uint(c)
	}
	return s
}

// Contains reports whether c is in the set.
func (s CategorySet) Contains(c Category) bool { return s&(1<<uint(c)) != 0 }

// Only reports whether the set holds exactly c.
func (s CategorySet) Only(c Category) bool { return s == NewCategorySet(c) }

// FreeCategories is the allowed set of every tile the search fills.
var FreeCategories = NewCategorySet(CategoryPlanetary, CategoryAnomalyWormholeEmpty)

// Tile is one cell of a layout. Everything except the system ID is fixed
// static data; the system ID changes once per search iteration.
type Tile struct {
	Position           Position
	Allowed            CategorySet
	Home               Player
	HyperlaneNeighbors []Position
	systemID           string
}

// NewTile creates a tile with no system assigned
func NewTile(pos Position, allowed CategorySet) Tile {
	return Tile{Position: pos, Allowed: allowed}
}

// SystemID returns the assigned system ID, or "" when none is assigned.
func (t *Tile) SystemID() string { return t.systemID }

// SetSystemID assigns id after checking its category against the tile.
func (t *Tile) SetSystemID(id string, category Category) error {
	if !t.Allowed.Contains(category) {
		return NewConfigurationError("set system", ErrCategoryNotAllowed,
			"system %s (%s) on tile %s", id, category, t.Position)
	}
	t.systemID = id
	return nil
}

// ClearSystemID removes any assigned system.
func (t *Tile) ClearSystemID() { t.systemID = "" }

func (t *Tile) IsHome() bool      { return t.Home != NoPlayer }
func (t *Tile) IsCenter() bool    { return t.Allowed.Only(CategoryMecatolRex) }
func (t *Tile) IsHyperlane() bool { return t.Allowed.Only(CategoryHyperlane) }

// IsFree reports whether the search assigns this tile's system.
func (t *Tile) IsFree() bool {
	return !t.IsHome() && t.Allowed == FreeCategories
}

// IsFixed reports whether the tile's content comes from the layout rather
// than the search.
func (t *Tile) IsFixed() bool { return !t.IsFree() }
