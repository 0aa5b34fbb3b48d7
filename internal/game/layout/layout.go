// Package layout holds the static board tables: which positions exist for a
// player count and board size, where the homes sit, and where hyperlanes
// replace ordinary tiles.
package layout

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
)

// MecatolRexID is the fixed system on the center tile.
const MecatolRexID = "18"

//go:embed layouts.yaml
var layoutsYAML []byte

// Size distinguishes the board variants offered for one player count.
type Size int

const (
	SizeRegular Size = iota
	SizeLarge
)

func (s Size) String() string {
	if s == SizeLarge {
		return "large"
	}
	return "regular"
}

// ParseSize accepts "regular" and "large".
func ParseSize(s string) (Size, error) {
	switch strings.ToLower(s) {
	case "regular", "":
		return SizeRegular, nil
	case "large":
		return SizeLarge, nil
	}
	return SizeRegular, fmt.Errorf("unknown layout size %q", s)
}

// HyperlaneTile is a fixed hyperlane placement. The system ID carries an
// orientation suffix, e.g. "85A-3".
type HyperlaneTile struct {
	Position core.Position
	SystemID string
}

// Link joins two positions through a hyperlane.
type Link [2]core.Position

// Layout describes one board.
type Layout struct {
	Name              string
	Players           int
	Size              Size
	Rings             int
	RequiresExpansion bool
	// URLSettings is appended to the player count in the map viewer settings.
	URLSettings string

	PlanetaryPerPlayer int
	AnomalyPerPlayer   int
	PlanetaryExtra     int
	AnomalyExtra       int

	Homes      []core.Position
	Skipped    []core.Position
	Hyperlanes []HyperlaneTile
	Links      []Link

	sparseOuterRing bool
}

// PlanetaryCount is the number of planetary systems the board needs.
func (l *Layout) PlanetaryCount() int {
	return l.PlanetaryPerPlayer*l.Players + l.PlanetaryExtra
}

// AnomalyCount is the number of anomaly, wormhole and empty systems the board needs.
func (l *Layout) AnomalyCount() int {
	return l.AnomalyPerPlayer*l.Players + l.AnomalyExtra
}

// SystemCount is PlanetaryCount plus AnomalyCount.
func (l *Layout) SystemCount() int {
	return l.PlanetaryCount() + l.AnomalyCount()
}

// Positions returns every position inside the rings in layer/azimuth order,
// whether or not a tile exists there.
func (l *Layout) Positions() []core.Position {
	out := []core.Position{core.Center}
	for layer := 1; layer <= l.Rings; layer++ {
		for az := 0; az < 6*layer; az++ {
			out = append(out, core.Position{Layer: layer, Azimuth: az})
		}
	}
	return out
}

// Exists reports whether the board has a tile at pos.
func (l *Layout) Exists(pos core.Position) bool {
	if !pos.Valid() || pos.Layer > l.Rings {
		return false
	}
	if l.homeOf(pos) != core.NoPlayer || l.hyperlaneAt(pos) != "" {
		return true
	}
	if l.sparseOuterRing && pos.Layer == l.Rings {
		return false
	}
	for _, s := range l.Skipped {
		if s == pos {
			return false
		}
	}
	return true
}

func (l *Layout) homeOf(pos core.Position) core.Player {
	for i, h := range l.Homes {
		if h == pos {
			return core.Player(i + 1)
		}
	}
	return core.NoPlayer
}

func (l *Layout) hyperlaneAt(pos core.Position) string {
	for _, h := range l.Hyperlanes {
		if h.Position == pos {
			return h.SystemID
		}
	}
	return ""
}

// Tiles expands the table into tiles ordered by layer and azimuth. The center
// carries Mecatol Rex, hyperlanes carry their fixed IDs, homes carry their
// player tag and no system.
func (l *Layout) Tiles() ([]core.Tile, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}

	links := make(map[core.Position][]core.Position)
	for _, link := range l.Links {
		links[link[0]] = append(links[link[0]], link[1])
		links[link[1]] = append(links[link[1]], link[0])
	}

	var tiles []core.Tile
	for _, pos := range l.Positions() {
		if !l.Exists(pos) {
			continue
		}

		var tile core.Tile
		switch {
		case pos == core.Center:
			tile = core.NewTile(pos, core.NewCategorySet(core.CategoryMecatolRex))
			if err := tile.SetSystemID(MecatolRexID, core.CategoryMecatolRex); err != nil {
				return nil, err
			}
		case l.homeOf(pos) != core.NoPlayer:
			tile = core.NewTile(pos, core.NewCategorySet(core.CategoryHome))
			tile.Home = l.homeOf(pos)
		case l.hyperlaneAt(pos) != "":
			tile = core.NewTile(pos, core.NewCategorySet(core.CategoryHyperlane))
			if err := tile.SetSystemID(l.hyperlaneAt(pos), core.CategoryHyperlane); err != nil {
				return nil, err
			}
		default:
			tile = core.NewTile(pos, core.FreeCategories)
		}
		tile.HyperlaneNeighbors = links[pos]
		tiles = append(tiles, tile)
	}
	return tiles, nil
}

func (l *Layout) validate() error {
	op := "expand layout " + l.Name
	if len(l.Homes) != l.Players {
		return core.NewConfigurationError(op, core.ErrPlayerMismatch,
			"%d homes for %d players", len(l.Homes), l.Players)
	}

	fixed := make([]core.Position, 0, len(l.Homes)+len(l.Hyperlanes)+2*len(l.Links))
	fixed = append(fixed, l.Homes...)
	for _, h := range l.Hyperlanes {
		fixed = append(fixed, h.Position)
	}
	for _, pos := range fixed {
		if !pos.Valid() || pos.Layer > l.Rings || pos == core.Center {
			return core.NewConfigurationError(op, core.ErrInvalidPosition, "%s", pos)
		}
	}
	for _, link := range l.Links {
		for _, pos := range link {
			if !l.Exists(pos) || l.hyperlaneAt(pos) != "" {
				return core.NewConfigurationError(op, core.ErrInvalidPosition,
					"hyperlane link endpoint %s is not a board tile", pos)
			}
		}
	}
	return nil
}

// Registry maps (players, size) to a layout.
type Registry struct {
	layouts map[key]*Layout
}

type key struct {
	players int
	size    Size
}

type hyperlaneDoc struct {
	Position [2]int `yaml:"position"`
	ID       string `yaml:"id"`
}

type layoutDoc struct {
	Name               string         `yaml:"name"`
	Players            int            `yaml:"players"`
	Size               string         `yaml:"size"`
	Rings              int            `yaml:"rings"`
	SparseOuterRing    bool           `yaml:"sparse_outer_ring"`
	RequiresExpansion  bool           `yaml:"requires_expansion"`
	URLSettings        string         `yaml:"url_settings"`
	PlanetaryPerPlayer int            `yaml:"planetary_per_player"`
	AnomalyPerPlayer   int            `yaml:"anomaly_per_player"`
	PlanetaryExtra     int            `yaml:"planetary_extra"`
	AnomalyExtra       int            `yaml:"anomaly_extra"`
	Homes              [][2]int       `yaml:"homes"`
	Skip               [][2]int       `yaml:"skip"`
	Hyperlanes         []hyperlaneDoc `yaml:"hyperlanes"`
	Links              [][2][2]int    `yaml:"links"`
}

type registryDoc struct {
	Layouts []layoutDoc `yaml:"layouts"`
}

func toPosition(p [2]int) core.Position {
	return core.Position{Layer: p[0], Azimuth: p[1]}
}

func toPositions(ps [][2]int) []core.Position {
	out := make([]core.Position, len(ps))
	for i, p := range ps {
		out[i] = toPosition(p)
	}
	return out
}

// Load parses the embedded board tables.
func Load() (*Registry, error) {
	return Parse(layoutsYAML)
}

// Parse builds a registry from a YAML document shaped like layouts.yaml.
func Parse(data []byte) (*Registry, error) {
	var doc registryDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, core.NewConfigurationError("parse layouts", core.ErrMalformedData, "%v", err)
	}

	r := &Registry{layouts: make(map[key]*Layout, len(doc.Layouts))}
	for _, ld := range doc.Layouts {
		size, err := ParseSize(ld.Size)
		if err != nil {
			return nil, core.NewConfigurationError("parse layouts", core.ErrMalformedData, "%s: %v", ld.Name, err)
		}
		if ld.Players < 2 || ld.Players > core.MaxPlayers || ld.Rings < 1 {
			return nil, core.NewConfigurationError("parse layouts", core.ErrMalformedData,
				"%s: %d players on %d rings", ld.Name, ld.Players, ld.Rings)
		}

		l := &Layout{
			Name:               ld.Name,
			Players:            ld.Players,
			Size:               size,
			Rings:              ld.Rings,
			RequiresExpansion:  ld.RequiresExpansion,
			URLSettings:        ld.URLSettings,
			PlanetaryPerPlayer: ld.PlanetaryPerPlayer,
			AnomalyPerPlayer:   ld.AnomalyPerPlayer,
			PlanetaryExtra:     ld.PlanetaryExtra,
			AnomalyExtra:       ld.AnomalyExtra,
			Homes:              toPositions(ld.Homes),
			Skipped:            toPositions(ld.Skip),
			sparseOuterRing:    ld.SparseOuterRing,
		}
		for _, h := range ld.Hyperlanes {
			l.Hyperlanes = append(l.Hyperlanes, HyperlaneTile{Position: toPosition(h.Position), SystemID: h.ID})
		}
		for _, link := range ld.Links {
			l.Links = append(l.Links, Link{toPosition(link[0]), toPosition(link[1])})
		}

		k := key{players: l.Players, size: l.Size}
		if _, dup := r.layouts[k]; dup {
			return nil, core.NewConfigurationError("parse layouts", core.ErrMalformedData,
				"duplicate %s layout for %d players", size, l.Players)
		}
		r.layouts[k] = l
	}
	return r, nil
}

// Lookup returns the layout for a player count and size.
func (r *Registry) Lookup(players int, size Size) (*Layout, error) {
	l, ok := r.layouts[key{players: players, size: size}]
	if !ok {
		return nil, core.NewConfigurationError("lookup layout", core.ErrUnknownLayout,
			"no %s layout for %d players", size, players)
	}
	return l, nil
}

// Sizes lists the sizes offered for a player count.
func (r *Registry) Sizes(players int) []Size {
	var out []Size
	for k := range r.layouts {
		if k.players == players {
			out = append(out, k.size)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// All returns every layout ordered by player count, then size.
func (r *Registry) All() []*Layout {
	out := make([]*Layout, 0, len(r.layouts))
	for _, l := range r.layouts {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Players != out[j].Players {
			return out[i].Players < out[j].Players
		}
		return out[i].Size < out[j].Size
	})
	return out
}
