package testutil

import (
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
)

// RingBoard creates a full hex board of the given rings. The center carries
// Mecatol Rex, homes[i] belongs to player i+1, and every other position is a
// free tile.
func RingBoard(rings int, homes ...core.Position) []core.Tile {
	center := core.NewTile(core.Center, core.NewCategorySet(core.CategoryMecatolRex))
	if err := center.SetSystemID("18", core.CategoryMecatolRex); err != nil {
		panic(err)
	}
	tiles := []core.Tile{center}

	for layer := 1; layer <= rings; layer++ {
		for az := 0; az < 6*layer; az++ {
			pos := core.NewPosition(layer, az)
			tile := core.NewTile(pos, core.FreeCategories)
			for i, h := range homes {
				if h == pos {
					tile = core.NewTile(pos, core.NewCategorySet(core.CategoryHome))
					tile.Home = core.Player(i + 1)
				}
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles
}

// CreateSimpleTestSetup creates a two-ring board with two players facing each
// other across the center: P1 at (2,0), P2 at (2,6).
func CreateSimpleTestSetup() []core.Tile {
	return RingBoard(2, core.NewPosition(2, 0), core.NewPosition(2, 6))
}

// FindTile returns a pointer to the tile at pos, or nil.
func FindTile(tiles []core.Tile, pos core.Position) *core.Tile {
	for i := range tiles {
		if tiles[i].Position == pos {
			return &tiles[i]
		}
	}
	return nil
}

// FreeTileCount counts the tiles the search fills.
func FreeTileCount(tiles []core.Tile) int {
	n := 0
	for i := range tiles {
		if tiles[i].IsFree() {
			n++
		}
	}
	return n
}
