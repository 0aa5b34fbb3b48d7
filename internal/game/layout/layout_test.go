package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
)

func loadRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Load()
	require.NoError(t, err)
	return r
}

func TestRegistry_AllLayoutsConsistent(t *testing.T) {
	r := loadRegistry(t)
	require.Len(t, r.All(), 9)

	for _, l := range r.All() {
		t.Run(l.Name, func(t *testing.T) {
			tiles, err := l.Tiles()
			require.NoError(t, err)

			free, homes, lanes := 0, 0, 0
			seen := make(map[core.Position]bool)
			for i := range tiles {
				tile := &tiles[i]
				assert.False(t, seen[tile.Position], "duplicate tile %s", tile.Position)
				seen[tile.Position] = true

				switch {
				case tile.IsFree():
					free++
					assert.Empty(t, tile.SystemID())
				case tile.IsHome():
					homes++
					assert.Empty(t, tile.SystemID())
				case tile.IsHyperlane():
					lanes++
					assert.NotEmpty(t, tile.SystemID())
				}
			}

			assert.Equal(t, l.SystemCount(), free, "free tiles must match the system counts")
			assert.Equal(t, l.Players, homes)
			assert.Equal(t, len(l.Hyperlanes), lanes)

			require.NotEmpty(t, tiles)
			assert.True(t, tiles[0].IsCenter())
			assert.Equal(t, MecatolRexID, tiles[0].SystemID())
		})
	}
}

func TestLayout_TilesOrdered(t *testing.T) {
	l, err := loadRegistry(t).Lookup(5, SizeRegular)
	require.NoError(t, err)

	tiles, err := l.Tiles()
	require.NoError(t, err)
	for i := 1; i < len(tiles); i++ {
		assert.True(t, tiles[i-1].Position.Less(tiles[i].Position))
	}
}

func TestLayout_HyperlaneLinks(t *testing.T) {
	l, err := loadRegistry(t).Lookup(5, SizeRegular)
	require.NoError(t, err)
	assert.True(t, l.RequiresExpansion)
	assert.Equal(t, 16, l.PlanetaryCount())
	assert.Equal(t, 11, l.AnomalyCount())

	tiles, err := l.Tiles()
	require.NoError(t, err)

	byPos := make(map[core.Position]core.Tile)
	for _, tile := range tiles {
		byPos[tile.Position] = tile
	}

	assert.Equal(t, []core.Position{{Layer: 3, Azimuth: 17}}, byPos[core.Position{Layer: 3, Azimuth: 13}].HyperlaneNeighbors)
	assert.Equal(t, []core.Position{{Layer: 3, Azimuth: 13}}, byPos[core.Position{Layer: 3, Azimuth: 17}].HyperlaneNeighbors)
	assert.Equal(t, []core.Position{{Layer: 2, Azimuth: 11}}, byPos[core.Position{Layer: 2, Azimuth: 9}].HyperlaneNeighbors)

	lane := byPos[core.Position{Layer: 3, Azimuth: 15}]
	assert.True(t, lane.IsHyperlane())
	assert.Equal(t, "87A-3", lane.SystemID())
}

func TestLayout_Exists(t *testing.T) {
	r := loadRegistry(t)

	two, err := r.Lookup(2, SizeRegular)
	require.NoError(t, err)
	assert.True(t, two.Exists(core.Position{Layer: 3, Azimuth: 0}))
	assert.True(t, two.Exists(core.Position{Layer: 3, Azimuth: 9}))
	assert.False(t, two.Exists(core.Position{Layer: 3, Azimuth: 1}))
	assert.True(t, two.Exists(core.Position{Layer: 2, Azimuth: 5}))
	assert.False(t, two.Exists(core.Position{Layer: 4, Azimuth: 0}))

	three, err := r.Lookup(3, SizeRegular)
	require.NoError(t, err)
	assert.False(t, three.Exists(core.Position{Layer: 3, Azimuth: 3}))
	assert.True(t, three.Exists(core.Position{Layer: 3, Azimuth: 4}))
}

func TestRegistry_Lookup(t *testing.T) {
	r := loadRegistry(t)

	assert.Equal(t, []Size{SizeRegular, SizeLarge}, r.Sizes(4))
	assert.Equal(t, []Size{SizeRegular}, r.Sizes(5))
	assert.Empty(t, r.Sizes(9))

	_, err := r.Lookup(5, SizeLarge)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownLayout))
	assert.True(t, core.IsConfigurationError(err))
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize("Large")
	require.NoError(t, err)
	assert.Equal(t, SizeLarge, s)

	s, err = ParseSize("")
	require.NoError(t, err)
	assert.Equal(t, SizeRegular, s)

	_, err = ParseSize("huge")
	assert.Error(t, err)
}

func TestLayout_InvalidTables(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		want   error
	}{
		{
			name:   "home count",
			layout: Layout{Name: "bad", Players: 3, Rings: 2, Homes: []core.Position{{Layer: 2, Azimuth: 0}}},
			want:   core.ErrPlayerMismatch,
		},
		{
			name:   "home outside rings",
			layout: Layout{Name: "bad", Players: 2, Rings: 2, Homes: []core.Position{{Layer: 2, Azimuth: 0}, {Layer: 3, Azimuth: 9}}},
			want:   core.ErrInvalidPosition,
		},
		{
			name: "link into hyperlane",
			layout: Layout{
				Name: "bad", Players: 2, Rings: 2,
				Homes:      []core.Position{{Layer: 2, Azimuth: 0}, {Layer: 2, Azimuth: 6}},
				Hyperlanes: []HyperlaneTile{{Position: core.Position{Layer: 2, Azimuth: 3}, SystemID: "83A"}},
				Links:      []Link{{{Layer: 2, Azimuth: 3}, {Layer: 2, Azimuth: 9}}},
			},
			want: core.ErrInvalidPosition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.layout.Tiles()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("layouts: [{name: x, players: 1, rings: 3}]"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMalformedData))

	_, err = Parse([]byte("layouts: [{name: x, players: 2, rings: 3, size: huge}]"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMalformedData))
}
