package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTile_SetSystemIDRoundTrip(t *testing.T) {
	tile := NewTile(Position{2, 3}, FreeCategories)
	assert.Empty(t, tile.SystemID(), "new tile should have no system")

	require.NoError(t, tile.SetSystemID("26", CategoryPlanetary))
	assert.Equal(t, "26", tile.SystemID())

	require.NoError(t, tile.SetSystemID("41", CategoryAnomalyWormholeEmpty))
	assert.Equal(t, "41", tile.SystemID())

	tile.ClearSystemID()
	assert.Empty(t, tile.SystemID())
}

func TestTile_SetSystemIDRejectsCategory(t *testing.T) {
	tests := []struct {
		name     string
		allowed  CategorySet
		category Category
	}{
		{"home on free tile", FreeCategories, CategoryHome},
		{"planetary on center", NewCategorySet(CategoryMecatolRex), CategoryPlanetary},
		{"planetary on hyperlane", NewCategorySet(CategoryHyperlane), CategoryPlanetary},
		{"hyperlane on free tile", FreeCategories, CategoryHyperlane},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := NewTile(Position{1, 1}, tt.allowed)
			err := tile.SetSystemID("99", tt.category)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCategoryNotAllowed))
			assert.True(t, IsConfigurationError(err))
			assert.Empty(t, tile.SystemID(), "rejected ID must not be stored")
		})
	}
}

func TestTile_Kinds(t *testing.T) {
	center := NewTile(Center, NewCategorySet(CategoryMecatolRex))
	assert.True(t, center.IsCenter())
	assert.False(t, center.IsFree())

	home := NewTile(Position{3, 0}, NewCategorySet(CategoryHome))
	home.Home = Player1
	assert.True(t, home.IsHome())
	assert.False(t, home.IsFree())

	lane := NewTile(Position{3, 15}, NewCategorySet(CategoryHyperlane))
	assert.True(t, lane.IsHyperlane())
	assert.False(t, lane.IsFree())

	free := NewTile(Position{1, 0}, FreeCategories)
	assert.True(t, free.IsFree())
	assert.False(t, free.IsFixed())
	assert.False(t, free.IsCenter())
	assert.True(t, lane.IsFixed())
	assert.True(t, home.IsFixed())
}

func TestCategorySet(t *testing.T) {
	s := NewCategorySet(CategoryPlanetary, CategoryHome)
	assert.True(t, s.Contains(CategoryPlanetary))
	assert.True(t, s.Contains(CategoryHome))
	assert.False(t, s.Contains(CategoryHyperlane))
	assert.False(t, s.Only(CategoryHome))
	assert.True(t, NewCategorySet(CategoryHome).Only(CategoryHome))
}

func TestParseCategory(t *testing.T) {
	for c := CategoryPlanetary; c <= CategoryHyperlane; c++ {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCategory("blackhole")
	assert.Error(t, err)
}

func TestPlayers(t *testing.T) {
	players := Players(3)
	assert.Equal(t, []Player{Player1, Player2, Player3}, players)
	assert.Equal(t, "P3", Player3.String())
	assert.Equal(t, 2, Player3.Index())
	assert.Equal(t, "none", NoPlayer.String())
	assert.False(t, Player(9).Valid())
}

func TestPathway_Distance(t *testing.T) {
	direct := Pathway{{2, 0}, {1, 0}, {0, 0}}
	assert.Equal(t, Distance(2), direct.Distance())
	assert.Equal(t, Center, direct.Tail())
	assert.Equal(t, "(2,0)->(1,0)->(0,0)", direct.String())

	// a hyperlane jump spans its full geometric length
	jump := Pathway{{3, 13}, {3, 17}, {2, 11}, {1, 5}, {0, 0}}
	assert.Equal(t, Distance(7), jump.Distance())
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("build topology", ErrPlayerMismatch, "expected %d homes, found %d", 6, 5)
	assert.True(t, IsConfigurationError(err))
	assert.True(t, errors.Is(err, ErrPlayerMismatch))
	assert.Equal(t, "configuration error: build topology: expected 6 homes, found 5: home tiles do not match player set", err.Error())

	bare := &ConfigurationError{Err: ErrMissingCenter}
	assert.Equal(t, "configuration error: board has no center tile", bare.Error())

	assert.False(t, IsConfigurationError(errors.New("plain")))
}
