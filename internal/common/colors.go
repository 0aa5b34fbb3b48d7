package common

import (
	"image/color"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
)

// PlayerColors defines the color scheme for each seat
var PlayerColors = map[core.Player]color.RGBA{
	core.NoPlayer: {120, 120, 120, 255}, // Neutral – gray
	core.Player1:  {200, 50, 50, 255},   // Red
	core.Player2:  {50, 100, 200, 255},  // Blue
	core.Player3:  {50, 200, 50, 255},   // Green
	core.Player4:  {200, 200, 50, 255},  // Yellow
	core.Player5:  {150, 60, 200, 255},  // Purple
	core.Player6:  {230, 130, 40, 255},  // Orange
	core.Player7:  {60, 200, 200, 255},  // Teal
	core.Player8:  {220, 110, 170, 255}, // Pink
}

// PlayerColor returns the seat color, or the neutral color for unknown seats
func PlayerColor(p core.Player) color.RGBA {
	if c, ok := PlayerColors[p]; ok {
		return c
	}
	return PlayerColors[core.NoPlayer]
}

// Tile colors
var (
	CenterColor    = color.RGBA{230, 190, 60, 255}
	HyperlaneColor = color.RGBA{70, 70, 110, 255}
	AnomalyColor   = color.RGBA{140, 40, 40, 255}
	WormholeColor  = color.RGBA{110, 60, 160, 255}
	EmptyColor     = color.RGBA{25, 25, 40, 255}
	PlanetColor    = color.RGBA{40, 110, 70, 255}
	LabelColor     = color.White
)

// Canvas colors
var (
	BackgroundColor = color.Black
	GridLineColor   = color.RGBA{50, 50, 50, 255}
)
