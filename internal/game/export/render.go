package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/common"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/catalog"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
)

// DefaultHexSize is the hex circumradius in pixels.
const DefaultHexSize = 40

// Renderer draws boards as flat-topped hexes.
type Renderer struct {
	HexSize int
	Catalog *catalog.Catalog
	face    font.Face
}

// NewRenderer creates a renderer that colors tiles by their catalog systems.
func NewRenderer(cat *catalog.Catalog, hexSize int) *Renderer {
	if hexSize <= 0 {
		hexSize = DefaultHexSize
	}
	return &Renderer{HexSize: hexSize, Catalog: cat, face: basicfont.Face7x13}
}

// Bounds is the canvas size needed for a board of the given rings.
func (r *Renderer) Bounds(rings int) image.Rectangle {
	size := float64(r.HexSize)
	w := int(math.Ceil(size * (3*float64(rings) + 2)))
	h := int(math.Ceil(size * math.Sqrt(3) * (2*float64(rings) + 1)))
	return image.Rect(0, 0, w, h)
}

// center returns the pixel center of pos on a canvas of the given bounds.
func (r *Renderer) center(pos core.Position, bounds image.Rectangle) (float32, float32) {
	c := pos.Cube()
	size := float64(r.HexSize)
	x := size * 1.5 * float64(c.Q)
	y := size * math.Sqrt(3) * (float64(c.R) + float64(c.Q)/2)
	return float32(float64(bounds.Dx())/2 + x), float32(float64(bounds.Dy())/2 + y)
}

// Render draws tiles onto a new image.
func (r *Renderer) Render(tiles []core.Tile, rings int) (*image.RGBA, error) {
	bounds := r.Bounds(rings)
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.NewUniform(common.BackgroundColor), image.Point{}, draw.Src)

	for i := range tiles {
		tile := &tiles[i]
		fill, err := r.tileColor(tile)
		if err != nil {
			return nil, err
		}
		cx, cy := r.center(tile.Position, bounds)
		r.fillHex(img, cx, cy, float32(r.HexSize), common.GridLineColor)
		r.fillHex(img, cx, cy, float32(r.HexSize)-2, fill)
		r.label(img, cx, cy, tileLabel(tile))
	}
	return img, nil
}

// RenderPNG renders tiles and encodes the image as PNG.
func (r *Renderer) RenderPNG(w io.Writer, tiles []core.Tile, rings int) error {
	img, err := r.Render(tiles, rings)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Renderer) tileColor(tile *core.Tile) (color.Color, error) {
	switch {
	case tile.IsHome():
		return common.PlayerColor(tile.Home), nil
	case tile.IsCenter():
		return common.CenterColor, nil
	case tile.IsHyperlane():
		return common.HyperlaneColor, nil
	case tile.SystemID() == "":
		return common.EmptyColor, nil
	}

	sys, err := r.Catalog.Lookup(tile.SystemID())
	if err != nil {
		return nil, err
	}
	switch {
	case sys.HasAnomaly():
		return common.AnomalyColor, nil
	case sys.WormholeCount() > 0:
		return common.WormholeColor, nil
	case sys.HasPlanets():
		return common.PlanetColor, nil
	default:
		return common.EmptyColor, nil
	}
}

func (r *Renderer) fillHex(dst draw.Image, cx, cy, size float32, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for k := 0; k < 6; k++ {
		angle := float64(k) * math.Pi / 3
		x := cx + size*float32(math.Cos(angle))
		y := cy + size*float32(math.Sin(angle))
		if k == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// label draws s centered on (cx, cy).
func (r *Renderer) label(dst draw.Image, cx, cy float32, s string) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(common.LabelColor),
		Face: r.face,
	}
	width := d.MeasureString(s)
	metrics := r.face.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.I(int(cx)) - width/2,
		Y: fixed.I(int(cy)) + (metrics.Ascent-metrics.Descent)/2,
	}
	d.DrawString(s)
}

func tileLabel(tile *core.Tile) string {
	if tile.IsHome() {
		return tile.Home.String()
	}
	return tile.SystemID()
}
