// Package export turns a finished board into the formats people read it in:
// a text report, the tile strings understood by the tabletop simulator and
// the online map viewer, and a PNG picture.
package export

import (
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/layout"
)

// MapViewerURL is the base URL of the online map viewer.
const MapViewerURL = "https://keeganw.github.io/ti4/"

const (
	ttsMissing = "-1"
	ttsHome    = "0"
	urlMissing = "0"
	urlHome    = "0"
)

// TTSString encodes the board for the tabletop simulator mod: system IDs
// separated by spaces in layer/azimuth order from layer 1 outwards. The
// center is omitted, positions without a tile are -1 and homes are 0.
// Hyperlane IDs lose their orientation hyphen.
func TTSString(l *layout.Layout, assignment map[core.Position]string) string {
	var parts []string
	for _, pos := range l.Positions() {
		if pos == core.Center {
			continue
		}
		parts = append(parts, ttsToken(l, assignment, pos))
	}
	return strings.Join(parts, " ")
}

func ttsToken(l *layout.Layout, assignment map[core.Position]string, pos core.Position) string {
	if !l.Exists(pos) {
		return ttsMissing
	}
	id, ok := assignment[pos]
	if !ok || isHome(l, pos) {
		return ttsHome
	}
	return strings.ReplaceAll(id, "-", "")
}

// MapURL links the board in the online map viewer. Tiles are comma
// separated, center first; positions without a tile and homes are 0.
func MapURL(l *layout.Layout, assignment map[core.Position]string) string {
	var b strings.Builder
	b.WriteString(MapViewerURL)
	b.WriteString("?settings=T")
	b.WriteString(strconv.Itoa(l.Players))
	b.WriteString(l.URLSettings)
	b.WriteString("&tiles=")

	for i, pos := range l.Positions() {
		if i > 0 {
			b.WriteByte(',')
		}
		id, ok := assignment[pos]
		switch {
		case !l.Exists(pos):
			b.WriteString(urlMissing)
		case !ok || isHome(l, pos):
			b.WriteString(urlHome)
		default:
			b.WriteString(id)
		}
	}
	return b.String()
}

func isHome(l *layout.Layout, pos core.Position) bool {
	for _, h := range l.Homes {
		if h == pos {
			return true
		}
	}
	return false
}
