package ownmap

import "fmt"

type ZoomLevel float64

const (
	MinZoomLevel ZoomLevel = 0
	MaxZoomLevel ZoomLevel = 24
)

const (
	// Extent is the number of tile units along one edge of a tile
	Extent = 8192
	// TileSize is the size in pixels of one tile edge at its own zoom level
	TileSize = 512
	// GlyphFontSize is the font size glyphs are rasterised at in the glyph atlas. A text-size of
	// GlyphFontSize draws glyphs at their atlas size.
	GlyphFontSize = 24
)

type LabelKind int

const (
	LabelKindIcon LabelKind = iota
	LabelKindText
)

var labelKindNames = []string{
	"icon",
	"text",
}

func (lk LabelKind) String() string {
	if int(lk) < 0 || int(lk) >= len(labelKindNames) {
		return fmt.Sprintf("LabelKind(%d)", int(lk))
	}
	return labelKindNames[lk]
}

// LabelKinds is the order label kinds are drawn in: icons below text.
var LabelKinds = []LabelKind{
	LabelKindIcon,
	LabelKindText,
}
