package ownmapdal

import (
	"image"
	"sort"

	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	glyphAtlasWidth = 256
	atlasGutter     = 1
)

// Glyph is one rasterised character in a glyph atlas.
type Glyph struct {
	// Rect is where the glyph is in the atlas. Empty for glyphs without pixels, such as spaces.
	Rect image.Rectangle
	// Bounds is the glyph bitmap relative to the pen position on the baseline
	Bounds  image.Rectangle
	Advance float64
}

// GlyphAtlas holds the coverage of every glyph used by the labels of a tile, rasterised at
// ownmap.GlyphFontSize.
type GlyphAtlas struct {
	Image   *image.Alpha
	Glyphs  map[rune]Glyph
	face    font.Face
	ascent  float64
	descent float64
}

type GlyphAtlasBuilder struct {
	face  font.Face
	runes map[rune]bool
}

func NewGlyphAtlasBuilder(ttf *truetype.Font) *GlyphAtlasBuilder {
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    ownmap.GlyphFontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})

	return &GlyphAtlasBuilder{face, make(map[rune]bool)}
}

func (b *GlyphAtlasBuilder) AddText(text string) {
	for _, r := range text {
		b.runes[r] = true
	}
}

type glyphBitmap struct {
	r       rune
	bounds  image.Rectangle
	mask    *image.Alpha
	advance float64
}

// Build rasterises every glyph added so far and packs them into rows.
func (b *GlyphAtlasBuilder) Build() *GlyphAtlas {
	var runes []rune
	for r := range b.runes {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool {
		return runes[i] < runes[j]
	})

	var bitmaps []*glyphBitmap
	for _, r := range runes {
		dr, mask, maskp, advance, ok := b.face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}

		// the face reuses its mask buffer between calls
		copied := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		draw.Draw(copied, copied.Bounds(), mask, maskp, draw.Src)

		bitmaps = append(bitmaps, &glyphBitmap{r, dr, copied, fixedToFloat(advance)})
	}

	// tallest first keeps the rows tight
	sort.SliceStable(bitmaps, func(i, j int) bool {
		return bitmaps[i].bounds.Dy() > bitmaps[j].bounds.Dy()
	})

	positions := make([]image.Point, len(bitmaps))
	x, y, rowHeight := atlasGutter, atlasGutter, 0
	for i, bitmap := range bitmaps {
		w, h := bitmap.bounds.Dx(), bitmap.bounds.Dy()
		if w == 0 || h == 0 {
			continue
		}

		if x+w+atlasGutter > glyphAtlasWidth {
			x = atlasGutter
			y += rowHeight + atlasGutter
			rowHeight = 0
		}

		positions[i] = image.Pt(x, y)
		x += w + atlasGutter
		if h > rowHeight {
			rowHeight = h
		}
	}

	atlasImage := image.NewAlpha(image.Rect(0, 0, glyphAtlasWidth, y+rowHeight+atlasGutter))
	glyphs := make(map[rune]Glyph)
	for i, bitmap := range bitmaps {
		glyph := Glyph{
			Bounds:  bitmap.bounds,
			Advance: bitmap.advance,
		}

		if !bitmap.bounds.Empty() {
			glyph.Rect = image.Rectangle{Min: positions[i], Max: positions[i].Add(bitmap.bounds.Size())}
			draw.Draw(atlasImage, glyph.Rect, bitmap.mask, image.Point{}, draw.Src)
		}

		glyphs[bitmap.r] = glyph
	}

	metrics := b.face.Metrics()

	return &GlyphAtlas{
		Image:   atlasImage,
		Glyphs:  glyphs,
		face:    b.face,
		ascent:  fixedToFloat(metrics.Ascent),
		descent: fixedToFloat(metrics.Descent),
	}
}

// PositionedGlyph is a glyph of a shaped label. X, Y is the top left of its bitmap relative to
// the label anchor, in atlas pixels.
type PositionedGlyph struct {
	Glyph
	X, Y float64
}

// ShapeText lays text out on a single line centered on the anchor. Characters missing from the
// atlas are dropped.
func (a *GlyphAtlas) ShapeText(text string) []PositionedGlyph {
	type pen struct {
		glyph Glyph
		x     float64
	}

	var (
		pens     []pen
		x        float64
		previous rune = -1
	)
	for _, r := range text {
		glyph, ok := a.Glyphs[r]
		if !ok {
			continue
		}

		if previous >= 0 {
			x += fixedToFloat(a.face.Kern(previous, r))
		}
		pens = append(pens, pen{glyph, x})
		x += glyph.Advance
		previous = r
	}

	offsetX := -x / 2
	baseline := (a.ascent - a.descent) / 2

	var positioned []PositionedGlyph
	for _, p := range pens {
		if p.glyph.Rect.Empty() {
			continue
		}

		positioned = append(positioned, PositionedGlyph{
			Glyph: p.glyph,
			X:     offsetX + p.x + float64(p.glyph.Bounds.Min.X),
			Y:     baseline + float64(p.glyph.Bounds.Min.Y),
		})
	}

	return positioned
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
