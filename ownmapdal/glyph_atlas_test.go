package ownmapdal

import (
	"image"
	"testing"

	"github.com/jamesrr39/ownmap-labels/fonts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlyphAtlasBuilder_Build(t *testing.T) {
	builder := NewGlyphAtlasBuilder(fonts.DefaultFont())
	builder.AddText("Oslo sentrum")
	builder.AddText("Bergen")

	atlas := builder.Build()

	// O s l o e n t r u m B g and the space
	require.Len(t, atlas.Glyphs, 13)

	space := atlas.Glyphs[' ']
	assert.True(t, space.Rect.Empty())
	assert.Greater(t, space.Advance, float64(0))

	var rects []image.Rectangle
	for r, glyph := range atlas.Glyphs {
		if r == ' ' {
			continue
		}

		assert.False(t, glyph.Rect.Empty(), "glyph %q", r)
		assert.True(t, glyph.Rect.In(atlas.Image.Bounds()), "glyph %q", r)
		assert.Equal(t, glyph.Bounds.Size(), glyph.Rect.Size(), "glyph %q", r)
		rects = append(rects, glyph.Rect)
	}

	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			assert.False(t, rects[i].Overlaps(rects[j]), "%v overlaps %v", rects[i], rects[j])
		}
	}

	// the coverage of each glyph was copied into the atlas
	o := atlas.Glyphs['O']
	var coverage int
	for y := o.Rect.Min.Y; y < o.Rect.Max.Y; y++ {
		for x := o.Rect.Min.X; x < o.Rect.Max.X; x++ {
			coverage += int(atlas.Image.AlphaAt(x, y).A)
		}
	}
	assert.Greater(t, coverage, 0)
}

func TestGlyphAtlas_ShapeText(t *testing.T) {
	builder := NewGlyphAtlasBuilder(fonts.DefaultFont())
	builder.AddText("Oslo")
	atlas := builder.Build()

	glyphs := atlas.ShapeText("Os lo?")
	// the space has no bitmap and "?" isn't in the atlas
	require.Len(t, glyphs, 4)

	first, last := glyphs[0], glyphs[len(glyphs)-1]
	left := first.X
	right := last.X + float64(last.Rect.Dx())
	assert.Less(t, left, float64(0))
	assert.Greater(t, right, float64(0))

	for i := 1; i < len(glyphs); i++ {
		assert.Greater(t, glyphs[i].X, glyphs[i-1].X)
	}

	// the text is vertically centered on the anchor
	var top, bottom float64
	for _, glyph := range glyphs {
		if glyph.Y < top {
			top = glyph.Y
		}
		if y := glyph.Y + float64(glyph.Rect.Dy()); y > bottom {
			bottom = y
		}
	}
	assert.Less(t, top, float64(0))
	assert.Greater(t, bottom, float64(0))
}

func TestGlyphAtlasBuilder_Empty(t *testing.T) {
	atlas := NewGlyphAtlasBuilder(fonts.DefaultFont()).Build()
	assert.Empty(t, atlas.Glyphs)
	assert.Empty(t, atlas.ShapeText("anything"))
}
