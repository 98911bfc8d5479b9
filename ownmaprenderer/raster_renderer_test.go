package ownmaprenderer

import (
	"context"
	"image"
	"image/color"
	"io/ioutil"
	"testing"

	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/fonts"
	"github.com/jamesrr39/ownmap-labels/ownmapdal"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
	"github.com/jamesrr39/ownmap-labels/styling"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRasterRenderer() *RasterRenderer {
	logger := logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelInfo)

	source := ownmapdal.NewMemoryDataSource("places", []*ownmapdal.Feature{
		{ID: 1, GeometryType: ownmapdal.GeometryTypePoint, Anchor: orb.Point{10.75, 59.91}, Properties: map[string]interface{}{"name": "Oslo", "rank": float64(2)}},
		{ID: 2, GeometryType: ownmapdal.GeometryTypePoint, Anchor: orb.Point{10.2, 59.74}, Properties: map[string]interface{}{"name": "Drammen", "rank": float64(4)}},
		{ID: 3, GeometryType: ownmapdal.GeometryTypePoint, Anchor: orb.Point{11.1, 60.1}, Properties: map[string]interface{}{"name": "Jessheim", "rank": float64(3)}},
	})
	dataSourceSet := ownmapdal.NewDataSourceSet(logger, []ownmapdal.DataSource{source})

	tileLoader := ownmapdal.NewTileLoader(logger, dataSourceSet, ownmapdal.NewTileBuilder(fonts.DefaultFont()), 2)

	return NewRasterRenderer(logger, fonts.DefaultFont(), tileLoader)
}

func countNonBackgroundPixels(img image.Image, background color.Color) int {
	br, bg, bb, ba := background.RGBA()

	var count int
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if r != br || g != bg || b != bb || a != ba {
				count++
			}
		}
	}
	return count
}

func TestRasterRenderer_RenderTextTile(t *testing.T) {
	rr := newTestRasterRenderer()

	img, err := rr.RenderTextTile(image.Rect(0, 0, 256, 256), "(no data found)")
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 256, 256), img.Bounds())
	assert.Greater(t, countNonBackgroundPixels(img, color.White), 0)
	// the text starts in the middle of the tile
	assert.Equal(t, 0, countNonBackgroundPixels(img.(*image.RGBA).SubImage(image.Rect(0, 0, 120, 256)), color.White))
}

func TestRasterRenderer_RenderFrame(t *testing.T) {
	rr := newTestRasterRenderer()
	style := styling.NewCustomBasicStyle()

	frame, err := rr.RenderFrame(context.Background(), style, FrameOptions{
		Width:  256,
		Height: 256,
		Center: orb.Point{10.75, 59.91},
		Zoom:   8,
	})
	require.NoError(t, err)

	assert.Greater(t, countNonBackgroundPixels(frame.Image, style.GetBackground()), 0)

	require.NotEmpty(t, frame.Draws)
	require.Equal(t, 0, len(frame.Draws)%2)

	var previousKey float64
	for i, draw := range frame.Draws {
		assert.Equal(t, string(ownmapgl.ProgramSymbolSDF), draw.Program)
		assert.Equal(t, styling.PlaceLabelsLayerID, draw.LayerID)
		assert.Equal(t, "linear", draw.Filter)

		// halo then fill, one label at a time
		require.NotNil(t, draw.IsHalo)
		assert.Equal(t, i%2 == 0, *draw.IsHalo)

		require.Len(t, draw.SortKeys, 1)
		assert.GreaterOrEqual(t, draw.SortKeys[0], previousKey)
		previousKey = draw.SortKeys[0]
	}

	assert.Equal(t, []float64{2, 2, 3, 3, 4, 4}, collectSortKeys(frame))
}

func collectSortKeys(frame *Frame) []float64 {
	var keys []float64
	for _, draw := range frame.Draws {
		keys = append(keys, draw.SortKeys...)
	}
	return keys
}

func TestRasterRenderer_RenderFrame_NoData(t *testing.T) {
	rr := newTestRasterRenderer()

	frame, err := rr.RenderFrame(context.Background(), styling.NewCustomBasicStyle(), FrameOptions{
		Width:  256,
		Height: 256,
		Center: orb.Point{-150, -40},
		Zoom:   8,
	})
	require.NoError(t, err)

	assert.Empty(t, frame.Draws)
	assert.Greater(t, countNonBackgroundPixels(frame.Image, color.White), 0)
}

func TestFrameOptions_Validate(t *testing.T) {
	valid := FrameOptions{Width: 256, Height: 256, Center: orb.Point{10, 60}, Zoom: 8}

	tests := []struct {
		name    string
		modify  func(o *FrameOptions)
		wantErr bool
	}{
		{"valid", func(o *FrameOptions) {}, false},
		{"no width", func(o *FrameOptions) { o.Width = 0 }, true},
		{"zoom too deep", func(o *FrameOptions) { o.Zoom = 30 }, true},
		{"pitch too steep", func(o *FrameOptions) { o.PitchDegrees = 80 }, true},
		{"center off the map", func(o *FrameOptions) { o.Center = orb.Point{200, 0} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := valid
			tt.modify(&options)

			err := options.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
