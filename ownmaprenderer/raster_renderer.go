package ownmaprenderer

import (
	"context"
	"image"
	"image/color"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapdal"
	"github.com/jamesrr39/ownmap-labels/ownmaprenderer/rasterbackend"
	"github.com/jamesrr39/ownmap-labels/styling"
	"github.com/paulmach/orb"
)

// DefaultMaxTileZoom is the deepest zoom level tiles are built at. Deeper frames overscale them.
const DefaultMaxTileZoom = 14

type FrameOptions struct {
	Width, Height  int
	Center         orb.Point // lon, lat
	Zoom           float64
	BearingDegrees float64
	PitchDegrees   float64
	MaxTileZoom    uint32
	PainterOptions
}

func (o FrameOptions) Validate() errorsx.Error {
	if o.Width <= 0 || o.Height <= 0 {
		return errorsx.Errorf("frame size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Zoom < float64(ownmap.MinZoomLevel) || o.Zoom > float64(ownmap.MaxZoomLevel) {
		return errorsx.Errorf("zoom %v out of range", o.Zoom)
	}
	if o.PitchDegrees < 0 || o.PitchDegrees > 60 {
		return errorsx.Errorf("pitch %v out of range (0 to 60)", o.PitchDegrees)
	}
	if o.Center.Lat() < -85 || o.Center.Lat() > 85 || o.Center.Lon() < -180 || o.Center.Lon() > 180 {
		return errorsx.Errorf("center %v out of range", o.Center)
	}
	return nil
}

// Frame is one rendered image, with the draw calls that made it.
type Frame struct {
	Image image.Image
	Draws []*rasterbackend.DrawRecord
}

type RasterRenderer struct {
	logger     *logpkg.Logger
	font       *truetype.Font
	tileLoader *ownmapdal.TileLoader
}

func NewRasterRenderer(logger *logpkg.Logger, font *truetype.Font, tileLoader *ownmapdal.TileLoader) *RasterRenderer {
	return &RasterRenderer{
		logger,
		font,
		tileLoader,
	}
}

func (rr *RasterRenderer) RenderTextTile(size image.Rectangle, text string) (image.Image, errorsx.Error) {
	img := rasterbackend.NewImageWithBackground(size, color.White)
	x := size.Max.X / 2
	y := size.Max.Y / 2

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(rr.font)
	ctx.SetFontSize(16.0)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(color.Black))

	_, err := ctx.DrawString(text, freetype.Pt(x, y))
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return img, nil
}

// RenderFrame draws the labels of every symbol layer of style for the tiles covering the frame,
// bottom-most layer first.
func (rr *RasterRenderer) RenderFrame(ctx context.Context, style styling.Style, options FrameOptions) (*Frame, errorsx.Error) {
	err := options.Validate()
	if err != nil {
		return nil, err
	}

	maxTileZoom := options.MaxTileZoom
	if maxTileZoom == 0 {
		maxTileZoom = DefaultMaxTileZoom
	}

	size := image.Rect(0, 0, options.Width, options.Height)
	transform := ownmap.NewTransform(options.Center, options.Zoom, options.BearingDegrees, options.PitchDegrees, float64(options.Width), float64(options.Height))
	coords := transform.CoveringTiles(maxTileZoom)

	loadTilesSpan := startSpan(ctx, "load tiles")
	tileDatas, err := rr.tileLoader.LoadTiles(ctx, style, coords)
	endSpan(ctx, loadTilesSpan)
	if err != nil {
		return nil, err
	}

	rr.logger.Debug("frame at zoom %v: %d covering tiles, %d with data", options.Zoom, len(coords), len(tileDatas))

	if len(tileDatas) == 0 {
		img, err := rr.RenderTextTile(size, "(no data found)")
		if err != nil {
			return nil, err
		}
		return &Frame{Image: img}, nil
	}

	glCtx := rasterbackend.NewContext(size, style.GetBackground())

	uploadSpan := startSpan(ctx, "upload tiles")
	tileSource := ownmapdal.NewFrameTileSource()
	for _, tileData := range tileDatas {
		tileSource.AddTile(tileData.Upload(glCtx, glCtx))
	}
	endSpan(ctx, uploadSpan)

	painter := NewPainter(rr.logger, glCtx, rasterbackend.ProgramFactory(), transform, options.PainterOptions)

	drawSpan := startSpan(ctx, "draw layers")
	defer endSpan(ctx, drawSpan)

	for i, layer := range style.GetSymbolLayers(ownmap.ZoomLevel(options.Zoom)) {
		painter.CurrentLayer = i

		err := DrawSymbols(ctx, painter, tileSource, layer, coords)
		if err != nil {
			return nil, errorsx.Wrap(err, "layer", layer.ID)
		}
	}

	return &Frame{glCtx.Image(), glCtx.Draws()}, nil
}
