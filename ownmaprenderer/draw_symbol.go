package ownmaprenderer

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
	"github.com/jamesrr39/ownmap-labels/styling"
)

// DrawSymbols draws the icons and then the text of a symbol layer for the tiles in coords, in the
// order given. Layers with a symbol-sort-key are drawn in sort key order across all tiles instead.
// Tiles that aren't loaded, or have nothing for the layer, are skipped.
// Nothing is drawn outside of the translucent pass.
func DrawSymbols(ctx context.Context, painter *Painter, tileSource ownmap.TileSource, layer *styling.SymbolLayer, coords []*ownmap.OverscaledTileID) errorsx.Error {
	if painter.RenderPass != RenderPassTranslucent {
		return nil
	}

	// labels aren't clipped to tile boundaries
	stencilMode := ownmapgl.StencilModeDisabled
	colorMode := painter.ColorModeForRenderPass()

	sortFeaturesByKey := layer.SortsFeaturesByKey()

	for _, kind := range ownmap.LabelKinds {
		if layer.Properties(kind).Opacity.ConstantOr(1) == 0 {
			painter.Logger.Debug("layer %q: skipping %s, opacity is 0", layer.ID, kind)
			continue
		}

		err := drawKindSymbols(ctx, painter, tileSource, layer, coords, kind, stencilMode, colorMode, sortFeaturesByKey)
		if err != nil {
			return err
		}
	}

	return nil
}

func drawKindSymbols(
	ctx context.Context,
	painter *Painter,
	tileSource ownmap.TileSource,
	layer *styling.SymbolLayer,
	coords []*ownmap.OverscaledTileID,
	kind ownmap.LabelKind,
	stencilMode ownmapgl.StencilMode,
	colorMode ownmapgl.ColorMode,
	sortFeaturesByKey bool,
) errorsx.Error {
	span := startSpan(ctx, fmt.Sprintf("draw %s symbols. Layer: %q", kind, layer.ID))
	defer endSpan(ctx, span)

	renderStates, err := drawLayerSymbols(painter, tileSource, layer, coords, kind, stencilMode, colorMode, sortFeaturesByKey)
	if err != nil {
		return err
	}

	if !sortFeaturesByKey {
		return nil
	}

	painter.Logger.Debug("layer %q: drawing %s from %d tiles in sort key order", layer.ID, kind, len(renderStates))

	return drawSymbolsSorted(painter, renderStates, layer, colorMode, stencilMode)
}

// drawLayerSymbols draws one label kind tile by tile. With sortByFeature set nothing is drawn;
// the render states are returned for drawSymbolsSorted instead.
func drawLayerSymbols(
	painter *Painter,
	tileSource ownmap.TileSource,
	layer *styling.SymbolLayer,
	coords []*ownmap.OverscaledTileID,
	kind ownmap.LabelKind,
	stencilMode ownmapgl.StencilMode,
	colorMode ownmapgl.ColorMode,
	sortByFeature bool,
) ([]*symbolTileRenderState, errorsx.Error) {
	tr := painter.Transform
	properties := layer.Properties(kind)
	isText := kind == ownmap.LabelKindText

	rotateWithMap := layer.RotationAlignment(kind) == styling.AlignmentMap
	pitchWithMap := layer.PitchAlignment(kind) == styling.AlignmentMap
	alongLine := rotateWithMap && layer.Placement != styling.SymbolPlacementPoint
	// line labels are rotated by the line label projector, and pitched labels by the label plane
	// matrix. Only flat point labels are rotated in the shader.
	rotateInShader := rotateWithMap && !pitchWithMap && !alongLine

	depthMode := painter.DepthModeForSublayer(0, ownmapgl.DepthReadOnly)

	var (
		program      ownmapgl.Program
		size         symbolSize
		renderStates []*symbolTileRenderState
		tilesDrawn   int
	)

	for _, coord := range coords {
		tile := tileSource.GetTile(coord)
		bucket := tile.GetBucket(layer.ID)
		if bucket == nil {
			continue
		}

		buffers := bucket.Buffers(kind)
		if buffers.IsEmpty() {
			continue
		}

		programConfiguration := buffers.ProgramConfigurations[layer.ID]
		isSDF := bucket.IsSDF(kind)
		sizeData := bucket.SizeData(kind)

		if program == nil {
			var err errorsx.Error
			program, err = painter.UseProgram(programNameFor(isSDF), programConfiguration)
			if err != nil {
				return nil, errorsx.Wrap(err, "layer", layer.ID)
			}
			size = evaluateSizeForZoom(sizeData, tr.Zoom)
		}

		painter.Bindings.SetActiveTexture(0)

		atlasTexture := tile.AtlasTexture(kind)
		iconNeedsLinear := !isText && (properties.Size.ConstantOr(0) != 1 || bucket.IconsNeedLinear)
		iconTransformed := pitchWithMap || tr.Pitch != 0
		atlasFilter := SelectAtlasFilter(kind, isSDF, painter.Options.Rotating, painter.Options.Zooming, iconNeedsLinear, iconTransformed)

		s := ownmap.PixelsToTileUnits(coord, 1, tr.Zoom)
		labelPlaneMatrix := GetLabelPlaneMatrix(coord.PosMatrix, pitchWithMap, rotateWithMap, tr, s)
		glCoordMatrix := GetGLCoordMatrix(coord.PosMatrix, pitchWithMap, rotateWithMap, tr, s)

		if alongLine && painter.LineLabels != nil {
			painter.LineLabels.UpdateLineLabels(bucket, coord.PosMatrix, painter, kind, labelPlaneMatrix, glCoordMatrix, pitchWithMap, properties.KeepUpright)
		}

		uLabelPlaneMatrix := labelPlaneMatrix
		if alongLine {
			uLabelPlaneMatrix = mgl32.Ident4()
		}

		params := symbolUniformParams{
			sizeKind:         sizeData.Kind,
			size:             size,
			rotateInShader:   rotateInShader,
			pitchWithMap:     pitchWithMap,
			matrix:           painter.TranslatePosMatrix(coord.PosMatrix, coord, properties.Translate, properties.TranslateAnchor, false),
			labelPlaneMatrix: uLabelPlaneMatrix,
			glCoordMatrix:    painter.TranslatePosMatrix(glCoordMatrix, coord, properties.Translate, properties.TranslateAnchor, true),
			isText:           isText,
			texSize:          atlasTexture.Size(),
		}

		hasHalo := isSDF && layer.HasHalo(kind)
		variant := newDrawVariant(painter, kind, isSDF, hasHalo, params)

		if sortByFeature {
			renderStates = append(renderStates, &symbolTileRenderState{
				tileID:       coord,
				buffers:      buffers,
				program:      program,
				depthMode:    depthMode,
				variant:      variant,
				atlasTexture: atlasTexture,
				atlasFilter:  atlasFilter,
			})
			continue
		}

		painter.Bindings.BindTexture(atlasTexture, atlasFilter, gputypes.AddressModeClampToEdge)
		for _, uniforms := range drawPasses(variant) {
			err := drawSymbolElements(painter, buffers, buffers.Segments, layer, program, depthMode, stencilMode, colorMode, uniforms)
			if err != nil {
				return nil, err
			}
		}
		tilesDrawn++
	}

	if !sortByFeature {
		painter.Logger.Debug("layer %q: drew %s from %d of %d tiles", layer.ID, kind, tilesDrawn, len(coords))
	}

	return renderStates, nil
}

// startSpan only traces when the context carries a tracer, e.g. requests through tracing.Middleware.
func startSpan(ctx context.Context, name string) *tracing.Span {
	if ctx.Value(tracing.TracerCtxKey) == nil || ctx.Value(tracing.TraceCtxKey) == nil {
		return nil
	}
	return tracing.StartSpan(ctx, name)
}

func endSpan(ctx context.Context, span *tracing.Span) {
	if span == nil {
		return
	}
	span.End(ctx)
}
