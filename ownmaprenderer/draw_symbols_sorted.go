package ownmaprenderer

import (
	"sort"

	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
	"github.com/jamesrr39/ownmap-labels/styling"
)

type sortedSymbol struct {
	state   *symbolTileRenderState
	segment *ownmapgl.Segment
}

// drawSymbolsSorted draws every segment of every render state in ascending sort key order.
// Segments with equal keys keep the order they were collected in. The halo and fill of a segment
// are drawn one after the other, before the next segment.
func drawSymbolsSorted(
	painter *Painter,
	renderStates []*symbolTileRenderState,
	layer *styling.SymbolLayer,
	colorMode ownmapgl.ColorMode,
	stencilMode ownmapgl.StencilMode,
) errorsx.Error {
	var symbols []sortedSymbol
	for _, state := range renderStates {
		for _, segment := range state.buffers.Segments.Get() {
			symbols = append(symbols, sortedSymbol{state, segment})
		}
	}

	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].segment.SortKeyOrZero() < symbols[j].segment.SortKeyOrZero()
	})

	for _, symbol := range symbols {
		state := symbol.state
		segments := ownmapgl.NewSegmentVector(symbol.segment)

		// consecutive symbols can come from different tiles, with different atlases
		painter.Bindings.BindTexture(state.atlasTexture, state.atlasFilter, gputypes.AddressModeClampToEdge)

		for _, uniforms := range drawPasses(state.variant) {
			err := drawSymbolElements(painter, state.buffers, segments, layer, state.program, state.depthMode, stencilMode, colorMode, uniforms)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
