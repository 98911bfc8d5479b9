package ownmaprenderer

import (
	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
	"github.com/jamesrr39/ownmap-labels/styling"
)

// drawSymbolElements issues a single draw of segments. Label quads are double-sided, so faces
// are never culled.
func drawSymbolElements(
	painter *Painter,
	buffers *ownmap.SymbolBuffers,
	segments ownmapgl.SegmentVector,
	layer *styling.SymbolLayer,
	program ownmapgl.Program,
	depthMode ownmapgl.DepthMode,
	stencilMode ownmapgl.StencilMode,
	colorMode ownmapgl.ColorMode,
	uniforms ownmapgl.UniformValues,
) errorsx.Error {
	return program.Draw(painter.Context, &ownmapgl.DrawCall{
		Topology:                  gputypes.PrimitiveTopologyTriangleList,
		DepthMode:                 depthMode,
		StencilMode:               stencilMode,
		ColorMode:                 colorMode,
		CullFaceMode:              ownmapgl.CullFaceModeDisabled,
		Uniforms:                  uniforms,
		LayerID:                   layer.ID,
		LayoutVertexBuffer:        buffers.LayoutVertexBuffer,
		IndexBuffer:               buffers.IndexBuffer,
		Segments:                  segments,
		Zoom:                      painter.Transform.Zoom,
		ProgramConfiguration:      buffers.ProgramConfigurations[layer.ID],
		DynamicLayoutVertexBuffer: buffers.DynamicLayoutVertexBuffer,
	})
}
