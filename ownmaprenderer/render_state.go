package ownmaprenderer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
)

// drawVariant is how a tile's labels of one kind are drawn: iconVariant, sdfTextVariant or
// sdfIconVariant.
type drawVariant interface {
	programName() ownmapgl.ProgramName
}

type iconVariant struct {
	uniforms SymbolIconUniforms
}

// sdfUniforms holds the two uniform sets of an SDF draw.
type sdfUniforms struct {
	halo    SymbolSDFUniforms
	fill    SymbolSDFUniforms
	hasHalo bool
}

func newSDFUniforms(base SymbolSDFUniforms, hasHalo bool) sdfUniforms {
	return sdfUniforms{
		halo:    base.WithHalo(true),
		fill:    base.WithHalo(false),
		hasHalo: hasHalo,
	}
}

type sdfTextVariant struct {
	sdfUniforms
}

type sdfIconVariant struct {
	sdfUniforms
}

func (iconVariant) programName() ownmapgl.ProgramName {
	return ownmapgl.ProgramSymbolIcon
}

func (sdfTextVariant) programName() ownmapgl.ProgramName {
	return ownmapgl.ProgramSymbolSDF
}

func (sdfIconVariant) programName() ownmapgl.ProgramName {
	return ownmapgl.ProgramSymbolSDF
}

func programNameFor(isSDF bool) ownmapgl.ProgramName {
	if isSDF {
		return ownmapgl.ProgramSymbolSDF
	}
	return ownmapgl.ProgramSymbolIcon
}

func newDrawVariant(painter *Painter, kind ownmap.LabelKind, isSDF, hasHalo bool, params symbolUniformParams) drawVariant {
	if !isSDF {
		return iconVariant{symbolIconUniformValues(painter, params)}
	}

	uniforms := newSDFUniforms(symbolSDFUniformValues(painter, params, true), hasHalo)
	if kind == ownmap.LabelKindText {
		return sdfTextVariant{uniforms}
	}
	return sdfIconVariant{uniforms}
}

// drawPasses lists the uniforms of each draw needed for one segment range, in order: the halo
// (if there is one) before the fill.
func drawPasses(variant drawVariant) []ownmapgl.UniformValues {
	var sdf sdfUniforms

	switch v := variant.(type) {
	case iconVariant:
		return []ownmapgl.UniformValues{v.uniforms}
	case sdfTextVariant:
		sdf = v.sdfUniforms
	case sdfIconVariant:
		sdf = v.sdfUniforms
	default:
		panic(fmt.Sprintf("unhandled draw variant: %T", variant))
	}

	if sdf.hasHalo {
		return []ownmapgl.UniformValues{sdf.halo, sdf.fill}
	}
	return []ownmapgl.UniformValues{sdf.fill}
}

// symbolTileRenderState is one tile's draw of one label kind, kept back to be drawn in sort key
// order.
type symbolTileRenderState struct {
	tileID       *ownmap.OverscaledTileID
	buffers      *ownmap.SymbolBuffers
	program      ownmapgl.Program
	depthMode    ownmapgl.DepthMode
	variant      drawVariant
	atlasTexture ownmapgl.Texture
	atlasFilter  gputypes.FilterMode
}
