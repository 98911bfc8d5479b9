package ownmap

import (
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
)

// SymbolLayoutVertex is one corner of a glyph or icon quad.
type SymbolLayoutVertex struct {
	// AnchorX, AnchorY is the label anchor, in tile units
	AnchorX, AnchorY int16
	// OffsetX, OffsetY is the corner's offset from the anchor, in pixels at a size of 1 "em"
	OffsetX, OffsetY float32
	// TexX, TexY is the corner's position in the atlas, in pixels
	TexX, TexY uint16
}

type SymbolLayoutArray []SymbolLayoutVertex

func (a SymbolLayoutArray) Length() int {
	return len(a)
}

// SymbolDynamicLayoutVertex is rewritten every frame for line labels: the projected anchor and
// the glyph's angle along the line.
type SymbolDynamicLayoutVertex struct {
	ProjectedX, ProjectedY float32
	Angle                  float32
}

type SymbolDynamicLayoutArray []SymbolDynamicLayoutVertex

func (a SymbolDynamicLayoutArray) Length() int {
	return len(a)
}

type Triangle [3]uint16

type TriangleIndexArray []Triangle

func (a TriangleIndexArray) Length() int {
	return len(a)
}

// SymbolBuffers is the geometry of one label kind in a tile.
type SymbolBuffers struct {
	LayoutVertexArray        SymbolLayoutArray
	DynamicLayoutVertexArray SymbolDynamicLayoutArray
	IndexArray               TriangleIndexArray

	LayoutVertexBuffer        ownmapgl.VertexBuffer
	DynamicLayoutVertexBuffer ownmapgl.VertexBuffer
	IndexBuffer               ownmapgl.IndexBuffer

	Segments              ownmapgl.SegmentVector
	ProgramConfigurations map[string]*ownmapgl.ProgramConfiguration // map[layer ID]
}

// IsEmpty is true when there is nothing to draw, for example because every feature was culled.
func (sb *SymbolBuffers) IsEmpty() bool {
	return sb == nil || len(sb.Segments.Get()) == 0
}

// Upload creates the GPU buffers from the CPU arrays. Already uploaded buffers are kept.
func (sb *SymbolBuffers) Upload(ctx ownmapgl.Context) {
	if sb.LayoutVertexBuffer == nil {
		sb.LayoutVertexBuffer = ctx.CreateVertexBuffer(sb.LayoutVertexArray, false)
	}
	if sb.DynamicLayoutVertexBuffer == nil {
		sb.DynamicLayoutVertexBuffer = ctx.CreateVertexBuffer(sb.DynamicLayoutVertexArray, true)
	}
	if sb.IndexBuffer == nil {
		sb.IndexBuffer = ctx.CreateIndexBuffer(sb.IndexArray)
	}
}

type SizeFunctionType string

const (
	SizeFunctionTypeConstant  SizeFunctionType = "constant"
	SizeFunctionTypeSource    SizeFunctionType = "source"
	SizeFunctionTypeCamera    SizeFunctionType = "camera"
	SizeFunctionTypeComposite SizeFunctionType = "composite"
)

// SizeInterpolation describes how a size is interpolated between zoom stops.
// Base 1 is linear, anything else exponential.
type SizeInterpolation struct {
	Base float64
}

// SizeData is how the text-size/icon-size of a bucket depends on zoom and feature.
type SizeData struct {
	Kind SizeFunctionType
	// LayoutSize is the size for SizeFunctionTypeConstant
	LayoutSize float64
	// MinZoom, MaxZoom are the zoom stops used for camera and composite functions
	MinZoom, MaxZoom float64
	// MinSize, MaxSize are the sizes at MinZoom and MaxZoom for camera functions
	MinSize, MaxSize float64
	// Interpolation is nil for step functions
	Interpolation *SizeInterpolation
}

type SymbolBucket struct {
	LayerID string
	Text    *SymbolBuffers
	Icon    *SymbolBuffers
	// SDFIcons is true when the icons in the bucket come from an SDF image
	SDFIcons bool
	// IconsNeedLinear is true when some icon is drawn at a size other than its image size
	IconsNeedLinear bool
	TextSizeData    SizeData
	IconSizeData    SizeData
}

func (b *SymbolBucket) Buffers(kind LabelKind) *SymbolBuffers {
	if kind == LabelKindText {
		return b.Text
	}
	return b.Icon
}

func (b *SymbolBucket) SizeData(kind LabelKind) SizeData {
	if kind == LabelKindText {
		return b.TextSizeData
	}
	return b.IconSizeData
}

// IsSDF reports whether kind is drawn with the signed distance field program.
func (b *SymbolBucket) IsSDF(kind LabelKind) bool {
	return kind == LabelKindText || b.SDFIcons
}
