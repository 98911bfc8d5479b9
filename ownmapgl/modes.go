package ownmapgl

import (
	"image/color"

	"github.com/gogpu/gputypes"
)

type DepthMask bool

const (
	DepthReadOnly  DepthMask = false
	DepthReadWrite DepthMask = true
)

type DepthMode struct {
	Func  gputypes.CompareFunction
	Mask  DepthMask
	Range [2]float64
}

var DepthModeDisabled = DepthMode{
	Func:  gputypes.CompareFunctionAlways,
	Mask:  DepthReadOnly,
	Range: [2]float64{0, 1},
}

type StencilMode struct {
	Func      gputypes.CompareFunction
	Ref       uint32
	ReadMask  uint32
	WriteMask uint32
}

var StencilModeDisabled = StencilMode{
	Func: gputypes.CompareFunctionAlways,
}

type ColorMode struct {
	Blend      *gputypes.BlendState // nil = blending disabled
	BlendColor color.Color
	WriteMask  gputypes.ColorWriteMask
}

var ColorModeUnblended = ColorMode{
	BlendColor: color.Transparent,
	WriteMask:  gputypes.ColorWriteMaskAll,
}

// ColorModeAlphaBlended expects premultiplied colours from the fragment stage.
func ColorModeAlphaBlended() ColorMode {
	blend := gputypes.BlendStatePremultiplied()
	return ColorMode{
		Blend:      &blend,
		BlendColor: color.Transparent,
		WriteMask:  gputypes.ColorWriteMaskAll,
	}
}

type CullFaceMode struct {
	Mode gputypes.CullMode
}

var CullFaceModeDisabled = CullFaceMode{
	Mode: gputypes.CullModeNone,
}
