package ownmaprenderer

import (
	"math"

	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/styling"
)

// symbolSize is the zoom-dependent part of a text-size/icon-size.
// For camera functions the size is complete in Size; for composite functions the shader
// interpolates between the per-feature sizes with SizeT.
type symbolSize struct {
	SizeT float64
	Size  float64
}

func evaluateSizeForZoom(sizeData ownmap.SizeData, zoom float64) symbolSize {
	switch sizeData.Kind {
	case ownmap.SizeFunctionTypeConstant:
		return symbolSize{Size: sizeData.LayoutSize}
	case ownmap.SizeFunctionTypeSource:
		return symbolSize{}
	}

	var t float64
	if sizeData.Interpolation != nil {
		t = styling.InterpolationFactor(zoom, sizeData.Interpolation.Base, sizeData.MinZoom, sizeData.MaxZoom)
		t = math.Max(0, math.Min(1, t))
	}

	if sizeData.Kind == ownmap.SizeFunctionTypeCamera {
		return symbolSize{Size: sizeData.MinSize + t*(sizeData.MaxSize-sizeData.MinSize)}
	}

	return symbolSize{SizeT: t}
}

func isSizeZoomConstant(kind ownmap.SizeFunctionType) bool {
	return kind == ownmap.SizeFunctionTypeConstant || kind == ownmap.SizeFunctionTypeSource
}

func isSizeFeatureConstant(kind ownmap.SizeFunctionType) bool {
	return kind == ownmap.SizeFunctionTypeConstant || kind == ownmap.SizeFunctionTypeCamera
}
