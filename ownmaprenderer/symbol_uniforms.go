package ownmaprenderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jamesrr39/ownmap-labels/ownmap"
)

// SymbolIconUniforms are the uniforms of the symbolIcon program. Values are never changed after
// they are built.
type SymbolIconUniforms struct {
	IsSizeZoomConstant     bool
	IsSizeFeatureConstant  bool
	SizeT                  float64
	Size                   float64
	CameraToCenterDistance float64
	Pitch                  float64 // radians
	RotateSymbol           bool
	AspectRatio            float64
	Matrix                 mgl32.Mat4
	LabelPlaneMatrix       mgl32.Mat4
	CoordMatrix            mgl32.Mat4
	IsText                 bool
	PitchWithMap           bool
	TexSize                [2]float64
	TextureUnit            int
}

func (u SymbolIconUniforms) Each(fn func(name string, value interface{})) {
	fn("u_is_size_zoom_constant", u.IsSizeZoomConstant)
	fn("u_is_size_feature_constant", u.IsSizeFeatureConstant)
	fn("u_size_t", u.SizeT)
	fn("u_size", u.Size)
	fn("u_camera_to_center_distance", u.CameraToCenterDistance)
	fn("u_pitch", u.Pitch)
	fn("u_rotate_symbol", u.RotateSymbol)
	fn("u_aspect_ratio", u.AspectRatio)
	fn("u_matrix", u.Matrix)
	fn("u_label_plane_matrix", u.LabelPlaneMatrix)
	fn("u_coord_matrix", u.CoordMatrix)
	fn("u_is_text", u.IsText)
	fn("u_pitch_with_map", u.PitchWithMap)
	fn("u_texsize", u.TexSize)
	fn("u_texture", u.TextureUnit)
}

// SymbolSDFUniforms are the uniforms of the symbolSDF program. The halo and the fill of a label
// are drawn with two values that only differ in IsHalo.
type SymbolSDFUniforms struct {
	SymbolIconUniforms
	GammaScale       float64
	DevicePixelRatio float64
	IsHalo           bool
}

func (u SymbolSDFUniforms) Each(fn func(name string, value interface{})) {
	u.SymbolIconUniforms.Each(fn)
	fn("u_gamma_scale", u.GammaScale)
	fn("u_device_pixel_ratio", u.DevicePixelRatio)
	fn("u_is_halo", u.IsHalo)
}

// WithHalo returns a copy of u drawing the halo (isHalo true) or the fill.
func (u SymbolSDFUniforms) WithHalo(isHalo bool) SymbolSDFUniforms {
	u.IsHalo = isHalo
	return u
}

// symbolUniformParams are the inputs shared by both uniform builders.
type symbolUniformParams struct {
	sizeKind         ownmap.SizeFunctionType
	size             symbolSize
	rotateInShader   bool
	pitchWithMap     bool
	matrix           mgl32.Mat4
	labelPlaneMatrix mgl32.Mat4
	glCoordMatrix    mgl32.Mat4
	isText           bool
	texSize          [2]int
}

func symbolIconUniformValues(painter *Painter, params symbolUniformParams) SymbolIconUniforms {
	transform := painter.Transform

	return SymbolIconUniforms{
		IsSizeZoomConstant:     isSizeZoomConstant(params.sizeKind),
		IsSizeFeatureConstant:  isSizeFeatureConstant(params.sizeKind),
		SizeT:                  params.size.SizeT,
		Size:                   params.size.Size,
		CameraToCenterDistance: transform.CameraToCenterDistance,
		Pitch:                  transform.Pitch,
		RotateSymbol:           params.rotateInShader,
		AspectRatio:            transform.Width / transform.Height,
		Matrix:                 params.matrix,
		LabelPlaneMatrix:       params.labelPlaneMatrix,
		CoordMatrix:            params.glCoordMatrix,
		IsText:                 params.isText,
		PitchWithMap:           params.pitchWithMap,
		TexSize:                [2]float64{float64(params.texSize[0]), float64(params.texSize[1])},
		TextureUnit:            0,
	}
}

func symbolSDFUniformValues(painter *Painter, params symbolUniformParams, isHalo bool) SymbolSDFUniforms {
	transform := painter.Transform

	gammaScale := 1.0
	if params.pitchWithMap {
		gammaScale = math.Cos(transform.Pitch) * transform.CameraToCenterDistance
	}

	return SymbolSDFUniforms{
		SymbolIconUniforms: symbolIconUniformValues(painter, params),
		GammaScale:         gammaScale,
		DevicePixelRatio:   painter.Options.DevicePixelRatio,
		IsHalo:             isHalo,
	}
}
