package rasterbackend

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
)

// symbolUniforms are the uniforms the raster programs use, read by name.
type symbolUniforms struct {
	matrix                 mgl32.Mat4
	labelPlaneMatrix       mgl32.Mat4
	size                   float64
	isSizeFeatureConstant  bool
	cameraToCenterDistance float64
	rotateSymbol           bool
	pitchWithMap           bool
	isText                 bool
	hasHaloFlag            bool
	isHalo                 bool
}

func readUniforms(values ownmapgl.UniformValues) symbolUniforms {
	u := symbolUniforms{
		matrix:           mgl32.Ident4(),
		labelPlaneMatrix: mgl32.Ident4(),
	}

	values.Each(func(name string, value interface{}) {
		switch name {
		case "u_matrix":
			u.matrix, _ = value.(mgl32.Mat4)
		case "u_label_plane_matrix":
			u.labelPlaneMatrix, _ = value.(mgl32.Mat4)
		case "u_size":
			u.size, _ = value.(float64)
		case "u_is_size_feature_constant":
			u.isSizeFeatureConstant, _ = value.(bool)
		case "u_camera_to_center_distance":
			u.cameraToCenterDistance, _ = value.(float64)
		case "u_rotate_symbol":
			u.rotateSymbol, _ = value.(bool)
		case "u_pitch_with_map":
			u.pitchWithMap, _ = value.(bool)
		case "u_is_text":
			u.isText, _ = value.(bool)
		case "u_is_halo":
			u.hasHaloFlag = true
			u.isHalo, _ = value.(bool)
		}
	})

	return u
}

// symbolScale is how much a quad's offsets are scaled by before perspective.
// Per-feature sizes aren't in the vertices, so data-driven sizes draw at the default size.
func (u symbolUniforms) symbolScale() float64 {
	size := u.size
	if !u.isSizeFeatureConstant || size == 0 {
		size = 1
		if u.isText {
			size = ownmap.GlyphFontSize
		}
	}

	if u.isText {
		return size / ownmap.GlyphFontSize
	}
	return size
}
