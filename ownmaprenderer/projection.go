package ownmaprenderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jamesrr39/ownmap-labels/ownmap"
)

// GetLabelPlaneMatrix returns the matrix from tile units to the plane labels are laid out in.
// Labels pitched with the map stay in the (scaled) tile plane, all others are laid out in
// viewport pixels.
func GetLabelPlaneMatrix(posMatrix mgl32.Mat4, pitchWithMap, rotateWithMap bool, transform *ownmap.Transform, pixelsToTileUnits float64) mgl32.Mat4 {
	if pitchWithMap {
		s := float32(1 / pixelsToTileUnits)
		m := mgl32.Scale3D(s, s, 1)
		if !rotateWithMap {
			m = m.Mul4(mgl32.HomogRotate3DZ(float32(transform.Angle)))
		}
		return m
	}

	m := mgl32.Scale3D(float32(transform.Width/2), float32(-transform.Height/2), 1)
	m = m.Mul4(mgl32.Translate3D(1, -1, 0))
	return m.Mul4(posMatrix)
}

// GetGLCoordMatrix returns the matrix from the label plane to clip space, the inverse direction of
// GetLabelPlaneMatrix.
func GetGLCoordMatrix(posMatrix mgl32.Mat4, pitchWithMap, rotateWithMap bool, transform *ownmap.Transform, pixelsToTileUnits float64) mgl32.Mat4 {
	if pitchWithMap {
		s := float32(pixelsToTileUnits)
		m := posMatrix.Mul4(mgl32.Scale3D(s, s, 1))
		if !rotateWithMap {
			m = m.Mul4(mgl32.HomogRotate3DZ(float32(-transform.Angle)))
		}
		return m
	}

	m := mgl32.Scale3D(1, -1, 1)
	m = m.Mul4(mgl32.Translate3D(-1, -1, 0))
	return m.Mul4(mgl32.Scale3D(float32(2/transform.Width), float32(2/transform.Height), 1))
}

// AnchorLineLabelProjector places every glyph of a line label at its anchor projected into the label
// plane, turned to follow the map rotation.
type AnchorLineLabelProjector struct{}

func NewAnchorLineLabelProjector() *AnchorLineLabelProjector {
	return &AnchorLineLabelProjector{}
}

func (p *AnchorLineLabelProjector) UpdateLineLabels(
	bucket *ownmap.SymbolBucket,
	posMatrix mgl32.Mat4,
	painter *Painter,
	kind ownmap.LabelKind,
	labelPlaneMatrix mgl32.Mat4,
	glCoordMatrix mgl32.Mat4,
	pitchWithMap bool,
	keepUpright bool,
) {
	buffers := bucket.Buffers(kind)
	if buffers.IsEmpty() || buffers.DynamicLayoutVertexBuffer == nil {
		return
	}

	angle := lineLabelAngle(painter.Transform.Angle, keepUpright)

	dynamicVertices := make(ownmap.SymbolDynamicLayoutArray, len(buffers.LayoutVertexArray))
	for i, vertex := range buffers.LayoutVertexArray {
		projected := labelPlaneMatrix.Mul4x1(mgl32.Vec4{float32(vertex.AnchorX), float32(vertex.AnchorY), 0, 1})
		dynamicVertices[i] = ownmap.SymbolDynamicLayoutVertex{
			ProjectedX: projected[0] / projected[3],
			ProjectedY: projected[1] / projected[3],
			Angle:      angle,
		}
	}

	buffers.DynamicLayoutVertexArray = dynamicVertices
	buffers.DynamicLayoutVertexBuffer.UpdateData(dynamicVertices)
}

// lineLabelAngle is the angle a label along a horizontal line is drawn at when the map is rotated
// by mapAngle. Upright labels are flipped rather than drawn upside down.
func lineLabelAngle(mapAngle float64, keepUpright bool) float32 {
	angle := math.Remainder(mapAngle, 2*math.Pi)
	if keepUpright && math.Abs(angle) > math.Pi/2 {
		angle = math.Remainder(angle+math.Pi, 2*math.Pi)
	}
	return float32(angle)
}
