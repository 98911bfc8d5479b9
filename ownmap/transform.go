package ownmap

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const (
	DefaultFov          = 0.6435011087932844 // radians
	earthRadiusInMeters = 6371008.8
)

// Transform is the camera for one frame.
type Transform struct {
	Zoom float64
	// Angle is the map rotation in radians, counter-clockwise. The bearing is -Angle.
	Angle float64
	// Pitch is the camera tilt in radians, 0 looks straight down
	Pitch                  float64
	Fov                    float64
	Width, Height          float64
	Center                 orb.Point // lon, lat
	CameraToCenterDistance float64
	projMatrix             mgl64.Mat4
}

func NewTransform(center orb.Point, zoom, bearingDegrees, pitchDegrees, width, height float64) *Transform {
	tr := &Transform{
		Zoom:   zoom,
		Angle:  -bearingDegrees * math.Pi / 180,
		Pitch:  pitchDegrees * math.Pi / 180,
		Fov:    DefaultFov,
		Width:  width,
		Height: height,
		Center: center,
	}
	tr.calcMatrices()
	return tr
}

func (tr *Transform) Scale() float64 {
	return math.Pow(2, tr.Zoom)
}

func (tr *Transform) WorldSize() float64 {
	return TileSize * tr.Scale()
}

func (tr *Transform) BearingDegrees() float64 {
	return -tr.Angle / math.Pi * 180
}

func (tr *Transform) PitchDegrees() float64 {
	return tr.Pitch / math.Pi * 180
}

// Point is the map center in world pixels.
func (tr *Transform) Point() (x, y float64) {
	worldSize := tr.WorldSize()
	lon, lat := tr.Center.Lon(), tr.Center.Lat()
	x = (180 + lon) / 360 * worldSize
	y = (180 - (180 / math.Pi * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360)))) / 360 * worldSize
	return x, y
}

func (tr *Transform) calcMatrices() {
	if tr.Height == 0 {
		return
	}

	tr.CameraToCenterDistance = 0.5 / math.Tan(tr.Fov/2) * tr.Height

	halfFov := tr.Fov / 2
	groundAngle := math.Pi/2 + tr.Pitch
	topHalfSurfaceDistance := math.Sin(halfFov) * tr.CameraToCenterDistance / math.Sin(math.Pi-groundAngle-halfFov)

	x, y := tr.Point()

	// Find the distance from the center point to the center top in altitude units using law of sines.
	furthestDistance := math.Cos(math.Pi/2-tr.Pitch)*topHalfSurfaceDistance + tr.CameraToCenterDistance
	farZ := furthestDistance * 1.01
	nearZ := tr.Height / 50

	m := mgl64.Perspective(tr.Fov, tr.Width/tr.Height, nearZ, farZ)
	m = m.Mul4(mgl64.Scale3D(1, -1, 1))
	m = m.Mul4(mgl64.Translate3D(0, 0, -tr.CameraToCenterDistance))
	m = m.Mul4(mgl64.HomogRotate3DX(tr.Pitch))
	m = m.Mul4(mgl64.HomogRotate3DZ(tr.Angle))
	m = m.Mul4(mgl64.Translate3D(-x, -y, 0))
	m = m.Mul4(mgl64.Scale3D(1, 1, mercatorZFromAltitude(1, tr.Center.Lat())*tr.WorldSize()))

	tr.projMatrix = m
}

func mercatorZFromAltitude(altitude, lat float64) float64 {
	circumference := 2 * math.Pi * earthRadiusInMeters * math.Cos(lat*math.Pi/180)
	return altitude / circumference
}

func (tr *Transform) ProjMatrix() mgl32.Mat4 {
	return toMat4f(tr.projMatrix)
}

// CalculatePosMatrix returns the matrix mapping the tile's units to clip space.
func (tr *Transform) CalculatePosMatrix(id *OverscaledTileID) mgl32.Mat4 {
	canonical := id.Canonical
	scale := tr.WorldSize() / math.Pow(2, float64(canonical.Z))
	unwrappedX := float64(canonical.X) + math.Pow(2, float64(canonical.Z))*float64(id.Wrap)

	posMatrix := mgl64.Translate3D(unwrappedX*scale, float64(canonical.Y)*scale, 0)
	posMatrix = posMatrix.Mul4(mgl64.Scale3D(scale/Extent, scale/Extent, 1))
	posMatrix = tr.projMatrix.Mul4(posMatrix)

	return toMat4f(posMatrix)
}

// CoveringTiles lists the tiles around the center that cover the viewport, with their position
// matrices set. Beyond maxZoom the canonical tile stays at maxZoom and is overscaled.
func (tr *Transform) CoveringTiles(maxZoom uint32) []*OverscaledTileID {
	z := uint32(math.Max(0, math.Floor(tr.Zoom)))
	canonicalZ := z
	if canonicalZ > maxZoom {
		canonicalZ = maxZoom
	}

	n := int(math.Exp2(float64(z)))
	tileSizeInPixels := TileSize * math.Pow(2, tr.Zoom-float64(z))

	centerX, centerY := tr.Point()
	centerTileX := int(math.Floor(centerX / tileSizeInPixels))
	centerTileY := int(math.Floor(centerY / tileSizeInPixels))
	radius := int(math.Ceil(math.Hypot(tr.Width, tr.Height) / 2 / tileSizeInPixels))

	seen := make(map[TileKey]bool)
	var ids []*OverscaledTileID
	for dy := -radius; dy <= radius; dy++ {
		tileY := centerTileY + dy
		if tileY < 0 || tileY >= n {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			tileX := centerTileX + dx
			wrap := floorDiv(tileX, n)
			tileX -= wrap * n

			shift := z - canonicalZ
			canonical := maptile.New(uint32(tileX)>>shift, uint32(tileY)>>shift, maptile.Zoom(canonicalZ))

			id := NewOverscaledTileID(z, wrap, canonical)
			if seen[id.Key()] {
				continue
			}
			seen[id.Key()] = true

			id.PosMatrix = tr.CalculatePosMatrix(id)
			ids = append(ids, id)
		}
	}

	return ids
}

func floorDiv(a, b int) int {
	return int(math.Floor(float64(a) / float64(b)))
}

func toMat4f(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
