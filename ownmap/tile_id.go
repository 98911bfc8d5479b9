package ownmap

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/paulmach/orb/maptile"
)

// TileKey identifies a tile independently of any per-frame state.
type TileKey struct {
	OverscaledZ uint32
	Wrap        int
	Canonical   maptile.Tile
}

// OverscaledTileID is a tile in the current frame. Tiles requested beyond the source's max zoom
// reuse the data of their canonical parent, drawn at OverscaledZ.
type OverscaledTileID struct {
	OverscaledZ uint32
	Wrap        int
	Canonical   maptile.Tile
	// PosMatrix maps tile units to clip space for the current frame
	PosMatrix mgl32.Mat4
}

func NewOverscaledTileID(overscaledZ uint32, wrap int, canonical maptile.Tile) *OverscaledTileID {
	return &OverscaledTileID{
		OverscaledZ: overscaledZ,
		Wrap:        wrap,
		Canonical:   canonical,
		PosMatrix:   mgl32.Ident4(),
	}
}

func (id *OverscaledTileID) Key() TileKey {
	return TileKey{id.OverscaledZ, id.Wrap, id.Canonical}
}

func (id *OverscaledTileID) String() string {
	return fmt.Sprintf("%d/%d/%d/%d (wrap %d)", id.OverscaledZ, id.Canonical.Z, id.Canonical.X, id.Canonical.Y, id.Wrap)
}

// PixelsToTileUnits converts a length in screen pixels at zoom into the tile's own units.
func PixelsToTileUnits(id *OverscaledTileID, pixelValue float64, zoom float64) float64 {
	return pixelValue * (Extent / (TileSize * math.Pow(2, zoom-float64(id.OverscaledZ))))
}
