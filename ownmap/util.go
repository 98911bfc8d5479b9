package ownmap

import (
	"math"

	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/osm"
)

// Overlaps reports whether the two bounds share any area.
func Overlaps(container osm.Bounds, item osm.Bounds) bool {
	if container.MinLat > item.MaxLat || container.MaxLat < item.MinLat {
		return false
	}

	if container.MinLon > item.MaxLon || container.MaxLon < item.MinLon {
		return false
	}

	return true
}

func IsTotallyInside(container osm.Bounds, item osm.Bounds) bool {
	return item.MaxLat <= container.MaxLat && item.MaxLon <= container.MaxLon && item.MinLat >= container.MinLat && item.MinLon >= container.MinLon
}

// IsInBounds tests if a point is inside a container. Points on the west and north edges belong
// to the container, points on the east and south edges belong to its neighbours.
func IsInBounds(bounds osm.Bounds, pointLat, pointLon float64) bool {
	isInLatBounds := pointLat <= bounds.MaxLat && pointLat > bounds.MinLat
	if !isInLatBounds {
		return false
	}

	isInLonBounds := pointLon < bounds.MaxLon && pointLon >= bounds.MinLon
	if !isInLonBounds {
		return false
	}

	return true
}

func TileBounds(tile maptile.Tile) osm.Bounds {
	n := math.Pow(2, float64(tile.Z))
	longitudeMin := float64(tile.X)/n*360 - 180
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(tile.Y)/n)))
	latitudeMax := latRad * 180 / math.Pi

	longitudeMax := float64(tile.X+1)/n*360 - 180
	latRad = math.Atan(math.Sinh(math.Pi * (1 - 2*float64(tile.Y+1)/n)))
	latitudeMin := latRad * 180 / math.Pi

	return osm.Bounds{
		MinLat: latitudeMin,
		MaxLat: latitudeMax,
		MinLon: longitudeMin,
		MaxLon: longitudeMax,
	}
}

// Deg2num finds the tile at zoomLevel containing lat/lon.
func Deg2num(lat, lon float64, zoomLevel uint32) maptile.Tile {
	n := math.Exp2(float64(zoomLevel))
	x := math.Floor((lon + 180.0) / 360.0 * n)
	y := math.Floor(
		(1.0 - math.Log(math.Tan(lat*math.Pi/180.0)+1.0/math.Cos(lat*math.Pi/180.0))/math.Pi) / 2.0 * n,
	)

	max := n - 1
	x = math.Max(0, math.Min(max, x))
	y = math.Max(0, math.Min(max, y))

	return maptile.New(uint32(x), uint32(y), maptile.Zoom(zoomLevel))
}

// TileUnitsForPoint returns where lat/lon falls inside tile, in tile units from its top-left corner.
func TileUnitsForPoint(tile maptile.Tile, lat, lon float64) (x, y float64) {
	n := math.Exp2(float64(tile.Z))
	worldX := (lon + 180.0) / 360.0 * n
	latRad := lat * math.Pi / 180.0
	worldY := (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n

	return (worldX - float64(tile.X)) * Extent, (worldY - float64(tile.Y)) * Extent
}
