package ownmapdal

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ReadGeoJSONFeatures reads a GeoJSON FeatureCollection. Every feature becomes one label,
// anchored on its point, at the middle of its line or at the centroid of its polygon.
// Features with other geometries are skipped.
func ReadGeoJSONFeatures(data []byte) ([]*Feature, errorsx.Error) {
	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	var features []*Feature
	for i, geojsonFeature := range collection.Features {
		geometryType, anchor, ok := anchorForGeometry(geojsonFeature.Geometry)
		if !ok {
			continue
		}

		properties := make(map[string]interface{})
		for key, value := range geojsonFeature.Properties {
			properties[key] = value
		}

		features = append(features, &Feature{
			ID:           geoJSONFeatureID(geojsonFeature.ID, i),
			GeometryType: geometryType,
			Anchor:       anchor,
			Properties:   properties,
		})
	}

	return features, nil
}

func geoJSONFeatureID(id interface{}, index int) int64 {
	switch v := id.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return int64(index + 1)
	}
}

func anchorForGeometry(geometry orb.Geometry) (GeometryType, orb.Point, bool) {
	switch g := geometry.(type) {
	case orb.Point:
		return GeometryTypePoint, g, true
	case orb.LineString:
		if len(g) == 0 {
			return "", orb.Point{}, false
		}
		return GeometryTypeLineString, lineStringMidpoint(g), true
	case orb.Polygon:
		if len(g) == 0 || len(g[0]) == 0 {
			return "", orb.Point{}, false
		}
		centroid, _ := planar.CentroidArea(g)
		return GeometryTypePolygon, centroid, true
	default:
		return "", orb.Point{}, false
	}
}

// lineStringMidpoint is the point half way along the line.
func lineStringMidpoint(ls orb.LineString) orb.Point {
	half := planar.Length(ls) / 2

	var travelled float64
	for i := 1; i < len(ls); i++ {
		segmentLength := planar.Distance(ls[i-1], ls[i])
		if travelled+segmentLength >= half && segmentLength > 0 {
			t := (half - travelled) / segmentLength
			return orb.Point{
				ls[i-1][0] + t*(ls[i][0]-ls[i-1][0]),
				ls[i-1][1] + t*(ls[i][1]-ls[i-1][1]),
			}
		}
		travelled += segmentLength
	}

	return ls[0]
}
