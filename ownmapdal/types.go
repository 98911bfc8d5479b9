package ownmapdal

import (
	"errors"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/paulmach/orb"
)

var (
	ErrNoDataAvailable = errors.New("no data available")
)

// GeometryType is the geometry type as seen by style filters ("$type").
type GeometryType string

const (
	GeometryTypePoint      GeometryType = "Point"
	GeometryTypeLineString GeometryType = "LineString"
	GeometryTypePolygon    GeometryType = "Polygon"
)

// Feature is something that can be labelled: a point, or the middle of a line or area.
type Feature struct {
	ID           int64
	GeometryType GeometryType
	// Anchor is where the label is placed, lon/lat
	Anchor     orb.Point
	Properties map[string]interface{}
}

type DataSourceType string

const (
	DataSourceTypeGeoJSON DataSourceType = "geojson"
	DataSourceTypePBF     DataSourceType = "pbf"
)

type DataSourceURL struct {
	Type DataSourceType
	Path string
}

const ConnectionPathSeparator = "://"

// ParseDataSourceURL parses a data source given as "<type>://<path>", e.g. "pbf://data/monaco.osm.pbf".
func ParseDataSourceURL(str string) (DataSourceURL, errorsx.Error) {
	idx := strings.Index(str, ConnectionPathSeparator)
	if idx < 0 {
		return DataSourceURL{}, errorsx.Errorf("couldn't find connection path separator %q in data source %q", ConnectionPathSeparator, str)
	}

	url := DataSourceURL{
		Type: DataSourceType(str[:idx]),
		Path: str[idx+len(ConnectionPathSeparator):],
	}

	switch url.Type {
	case DataSourceTypeGeoJSON, DataSourceTypePBF:
	default:
		return DataSourceURL{}, errorsx.Errorf("unknown data source type %q", url.Type)
	}

	if url.Path == "" {
		return DataSourceURL{}, errorsx.Errorf("no path in data source %q", str)
	}

	return url, nil
}
