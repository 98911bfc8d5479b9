package ownmapdal

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "id": 10, "geometry": {"type": "Point", "coordinates": [10.75, 59.91]}, "properties": {"name": "Oslo", "rank": 1}},
		{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [2, 0], [2, 2]]}, "properties": {"name": "Ring 1"}},
		{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [4, 0], [4, 4], [0, 4], [0, 0]]]}, "properties": {"name": "Park"}},
		{"type": "Feature", "geometry": {"type": "MultiPoint", "coordinates": [[1, 1], [2, 2]]}, "properties": {"name": "Skipped"}}
	]
}`

func TestReadGeoJSONFeatures(t *testing.T) {
	features, err := ReadGeoJSONFeatures([]byte(testGeoJSON))
	require.NoError(t, err)
	require.Len(t, features, 3)

	assert.Equal(t, int64(10), features[0].ID)
	assert.Equal(t, GeometryTypePoint, features[0].GeometryType)
	assert.Equal(t, orb.Point{10.75, 59.91}, features[0].Anchor)
	assert.Equal(t, "Oslo", features[0].Properties["name"])
	assert.Equal(t, float64(1), features[0].Properties["rank"])

	// features without an ID are numbered by position
	assert.Equal(t, int64(2), features[1].ID)
	assert.Equal(t, GeometryTypeLineString, features[1].GeometryType)
	assert.Equal(t, orb.Point{2, 0}, features[1].Anchor)

	assert.Equal(t, GeometryTypePolygon, features[2].GeometryType)
	assert.InDelta(t, 2, features[2].Anchor.X(), 1e-9)
	assert.InDelta(t, 2, features[2].Anchor.Y(), 1e-9)
}

func TestReadGeoJSONFeatures_Invalid(t *testing.T) {
	_, err := ReadGeoJSONFeatures([]byte(`{"type": "FeatureCollection", "features": [`))
	require.Error(t, err)
}

func Test_lineStringMidpoint(t *testing.T) {
	tests := []struct {
		name string
		ls   orb.LineString
		want orb.Point
	}{
		{
			name: "single segment",
			ls:   orb.LineString{{0, 0}, {4, 0}},
			want: orb.Point{2, 0},
		}, {
			name: "uneven segments",
			ls:   orb.LineString{{0, 0}, {1, 0}, {1, 3}},
			want: orb.Point{1, 1},
		}, {
			name: "single point",
			ls:   orb.LineString{{5, 5}},
			want: orb.Point{5, 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineStringMidpoint(tt.ls)
			assert.InDelta(t, tt.want.X(), got.X(), 1e-9)
			assert.InDelta(t, tt.want.Y(), got.Y(), 1e-9)
		})
	}
}
