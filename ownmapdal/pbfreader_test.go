package ownmapdal

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPBFReader struct {
	objects []osm.Object
	idx     int
	err     error
}

func (r *mockPBFReader) Scan() bool {
	if r.idx >= len(r.objects) {
		return false
	}
	r.idx++
	return true
}

func (r *mockPBFReader) Object() osm.Object {
	return r.objects[r.idx-1]
}

func (r *mockPBFReader) Err() error {
	return r.err
}

func (r *mockPBFReader) Close() error {
	return nil
}

func TestReadPBFFeatures(t *testing.T) {
	reader := &mockPBFReader{
		objects: []osm.Object{
			&osm.Node{ID: 1, Lat: 59.91, Lon: 10.75, Tags: osm.Tags{
				{Key: "name", Value: "Oslo"},
				{Key: "place", Value: "city"},
				{Key: "population", Value: "709037"},
			}},
			// unnamed
			&osm.Node{ID: 2, Lat: 1, Lon: 1, Tags: osm.Tags{{Key: "amenity", Value: "bench"}}},
			&osm.Node{ID: 3, Lat: 60.39, Lon: 5.32, Tags: osm.Tags{
				{Key: "name", Value: "Bergen"},
				{Key: "population", Value: "lots"},
				{Key: "rank", Value: "7"},
				{Key: "place", Value: "city"},
			}},
			&osm.Way{ID: 4, Tags: osm.Tags{{Key: "name", Value: "E18"}}},
		},
	}

	features, err := ReadPBFFeatures(reader)
	require.NoError(t, err)
	require.Len(t, features, 2)

	oslo := features[0]
	assert.Equal(t, int64(1), oslo.ID)
	assert.Equal(t, GeometryTypePoint, oslo.GeometryType)
	assert.Equal(t, orb.Point{10.75, 59.91}, oslo.Anchor)
	assert.Equal(t, map[string]interface{}{
		"name":       "Oslo",
		"place":      "city",
		"population": float64(709037),
		"rank":       float64(1),
	}, oslo.Properties)

	bergen := features[1]
	// the rank tag wins over the place rank, and unparseable numbers are dropped
	assert.Equal(t, float64(7), bergen.Properties["rank"])
	_, ok := bergen.Properties["population"]
	assert.False(t, ok)
}

func TestReadPBFFeatures_Error(t *testing.T) {
	_, err := ReadPBFFeatures(&mockPBFReader{err: errors.New("corrupt blob")})
	require.Error(t, err)
}
