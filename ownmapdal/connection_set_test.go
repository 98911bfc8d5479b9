package ownmapdal

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeature(id int64, lat, lon float64, properties map[string]interface{}) *Feature {
	return &Feature{
		ID:           id,
		GeometryType: GeometryTypePoint,
		Anchor:       orb.Point{lon, lat},
		Properties:   properties,
	}
}

func newTestDataSourceSet() *DataSourceSet {
	nordics := NewMemoryDataSource("nordics", []*Feature{
		newTestFeature(2, 60, 11, map[string]interface{}{"name": "Oslo"}),
		newTestFeature(1, 59.3, 18, map[string]interface{}{"name": "Stockholm"}),
	})
	alps := NewMemoryDataSource("alps", []*Feature{
		newTestFeature(3, 46.5, 7, map[string]interface{}{"name": "Bern"}),
		newTestFeature(4, 47.3, 11.4, map[string]interface{}{"name": "Innsbruck"}),
	})

	return NewDataSourceSet(logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelInfo), []DataSource{nordics, alps})
}

func TestDataSourceSet_GetSourcesForBounds(t *testing.T) {
	dss := newTestDataSourceSet()

	tests := []struct {
		name   string
		bounds osm.Bounds
		want   map[string]MatchLevel
	}{
		{
			name:   "inside one source",
			bounds: osm.Bounds{MinLat: 59.5, MaxLat: 59.8, MinLon: 12, MaxLon: 15},
			want:   map[string]MatchLevel{"nordics": MatchLevelFull},
		}, {
			name:   "overlapping one source",
			bounds: osm.Bounds{MinLat: 55, MaxLat: 65, MinLon: 10, MaxLon: 20},
			want:   map[string]MatchLevel{"nordics": MatchLevelPartial},
		}, {
			name:   "overlapping both sources",
			bounds: osm.Bounds{MinLat: 40, MaxLat: 70, MinLon: 0, MaxLon: 30},
			want:   map[string]MatchLevel{"nordics": MatchLevelPartial, "alps": MatchLevelPartial},
		}, {
			name:   "outside every source",
			bounds: osm.Bounds{MinLat: -10, MaxLat: 10, MinLon: -10, MaxLon: 10},
			want:   map[string]MatchLevel{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make(map[string]MatchLevel)
			for _, chosen := range dss.GetSourcesForBounds(tt.bounds) {
				got[chosen.Name()] = chosen.MatchLevel
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataSourceSet_GetInBounds(t *testing.T) {
	dss := newTestDataSourceSet()

	features, err := dss.GetInBounds(context.Background(), osm.Bounds{MinLat: 40, MaxLat: 70, MinLon: 0, MaxLon: 12})
	require.NoError(t, err)

	var names []string
	for _, feature := range features {
		names = append(names, feature.Properties["name"].(string))
	}
	assert.ElementsMatch(t, []string{"Oslo", "Bern", "Innsbruck"}, names)

	_, err = dss.GetInBounds(context.Background(), osm.Bounds{MinLat: -10, MaxLat: 10, MinLon: -10, MaxLon: 10})
	require.Error(t, err)
	assert.Equal(t, ErrNoDataAvailable, errorsx.Cause(err))
}

func TestDataSourceSet_AddSource(t *testing.T) {
	dss := NewDataSourceSet(logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelInfo), nil)
	assert.Empty(t, dss.GetSources())

	dss.AddSource(NewMemoryDataSource("one", []*Feature{newTestFeature(1, 1, 1, nil)}))
	assert.Len(t, dss.GetSources(), 1)
}

func TestMemoryDataSource(t *testing.T) {
	source := NewMemoryDataSource("test", []*Feature{
		newTestFeature(3, 10, 20, nil),
		newTestFeature(1, -5, 30, nil),
		newTestFeature(2, 15, 25, nil),
	})

	assert.Equal(t, osm.Bounds{MinLat: -5, MaxLat: 15, MinLon: 20, MaxLon: 30}, source.Bounds())

	var ids []int64
	for _, feature := range source.Features() {
		ids = append(ids, feature.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)

	features, err := source.GetInBounds(context.Background(), osm.Bounds{MinLat: 0, MaxLat: 20, MinLon: 19, MaxLon: 26})
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, int64(2), features[0].ID)
	assert.Equal(t, int64(3), features[1].ID)

	_, err = NewMemoryDataSource("empty", nil).GetInBounds(context.Background(), osm.Bounds{MaxLat: 1, MaxLon: 1})
	assert.Equal(t, ErrNoDataAvailable, errorsx.Cause(err))
}

func TestMatchLevel_String(t *testing.T) {
	assert.Equal(t, "none", MatchLevelNone.String())
	assert.Equal(t, "partial", MatchLevelPartial.String())
	assert.Equal(t, "full", MatchLevelFull.String())
}
