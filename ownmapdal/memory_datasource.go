package ownmapdal

import (
	"context"
	"sort"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/paulmach/osm"
)

// MemoryDataSource holds all of its features in memory, sorted by ID.
type MemoryDataSource struct {
	name     string
	bounds   osm.Bounds
	features []*Feature
}

func NewMemoryDataSource(name string, features []*Feature) *MemoryDataSource {
	sort.SliceStable(features, func(i, j int) bool {
		return features[i].ID < features[j].ID
	})

	return &MemoryDataSource{name, calcBoundsForFeatures(features), features}
}

func (s *MemoryDataSource) Name() string {
	return s.name
}

func (s *MemoryDataSource) Bounds() osm.Bounds {
	return s.bounds
}

func (s *MemoryDataSource) Features() []*Feature {
	return s.features
}

func (s *MemoryDataSource) GetInBounds(ctx context.Context, bounds osm.Bounds) ([]*Feature, errorsx.Error) {
	if len(s.features) == 0 {
		return nil, errorsx.Wrap(ErrNoDataAvailable)
	}

	var features []*Feature
	for _, feature := range s.features {
		if ownmap.IsInBounds(bounds, feature.Anchor.Lat(), feature.Anchor.Lon()) {
			features = append(features, feature)
		}
	}

	return features, nil
}

func calcBoundsForFeatures(features []*Feature) osm.Bounds {
	if len(features) == 0 {
		return osm.Bounds{}
	}

	objBounds := osm.Bounds{
		MaxLat: -90,
		MinLat: 90,
		MaxLon: -180,
		MinLon: 180,
	}
	for _, feature := range features {
		lat, lon := feature.Anchor.Lat(), feature.Anchor.Lon()
		if lat < objBounds.MinLat {
			objBounds.MinLat = lat
		}
		if lat > objBounds.MaxLat {
			objBounds.MaxLat = lat
		}
		if lon < objBounds.MinLon {
			objBounds.MinLon = lon
		}
		if lon > objBounds.MaxLon {
			objBounds.MaxLon = lon
		}
	}
	return objBounds
}
