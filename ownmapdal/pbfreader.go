package ownmapdal

import (
	"context"
	"runtime"
	"strconv"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

type PBFReader interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

type DefaultPBFReader struct {
	file gofs.File
	*osmpbf.Scanner
}

// NewDefaultPBFReader creates a reader returning only the nodes of file. Ways and relations are
// skipped while decoding.
func NewDefaultPBFReader(ctx context.Context, file gofs.File) *DefaultPBFReader {
	scanner := osmpbf.New(ctx, file, runtime.NumCPU())
	scanner.SkipWays = true
	scanner.SkipRelations = true

	return &DefaultPBFReader{file, scanner}
}

func (r *DefaultPBFReader) Close() error {
	err := r.Scanner.Close()
	if err != nil {
		return err
	}
	return r.file.Close()
}

// numericTagKeys are tags that are read as numbers, so they can drive data-driven properties
// such as symbol-sort-key.
var numericTagKeys = []string{"population", "rank", "ele"}

// placeRanks ranks settlements, most important first.
var placeRanks = map[string]float64{
	"city":          1,
	"town":          2,
	"suburb":        3,
	"village":       4,
	"hamlet":        5,
	"neighbourhood": 6,
	"locality":      7,
}

// ReadPBFFeatures reads every named node of the reader as a point feature.
func ReadPBFFeatures(reader PBFReader) ([]*Feature, errorsx.Error) {
	var features []*Feature

	for reader.Scan() {
		node, ok := reader.Object().(*osm.Node)
		if !ok {
			continue
		}

		if node.Tags.Find("name") == "" {
			continue
		}

		features = append(features, featureFromNode(node))
	}

	err := reader.Err()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return features, nil
}

func featureFromNode(node *osm.Node) *Feature {
	properties := make(map[string]interface{})
	for _, tag := range node.Tags {
		properties[tag.Key] = tag.Value
	}

	for _, key := range numericTagKeys {
		value, ok := properties[key].(string)
		if !ok {
			continue
		}
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			delete(properties, key)
			continue
		}
		properties[key] = number
	}

	if _, ok := properties["rank"]; !ok {
		rank, ok := placeRanks[node.Tags.Find("place")]
		if ok {
			properties["rank"] = rank
		}
	}

	return &Feature{
		ID:           int64(node.ID),
		GeometryType: GeometryTypePoint,
		Anchor:       orb.Point{node.Lon, node.Lat},
		Properties:   properties,
	}
}
