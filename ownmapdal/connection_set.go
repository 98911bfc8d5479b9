package ownmapdal

import (
	"context"
	"sync"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/paulmach/osm"
)

type DataSource interface {
	// Info methods
	Name() string
	Bounds() osm.Bounds

	// Data fetch methods
	GetInBounds(ctx context.Context, bounds osm.Bounds) ([]*Feature, errorsx.Error)
}

// DataSourceSet is the set of loaded data sources. Sources can be added while frames are being
// rendered.
type DataSourceSet struct {
	logger  *logpkg.Logger
	sources []DataSource
	mu      *sync.RWMutex
}

func NewDataSourceSet(logger *logpkg.Logger, sources []DataSource) *DataSourceSet {
	return &DataSourceSet{logger, sources, new(sync.RWMutex)}
}

func (dss *DataSourceSet) GetSources() []DataSource {
	dss.mu.RLock()
	defer dss.mu.RUnlock()
	return dss.sources
}

func (dss *DataSourceSet) AddSource(source DataSource) {
	dss.mu.Lock()
	defer dss.mu.Unlock()
	dss.sources = append(dss.sources, source)
}

type MatchLevel int

const (
	MatchLevelNone MatchLevel = iota
	MatchLevelPartial
	MatchLevelFull
)

func (ml MatchLevel) String() string {
	switch ml {
	case MatchLevelNone:
		return "none"
	case MatchLevelPartial:
		return "partial"
	case MatchLevelFull:
		return "full"
	default:
		return "unknown"
	}
}

type ChosenSourceForBounds struct {
	MatchLevel MatchLevel
	DataSource
}

func getMatchLevel(source DataSource, bounds osm.Bounds) MatchLevel {
	sourceBounds := source.Bounds()

	atLeastPartialMatch := ownmap.Overlaps(sourceBounds, bounds)
	if !atLeastPartialMatch {
		return MatchLevelNone
	}

	isFullMatch := ownmap.IsTotallyInside(sourceBounds, bounds)
	if isFullMatch {
		return MatchLevelFull
	}

	return MatchLevelPartial
}

// GetSourcesForBounds selects the sources with data in bounds
func (dss *DataSourceSet) GetSourcesForBounds(bounds osm.Bounds) []*ChosenSourceForBounds {
	var chosen []*ChosenSourceForBounds

	for _, source := range dss.GetSources() {
		matchLevel := getMatchLevel(source, bounds)

		dss.logger.Debug("matchlevel: %s, source: %v", matchLevel, source.Name())

		if matchLevel == MatchLevelNone {
			continue
		}

		chosen = append(chosen, &ChosenSourceForBounds{
			DataSource: source,
			MatchLevel: matchLevel,
		})
	}

	return chosen
}

// GetInBounds collects the features of every source with data in bounds.
// ErrNoDataAvailable is returned when no source covers bounds.
func (dss *DataSourceSet) GetInBounds(ctx context.Context, bounds osm.Bounds) ([]*Feature, errorsx.Error) {
	chosen := dss.GetSourcesForBounds(bounds)
	if len(chosen) == 0 {
		return nil, errorsx.Wrap(ErrNoDataAvailable)
	}

	var features []*Feature
	for _, source := range chosen {
		sourceFeatures, err := source.GetInBounds(ctx, bounds)
		if err != nil {
			if errorsx.Cause(err) == ErrNoDataAvailable {
				continue
			}
			return nil, errorsx.Wrap(err, "source", source.Name())
		}
		features = append(features, sourceFeatures...)
	}

	return features, nil
}
