package ownmapdal

import (
	"context"
	"fmt"
	"sync"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
	"github.com/jamesrr39/ownmap-labels/styling"
	"github.com/jamesrr39/semaphore"
	"github.com/paulmach/osm"
)

// Upload creates the textures and GPU buffers of the tile data for one frame. The tile data
// itself is left untouched, so it can be uploaded again for later frames.
func (td *TileData) Upload(glCtx ownmapgl.Context, textureFactory ownmapgl.TextureFactory) *ownmap.Tile {
	canonical := td.TileID.Canonical
	name := fmt.Sprintf("%d-%d-%d", canonical.Z, canonical.X, canonical.Y)

	glyphTexture := textureFactory.CreateTexture(name+"-glyphs", td.GlyphAtlas.Image)
	iconTexture := textureFactory.CreateTexture(name+"-icons", td.IconAtlas.Image)

	tile := ownmap.NewTile(td.TileID, glyphTexture, iconTexture)
	for _, bucket := range td.Buckets {
		frameBucket := *bucket
		frameBucket.Text = uploadBuffers(glCtx, bucket.Text)
		frameBucket.Icon = uploadBuffers(glCtx, bucket.Icon)
		tile.SetBucket(&frameBucket)
	}

	return tile
}

func uploadBuffers(glCtx ownmapgl.Context, buffers *ownmap.SymbolBuffers) *ownmap.SymbolBuffers {
	if buffers == nil {
		return nil
	}

	frameBuffers := &ownmap.SymbolBuffers{
		LayoutVertexArray: buffers.LayoutVertexArray,
		// rewritten every frame by the line label projector
		DynamicLayoutVertexArray: append(ownmap.SymbolDynamicLayoutArray(nil), buffers.DynamicLayoutVertexArray...),
		IndexArray:               buffers.IndexArray,
		Segments:                 buffers.Segments,
		ProgramConfigurations:    buffers.ProgramConfigurations,
	}
	frameBuffers.Upload(glCtx)

	return frameBuffers
}

// FrameTileSource holds the tiles uploaded for one frame.
type FrameTileSource struct {
	tiles map[ownmap.TileKey]*ownmap.Tile
}

func NewFrameTileSource() *FrameTileSource {
	return &FrameTileSource{make(map[ownmap.TileKey]*ownmap.Tile)}
}

func (s *FrameTileSource) AddTile(tile *ownmap.Tile) {
	s.tiles[tile.TileID.Key()] = tile
}

func (s *FrameTileSource) GetTile(id *ownmap.OverscaledTileID) *ownmap.Tile {
	return s.tiles[id.Key()]
}

// FeatureSource is anything features can be fetched from, such as a DataSource or a DataSourceSet.
type FeatureSource interface {
	GetInBounds(ctx context.Context, bounds osm.Bounds) ([]*Feature, errorsx.Error)
}

type tileCacheKey struct {
	styleID string
	tileKey ownmap.TileKey
}

// TileLoader builds tile data from a feature source, keeping built tiles for later frames.
type TileLoader struct {
	logger        *logpkg.Logger
	featureSource FeatureSource
	builder       *TileBuilder
	maxConcurrent uint

	mu    *sync.Mutex
	cache map[tileCacheKey]*TileData
}

func NewTileLoader(logger *logpkg.Logger, featureSource FeatureSource, builder *TileBuilder, maxConcurrent uint) *TileLoader {
	if maxConcurrent == 0 {
		maxConcurrent = 1
	}

	return &TileLoader{
		logger:        logger,
		featureSource: featureSource,
		builder:       builder,
		maxConcurrent: maxConcurrent,
		mu:            new(sync.Mutex),
		cache:         make(map[tileCacheKey]*TileData),
	}
}

// LoadTiles returns the tile data for every id with data, in the order of ids. Tiles without data
// are left out. Tiles not built yet are built in parallel.
func (l *TileLoader) LoadTiles(ctx context.Context, style styling.Style, ids []*ownmap.OverscaledTileID) ([]*TileData, errorsx.Error) {
	results := make([]*TileData, len(ids))
	errs := make([]errorsx.Error, len(ids))

	sema := semaphore.NewSemaphore(l.maxConcurrent)
	for i, id := range ids {
		sema.Add()
		go func(i int, id *ownmap.OverscaledTileID) {
			defer sema.Done()
			results[i], errs[i] = l.loadTile(ctx, style, id)
		}(i, id)
	}
	sema.Wait()

	var tileDatas []*TileData
	for i, result := range results {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if result == nil {
			continue
		}
		tileDatas = append(tileDatas, result)
	}

	return tileDatas, nil
}

func (l *TileLoader) loadTile(ctx context.Context, style styling.Style, id *ownmap.OverscaledTileID) (*TileData, errorsx.Error) {
	key := tileCacheKey{style.GetStyleID(), id.Key()}

	l.mu.Lock()
	cached, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		return withFrameTileID(cached, id), nil
	}

	features, err := l.featureSource.GetInBounds(ctx, ownmap.TileBounds(id.Canonical))
	if err != nil {
		if errorsx.Cause(err) == ErrNoDataAvailable {
			l.logger.Debug("no data for tile %s", id)
			return nil, nil
		}
		return nil, errorsx.Wrap(err, "tile", id.String())
	}

	tileData := l.builder.BuildTile(id, style, features)

	l.mu.Lock()
	l.cache[key] = tileData
	l.mu.Unlock()

	return tileData, nil
}

// withFrameTileID shares cached tile data with the position matrix of the current frame.
func withFrameTileID(tileData *TileData, id *ownmap.OverscaledTileID) *TileData {
	frameTileData := *tileData
	frameTileData.TileID = id
	return &frameTileData
}

// ClearCache drops every built tile, e.g. after a data source was added.
func (l *TileLoader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache = make(map[tileCacheKey]*TileData)
}
