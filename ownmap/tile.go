package ownmap

import (
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
)

type Tile struct {
	TileID            *OverscaledTileID
	GlyphAtlasTexture ownmapgl.Texture
	ImageAtlasTexture ownmapgl.Texture
	buckets           map[string]*SymbolBucket // map[layer ID]
}

func NewTile(tileID *OverscaledTileID, glyphAtlasTexture, imageAtlasTexture ownmapgl.Texture) *Tile {
	return &Tile{tileID, glyphAtlasTexture, imageAtlasTexture, make(map[string]*SymbolBucket)}
}

func (t *Tile) SetBucket(bucket *SymbolBucket) {
	t.buckets[bucket.LayerID] = bucket
}

// GetBucket returns the tile's bucket for a layer, or nil if the tile has nothing for it.
func (t *Tile) GetBucket(layerID string) *SymbolBucket {
	if t == nil {
		return nil
	}
	return t.buckets[layerID]
}

// AtlasTexture is the texture a label kind samples from.
func (t *Tile) AtlasTexture(kind LabelKind) ownmapgl.Texture {
	if kind == LabelKindText {
		return t.GlyphAtlasTexture
	}
	return t.ImageAtlasTexture
}

// TileSource gives access to loaded tiles. GetTile returns nil for a tile that isn't loaded.
type TileSource interface {
	GetTile(id *OverscaledTileID) *Tile
}
