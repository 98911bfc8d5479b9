package ownmapdal

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
	"github.com/jamesrr39/ownmap-labels/styling"
)

// TileData is everything needed to draw the labels of one tile, before anything is uploaded.
type TileData struct {
	TileID     *ownmap.OverscaledTileID
	GlyphAtlas *GlyphAtlas
	IconAtlas  *IconAtlas
	Buckets    []*ownmap.SymbolBucket
}

type TileBuilder struct {
	font *truetype.Font
}

func NewTileBuilder(font *truetype.Font) *TileBuilder {
	return &TileBuilder{font}
}

// label is the resolved text and icon of one feature in one layer.
type label struct {
	feature *Feature
	text    string
	icon    string
	// sortKey is nil when the layer has no sort key, or it couldn't be evaluated for the feature
	sortKey *float64
}

type layerLabels struct {
	layer  *styling.SymbolLayer
	labels []*label
}

// BuildTile lays out the labels of the features for every symbol layer of style shown at the
// tile's zoom level. Every label gets its own segment, carrying its sort key.
func (tb *TileBuilder) BuildTile(tileID *ownmap.OverscaledTileID, style styling.Style, features []*Feature) *TileData {
	zoom := ownmap.ZoomLevel(tileID.OverscaledZ)

	glyphAtlasBuilder := NewGlyphAtlasBuilder(tb.font)
	iconAtlasBuilder := NewIconAtlasBuilder()

	var allLayerLabels []*layerLabels
	for _, layer := range style.GetSymbolLayers(zoom) {
		labels := resolveLabels(layer, zoom, features)
		for _, l := range labels {
			glyphAtlasBuilder.AddText(l.text)
			if l.icon != "" {
				iconAtlasBuilder.AddIcon(l.icon)
			}
		}

		allLayerLabels = append(allLayerLabels, &layerLabels{layer, labels})
	}

	tileData := &TileData{
		TileID:     tileID,
		GlyphAtlas: glyphAtlasBuilder.Build(),
		IconAtlas:  iconAtlasBuilder.Build(),
	}

	for _, ll := range allLayerLabels {
		if len(ll.labels) == 0 {
			continue
		}
		tileData.Buckets = append(tileData.Buckets, tileData.buildBucket(ll.layer, zoom, ll.labels))
	}

	return tileData
}

func resolveLabels(layer *styling.SymbolLayer, zoom ownmap.ZoomLevel, features []*Feature) []*label {
	var labels []*label
	for _, feature := range features {
		if !layer.IsFeatureShown(string(feature.GeometryType), feature.Properties) {
			continue
		}

		l := &label{
			feature: feature,
			text:    resolveTokens(layer.TextField, feature.Properties),
			icon:    resolveTokens(layer.IconImage, feature.Properties),
		}
		if l.text == "" && l.icon == "" {
			continue
		}

		if layer.SortsFeaturesByKey() {
			sortKey, ok := layer.SortKey.EvaluateFeature(zoom, feature.Properties)
			if ok {
				l.sortKey = &sortKey
			}
		}

		labels = append(labels, l)
	}

	if layer.SortsFeaturesByKey() {
		sort.SliceStable(labels, func(i, j int) bool {
			return sortKeyOrZero(labels[i].sortKey) < sortKeyOrZero(labels[j].sortKey)
		})
	}

	return labels
}

func sortKeyOrZero(sortKey *float64) float64 {
	if sortKey == nil {
		return 0
	}
	return *sortKey
}

// resolveTokens replaces every "{property}" in pattern with the feature's value for it. Missing
// properties resolve to an empty string.
func resolveTokens(pattern string, properties map[string]interface{}) string {
	var sb strings.Builder
	for {
		start := strings.Index(pattern, "{")
		if start < 0 {
			break
		}
		end := strings.Index(pattern[start:], "}")
		if end < 0 {
			break
		}
		end += start

		sb.WriteString(pattern[:start])
		value, ok := properties[pattern[start+1:end]]
		if ok && value != nil {
			sb.WriteString(fmt.Sprint(value))
		}
		pattern = pattern[end+1:]
	}
	sb.WriteString(pattern)

	return strings.TrimSpace(sb.String())
}

// labelQuad is one glyph or icon, offsets in pixels from the anchor.
type labelQuad struct {
	x0, y0, x1, y1 float32
	tex            image.Rectangle
}

func (td *TileData) buildBucket(layer *styling.SymbolLayer, zoom ownmap.ZoomLevel, labels []*label) *ownmap.SymbolBucket {
	textBuilder := newSymbolBuffersBuilder()
	iconBuilder := newSymbolBuffersBuilder()

	for _, l := range labels {
		anchorX, anchorY := ownmap.TileUnitsForPoint(td.TileID.Canonical, l.feature.Anchor.Lat(), l.feature.Anchor.Lon())
		anchor := [2]int16{int16(math.Round(anchorX)), int16(math.Round(anchorY))}

		if l.text != "" {
			var quads []labelQuad
			for _, glyph := range td.GlyphAtlas.ShapeText(l.text) {
				quads = append(quads, labelQuad{
					x0:  float32(glyph.X),
					y0:  float32(glyph.Y),
					x1:  float32(glyph.X) + float32(glyph.Rect.Dx()),
					y1:  float32(glyph.Y) + float32(glyph.Rect.Dy()),
					tex: glyph.Rect,
				})
			}
			textBuilder.addLabel(anchor, quads, l.sortKey)
		}

		if l.icon != "" {
			rect, ok := td.IconAtlas.Icons[l.icon]
			if ok {
				const half = IconSize / 2
				iconBuilder.addLabel(anchor, []labelQuad{{-half, -half, half, half, rect}}, l.sortKey)
			}
		}
	}

	return &ownmap.SymbolBucket{
		LayerID:      layer.ID,
		Text:         textBuilder.build(programConfiguration(layer.ID, &layer.Text, zoom, labels)),
		Icon:         iconBuilder.build(programConfiguration(layer.ID, &layer.Icon, zoom, labels)),
		TextSizeData: layer.Text.Size.SizeData(float64(zoom), styling.DefaultTextSize),
		IconSizeData: layer.Icon.Size.SizeData(float64(zoom), styling.DefaultIconSize),
	}
}

// programConfiguration evaluates the paint properties of a label kind for the tile. Data-driven
// halo widths use the widest halo of the labels.
func programConfiguration(layerID string, properties *styling.SymbolProperties, zoom ownmap.ZoomLevel, labels []*label) *ownmapgl.ProgramConfiguration {
	haloWidth := properties.HaloWidth.GetValueAtZoomLevel(zoom, 0)
	if properties.HaloWidth.IsDataDriven() {
		for _, l := range labels {
			width, ok := properties.HaloWidth.EvaluateFeature(zoom, l.feature.Properties)
			if ok && width > haloWidth {
				haloWidth = width
			}
		}
	}

	return &ownmapgl.ProgramConfiguration{
		CacheKey:  layerID,
		Color:     properties.Color,
		HaloColor: properties.HaloColor,
		HaloWidth: haloWidth,
		Opacity:   properties.Opacity.GetValueAtZoomLevel(zoom, 1),
	}
}

type symbolBuffersBuilder struct {
	layout   ownmap.SymbolLayoutArray
	indices  ownmap.TriangleIndexArray
	segments ownmapgl.SegmentVector
}

func newSymbolBuffersBuilder() *symbolBuffersBuilder {
	return &symbolBuffersBuilder{}
}

// addLabel adds the quads of one label as a new segment. Quad corners are in the order top left,
// top right, bottom left, bottom right; indices are relative to the segment.
func (b *symbolBuffersBuilder) addLabel(anchor [2]int16, quads []labelQuad, sortKey *float64) {
	if len(quads) == 0 {
		return
	}

	segment := &ownmapgl.Segment{
		VertexOffset:    len(b.layout),
		PrimitiveOffset: len(b.indices),
		SortKey:         sortKey,
	}

	for i, q := range quads {
		b.layout = append(b.layout,
			ownmap.SymbolLayoutVertex{AnchorX: anchor[0], AnchorY: anchor[1], OffsetX: q.x0, OffsetY: q.y0, TexX: uint16(q.tex.Min.X), TexY: uint16(q.tex.Min.Y)},
			ownmap.SymbolLayoutVertex{AnchorX: anchor[0], AnchorY: anchor[1], OffsetX: q.x1, OffsetY: q.y0, TexX: uint16(q.tex.Max.X), TexY: uint16(q.tex.Min.Y)},
			ownmap.SymbolLayoutVertex{AnchorX: anchor[0], AnchorY: anchor[1], OffsetX: q.x0, OffsetY: q.y1, TexX: uint16(q.tex.Min.X), TexY: uint16(q.tex.Max.Y)},
			ownmap.SymbolLayoutVertex{AnchorX: anchor[0], AnchorY: anchor[1], OffsetX: q.x1, OffsetY: q.y1, TexX: uint16(q.tex.Max.X), TexY: uint16(q.tex.Max.Y)},
		)

		base := uint16(i * 4)
		b.indices = append(b.indices,
			ownmap.Triangle{base, base + 1, base + 2},
			ownmap.Triangle{base + 1, base + 2, base + 3},
		)
	}

	segment.VertexLength = len(quads) * 4
	segment.PrimitiveLength = len(quads) * 2

	b.segments = append(b.segments, segment)
}

// build returns nil when no label was added.
func (b *symbolBuffersBuilder) build(config *ownmapgl.ProgramConfiguration) *ownmap.SymbolBuffers {
	if len(b.segments) == 0 {
		return nil
	}

	return &ownmap.SymbolBuffers{
		LayoutVertexArray:        b.layout,
		DynamicLayoutVertexArray: make(ownmap.SymbolDynamicLayoutArray, len(b.layout)),
		IndexArray:               b.indices,
		Segments:                 b.segments,
		ProgramConfigurations: map[string]*ownmapgl.ProgramConfiguration{
			config.CacheKey: config,
		},
	}
}
