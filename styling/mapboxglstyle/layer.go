package mapboxglstyle

import (
	"image/color"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/styling"
)

type LayerType string

const (
	LayerTypeBackground    LayerType = "background"
	LayerTypeFill          LayerType = "fill"
	LayerTypeLine          LayerType = "line"
	LayerTypeSymbol        LayerType = "symbol"
	LayerTypeRaster        LayerType = "raster"
	LayerTypeCircle        LayerType = "circle"
	LayerTypeFillExtrusion LayerType = "fill-extrusion"
	LayerTypeHeatmap       LayerType = "heatmap"
	LayerTypeHillshade     LayerType = "hillshade"
)

type Layer struct {
	Filter      *Filter                `json:"filter"`
	ID          string                 `json:"id"`
	Layout      Layout                 `json:"layout"`
	MaxZoom     *float64               `json:"maxzoom"`
	Metadata    map[string]interface{} `json:"metadata"`
	MinZoom     *float64               `json:"minzoom"`
	Paint       *Paint                 `json:"paint"`
	Source      string                 `json:"source"`
	SourceLayer string                 `json:"source-layer"`
	Type        LayerType              `json:"type"`
}

func (l *Layer) Validate() errorsx.Error {
	if l.ID == "" {
		return errorsx.Errorf("layer has no id")
	}

	if l.MaxZoom != nil && l.MinZoom != nil {
		if *l.MaxZoom < *l.MinZoom {
			return errorsx.Errorf("max zoom is smaller than min zoom")
		}
	}

	if l.MaxZoom != nil && (*l.MaxZoom < 0 || *l.MaxZoom > 24) {
		return errorsx.Errorf("max zoom must be between 0 and 24 (inclusive) but was %f", *l.MaxZoom)
	}

	if l.MinZoom != nil && (*l.MinZoom < 0 || *l.MinZoom > 24) {
		return errorsx.Errorf("min zoom must be between 0 and 24 (inclusive) but was %f", *l.MinZoom)
	}

	if l.Type == LayerTypeSymbol {
		err := l.toSymbolLayer(ownmap.MinZoomLevel).Validate()
		if err != nil {
			return errorsx.Wrap(err, "layer", l.ID)
		}
	}

	return nil
}

func (l *Layer) IsVisibleAtZoom(zoomLevel ownmap.ZoomLevel) bool {
	if l.Layout.Visibility == visibilityNone {
		return false
	}
	if l.MinZoom != nil && float64(zoomLevel) < *l.MinZoom {
		return false
	}
	if l.MaxZoom != nil && float64(zoomLevel) >= *l.MaxZoom {
		return false
	}
	return true
}

// toSymbolLayer resolves the layer's properties for zoomLevel. Colours are evaluated at the zoom
// level, numeric properties stay functions.
func (l *Layer) toSymbolLayer(zoomLevel ownmap.ZoomLevel) *styling.SymbolLayer {
	symbolLayer := styling.NewSymbolLayer(l.ID)

	if l.MinZoom != nil {
		symbolLayer.MinZoom = ownmap.ZoomLevel(*l.MinZoom)
	}
	if l.MaxZoom != nil {
		symbolLayer.MaxZoom = ownmap.ZoomLevel(*l.MaxZoom)
	}
	if l.Filter != nil {
		symbolLayer.Filter = l.Filter
	}

	layout := l.Layout
	if layout.SymbolPlacement != "" {
		symbolLayer.Placement = styling.SymbolPlacement(layout.SymbolPlacement)
	}
	symbolLayer.SortKey = layout.SymbolSortKey.PropertyValue()
	symbolLayer.TextField = layout.TextField
	symbolLayer.IconImage = layout.IconImage

	text := &symbolLayer.Text
	setIfSet(&text.Size, layout.TextSize)
	setAlignment(&text.RotationAlignment, layout.TextRotationAlignment)
	setAlignment(&text.PitchAlignment, layout.TextPitchAlignment)
	if layout.TextKeepUpright != nil {
		text.KeepUpright = *layout.TextKeepUpright
	}

	icon := &symbolLayer.Icon
	setIfSet(&icon.Size, layout.IconSize)
	setAlignment(&icon.RotationAlignment, layout.IconRotationAlignment)
	setAlignment(&icon.PitchAlignment, layout.IconPitchAlignment)
	if layout.IconKeepUpright != nil {
		icon.KeepUpright = *layout.IconKeepUpright
	}

	paint := l.Paint
	if paint == nil {
		return symbolLayer
	}

	setIfSet(&text.Opacity, paint.TextOpacity)
	setIfSet(&text.HaloWidth, paint.TextHaloWidth)
	setColorIfSet(&text.Color, paint.TextColor, zoomLevel)
	setColorIfSet(&text.HaloColor, paint.TextHaloColor, zoomLevel)
	setTranslate(text, paint.TextTranslate, paint.TextTranslateAnchor)

	setIfSet(&icon.Opacity, paint.IconOpacity)
	setIfSet(&icon.HaloWidth, paint.IconHaloWidth)
	setColorIfSet(&icon.Color, paint.IconColor, zoomLevel)
	setColorIfSet(&icon.HaloColor, paint.IconHaloColor, zoomLevel)
	setTranslate(icon, paint.IconTranslate, paint.IconTranslateAnchor)

	return symbolLayer
}

func setIfSet(property *styling.PropertyValue, value *NumberOrFunctionWrapperType) {
	propertyValue := value.PropertyValue()
	if propertyValue.IsSet() {
		*property = propertyValue
	}
}

func setColorIfSet(property *color.Color, value *ColorOrFunctionWrapperType, zoomLevel ownmap.ZoomLevel) {
	c := value.GetColorAtZoomLevel(zoomLevel)
	if c != nil {
		*property = c
	}
}

func setAlignment(property *styling.Alignment, value string) {
	if value != "" {
		*property = styling.Alignment(value)
	}
}

func setTranslate(properties *styling.SymbolProperties, translate []float64, anchor string) {
	if len(translate) == 2 {
		properties.Translate = [2]float64{translate[0], translate[1]}
	}
	if anchor != "" {
		properties.TranslateAnchor = styling.TranslateAnchor(anchor)
	}
}

type Light struct {
	Anchor    string                      `json:"anchor"`
	Color     *ColorOrFunctionWrapperType `json:"color"`
	Intensity float64                     `json:"intensity"`
	Position  []float64                   `json:"position"`
}

type Source struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type Sources map[string]Source

type Transition struct {
	Delay    int `json:"delay"`    // milliseconds
	Duration int `json:"duration"` // milliseconds
}
