package styling

import (
	"image/color"

	"github.com/jamesrr39/ownmap-labels/ownmap"
)

const (
	PlaceLabelsLayerID = "place-labels"
	POIIconsLayerID    = "poi-icons"
)

// CustomBasicStyle shows place names with a white halo, ordered by their "rank" property, and an
// icon for every point of interest.
type CustomBasicStyle struct {
	layers []*SymbolLayer
}

func NewCustomBasicStyle() *CustomBasicStyle {
	poiIcons := NewSymbolLayer(POIIconsLayerID)
	poiIcons.MinZoom = 10
	poiIcons.IconImage = "{icon}"
	poiIcons.Text.Opacity = ConstantValue(0)

	placeLabels := NewSymbolLayer(PlaceLabelsLayerID)
	placeLabels.TextField = "{name}"
	placeLabels.SortKey = ExpressionValue([]interface{}{"get", "rank"})
	placeLabels.Icon.Opacity = ConstantValue(0)
	placeLabels.Text.Size = FunctionValue(&Function{
		Type: FunctionTypeExponential,
		Base: 1.2,
		Stops: []Stop{
			{Input: 4, Output: 12},
			{Input: 14, Output: 22},
		},
	})
	placeLabels.Text.Color = color.RGBA{0x33, 0x33, 0x33, 0xff}
	placeLabels.Text.HaloColor = color.White
	placeLabels.Text.HaloWidth = ConstantValue(1.5)

	return &CustomBasicStyle{
		layers: []*SymbolLayer{poiIcons, placeLabels},
	}
}

func (_ *CustomBasicStyle) GetBackground() color.Color {
	return color.White
}

func (_ *CustomBasicStyle) GetStyleID() string {
	return BUILTIN_STYLEID
}

func (s *CustomBasicStyle) GetSymbolLayers(zoomLevel ownmap.ZoomLevel) []*SymbolLayer {
	var layers []*SymbolLayer
	for _, layer := range s.layers {
		if layer.IsVisibleAtZoom(zoomLevel) {
			layers = append(layers, layer)
		}
	}
	return layers
}
