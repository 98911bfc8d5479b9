package mapboxglstyle

import (
	"encoding/json"
	"image/color"
	"io"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/styling"
)

// MapboxGLStyle is a style.json file. Only background and symbol layers are drawn.
type MapboxGLStyle struct {
	Version    int                    `json:"version"`
	Name       string                 `json:"name"`
	ID         string                 `json:"id"`
	Metadata   map[string]interface{} `json:"metadata"`
	Sources    Sources                `json:"sources"`
	Sprite     string                 `json:"sprite"`
	Glyphs     string                 `json:"glyphs"`
	Light      *Light                 `json:"light"`
	Transition *Transition            `json:"transition"`
	Layers     []*Layer               `json:"layers"`
}

func Parse(reader io.Reader) (*MapboxGLStyle, errorsx.Error) {
	style := new(MapboxGLStyle)
	err := json.NewDecoder(reader).Decode(style)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	if style.GetStyleID() == "" {
		return nil, errorsx.Errorf("style has neither an id nor a name")
	}

	layerIDs := make(map[string]bool)
	for _, layer := range style.Layers {
		err = layer.Validate()
		if err != nil {
			return nil, errorsx.Wrap(err)
		}

		if layerIDs[layer.ID] {
			return nil, errorsx.Errorf("duplicate layer ID: %q", layer.ID)
		}
		layerIDs[layer.ID] = true
	}

	return style, nil
}

func (s *MapboxGLStyle) GetStyleID() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

func (s *MapboxGLStyle) GetBackground() color.Color {
	for _, layer := range s.Layers {
		if layer.Type != LayerTypeBackground || layer.Paint == nil {
			continue
		}

		c := layer.Paint.BackgroundColor.GetColorAtZoomLevel(ownmap.MinZoomLevel)
		if c != nil {
			return c
		}
	}

	return color.White
}

func (s *MapboxGLStyle) GetSymbolLayers(zoomLevel ownmap.ZoomLevel) []*styling.SymbolLayer {
	var symbolLayers []*styling.SymbolLayer
	for _, layer := range s.Layers {
		if layer.Type != LayerTypeSymbol || !layer.IsVisibleAtZoom(zoomLevel) {
			continue
		}

		symbolLayers = append(symbolLayers, layer.toSymbolLayer(zoomLevel))
	}
	return symbolLayers
}
