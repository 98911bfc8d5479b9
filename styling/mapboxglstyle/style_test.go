package mapboxglstyle

import (
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTestStyle(t *testing.T) *MapboxGLStyle {
	file, err := os.Open("testdata/style.json")
	require.NoError(t, err)
	defer file.Close()

	style, err := Parse(file)
	require.NoError(t, err)

	return style
}

func TestParse(t *testing.T) {
	style := parseTestStyle(t)

	assert.Equal(t, "test-style", style.GetStyleID())
	assert.Equal(t, color.NRGBA{0xf8, 0xf4, 0xf0, 0xff}, style.GetBackground())
	require.Len(t, style.Layers, 4)
}

func TestMapboxGLStyle_GetSymbolLayers(t *testing.T) {
	style := parseTestStyle(t)

	layers := style.GetSymbolLayers(9)
	require.Len(t, layers, 1)

	placeLayer := layers[0]
	assert.Equal(t, "place-city", placeLayer.ID)
	assert.Equal(t, "{name}", placeLayer.TextField)
	assert.True(t, placeLayer.SortsFeaturesByKey())
	assert.True(t, placeLayer.Text.Size.IsZoomFunction())
	assert.Equal(t, 1.5, placeLayer.Text.HaloWidth.ConstantOr(0))
	assert.Equal(t, color.NRGBA{51, 51, 51, 0xff}, placeLayer.Text.Color)
	assert.Equal(t, color.NRGBA{0x80, 0x80, 0x80, 0xff}, placeLayer.Text.HaloColor)
	assert.False(t, placeLayer.Text.KeepUpright)
	assert.Equal(t, styling.AlignmentViewport, placeLayer.RotationAlignment(ownmap.LabelKindText))
	assert.Equal(t, styling.AlignmentMap, placeLayer.PitchAlignment(ownmap.LabelKindText))

	assert.True(t, placeLayer.IsFeatureShown(FilterThingTypePoint, map[string]interface{}{"class": "town"}))
	assert.False(t, placeLayer.IsFeatureShown(FilterThingTypePoint, map[string]interface{}{"class": "village"}))

	layers = style.GetSymbolLayers(14)
	require.Len(t, layers, 2)

	poiLayer := layers[0]
	assert.Equal(t, "poi", poiLayer.ID)
	assert.Equal(t, 1.5, poiLayer.Icon.Size.ConstantOr(0))
	assert.Equal(t, 0.8, poiLayer.Icon.Opacity.ConstantOr(0))
	assert.Equal(t, [2]float64{0, -4}, poiLayer.Icon.Translate)
	assert.Equal(t, styling.TranslateAnchorViewport, poiLayer.Icon.TranslateAnchor)
	assert.False(t, poiLayer.SortsFeaturesByKey())
	assert.True(t, poiLayer.IsFeatureShown(FilterThingTypePoint, map[string]interface{}{"icon": "marker"}))
	assert.False(t, poiLayer.IsFeatureShown(FilterThingTypeLineString, map[string]interface{}{"icon": "marker"}))

	assert.Len(t, style.GetSymbolLayers(16), 1, "place-city should be hidden from its max zoom")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"no id or name", `{"layers": []}`},
		{"max zoom < min zoom", `{"id": "a", "layers": [{"id": "l", "type": "symbol", "minzoom": 10, "maxzoom": 5}]}`},
		{"max zoom out of range", `{"id": "a", "layers": [{"id": "l", "type": "symbol", "maxzoom": 30}]}`},
		{"only min zoom, out of range", `{"id": "a", "layers": [{"id": "l", "type": "symbol", "minzoom": -1}]}`},
		{"unknown placement", `{"id": "a", "layers": [{"id": "l", "type": "symbol", "layout": {"symbol-placement": "area"}}]}`},
		{"unknown filter", `{"id": "a", "layers": [{"id": "l", "type": "symbol", "filter": ["within", "x"]}]}`},
		{"bad color", `{"id": "a", "layers": [{"id": "l", "type": "symbol", "paint": {"text-color": "#12"}}]}`},
		{"string stop input", `{"id": "a", "layers": [{"id": "l", "type": "symbol", "layout": {"text-size": {"property": "class", "stops": [["city", 12]]}}}]}`},
		{"duplicate layer", `{"id": "a", "layers": [{"id": "l", "type": "symbol"}, {"id": "l", "type": "symbol"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.json))
			assert.Error(t, err)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		value string
		want  color.Color
	}{
		{"#fff", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"#102030", color.NRGBA{0x10, 0x20, 0x30, 0xff}},
		{"#10203040", color.NRGBA{0x10, 0x20, 0x30, 0x40}},
		{"rgb(1, 2, 3)", color.NRGBA{1, 2, 3, 0xff}},
		{"rgba(1, 2, 3, 0.5)", color.NRGBA{1, 2, 3, 128}},
		{"hsl(0, 100%, 50%)", color.NRGBA{0xff, 0, 0, 0xff}},
		{"hsla(120, 100%, 50%, 0)", color.NRGBA{0, 0xff, 0, 0}},
		{"White", color.White},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c, err := ParseColor(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}

	_, err := ParseColor("chartreuse-ish")
	assert.Error(t, err)
}

func TestFilter_Matches(t *testing.T) {
	properties := map[string]interface{}{
		"class": "city",
		"rank":  float64(3),
	}

	tests := []struct {
		name   string
		filter string
		want   bool
	}{
		{"type", `["==", "$type", "Point"]`, true},
		{"not type", `["!=", "$type", "Point"]`, false},
		{"in", `["in", "class", "town", "city"]`, true},
		{"not in", `["!in", "class", "town", "city"]`, false},
		{"has", `["has", "rank"]`, true},
		{"not has", `["!has", "population"]`, true},
		{"number equals", `["==", "rank", 3]`, true},
		{"number vs string", `["==", "rank", "3"]`, false},
		{"less than", `["<", "rank", 5]`, true},
		{"greater or equal", `[">=", "rank", 4]`, false},
		{"missing key compares false", `[">", "population", 0]`, false},
		{"missing key not equal", `["!=", "population", 0]`, true},
		{"all", `["all", ["==", "$type", "Point"], ["==", "class", "city"]]`, true},
		{"any", `["any", ["==", "class", "town"], ["<=", "rank", 3]]`, true},
		{"none", `["none", ["==", "class", "town"], ["<=", "rank", 3]]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := new(Filter)
			require.NoError(t, filter.UnmarshalJSON([]byte(tt.filter)))
			assert.Equal(t, tt.want, filter.Matches(FilterThingTypePoint, properties))
		})
	}

	var nilFilter *Filter
	assert.True(t, nilFilter.Matches(FilterThingTypePoint, properties))
}

func TestNumberOrFunctionWrapperType_UnmarshalJSON(t *testing.T) {
	value := new(NumberOrFunctionWrapperType)
	require.NoError(t, value.UnmarshalJSON([]byte(`12`)))
	assert.Equal(t, float64(12), value.GetValueAtZoomLevel(3))

	value = new(NumberOrFunctionWrapperType)
	require.NoError(t, value.UnmarshalJSON([]byte(`{"stops": [[10, 8], [20, 14]]}`)))
	assert.Equal(t, float64(11), value.GetValueAtZoomLevel(15))
	assert.True(t, value.PropertyValue().IsZoomFunction())

	value = new(NumberOrFunctionWrapperType)
	require.NoError(t, value.UnmarshalJSON([]byte(`{"property": "rank", "type": "interval", "stops": [[0, 1], [5, 2]]}`)))
	assert.True(t, value.PropertyValue().IsDataDriven())

	value = new(NumberOrFunctionWrapperType)
	require.NoError(t, value.UnmarshalJSON([]byte(`["get", "rank"]`)))
	assert.True(t, value.PropertyValue().IsDataDriven())

	value = new(NumberOrFunctionWrapperType)
	assert.Error(t, value.UnmarshalJSON([]byte(`{"stops": [[20, 8], [10, 14]]}`)))
	assert.Error(t, value.UnmarshalJSON([]byte(`{"type": "categorical", "stops": []}`)))
	assert.Error(t, value.UnmarshalJSON([]byte(`"big"`)))

	var nilValue *NumberOrFunctionWrapperType
	assert.False(t, nilValue.PropertyValue().IsSet())
}
