package mapboxglstyle

import (
	"bytes"
	"encoding/json"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/styling"
)

var namedColors = map[string]color.Color{
	"transparent": color.Transparent,
	"black":       color.Black,
	"white":       color.White,
	"red":         color.NRGBA{0xff, 0, 0, 0xff},
	"green":       color.NRGBA{0, 0x80, 0, 0xff},
	"blue":        color.NRGBA{0, 0, 0xff, 0xff},
	"gray":        color.NRGBA{0x80, 0x80, 0x80, 0xff},
	"grey":        color.NRGBA{0x80, 0x80, 0x80, 0xff},
}

// ParseColor parses a CSS colour: a name, #rgb, #rrggbb, rgb(), rgba(), hsl() or hsla().
func ParseColor(value string) (color.Color, errorsx.Error) {
	value = strings.ToLower(strings.TrimSpace(value))

	namedColor, ok := namedColors[value]
	if ok {
		return namedColor, nil
	}

	switch {
	case strings.HasPrefix(value, "#"):
		return parseHexColor(value[1:])
	case strings.HasPrefix(value, "rgba("), strings.HasPrefix(value, "rgb("):
		args, err := parseColorArgs(value)
		if err != nil {
			return nil, err
		}
		if len(args) < 3 {
			return nil, errorsx.Errorf("expected at least 3 arguments in %q", value)
		}
		return color.NRGBA{
			R: clampToUint8(args[0]),
			G: clampToUint8(args[1]),
			B: clampToUint8(args[2]),
			A: alphaArg(args),
		}, nil
	case strings.HasPrefix(value, "hsla("), strings.HasPrefix(value, "hsl("):
		args, err := parseColorArgs(value)
		if err != nil {
			return nil, err
		}
		if len(args) < 3 {
			return nil, errorsx.Errorf("expected at least 3 arguments in %q", value)
		}
		r, g, b := hslToRGB(args[0], args[1]/100, args[2]/100)
		return color.NRGBA{
			R: clampToUint8(r * 255),
			G: clampToUint8(g * 255),
			B: clampToUint8(b * 255),
			A: alphaArg(args),
		}, nil
	default:
		return nil, errorsx.Errorf("unrecognised color: %q", value)
	}
}

func parseHexColor(hex string) (color.Color, errorsx.Error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	if len(hex) != 6 && len(hex) != 8 {
		return nil, errorsx.Errorf("hex color %q should have 3, 6 or 8 digits", hex)
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, errorsx.Wrap(err, "hex", hex)
	}

	if len(hex) == 6 {
		return color.NRGBA{uint8(value >> 16), uint8(value >> 8), uint8(value), 0xff}, nil
	}

	return color.NRGBA{uint8(value >> 24), uint8(value >> 16), uint8(value >> 8), uint8(value)}, nil
}

func parseColorArgs(value string) ([]float64, errorsx.Error) {
	openIdx := strings.Index(value, "(")
	closeIdx := strings.LastIndex(value, ")")
	if openIdx < 0 || closeIdx < openIdx {
		return nil, errorsx.Errorf("malformed color: %q", value)
	}

	var args []float64
	for _, fragment := range strings.Split(value[openIdx+1:closeIdx], ",") {
		fragment = strings.TrimSuffix(strings.TrimSpace(fragment), "%")
		arg, err := strconv.ParseFloat(fragment, 64)
		if err != nil {
			return nil, errorsx.Wrap(err, "color", value)
		}
		args = append(args, arg)
	}

	return args, nil
}

func alphaArg(args []float64) uint8 {
	if len(args) < 4 {
		return 0xff
	}
	return clampToUint8(args[3] * 255)
}

func clampToUint8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

type colorStop struct {
	Input float64
	Color color.Color
}

// ColorOrFunctionWrapperType is a colour property value in a style file: a colour string, or a zoom
// function with colour outputs.
type ColorOrFunctionWrapperType struct {
	Color    color.Color
	Base     float64
	Interval bool
	Stops    []colorStop
}

func (c *ColorOrFunctionWrapperType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errorsx.Errorf("empty value")
	}

	if data[0] != '{' {
		var value string
		err := json.Unmarshal(data, &value)
		if err != nil {
			return errorsx.Wrap(err, "value", string(data))
		}
		parsedColor, err := ParseColor(value)
		if err != nil {
			return errorsx.Wrap(err)
		}
		c.Color = parsedColor
		return nil
	}

	var raw jsonFunction
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return errorsx.Wrap(err)
	}

	if raw.Property != "" {
		return errorsx.Errorf("data-driven colors are not supported (property %q)", raw.Property)
	}

	functionType, err := parseFunctionType(raw.Type)
	if err != nil {
		return errorsx.Wrap(err)
	}

	stops, err := parseStops(raw.Stops)
	if err != nil {
		return errorsx.Wrap(err)
	}

	c.Base = raw.Base
	c.Interval = functionType == styling.FunctionTypeInterval
	for i, stop := range stops {
		var value string
		err = json.Unmarshal(stop.Output, &value)
		if err != nil {
			return errorsx.Wrap(err, "stop index", i)
		}
		stopColor, err := ParseColor(value)
		if err != nil {
			return errorsx.Wrap(err, "stop index", i)
		}
		c.Stops = append(c.Stops, colorStop{stop.Input, stopColor})
	}

	return nil
}

// GetColorAtZoomLevel returns nil when no colour is set.
func (c *ColorOrFunctionWrapperType) GetColorAtZoomLevel(zoomLevel ownmap.ZoomLevel) color.Color {
	if c == nil {
		return nil
	}

	if c.Color != nil || len(c.Stops) == 0 {
		return c.Color
	}

	zoom := float64(zoomLevel)
	if zoom <= c.Stops[0].Input {
		return c.Stops[0].Color
	}

	for i := 1; i < len(c.Stops); i++ {
		upper := c.Stops[i]
		if zoom >= upper.Input {
			continue
		}

		lower := c.Stops[i-1]
		if c.Interval {
			return lower.Color
		}

		base := c.Base
		if base == 0 {
			base = 1
		}
		t := styling.InterpolationFactor(zoom, base, lower.Input, upper.Input)
		return interpolateColor(lower.Color, upper.Color, t)
	}

	return c.Stops[len(c.Stops)-1].Color
}

func interpolateColor(from, to color.Color, t float64) color.Color {
	fromNRGBA := color.NRGBAModel.Convert(from).(color.NRGBA)
	toNRGBA := color.NRGBAModel.Convert(to).(color.NRGBA)

	lerp := func(a, b uint8) uint8 {
		return clampToUint8(float64(a) + t*(float64(b)-float64(a)))
	}

	return color.NRGBA{
		R: lerp(fromNRGBA.R, toNRGBA.R),
		G: lerp(fromNRGBA.G, toNRGBA.G),
		B: lerp(fromNRGBA.B, toNRGBA.B),
		A: lerp(fromNRGBA.A, toNRGBA.A),
	}
}
