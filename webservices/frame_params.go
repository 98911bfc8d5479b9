package webservices

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmaprenderer"
	"github.com/paulmach/orb"
)

const (
	defaultFrameSize = 256
	maxFrameSize     = 2048
)

// frameOptionsFromRequest reads the camera from the path (zoom, lat, lon) and the query string.
// Query parameters: width, height, bearing, pitch, maxTileZoom, pixelRatio, rotating, zooming.
func frameOptionsFromRequest(r *http.Request) (ownmaprenderer.FrameOptions, errorsx.Error) {
	var options ownmaprenderer.FrameOptions

	floats, err := stringsToFloats(chi.URLParam(r, "z"), chi.URLParam(r, "lat"), chi.URLParam(r, "lon"))
	if err != nil {
		return options, errorsx.Wrap(err)
	}
	options.Zoom = floats[0]
	options.Center = orb.Point{floats[2], floats[1]}

	query := r.URL.Query()

	options.Width, err = intQueryParam(query.Get("width"), defaultFrameSize)
	if err != nil {
		return options, errorsx.Wrap(err, "param", "width")
	}
	options.Height, err = intQueryParam(query.Get("height"), defaultFrameSize)
	if err != nil {
		return options, errorsx.Wrap(err, "param", "height")
	}
	if options.Width > maxFrameSize || options.Height > maxFrameSize {
		return options, errorsx.Errorf("frame size %dx%d is bigger than the maximum (%dx%d)", options.Width, options.Height, maxFrameSize, maxFrameSize)
	}

	options.BearingDegrees, err = floatQueryParam(query.Get("bearing"), 0)
	if err != nil {
		return options, errorsx.Wrap(err, "param", "bearing")
	}
	options.PitchDegrees, err = floatQueryParam(query.Get("pitch"), 0)
	if err != nil {
		return options, errorsx.Wrap(err, "param", "pitch")
	}

	maxTileZoom, err := intQueryParam(query.Get("maxTileZoom"), ownmaprenderer.DefaultMaxTileZoom)
	if err != nil {
		return options, errorsx.Wrap(err, "param", "maxTileZoom")
	}
	if maxTileZoom < 0 {
		return options, errorsx.Errorf("maxTileZoom must not be negative, got %d", maxTileZoom)
	}
	options.MaxTileZoom = uint32(maxTileZoom)

	options.DevicePixelRatio, err = floatQueryParam(query.Get("pixelRatio"), 1)
	if err != nil {
		return options, errorsx.Wrap(err, "param", "pixelRatio")
	}
	options.Rotating, err = boolQueryParam(query.Get("rotating"))
	if err != nil {
		return options, errorsx.Wrap(err, "param", "rotating")
	}
	options.Zooming, err = boolQueryParam(query.Get("zooming"))
	if err != nil {
		return options, errorsx.Wrap(err, "param", "zooming")
	}

	validationErr := options.Validate()
	if validationErr != nil {
		return options, validationErr
	}

	return options, nil
}

func stringsToFloats(s ...string) ([]float64, error) {
	var floats []float64
	for _, str := range s {
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, err
		}
		floats = append(floats, f)
	}

	return floats, nil
}

func intQueryParam(value string, defaultValue int) (int, error) {
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func floatQueryParam(value string, defaultValue float64) (float64, error) {
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseFloat(value, 64)
}

func boolQueryParam(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}
