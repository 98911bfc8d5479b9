package main

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/fonts"
	"github.com/jamesrr39/ownmap-labels/ownmapdal"
	"github.com/jamesrr39/ownmap-labels/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStylesFs(t *testing.T) mockfs.MockFs {
	styleJSON, err := ioutil.ReadFile("../styling/mapboxglstyle/testdata/style.json")
	require.NoError(t, err)

	fs := mockfs.NewMockFs()
	require.NoError(t, fs.MkdirAll("/styles/test-style", 0755))
	require.NoError(t, fs.WriteFile("/styles/test-style/style.json", styleJSON, 0644))
	require.NoError(t, fs.MkdirAll("/styles/broken", 0755))
	require.NoError(t, fs.WriteFile("/styles/broken/style.json", []byte("{"), 0644))
	require.NoError(t, fs.WriteFile("/styles/README.md", []byte("styles go here"), 0644))

	return fs
}

func Test_loadStylesFromDir(t *testing.T) {
	logger := logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelInfo)
	fs := newTestStylesFs(t)

	styleSet, err := loadStylesFromDir(logger, fs, "/styles", "test-style")
	require.NoError(t, err)

	assert.Equal(t, []string{styling.BUILTIN_STYLEID, "test-style"}, styleSet.GetAllStyleIDs())
	assert.Equal(t, "test-style", styleSet.GetDefaultStyle().GetStyleID())

	t.Run("no styles dir", func(t *testing.T) {
		styleSet, err := loadStylesFromDir(logger, fs, "", styling.BUILTIN_STYLEID)
		require.NoError(t, err)
		assert.Equal(t, []string{styling.BUILTIN_STYLEID}, styleSet.GetAllStyleIDs())
	})

	t.Run("unknown default style", func(t *testing.T) {
		_, err := loadStylesFromDir(logger, fs, "/styles", "broken")
		require.Error(t, err)
	})
}

func Test_parseDataSourceURLs(t *testing.T) {
	urls, err := parseDataSourceURLs([]string{"pbf://data/oslo.osm.pbf", "geojson:///tmp/places.geojson"})
	require.NoError(t, err)
	assert.Equal(t, []ownmapdal.DataSourceURL{
		{Type: ownmapdal.DataSourceTypePBF, Path: "data/oslo.osm.pbf"},
		{Type: ownmapdal.DataSourceTypeGeoJSON, Path: "/tmp/places.geojson"},
	}, urls)

	_, err = parseDataSourceURLs([]string{"shapefile://data/oslo.shp"})
	require.Error(t, err)
}

func Test_isLocalhost(t *testing.T) {
	tests := []struct {
		remoteAddr string
		expected   bool
	}{
		{"127.0.0.1:52341", true},
		{"[::1]:52341", true},
		{"::1", true},
		{"192.0.2.1:1234", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.remoteAddr, func(t *testing.T) {
			assert.Equal(t, tt.expected, isLocalhost(tt.remoteAddr))
		})
	}
}

func Test_createServer(t *testing.T) {
	logger := logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelInfo)
	fs := newTestStylesFs(t)
	require.NoError(t, fs.MkdirAll("/trace", 0755))

	styleSet, err := loadStylesFromDir(logger, fs, "/styles", styling.BUILTIN_STYLEID)
	require.NoError(t, err)

	dataSourceSet := ownmapdal.NewDataSourceSet(logger, nil)
	tileLoader := ownmapdal.NewTileLoader(logger, dataSourceSet, ownmapdal.NewTileBuilder(fonts.DefaultFont()), 1)

	router, err := createServer(logger, fs, dataSourceSet, styleSet, tileLoader, nil, "/trace", 1, false)
	require.NoError(t, err)

	traceFiles, readErr := fs.ReadDir("/trace")
	require.NoError(t, readErr)
	assert.Len(t, traceFiles, 1)

	tests := []struct {
		name         string
		url          string
		remoteAddr   string
		expectedCode int
	}{
		{"info", "/api/info", "192.0.2.1:1234", http.StatusOK},
		{"features", "/api/features/?bounds=(59,10,60,11)", "192.0.2.1:1234", http.StatusOK},
		{"frame draws", "/api/frames/8/59.91/10.75/draws", "192.0.2.1:1234", http.StatusOK},
		{"admin from localhost", "/admin/", "127.0.0.1:40000", http.StatusOK},
		{"admin from elsewhere", "/admin/", "192.0.2.1:1234", http.StatusForbidden},
		{"root redirects to admin", "/", "127.0.0.1:40000", http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			r.RemoteAddr = tt.remoteAddr

			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedCode, w.Code, w.Body.String())
		})
	}
}
