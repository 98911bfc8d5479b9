package ownmapdal

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsConfig_DataSourceURLs(t *testing.T) {
	fs := mockfs.NewMockFs()
	pathsConfig := &PathsConfig{StylesDir: "/styles", DataDir: "/data"}

	require.NoError(t, pathsConfig.EnsurePaths(fs))
	require.NoError(t, fs.MkdirAll("/data/old", 0755))
	require.NoError(t, fs.WriteFile("/data/places.geojson", []byte(testGeoJSON), 0644))
	require.NoError(t, fs.WriteFile("/data/monaco.osm.pbf", []byte{}, 0644))
	require.NoError(t, fs.WriteFile("/data/README.md", []byte("notes"), 0644))

	urls, err := pathsConfig.DataSourceURLs(fs)
	require.NoError(t, err)

	assert.ElementsMatch(t, []DataSourceURL{
		{DataSourceTypePBF, "/data/monaco.osm.pbf"},
		{DataSourceTypeGeoJSON, "/data/places.geojson"},
	}, urls)
}

func TestLoadDataSourceSet(t *testing.T) {
	fs := mockfs.NewMockFs()
	pathsConfig := &PathsConfig{StylesDir: "/styles", DataDir: "/data"}

	require.NoError(t, pathsConfig.EnsurePaths(fs))
	require.NoError(t, fs.WriteFile("/data/places.geojson", []byte(testGeoJSON), 0644))
	require.NoError(t, fs.WriteFile("/extra/more.geojson", []byte(testGeoJSON), 0644))

	logger := logpkg.NewLogger(ioutil.Discard, logpkg.LogLevelInfo)
	extra := []DataSourceURL{{DataSourceTypeGeoJSON, "/extra/more.geojson"}}

	dss, err := LoadDataSourceSet(context.Background(), logger, fs, pathsConfig, extra)
	require.NoError(t, err)

	sources := dss.GetSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "places.geojson", sources[0].Name())
	assert.Equal(t, "more.geojson", sources[1].Name())
	assert.Len(t, sources[0].(*MemoryDataSource).Features(), 3)
}

func TestLoadDataSource_MissingFile(t *testing.T) {
	_, err := LoadDataSource(context.Background(), mockfs.NewMockFs(), DataSourceURL{DataSourceTypeGeoJSON, "/nothing.geojson"})
	require.Error(t, err)
}

func TestDataSourceTypeForFileName(t *testing.T) {
	tests := []struct {
		name         string
		fileName     string
		expectedType DataSourceType
		expectedOK   bool
	}{
		{"pbf", "norway-latest.osm.pbf", DataSourceTypePBF, true},
		{"geojson", "places.geojson", DataSourceTypeGeoJSON, true},
		{"pbf without osm", "norway.pbf", "", false},
		{"unknown", "style.json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataSourceType, ok := DataSourceTypeForFileName(tt.fileName)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedType, dataSourceType)
		})
	}
}
