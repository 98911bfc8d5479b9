package ownmapdal

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
)

type PathsConfig struct {
	StylesDir string
	DataDir   string
}

func (pc *PathsConfig) EnsurePaths(fs gofs.Fs) errorsx.Error {
	for _, dirPath := range []string{pc.StylesDir, pc.DataDir} {
		err := fs.MkdirAll(dirPath, 0755)
		if err != nil {
			return errorsx.Wrap(err)
		}
	}

	return nil
}

// DataSourceURLs lists the data files in the data dir, by name.
func (pc *PathsConfig) DataSourceURLs(fs gofs.Fs) ([]DataSourceURL, errorsx.Error) {
	fileInfos, err := fs.ReadDir(pc.DataDir)
	if err != nil {
		return nil, errorsx.Wrap(err, "dataDir", pc.DataDir)
	}

	var urls []DataSourceURL
	for _, fileInfo := range fileInfos {
		if fileInfo.IsDir() {
			continue
		}

		dataSourceType, ok := DataSourceTypeForFileName(fileInfo.Name())
		if !ok {
			continue
		}

		urls = append(urls, DataSourceURL{dataSourceType, filepath.Join(pc.DataDir, fileInfo.Name())})
	}

	return urls, nil
}

// DataSourceTypeForFileName recognises data files by their extension.
func DataSourceTypeForFileName(name string) (DataSourceType, bool) {
	switch {
	case strings.HasSuffix(name, ".osm.pbf"):
		return DataSourceTypePBF, true
	case strings.HasSuffix(name, ".geojson"):
		return DataSourceTypeGeoJSON, true
	default:
		return "", false
	}
}

// LoadDataSource reads the whole of a data file into memory.
func LoadDataSource(ctx context.Context, fs gofs.Fs, url DataSourceURL) (*MemoryDataSource, errorsx.Error) {
	var features []*Feature

	switch url.Type {
	case DataSourceTypeGeoJSON:
		data, err := fs.ReadFile(url.Path)
		if err != nil {
			return nil, errorsx.Wrap(err, "path", url.Path)
		}

		var readErr errorsx.Error
		features, readErr = ReadGeoJSONFeatures(data)
		if readErr != nil {
			return nil, errorsx.Wrap(readErr, "path", url.Path)
		}
	case DataSourceTypePBF:
		file, err := fs.Open(url.Path)
		if err != nil {
			return nil, errorsx.Wrap(err, "path", url.Path)
		}

		reader := NewDefaultPBFReader(ctx, file)
		defer reader.Close()

		var readErr errorsx.Error
		features, readErr = ReadPBFFeatures(reader)
		if readErr != nil {
			return nil, errorsx.Wrap(readErr, "path", url.Path)
		}
	default:
		return nil, errorsx.Errorf("unknown data source type %q", url.Type)
	}

	return NewMemoryDataSource(filepath.Base(url.Path), features), nil
}

// LoadDataSourceSet loads every data file in the data dir, plus the extra sources given.
func LoadDataSourceSet(ctx context.Context, logger *logpkg.Logger, fs gofs.Fs, pathsConfig *PathsConfig, extraURLs []DataSourceURL) (*DataSourceSet, errorsx.Error) {
	urls, err := pathsConfig.DataSourceURLs(fs)
	if err != nil {
		return nil, err
	}
	urls = append(urls, extraURLs...)

	var sources []DataSource
	for _, url := range urls {
		source, err := LoadDataSource(ctx, fs, url)
		if err != nil {
			return nil, err
		}

		logger.Info("loaded %d features from %q", len(source.Features()), url.Path)
		sources = append(sources, source)
	}

	return NewDataSourceSet(logger, sources), nil
}
