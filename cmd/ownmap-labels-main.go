package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/goutil/open"
	"github.com/jamesrr39/goutil/userextra"
	"github.com/jamesrr39/ownmap-labels/fonts"
	"github.com/jamesrr39/ownmap-labels/ownmapdal"
	"github.com/jamesrr39/ownmap-labels/ownmaprenderer"
	"github.com/jamesrr39/ownmap-labels/styling"
	"github.com/jamesrr39/ownmap-labels/styling/mapboxglstyle"
	"github.com/jamesrr39/ownmap-labels/webservices"
	"github.com/paulmach/orb"
	"github.com/pkg/profile"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	DEFAULT_PORT                   = 9000
	DEFAULT_MAX_CONCURRENT_RENDERS = 4
	DEFAULT_TILE_BUILDERS          = 4
	MAX_SERVER_RUNNING_ATTEMPTS    = 50
)

const (
	adminPath = "admin"
)

var verbose *bool

func main() {
	if len(os.Args) == 1 {
		// start in desktop "double-click" visual mode
		err := setupDesktopMode(newLogger())
		errorsx.ExitIfErr(err)
		return
	}

	verbose = kingpin.Flag("v", "verbose logging").Bool()

	setupServe()
	setupRender()

	kingpin.Parse()
}

func newLogger() *logpkg.Logger {
	logLevel := logpkg.LogLevelInfo
	if verbose != nil && *verbose {
		logLevel = logpkg.LogLevelDebug
	}
	return logpkg.NewLogger(os.Stderr, logLevel)
}

func ensureDefaultPathsConfig(fs gofs.Fs) (*ownmapdal.PathsConfig, string, errorsx.Error) {
	rootDir, err := userextra.ExpandUser("~/.local/share/github.com/jamesrr39/ownmap-labels/")
	if err != nil {
		return nil, "", errorsx.Wrap(err)
	}

	pathsConfig := &ownmapdal.PathsConfig{
		StylesDir: filepath.Join(rootDir, "styles"),
		DataDir:   filepath.Join(rootDir, "data_files"),
	}

	err = pathsConfig.EnsurePaths(fs)
	if err != nil {
		return nil, "", errorsx.Wrap(err)
	}

	traceDir := filepath.Join(rootDir, "trace")
	err = fs.MkdirAll(traceDir, 0755)
	if err != nil {
		return nil, "", errorsx.Wrap(err)
	}

	return pathsConfig, traceDir, nil
}

// loadStylesFromDir loads every Mapbox GL style in dir (one folder per style, holding a style.json),
// plus the builtin style. A missing dir gives only the builtin style.
func loadStylesFromDir(logger *logpkg.Logger, fs gofs.Fs, dir, defaultStyleID string) (*styling.StyleSet, errorsx.Error) {
	styles := []styling.Style{styling.NewCustomBasicStyle()}

	if dir != "" {
		fileInfos, err := fs.ReadDir(dir)
		if err != nil {
			return nil, errorsx.Wrap(err, "stylesDir", dir)
		}

		for _, fileInfo := range fileInfos {
			if !fileInfo.IsDir() {
				continue
			}

			stylePath := filepath.Join(dir, fileInfo.Name())
			style, err := loadStyle(fs, stylePath)
			if err != nil {
				logger.Error("error loading style from %q. Error: %q", stylePath, err)
				continue
			}

			logger.Info("loaded style %q from %q", style.GetStyleID(), stylePath)
			styles = append(styles, style)
		}
	}

	styleSet, err := styling.NewStyleSet(styles, defaultStyleID)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return styleSet, nil
}

func loadStyle(fs gofs.Fs, styleDefinitionPath string) (styling.Style, errorsx.Error) {
	file, err := fs.Open(filepath.Join(styleDefinitionPath, "style.json"))
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	defer file.Close()

	style, err := mapboxglstyle.Parse(file)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return style, nil
}

func parseDataSourceURLs(dataSourceStrs []string) ([]ownmapdal.DataSourceURL, errorsx.Error) {
	var urls []ownmapdal.DataSourceURL
	for _, dataSourceStr := range dataSourceStrs {
		url, err := ownmapdal.ParseDataSourceURL(dataSourceStr)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}
		urls = append(urls, url)
	}

	return urls, nil
}

func setupDesktopMode(logger *logpkg.Logger) errorsx.Error {
	fs := gofs.NewOsFs()

	pathsConfig, traceDir, err := ensureDefaultPathsConfig(fs)
	if err != nil {
		return errorsx.Wrap(err)
	}

	styleSet, err := loadStylesFromDir(logger, fs, pathsConfig.StylesDir, styling.BUILTIN_STYLEID)
	if err != nil {
		return errorsx.Wrap(err)
	}

	dataSourceSet, err := ownmapdal.LoadDataSourceSet(context.Background(), logger, fs, pathsConfig, nil)
	if err != nil {
		return errorsx.Wrap(err)
	}

	tileLoader := ownmapdal.NewTileLoader(logger, dataSourceSet, ownmapdal.NewTileBuilder(fonts.DefaultFont()), DEFAULT_TILE_BUILDERS)

	router, err := createServer(logger, fs, dataSourceSet, styleSet, tileLoader, pathsConfig, traceDir, DEFAULT_MAX_CONCURRENT_RENDERS, false)
	if err != nil {
		return errorsx.Wrap(err)
	}

	server := httpextra.NewServerWithTimeouts()
	server.Addr = fmt.Sprintf("localhost:%d", DEFAULT_PORT)
	server.Handler = router

	errChan := make(chan errorsx.Error)

	go func() {
		err := server.ListenAndServe()
		if err != nil {
			errChan <- errorsx.Wrap(err)
		}
	}()

	go func() {
		// wait for the server to be running
		client := http.Client{
			Timeout: time.Second * 10,
		}
		for i := 0; i < MAX_SERVER_RUNNING_ATTEMPTS; i++ {
			resp, err := client.Get(fmt.Sprintf("http://%s/api/info", server.Addr))
			if err != nil {
				// retry after wait
				time.Sleep(time.Millisecond * 500)
				continue
			}
			resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				errChan <- errorsx.Errorf("expected response code %d from /api/info call, but got %d", http.StatusOK, resp.StatusCode)
				return
			}

			errChan <- nil
			return
		}

		errChan <- errorsx.Errorf("server did not start after %d attempts", MAX_SERVER_RUNNING_ATTEMPTS)
	}()

	err = <-errChan
	if err != nil {
		return errorsx.Wrap(err)
	}

	openErr := open.OpenURL(fmt.Sprintf("http://%s/%s/", server.Addr, adminPath))
	if openErr != nil {
		return errorsx.Wrap(openErr)
	}

	// blocks until the server stops
	return <-errChan
}

var addrHelp = fmt.Sprintf(
	`address to serve on. Ex: ':%d' listen on port %d to traffic from anywhere. 'localhost:%d' listen on port %d to traffic from localhost`,
	DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT,
)

var dataSourceHelp = fmt.Sprintf(
	"extra data source to label. It should be the type (%s or %s), followed by the separator (%s), followed by the path. For example: %s%smy/data/norway.osm.pbf",
	ownmapdal.DataSourceTypePBF,
	ownmapdal.DataSourceTypeGeoJSON,
	ownmapdal.ConnectionPathSeparator,
	ownmapdal.DataSourceTypePBF,
	ownmapdal.ConnectionPathSeparator,
)

func setupServe() {
	cmd := kingpin.Command("serve", "serve webserver")
	addr := cmd.Flag("addr", addrHelp).Default(fmt.Sprintf(":%d", DEFAULT_PORT)).String()
	stylesDir := cmd.Flag("styles-dir", "folder containing style definitions, one folder per style (currently supports only mapbox GL styles)").String()
	dataDir := cmd.Flag("data-dir", "folder of data files (.osm.pbf or .geojson). Files uploaded through the admin page are saved here").String()
	dataSourceStrs := cmd.Flag("data-source", dataSourceHelp).Strings()
	defaultStyleID := cmd.Flag("default-style-id", "default style to render with").Default(styling.BUILTIN_STYLEID).String()
	traceDir := cmd.Flag("trace-dir", "folder to write request traces to").Default(os.TempDir()).String()
	maxConcurrentRenders := cmd.Flag("max-concurrent-renders", "maximum amount of frames rendered at the same time").Default(fmt.Sprintf("%d", DEFAULT_MAX_CONCURRENT_RENDERS)).Uint()
	tileBuilders := cmd.Flag("tile-builders", "maximum amount of tiles built at the same time, per frame").Default(fmt.Sprintf("%d", DEFAULT_TILE_BUILDERS)).Uint()
	shouldProfile := cmd.Flag("profile", "profile the request performance").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			logger := newLogger()
			fs := gofs.NewOsFs()

			extraURLs, err := parseDataSourceURLs(*dataSourceStrs)
			if err != nil {
				return errorsx.Wrap(err)
			}

			var pathsConfig *ownmapdal.PathsConfig
			if *dataDir != "" {
				pathsConfig = &ownmapdal.PathsConfig{StylesDir: *stylesDir, DataDir: *dataDir}
			}

			styleSet, err := loadStylesFromDir(logger, fs, *stylesDir, *defaultStyleID)
			if err != nil {
				return errorsx.Wrap(err)
			}

			dataSourceSet, err := loadDataSourceSet(logger, fs, pathsConfig, extraURLs)
			if err != nil {
				return errorsx.Wrap(err)
			}

			tileLoader := ownmapdal.NewTileLoader(logger, dataSourceSet, ownmapdal.NewTileBuilder(fonts.DefaultFont()), *tileBuilders)

			router, err := createServer(logger, fs, dataSourceSet, styleSet, tileLoader, pathsConfig, *traceDir, *maxConcurrentRenders, *shouldProfile)
			if err != nil {
				return errorsx.Wrap(err)
			}

			server := httpextra.NewServerWithTimeouts()
			server.Addr = *addr
			server.Handler = router

			logger.Info("about to start serving on %q", *addr)

			listenErr := server.ListenAndServe()
			if listenErr != nil {
				return errorsx.Wrap(listenErr)
			}
			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

// loadDataSourceSet loads the data dir (if there is one) and the extra data sources.
func loadDataSourceSet(logger *logpkg.Logger, fs gofs.Fs, pathsConfig *ownmapdal.PathsConfig, extraURLs []ownmapdal.DataSourceURL) (*ownmapdal.DataSourceSet, errorsx.Error) {
	if pathsConfig != nil {
		err := fs.MkdirAll(pathsConfig.DataDir, 0755)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}

		return ownmapdal.LoadDataSourceSet(context.Background(), logger, fs, pathsConfig, extraURLs)
	}

	var sources []ownmapdal.DataSource
	for _, url := range extraURLs {
		source, err := ownmapdal.LoadDataSource(context.Background(), fs, url)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}

		logger.Info("loaded %d features from %q", len(source.Features()), url.Path)
		sources = append(sources, source)
	}

	return ownmapdal.NewDataSourceSet(logger, sources), nil
}

func setupRender() {
	cmd := kingpin.Command("render", "render one frame of labels to a PNG file")
	outputPath := cmd.Arg("output", "PNG file to write").Required().String()
	dataSourceStrs := cmd.Flag("data-source", dataSourceHelp).Required().Strings()
	lat := cmd.Flag("lat", "latitude of the center of the frame").Required().Float64()
	lon := cmd.Flag("lon", "longitude of the center of the frame").Required().Float64()
	zoom := cmd.Flag("zoom", "zoom level").Required().Float64()
	width := cmd.Flag("width", "width of the frame, in pixels").Default("512").Int()
	height := cmd.Flag("height", "height of the frame, in pixels").Default("512").Int()
	bearing := cmd.Flag("bearing", "bearing, in degrees").Default("0").Float64()
	pitch := cmd.Flag("pitch", "pitch, in degrees (0 to 60)").Default("0").Float64()
	pixelRatio := cmd.Flag("pixel-ratio", "device pixel ratio").Default("1").Float64()
	stylesDir := cmd.Flag("styles-dir", "folder containing style definitions, one folder per style").String()
	styleID := cmd.Flag("style-id", "style to render with").Default(styling.BUILTIN_STYLEID).String()
	drawsPath := cmd.Flag("draws", "also write the draw log of the frame to this JSON file").String()
	shouldProfile := cmd.Flag("profile", "profile the render performance").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		if *shouldProfile {
			defer profile.Start(profile.ProfilePath(filepath.Dir(*outputPath)), profile.CPUProfile).Stop()
		}

		logger := newLogger()
		fs := gofs.NewOsFs()

		urls, err := parseDataSourceURLs(*dataSourceStrs)
		if err != nil {
			return err
		}

		styleSet, err := loadStylesFromDir(logger, fs, *stylesDir, *styleID)
		if err != nil {
			return err
		}

		dataSourceSet, err := loadDataSourceSet(logger, fs, nil, urls)
		if err != nil {
			return err
		}

		tileLoader := ownmapdal.NewTileLoader(logger, dataSourceSet, ownmapdal.NewTileBuilder(fonts.DefaultFont()), DEFAULT_TILE_BUILDERS)
		renderer := ownmaprenderer.NewRasterRenderer(logger, fonts.DefaultFont(), tileLoader)

		startTime := time.Now()

		frame, err := renderer.RenderFrame(context.Background(), styleSet.GetDefaultStyle(), ownmaprenderer.FrameOptions{
			Width:          *width,
			Height:         *height,
			Center:         orb.Point{*lon, *lat},
			Zoom:           *zoom,
			BearingDegrees: *bearing,
			PitchDegrees:   *pitch,
			PainterOptions: ownmaprenderer.PainterOptions{
				DevicePixelRatio: *pixelRatio,
			},
		})
		if err != nil {
			return err
		}

		logger.Info("rendered frame with %d draw calls in %s", len(frame.Draws), time.Since(startTime))

		err = writeFrame(fs, frame, *outputPath, *drawsPath)
		if err != nil {
			return err
		}

		return nil
	})
}

func writeFrame(fs gofs.Fs, frame *ownmaprenderer.Frame, outputPath, drawsPath string) errorsx.Error {
	file, err := fs.Create(outputPath)
	if err != nil {
		return errorsx.Wrap(err, "path", outputPath)
	}
	defer file.Close()

	err = png.Encode(file, frame.Image)
	if err != nil {
		return errorsx.Wrap(err, "path", outputPath)
	}

	if drawsPath == "" {
		return nil
	}

	drawsFile, err := fs.Create(drawsPath)
	if err != nil {
		return errorsx.Wrap(err, "path", drawsPath)
	}
	defer drawsFile.Close()

	encoder := json.NewEncoder(drawsFile)
	encoder.SetIndent("", "\t")
	err = encoder.Encode(frame.Draws)
	if err != nil {
		return errorsx.Wrap(err, "path", drawsPath)
	}

	return nil
}

func isLocalhost(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func createLocalhostMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !isLocalhost(r.RemoteAddr) {
				http.Error(w, "connections only allowed from the same computer the server is running on", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func createServer(
	logger *logpkg.Logger,
	fs gofs.Fs,
	dataSourceSet *ownmapdal.DataSourceSet,
	styleSet *styling.StyleSet,
	tileLoader *ownmapdal.TileLoader,
	pathsConfig *ownmapdal.PathsConfig,
	traceDir string,
	maxConcurrentRenders uint,
	shouldProfile bool,
) (chi.Router, errorsx.Error) {
	renderer := ownmaprenderer.NewRasterRenderer(logger, fonts.DefaultFont(), tileLoader)

	traceFilePath := filepath.Join(traceDir, fmt.Sprintf("trace_%s.pbf", time.Now().Format("2006-01-02__15_04_05")))
	logger.Info("tracing at %q", traceFilePath)

	traceFile, err := fs.Create(traceFilePath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	tracer := tracing.NewTracer(traceFile)

	router := chi.NewRouter()
	router.Use(middleware.DefaultLogger)
	router.Use(tracing.Middleware(tracer))
	router.Route("/api/", func(r chi.Router) {
		r.Mount("/info", webservices.NewInfoService(logger, dataSourceSet, styleSet))
		r.Mount("/frames/", webservices.NewFrameService(logger, renderer, styleSet, maxConcurrentRenders, shouldProfile))
		r.Mount("/features/", webservices.NewFeaturesWebService(logger, dataSourceSet))
	})
	router.Route(fmt.Sprintf("/%s/", adminPath), func(r chi.Router) {
		r.Use(createLocalhostMiddleware())
		r.Mount("/", webservices.NewAdminService(logger, fs, pathsConfig, dataSourceSet, styleSet, tileLoader, adminPath))
	})
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, fmt.Sprintf("/%s/", adminPath), http.StatusFound)
	})

	return router, nil
}
