package webservices

import (
	"html/template"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/ownmapdal"
	"github.com/jamesrr39/ownmap-labels/styling"
)

// TileCache is dropped when the data behind it changes.
type TileCache interface {
	ClearCache()
}

type AdminService struct {
	logger            *logpkg.Logger
	fs                gofs.Fs
	pathsConfig       *ownmapdal.PathsConfig
	dataSourceSet     *ownmapdal.DataSourceSet
	styleSet          *styling.StyleSet
	tileCache         TileCache
	routerURLBasePath string
	chi.Router
}

func NewAdminService(
	logger *logpkg.Logger,
	fs gofs.Fs,
	pathsConfig *ownmapdal.PathsConfig,
	dataSourceSet *ownmapdal.DataSourceSet,
	styleSet *styling.StyleSet,
	tileCache TileCache,
	routerURLBasePath string,
) *AdminService {
	as := &AdminService{logger, fs, pathsConfig, dataSourceSet, styleSet, tileCache, routerURLBasePath, chi.NewRouter()}

	as.Router.Get("/", as.handleGet)
	as.Router.Post("/dataFile", as.handlePostDataFile)

	return as
}

type addedDataSourceType struct {
	*datasetInfoType
	FeatureCount int `json:"featureCount"`
}

func (as *AdminService) handlePostDataFile(w http.ResponseWriter, r *http.Request) {
	if as.pathsConfig == nil {
		errorsx.HTTPError(w, as.logger, errorsx.Errorf("no data dir configured"), http.StatusNotFound)
		return
	}

	multipartFile, formData, err := r.FormFile("dataFile")
	if err != nil {
		errorsx.HTTPError(w, as.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}
	defer multipartFile.Close()

	fileName := filepath.Base(formData.Filename)
	dataSourceType, ok := ownmapdal.DataSourceTypeForFileName(fileName)
	if !ok {
		errorsx.HTTPError(w, as.logger, errorsx.Errorf("unrecognised data file type: %q (expected .osm.pbf or .geojson)", fileName), http.StatusBadRequest)
		return
	}

	for _, source := range as.dataSourceSet.GetSources() {
		if source.Name() == fileName {
			errorsx.HTTPError(w, as.logger, errorsx.Errorf("a data source called %q is already loaded", fileName), http.StatusConflict)
			return
		}
	}

	filePath := filepath.Join(as.pathsConfig.DataDir, fileName)
	err = as.writeDataFile(filePath, multipartFile)
	if err != nil {
		errorsx.HTTPError(w, as.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	source, loadErr := ownmapdal.LoadDataSource(r.Context(), as.fs, ownmapdal.DataSourceURL{Type: dataSourceType, Path: filePath})
	if loadErr != nil {
		removeErr := as.fs.Remove(filePath)
		if removeErr != nil {
			as.logger.Error("failed to remove unreadable data file %q. Error: %q", filePath, removeErr)
		}
		errorsx.HTTPError(w, as.logger, errorsx.Wrap(loadErr), http.StatusBadRequest)
		return
	}

	as.dataSourceSet.AddSource(source)
	as.tileCache.ClearCache()

	as.logger.Info("added data source %q with %d features", source.Name(), len(source.Features()))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, addedDataSourceType{newDatasetInfo(source.Name(), source.Bounds()), len(source.Features())})
}

func (as *AdminService) writeDataFile(filePath string, reader io.Reader) errorsx.Error {
	file, err := as.fs.Create(filePath)
	if err != nil {
		return errorsx.Wrap(err, "path", filePath)
	}
	defer file.Close()

	_, err = io.Copy(file, reader)
	if err != nil {
		return errorsx.Wrap(err, "path", filePath)
	}

	return nil
}

func (as *AdminService) handleGet(w http.ResponseWriter, r *http.Request) {
	var dataSourceNames []string
	for _, source := range as.dataSourceSet.GetSources() {
		dataSourceNames = append(dataSourceNames, source.Name())
	}

	data := map[string]interface{}{
		"DataSourceNames":   dataSourceNames,
		"StyleIDs":          as.styleSet.GetAllStyleIDs(),
		"RouterURLBasePath": as.routerURLBasePath,
	}

	if as.pathsConfig != nil {
		data["StylesDirImportPath"] = as.pathsConfig.StylesDir
		data["DataDirImportPath"] = as.pathsConfig.DataDir
	}

	err := adminTmpl.Execute(w, data)
	if err != nil {
		errorsx.HTTPError(w, as.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}
}

var adminTmpl *template.Template

func init() {
	var err error
	adminTmpl, err = template.New("admin/index.html").Parse(adminTemplate)
	if err != nil {
		panic(err)
	}
}

const adminTemplate = `
<html>
	<head>
		<style type="text/css">
		div {
			margin: 10px;
			border: 1px solid grey;
			padding: 10px;
		}
		</style>
		<script>
		function submitDataFile(formEl) {
			const formData = new FormData(formEl);

			fetch('/{{.RouterURLBasePath}}/dataFile', {method: 'POST', body: formData})
				.then(resp => {
					if (!resp.ok) {
						return resp.text().then(text => { throw new Error(text); });
					}
					alert('successfully added data file');
					window.location.reload();
				})
				.catch(e => {
					console.error(e);
					alert('failed to upload data file: ' + e);
				});
		}
		</script>
	</head>
	<body>
		<h1>Admin settings</h1>
		<div>
			<h2>Loaded data sources</h2>
			{{range .DataSourceNames}}
				<p>{{.}}</p>
			{{else}}
				<p>No data sources loaded</p>
			{{end}}
		</div>

		<div>
			<h2>Styles</h2>
			{{range .StyleIDs}}
				<p>{{.}}</p>
			{{end}}
			{{if .StylesDirImportPath}}
				<p>Styles are Mapbox GL styles in folders, read from <pre>{{.StylesDirImportPath}}</pre> at startup</p>
			{{end}}
		</div>

		{{if .DataDirImportPath}}
		<div>
			<h2>Add label data</h2>
			<p>Upload an OpenStreetMap extract (.osm.pbf) or a GeoJSON feature collection (.geojson). Named places in it become labels.</p>
			<p>The file will be copied into <pre>{{.DataDirImportPath}}</pre></p>
			<form action="javascript:;" method="POST" enctype="multipart/form-data" onsubmit="submitDataFile(this)" name="dataUploadForm">
				<p>
					<label>
						Data file
						<input type="file" name="dataFile" />
					</label>
				</p>
				<input type="submit" value="Go!" />
			</form>
		</div>
		{{end}}
	</body>
</html>
`
