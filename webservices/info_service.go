package webservices

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/ownmapdal"
	"github.com/jamesrr39/ownmap-labels/styling"
	"github.com/paulmach/osm"
)

func NewInfoService(logger *logpkg.Logger, dataSourceSet *ownmapdal.DataSourceSet, styleSet *styling.StyleSet) *InfoService {
	ws := &InfoService{logger, dataSourceSet, styleSet, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

type InfoService struct {
	logger        *logpkg.Logger
	dataSourceSet *ownmapdal.DataSourceSet
	styleSet      *styling.StyleSet
	chi.Router
}

type stylesType struct {
	DefaultStyleID string   `json:"defaultStyleId"`
	StyleIDs       []string `json:"styleIds"`
}

type boundsType struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

type datasetInfoType struct {
	Name   string     `json:"name"`
	Bounds boundsType `json:"bounds"`
}

func newDatasetInfo(name string, bounds osm.Bounds) *datasetInfoType {
	return &datasetInfoType{name, boundsType{bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon}}
}

type infoType struct {
	Style    stylesType         `json:"style"`
	Datasets []*datasetInfoType `json:"datasets"`
}

func (ws *InfoService) handleGet(w http.ResponseWriter, r *http.Request) {
	infos := []*datasetInfoType{}

	for _, source := range ws.dataSourceSet.GetSources() {
		infos = append(infos, newDatasetInfo(source.Name(), source.Bounds()))
	}

	// make deterministic
	sort.Slice(infos, func(a, b int) bool {
		if infos[a].Bounds.MinLon != infos[b].Bounds.MinLon {
			return infos[a].Bounds.MinLon < infos[b].Bounds.MinLon
		}

		return infos[a].Name < infos[b].Name
	})

	style := stylesType{
		ws.styleSet.GetDefaultStyle().GetStyleID(),
		ws.styleSet.GetAllStyleIDs(),
	}

	render.JSON(w, r, infoType{style, infos})
}
