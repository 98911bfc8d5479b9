package webservices

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/ownmapdal"
	"github.com/paulmach/osm"
)

// FeaturesWebService lists the labelled features of the loaded data sources in some bounds.
type FeaturesWebService struct {
	logger        *logpkg.Logger
	dataSourceSet *ownmapdal.DataSourceSet
	chi.Router
}

func NewFeaturesWebService(logger *logpkg.Logger, dataSourceSet *ownmapdal.DataSourceSet) *FeaturesWebService {
	router := chi.NewRouter()
	service := &FeaturesWebService{logger, dataSourceSet, router}

	router.Get("/", service.handleGet)
	return service
}

type featureType struct {
	ID           int64                  `json:"id"`
	GeometryType string                 `json:"geometryType"`
	Lat          float64                `json:"lat"`
	Lon          float64                `json:"lon"`
	Properties   map[string]interface{} `json:"properties"`
}

type getFeaturesResponseType struct {
	Features []*featureType `json:"features"`
}

func (s *FeaturesWebService) handleGet(w http.ResponseWriter, r *http.Request) {
	bounds, err := parseBoundsString(r.URL.Query().Get("bounds"))
	if err != nil {
		errorsx.HTTPError(w, s.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	features, err := s.dataSourceSet.GetInBounds(r.Context(), *bounds)
	if err != nil {
		if errorsx.Cause(err) == ownmapdal.ErrNoDataAvailable {
			render.JSON(w, r, getFeaturesResponseType{[]*featureType{}})
			return
		}
		errorsx.HTTPError(w, s.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	response := getFeaturesResponseType{[]*featureType{}}
	for _, feature := range features {
		response.Features = append(response.Features, &featureType{
			ID:           feature.ID,
			GeometryType: string(feature.GeometryType),
			Lat:          feature.Anchor.Lat(),
			Lon:          feature.Anchor.Lon(),
			Properties:   feature.Properties,
		})
	}

	render.JSON(w, r, response)
}

// (S,W,N,E)
// (59.81,10.6,59.97,10.9)
func parseBoundsString(boundsString string) (*osm.Bounds, errorsx.Error) {
	bounds := &osm.Bounds{}

	withoutBrackets := strings.TrimPrefix(strings.TrimSuffix(boundsString, ")"), "(")
	fragments := strings.Split(withoutBrackets, ",")
	if len(fragments) != 4 {
		return nil, errorsx.Errorf("expected 4 bounds, but got %d. A bounds URL parameter should be in the format 'bounds=(S,W,N,E)'", len(fragments))
	}

	for index, fragment := range fragments {
		coordinate, err := strconv.ParseFloat(strings.TrimSpace(fragment), 64)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}

		switch index {
		case 0:
			bounds.MinLat = coordinate
		case 1:
			bounds.MinLon = coordinate
		case 2:
			bounds.MaxLat = coordinate
		case 3:
			bounds.MaxLon = coordinate
		}
	}

	if bounds.MinLat > bounds.MaxLat || bounds.MinLon > bounds.MaxLon {
		return nil, errorsx.Errorf("bounds %q have south above north or west beyond east", boundsString)
	}

	return bounds, nil
}
