package webservices

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesWebService_Get(t *testing.T) {
	services := newTestServices(t)
	service := NewFeaturesWebService(services.logger, services.dataSourceSet)

	t.Run("features in bounds", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/?bounds=(59.8,10.5,60,11)", nil)
		service.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var response getFeaturesResponseType
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)

		require.Len(t, response.Features, 1)
		assert.Equal(t, int64(1), response.Features[0].ID)
		assert.Equal(t, "Point", response.Features[0].GeometryType)
		assert.Equal(t, "Oslo", response.Features[0].Properties["name"])
	})

	t.Run("no data", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/?bounds=(-34,18,-33,19)", nil)
		service.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"features":[]}`, w.Body.String())
	})

	t.Run("bad bounds", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/?bounds=(1,2,3)", nil)
		service.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func Test_parseBoundsString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *osm.Bounds
		wantErr  bool
	}{
		{"with brackets", "(52.533251,-1.394072,52.800548,-0.898208)", &osm.Bounds{MinLat: 52.533251, MinLon: -1.394072, MaxLat: 52.800548, MaxLon: -0.898208}, false},
		{"without brackets, with spaces", "1, 2, 3, 4", &osm.Bounds{MinLat: 1, MinLon: 2, MaxLat: 3, MaxLon: 4}, false},
		{"too few", "(1,2,3)", nil, true},
		{"not a number", "(1,2,3,x)", nil, true},
		{"south above north", "(3,2,1,4)", nil, true},
		{"empty", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bounds, err := parseBoundsString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, bounds)
		})
	}
}
