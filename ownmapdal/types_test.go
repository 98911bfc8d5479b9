package ownmapdal

import (
	"reflect"
	"testing"
)

func TestParseDataSourceURL(t *testing.T) {
	type args struct {
		str string
	}
	tests := []struct {
		name    string
		args    args
		want    DataSourceURL
		wantErr bool
	}{
		{
			name: "geojson",
			args: args{"geojson://data/places.geojson"},
			want: DataSourceURL{
				Type: DataSourceTypeGeoJSON,
				Path: "data/places.geojson",
			},
		}, {
			name: "pbf",
			args: args{"pbf:///srv/monaco.osm.pbf"},
			want: DataSourceURL{
				Type: DataSourceTypePBF,
				Path: "/srv/monaco.osm.pbf",
			},
		}, {
			name:    "no separator",
			args:    args{"data/places.geojson"},
			wantErr: true,
		}, {
			name:    "unknown type",
			args:    args{"postgresql://localhost"},
			wantErr: true,
		}, {
			name:    "no path",
			args:    args{"pbf://"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDataSourceURL(tt.args.str)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDataSourceURL() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDataSourceURL() got = %v, want %v", got, tt.want)
			}
		})
	}
}
