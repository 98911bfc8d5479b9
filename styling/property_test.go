package styling

import (
	"testing"

	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/stretchr/testify/assert"
)

func TestFunction_Evaluate(t *testing.T) {
	linear := &Function{Stops: []Stop{{0, 10}, {10, 20}}}
	interval := &Function{Type: FunctionTypeInterval, Stops: []Stop{{0, 10}, {10, 20}}}
	exponential := &Function{Type: FunctionTypeExponential, Base: 2, Stops: []Stop{{0, 0}, {2, 3}}}

	tests := []struct {
		name  string
		fn    *Function
		input float64
		want  float64
	}{
		{"below the first stop", linear, -5, 10},
		{"above the last stop", linear, 50, 20},
		{"linear halfway", linear, 5, 15},
		{"interval holds the lower stop", interval, 9.9, 10},
		{"interval on a stop", interval, 10, 20},
		{"exponential", exponential, 1, 1},
		{"identity", &Function{Type: FunctionTypeIdentity}, 7, 7},
		{"no stops", &Function{}, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.fn.Evaluate(tt.input), 1e-9)
		})
	}
}

func TestInterpolationFactor(t *testing.T) {
	assert.Equal(t, 0.5, InterpolationFactor(5, 1, 0, 10))
	assert.Equal(t, float64(0), InterpolationFactor(5, 1, 3, 3))
	// (2^1 - 1) / (2^2 - 1)
	assert.InDelta(t, 1.0/3, InterpolationFactor(1, 2, 0, 2), 1e-9)
}

func TestPropertyValue_ConstantOr(t *testing.T) {
	assert.Equal(t, float64(2), ConstantValue(2).ConstantOr(1))
	assert.Equal(t, float64(1), ExpressionValue([]interface{}{"get", "halo"}).ConstantOr(1))
	assert.Equal(t, float64(1), FunctionValue(&Function{Stops: []Stop{{0, 0}}}).ConstantOr(1))
	assert.Equal(t, float64(1), PropertyValue{}.ConstantOr(1))
}

func TestPropertyValue_Kinds(t *testing.T) {
	assert.False(t, PropertyValue{}.IsSet())
	assert.True(t, ConstantValue(0).IsSet())
	assert.True(t, ConstantValue(0).IsConstant())
	assert.True(t, FunctionValue(&Function{}).IsZoomFunction())
	assert.True(t, FunctionValue(&Function{Property: "rank"}).IsDataDriven())
	assert.True(t, ExpressionValue([]interface{}{"get", "rank"}).IsDataDriven())
}

func TestPropertyValue_EvaluateFeature(t *testing.T) {
	properties := map[string]interface{}{"rank": float64(3), "name": "Oslo"}

	tests := []struct {
		name   string
		value  PropertyValue
		want   float64
		wantOK bool
	}{
		{"constant", ConstantValue(4), 4, true},
		{"zoom function", FunctionValue(&Function{Stops: []Stop{{0, 0}, {20, 20}}}), 10, true},
		{"property function", FunctionValue(&Function{Property: "rank", Stops: []Stop{{0, 0}, {10, 100}}}), 30, true},
		{"get", ExpressionValue([]interface{}{"get", "rank"}), 3, true},
		{"get non-number", ExpressionValue([]interface{}{"get", "name"}), 0, false},
		{"get missing", ExpressionValue([]interface{}{"get", "population"}), 0, false},
		{"to-number with fallback", ExpressionValue([]interface{}{"to-number", []interface{}{"get", "population"}, float64(7)}), 7, true},
		{"unknown operator", ExpressionValue([]interface{}{"zoom"}), 0, false},
		{"unset", PropertyValue{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.EvaluateFeature(ownmap.ZoomLevel(10), properties)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPropertyValue_SizeData(t *testing.T) {
	sizeData := ConstantValue(14).SizeData(5, DefaultTextSize)
	assert.Equal(t, ownmap.SizeData{Kind: ownmap.SizeFunctionTypeConstant, LayoutSize: 14}, sizeData)

	sizeData = PropertyValue{}.SizeData(5, DefaultTextSize)
	assert.Equal(t, ownmap.SizeFunctionTypeConstant, sizeData.Kind)
	assert.Equal(t, float64(DefaultTextSize), sizeData.LayoutSize)

	sizeData = ExpressionValue([]interface{}{"get", "size"}).SizeData(5, DefaultTextSize)
	assert.Equal(t, ownmap.SizeFunctionTypeSource, sizeData.Kind)

	camera := FunctionValue(&Function{Base: 1, Stops: []Stop{{0, 10}, {4, 14}, {8, 18}, {12, 22}}})
	sizeData = camera.SizeData(5, DefaultTextSize)
	assert.Equal(t, ownmap.SizeFunctionTypeCamera, sizeData.Kind)
	assert.Equal(t, float64(4), sizeData.MinZoom)
	assert.Equal(t, float64(8), sizeData.MaxZoom)
	assert.Equal(t, float64(14), sizeData.MinSize)
	assert.Equal(t, float64(18), sizeData.MaxSize)
	assert.Equal(t, &ownmap.SizeInterpolation{Base: 1}, sizeData.Interpolation)

	step := FunctionValue(&Function{Type: FunctionTypeInterval, Stops: []Stop{{0, 10}, {4, 14}}})
	assert.Nil(t, step.SizeData(2, DefaultTextSize).Interpolation)
}
