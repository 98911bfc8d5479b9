package mapboxglstyle

import (
	"bytes"
	"encoding/json"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/styling"
)

type jsonFunction struct {
	Base     float64           `json:"base"`
	Type     string            `json:"type"`
	Property string            `json:"property"`
	Stops    []json.RawMessage `json:"stops"`
}

// NumberOrFunctionWrapperType is a numeric property value in a style file. It can be a number
// (14), a legacy function ({"base": 1.4, "stops": [[10, 8], [20, 14]]}) or an expression
// (["get", "rank"]).
type NumberOrFunctionWrapperType struct {
	Number     *float64
	Function   *styling.Function
	Expression []interface{}
}

func (n *NumberOrFunctionWrapperType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errorsx.Errorf("empty value")
	}

	switch data[0] {
	case '{':
		fn, err := parseFunction(data, parseNumberStopOutput)
		if err != nil {
			return errorsx.Wrap(err)
		}
		n.Function = fn
		return nil
	case '[':
		var expression []interface{}
		err := json.Unmarshal(data, &expression)
		if err != nil {
			return errorsx.Wrap(err)
		}
		n.Expression = expression
		return nil
	default:
		var number float64
		err := json.Unmarshal(data, &number)
		if err != nil {
			return errorsx.Wrap(err, "value", string(data))
		}
		n.Number = &number
		return nil
	}
}

// PropertyValue converts the value to the style model. A nil value is unset.
func (n *NumberOrFunctionWrapperType) PropertyValue() styling.PropertyValue {
	switch {
	case n == nil:
		return styling.PropertyValue{}
	case n.Number != nil:
		return styling.ConstantValue(*n.Number)
	case n.Function != nil:
		return styling.FunctionValue(n.Function)
	case n.Expression != nil:
		return styling.ExpressionValue(n.Expression)
	default:
		return styling.PropertyValue{}
	}
}

func (n *NumberOrFunctionWrapperType) GetValueAtZoomLevel(zoomLevel ownmap.ZoomLevel) float64 {
	return n.PropertyValue().GetValueAtZoomLevel(zoomLevel, 0)
}

func parseNumberStopOutput(data json.RawMessage) (float64, errorsx.Error) {
	var output float64
	err := json.Unmarshal(data, &output)
	if err != nil {
		return 0, errorsx.Wrap(err, "stop output", string(data))
	}
	return output, nil
}

func parseFunctionType(functionType string) (styling.FunctionType, errorsx.Error) {
	switch functionType {
	case "", string(styling.FunctionTypeExponential):
		return styling.FunctionTypeExponential, nil
	case string(styling.FunctionTypeInterval):
		return styling.FunctionTypeInterval, nil
	case string(styling.FunctionTypeIdentity):
		return styling.FunctionTypeIdentity, nil
	default:
		return "", errorsx.Errorf("function type %q is not supported", functionType)
	}
}

type rawStop struct {
	Input  float64
	Output json.RawMessage
}

// parseStops splits [[input, output], ...] stops. Inputs must be numbers (zoom levels, or numeric
// feature property values) in ascending order.
func parseStops(rawStops []json.RawMessage) ([]rawStop, errorsx.Error) {
	var stops []rawStop
	for i, rawStopData := range rawStops {
		var stop []json.RawMessage
		err := json.Unmarshal(rawStopData, &stop)
		if err != nil {
			return nil, errorsx.Wrap(err, "stop index", i)
		}

		if len(stop) != 2 {
			return nil, errorsx.Errorf("stop %d should have 2 items but had %d", i, len(stop))
		}

		var input float64
		err = json.Unmarshal(stop[0], &input)
		if err != nil {
			return nil, errorsx.Wrap(err, "stop index", i, "reason", "only numeric stop inputs are supported")
		}

		if i > 0 && input < stops[i-1].Input {
			return nil, errorsx.Errorf("stops must be in ascending order, but stop %d (%v) was smaller than the previous stop", i, input)
		}

		stops = append(stops, rawStop{input, stop[1]})
	}

	return stops, nil
}

func parseFunction(data []byte, parseOutput func(data json.RawMessage) (float64, errorsx.Error)) (*styling.Function, errorsx.Error) {
	var raw jsonFunction
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	functionType, err := parseFunctionType(raw.Type)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	stops, err := parseStops(raw.Stops)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	fn := &styling.Function{
		Type:     functionType,
		Base:     raw.Base,
		Property: raw.Property,
	}

	for i, stop := range stops {
		output, err := parseOutput(stop.Output)
		if err != nil {
			return nil, errorsx.Wrap(err, "stop index", i)
		}

		fn.Stops = append(fn.Stops, styling.Stop{Input: stop.Input, Output: output})
	}

	return fn, nil
}
