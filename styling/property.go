package styling

import (
	"math"
	"sort"

	"github.com/jamesrr39/ownmap-labels/ownmap"
)

type propertyValueKind int

const (
	propertyValueKindUnset propertyValueKind = iota
	propertyValueKindConstant
	propertyValueKindCamera
	propertyValueKindSource
	propertyValueKindExpression
)

type FunctionType string

const (
	FunctionTypeExponential FunctionType = "exponential"
	FunctionTypeInterval    FunctionType = "interval"
	FunctionTypeIdentity    FunctionType = "identity"
)

type Stop struct {
	Input  float64
	Output float64
}

// Function is a legacy style function. Without a Property it is a function of zoom ("camera"),
// with one it is a function of that feature property ("source").
type Function struct {
	Type     FunctionType
	Base     float64
	Property string
	Stops    []Stop
}

func (fn *Function) base() float64 {
	if fn.Base == 0 {
		return 1
	}
	return fn.Base
}

func (fn *Function) Evaluate(input float64) float64 {
	if fn.Type == FunctionTypeIdentity {
		return input
	}

	stops := fn.Stops
	if len(stops) == 0 {
		return 0
	}

	if input <= stops[0].Input {
		return stops[0].Output
	}

	last := stops[len(stops)-1]
	if input >= last.Input {
		return last.Output
	}

	// index of the first stop with an input greater than the given input
	upperIdx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Input > input
	})
	lower := stops[upperIdx-1]
	upper := stops[upperIdx]

	if fn.Type == FunctionTypeInterval {
		return lower.Output
	}

	t := InterpolationFactor(input, fn.base(), lower.Input, upper.Input)
	return lower.Output + t*(upper.Output-lower.Output)
}

// InterpolationFactor returns how far input is between lower and upper, from 0 to 1.
// A base of 1 is linear; higher bases put more of the change towards the upper end.
func InterpolationFactor(input, base, lower, upper float64) float64 {
	difference := upper - lower
	progress := input - lower

	if difference == 0 {
		return 0
	}
	if base == 1 {
		return progress / difference
	}
	return (math.Pow(base, progress) - 1) / (math.Pow(base, difference) - 1)
}

// PropertyValue is the value of a numeric style property: unset, a constant, a function or an
// expression.
type PropertyValue struct {
	kind       propertyValueKind
	constant   float64
	function   *Function
	expression []interface{}
}

func ConstantValue(v float64) PropertyValue {
	return PropertyValue{kind: propertyValueKindConstant, constant: v}
}

func FunctionValue(fn *Function) PropertyValue {
	if fn.Property == "" {
		return PropertyValue{kind: propertyValueKindCamera, function: fn}
	}
	return PropertyValue{kind: propertyValueKindSource, function: fn}
}

// ExpressionValue wraps an expression such as ["get", "rank"]. Expressions are always treated as
// data-driven.
func ExpressionValue(expression []interface{}) PropertyValue {
	return PropertyValue{kind: propertyValueKindExpression, expression: expression}
}

func (p PropertyValue) IsSet() bool {
	return p.kind != propertyValueKindUnset
}

func (p PropertyValue) IsConstant() bool {
	return p.kind == propertyValueKindConstant
}

func (p PropertyValue) IsZoomFunction() bool {
	return p.kind == propertyValueKindCamera
}

func (p PropertyValue) IsDataDriven() bool {
	return p.kind == propertyValueKindSource || p.kind == propertyValueKindExpression
}

func (p PropertyValue) Function() *Function {
	return p.function
}

// ConstantOr returns the constant value, or fallback if the value isn't a constant.
func (p PropertyValue) ConstantOr(fallback float64) float64 {
	if p.kind == propertyValueKindConstant {
		return p.constant
	}
	return fallback
}

// GetValueAtZoomLevel evaluates constants and zoom functions. Data-driven and unset values give
// fallback.
func (p PropertyValue) GetValueAtZoomLevel(zoomLevel ownmap.ZoomLevel, fallback float64) float64 {
	switch p.kind {
	case propertyValueKindConstant:
		return p.constant
	case propertyValueKindCamera:
		return p.function.Evaluate(float64(zoomLevel))
	default:
		return fallback
	}
}

// EvaluateFeature evaluates the value for one feature. ok is false when the value could not be
// computed, for example when the feature doesn't have the property the value depends on.
func (p PropertyValue) EvaluateFeature(zoomLevel ownmap.ZoomLevel, properties map[string]interface{}) (value float64, ok bool) {
	switch p.kind {
	case propertyValueKindConstant, propertyValueKindCamera:
		return p.GetValueAtZoomLevel(zoomLevel, 0), true
	case propertyValueKindSource:
		input, ok := toNumber(properties[p.function.Property])
		if !ok {
			return 0, false
		}
		return p.function.Evaluate(input), true
	case propertyValueKindExpression:
		return evaluateExpression(p.expression, properties)
	default:
		return 0, false
	}
}

func evaluateExpression(expression []interface{}, properties map[string]interface{}) (float64, bool) {
	if len(expression) == 0 {
		return 0, false
	}

	operator, ok := expression[0].(string)
	if !ok {
		return 0, false
	}

	switch operator {
	case "get":
		if len(expression) != 2 {
			return 0, false
		}
		name, ok := expression[1].(string)
		if !ok {
			return 0, false
		}
		return toNumber(properties[name])
	case "to-number", "number":
		for _, arg := range expression[1:] {
			if sub, isExpression := arg.([]interface{}); isExpression {
				v, ok := evaluateExpression(sub, properties)
				if ok {
					return v, true
				}
				continue
			}
			v, ok := toNumber(arg)
			if ok {
				return v, true
			}
		}
		return 0, false
	case "literal":
		if len(expression) != 2 {
			return 0, false
		}
		return toNumber(expression[1])
	default:
		return 0, false
	}
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// SizeData describes how a size property is evaluated for a tile at tileZoom.
func (p PropertyValue) SizeData(tileZoom float64, defaultSize float64) ownmap.SizeData {
	switch p.kind {
	case propertyValueKindConstant:
		return ownmap.SizeData{Kind: ownmap.SizeFunctionTypeConstant, LayoutSize: p.constant}
	case propertyValueKindCamera:
		fn := p.function
		if len(fn.Stops) == 0 {
			return ownmap.SizeData{Kind: ownmap.SizeFunctionTypeConstant, LayoutSize: defaultSize}
		}

		// the stops covering [tileZoom, tileZoom+1]
		lower := 0
		for lower < len(fn.Stops) && fn.Stops[lower].Input <= tileZoom {
			lower++
		}
		if lower > 0 {
			lower--
		}
		upper := lower
		for upper < len(fn.Stops) && fn.Stops[upper].Input < tileZoom+1 {
			upper++
		}
		if upper > len(fn.Stops)-1 {
			upper = len(fn.Stops) - 1
		}

		minZoom := fn.Stops[lower].Input
		maxZoom := fn.Stops[upper].Input

		var interpolation *ownmap.SizeInterpolation
		if fn.Type != FunctionTypeInterval {
			interpolation = &ownmap.SizeInterpolation{Base: fn.base()}
		}

		return ownmap.SizeData{
			Kind:          ownmap.SizeFunctionTypeCamera,
			MinZoom:       minZoom,
			MaxZoom:       maxZoom,
			MinSize:       fn.Evaluate(minZoom),
			MaxSize:       fn.Evaluate(maxZoom),
			Interpolation: interpolation,
		}
	case propertyValueKindSource, propertyValueKindExpression:
		return ownmap.SizeData{Kind: ownmap.SizeFunctionTypeSource}
	default:
		return ownmap.SizeData{Kind: ownmap.SizeFunctionTypeConstant, LayoutSize: defaultSize}
	}
}
