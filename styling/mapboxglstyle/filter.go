package mapboxglstyle

import (
	"encoding/json"

	"github.com/jamesrr39/goutil/errorsx"
)

const (
	FilterOperatorEquals       = "=="
	FilterOperatorNotEqual     = "!="
	FilterOperatorAny          = "any"
	FilterOperatorAll          = "all"
	FilterOperatorNone         = "none"
	FilterOperatorIn           = "in"
	FilterOperatorNotIn        = "!in"
	FilterOperatorHas          = "has"
	FilterOperatorNotHas       = "!has"
	FilterOperatorLess         = "<"
	FilterOperatorLessEqual    = "<="
	FilterOperatorGreater      = ">"
	FilterOperatorGreaterEqual = ">="
)

const (
	FilterThingType           = "$type"
	FilterThingTypePoint      = "Point"
	FilterThingTypeLineString = "LineString"
	FilterThingTypePolygon    = "Polygon"
)

/*
	"filter": ["==", "$type", "Point"],

	"filter": ["all",["==","$type","Point"],["in","class","city","town","village"]]
*/

// Filter is a legacy layer filter. It is validated when it is parsed, so matching never fails.
type Filter struct {
	expression []interface{}
}

func (f *Filter) UnmarshalJSON(data []byte) error {
	var expression []interface{}
	err := json.Unmarshal(data, &expression)
	if err != nil {
		return errorsx.Wrap(err)
	}

	err = validateFilter(expression)
	if err != nil {
		return errorsx.Wrap(err)
	}

	f.expression = expression
	return nil
}

func validateFilter(expression []interface{}) errorsx.Error {
	if len(expression) == 0 {
		return errorsx.Errorf("empty filter")
	}

	operator, ok := expression[0].(string)
	if !ok {
		return errorsx.Errorf("filter operator should be a string, but was %T", expression[0])
	}

	switch operator {
	case FilterOperatorAll, FilterOperatorAny, FilterOperatorNone:
		for _, subFilterComponent := range expression[1:] {
			subFilter, ok := subFilterComponent.([]interface{})
			if !ok {
				return errorsx.Errorf("%q filter components should be filters, but found %T", operator, subFilterComponent)
			}
			err := validateFilter(subFilter)
			if err != nil {
				return err
			}
		}
		return nil
	case FilterOperatorEquals, FilterOperatorNotEqual,
		FilterOperatorLess, FilterOperatorLessEqual, FilterOperatorGreater, FilterOperatorGreaterEqual:
		if len(expression) != 3 {
			return errorsx.Errorf("%q filter should have 3 items, but had %d", operator, len(expression))
		}
	case FilterOperatorIn, FilterOperatorNotIn:
		if len(expression) < 2 {
			return errorsx.Errorf("%q filter should have a key", operator)
		}
	case FilterOperatorHas, FilterOperatorNotHas:
		if len(expression) != 2 {
			return errorsx.Errorf("%q filter should have 2 items, but had %d", operator, len(expression))
		}
	default:
		return errorsx.Errorf("filter operator not implemented: %q", operator)
	}

	_, ok = expression[1].(string)
	if !ok {
		return errorsx.Errorf("%q filter key should be a string, but was %T", operator, expression[1])
	}

	return nil
}

// Matches implements styling.FeatureFilter.
func (f *Filter) Matches(geometryType string, properties map[string]interface{}) bool {
	if f == nil || f.expression == nil {
		return true
	}

	return isObjectShown(f.expression, geometryType, properties)
}

func filterValue(key, geometryType string, properties map[string]interface{}) (interface{}, bool) {
	if key == FilterThingType {
		return geometryType, true
	}
	value, ok := properties[key]
	return value, ok
}

func isIn(base []interface{}, geometryType string, properties map[string]interface{}) bool {
	value, ok := filterValue(base[1].(string), geometryType, properties)
	if !ok {
		return false
	}

	for _, candidate := range base[2:] {
		if filterValuesEqual(value, candidate) {
			return true
		}
	}
	return false
}

func filterValuesEqual(a, b interface{}) bool {
	aNumber, aIsNumber := a.(float64)
	bNumber, bIsNumber := b.(float64)
	if aIsNumber || bIsNumber {
		return aIsNumber && bIsNumber && aNumber == bNumber
	}

	return a == b
}

func compareFilterValues(operator string, a, b interface{}) bool {
	var cmp int
	switch aValue := a.(type) {
	case float64:
		bValue, ok := b.(float64)
		if !ok {
			return false
		}
		switch {
		case aValue < bValue:
			cmp = -1
		case aValue > bValue:
			cmp = 1
		}
	case string:
		bValue, ok := b.(string)
		if !ok {
			return false
		}
		switch {
		case aValue < bValue:
			cmp = -1
		case aValue > bValue:
			cmp = 1
		}
	default:
		return false
	}

	switch operator {
	case FilterOperatorLess:
		return cmp < 0
	case FilterOperatorLessEqual:
		return cmp <= 0
	case FilterOperatorGreater:
		return cmp > 0
	default:
		return cmp >= 0
	}
}

func isObjectShown(base []interface{}, geometryType string, properties map[string]interface{}) bool {
	operator := base[0].(string)
	switch operator {
	case FilterOperatorEquals:
		value, ok := filterValue(base[1].(string), geometryType, properties)
		return ok && filterValuesEqual(value, base[2])
	case FilterOperatorNotEqual:
		value, ok := filterValue(base[1].(string), geometryType, properties)
		return !ok || !filterValuesEqual(value, base[2])
	case FilterOperatorIn:
		return isIn(base, geometryType, properties)
	case FilterOperatorNotIn:
		return !isIn(base, geometryType, properties)
	case FilterOperatorHas:
		_, ok := filterValue(base[1].(string), geometryType, properties)
		return ok
	case FilterOperatorNotHas:
		_, ok := filterValue(base[1].(string), geometryType, properties)
		return !ok
	case FilterOperatorLess, FilterOperatorLessEqual, FilterOperatorGreater, FilterOperatorGreaterEqual:
		value, ok := filterValue(base[1].(string), geometryType, properties)
		return ok && compareFilterValues(operator, value, base[2])
	case FilterOperatorAny:
		for _, subFilterComponent := range base[1:] {
			shown := isObjectShown(subFilterComponent.([]interface{}), geometryType, properties)
			if shown {
				return true
			}
		}
		return false
	case FilterOperatorAll:
		for _, subFilterComponent := range base[1:] {
			shown := isObjectShown(subFilterComponent.([]interface{}), geometryType, properties)
			if !shown {
				return false
			}
		}
		return true
	case FilterOperatorNone:
		for _, subFilterComponent := range base[1:] {
			shown := isObjectShown(subFilterComponent.([]interface{}), geometryType, properties)
			if shown {
				return false
			}
		}
		return true
	default:
		return false
	}
}
