package styling

import (
	"image/color"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmap"
)

type SymbolPlacement string

const (
	SymbolPlacementPoint      SymbolPlacement = "point"
	SymbolPlacementLine       SymbolPlacement = "line"
	SymbolPlacementLineCenter SymbolPlacement = "line-center"
)

type Alignment string

const (
	AlignmentMap      Alignment = "map"
	AlignmentViewport Alignment = "viewport"
	AlignmentAuto     Alignment = "auto"
)

type TranslateAnchor string

const (
	TranslateAnchorMap      TranslateAnchor = "map"
	TranslateAnchorViewport TranslateAnchor = "viewport"
)

// SymbolProperties are the layout and paint properties of one label kind (icon-* or text-*).
type SymbolProperties struct {
	Opacity           PropertyValue
	Size              PropertyValue
	HaloWidth         PropertyValue
	Color             color.Color
	HaloColor         color.Color
	Translate         [2]float64
	TranslateAnchor   TranslateAnchor
	RotationAlignment Alignment
	PitchAlignment    Alignment
	KeepUpright       bool
}

// FeatureFilter decides whether a feature is part of a layer.
type FeatureFilter interface {
	Matches(geometryType string, properties map[string]interface{}) bool
}

type SymbolLayer struct {
	ID      string
	MinZoom ownmap.ZoomLevel
	MaxZoom ownmap.ZoomLevel
	// Filter is nil for layers showing every feature
	Filter    FeatureFilter
	Placement SymbolPlacement
	SortKey   PropertyValue
	// TextField and IconImage may reference feature properties, e.g. "{name}"
	TextField string
	IconImage string
	Icon      SymbolProperties
	Text      SymbolProperties
}

const (
	DefaultTextSize = 16
	DefaultIconSize = 1
)

// NewSymbolLayer creates a layer with every property at its default.
func NewSymbolLayer(id string) *SymbolLayer {
	return &SymbolLayer{
		ID:        id,
		MinZoom:   ownmap.MinZoomLevel,
		MaxZoom:   ownmap.MaxZoomLevel,
		Placement: SymbolPlacementPoint,
		Icon: SymbolProperties{
			Opacity:           ConstantValue(1),
			Size:              ConstantValue(DefaultIconSize),
			HaloWidth:         ConstantValue(0),
			Color:             color.Black,
			HaloColor:         color.Transparent,
			TranslateAnchor:   TranslateAnchorMap,
			RotationAlignment: AlignmentAuto,
			PitchAlignment:    AlignmentAuto,
		},
		Text: SymbolProperties{
			Opacity:           ConstantValue(1),
			Size:              ConstantValue(DefaultTextSize),
			HaloWidth:         ConstantValue(0),
			Color:             color.Black,
			HaloColor:         color.Transparent,
			TranslateAnchor:   TranslateAnchorMap,
			RotationAlignment: AlignmentAuto,
			PitchAlignment:    AlignmentAuto,
			KeepUpright:       true,
		},
	}
}

func (l *SymbolLayer) Validate() errorsx.Error {
	if l.ID == "" {
		return errorsx.Errorf("symbol layer has no ID")
	}

	if l.MaxZoom < l.MinZoom {
		return errorsx.Errorf("max zoom is smaller than min zoom")
	}

	switch l.Placement {
	case SymbolPlacementPoint, SymbolPlacementLine, SymbolPlacementLineCenter:
	default:
		return errorsx.Errorf("unknown symbol-placement: %q", l.Placement)
	}

	for _, kind := range ownmap.LabelKinds {
		props := l.Properties(kind)
		for _, alignment := range []Alignment{props.RotationAlignment, props.PitchAlignment} {
			switch alignment {
			case AlignmentMap, AlignmentViewport, AlignmentAuto, "":
			default:
				return errorsx.Errorf("unknown %s alignment: %q", kind, alignment)
			}
		}
		switch props.TranslateAnchor {
		case TranslateAnchorMap, TranslateAnchorViewport, "":
		default:
			return errorsx.Errorf("unknown %s-translate-anchor: %q", kind, props.TranslateAnchor)
		}
	}

	return nil
}

// IsFeatureShown reports whether a feature with the given geometry type ("Point", "LineString" or
// "Polygon") passes the layer's filter.
func (l *SymbolLayer) IsFeatureShown(geometryType string, properties map[string]interface{}) bool {
	if l.Filter == nil {
		return true
	}
	return l.Filter.Matches(geometryType, properties)
}

func (l *SymbolLayer) IsVisibleAtZoom(zoomLevel ownmap.ZoomLevel) bool {
	return zoomLevel >= l.MinZoom && zoomLevel < l.MaxZoom
}

func (l *SymbolLayer) Properties(kind ownmap.LabelKind) *SymbolProperties {
	if kind == ownmap.LabelKindText {
		return &l.Text
	}
	return &l.Icon
}

// RotationAlignment resolves "auto": labels along lines rotate with the map, point labels stay
// aligned to the viewport.
func (l *SymbolLayer) RotationAlignment(kind ownmap.LabelKind) Alignment {
	alignment := l.Properties(kind).RotationAlignment
	if alignment != AlignmentAuto && alignment != "" {
		return alignment
	}

	if l.Placement != SymbolPlacementPoint {
		return AlignmentMap
	}
	return AlignmentViewport
}

// PitchAlignment resolves "auto" to the kind's rotation alignment.
func (l *SymbolLayer) PitchAlignment(kind ownmap.LabelKind) Alignment {
	alignment := l.Properties(kind).PitchAlignment
	if alignment != AlignmentAuto && alignment != "" {
		return alignment
	}

	return l.RotationAlignment(kind)
}

// HasHalo is true when a halo is configured for kind. A data-driven halo width counts as a halo.
func (l *SymbolLayer) HasHalo(kind ownmap.LabelKind) bool {
	return l.Properties(kind).HaloWidth.ConstantOr(1) != 0
}

// SortsFeaturesByKey is true when the layer declares symbol-sort-key, in which case labels are
// drawn in key order across all tiles.
func (l *SymbolLayer) SortsFeaturesByKey() bool {
	return l.SortKey.IsSet()
}
