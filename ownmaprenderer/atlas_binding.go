package ownmaprenderer

import (
	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/ownmap-labels/ownmap"
)

// SelectAtlasFilter chooses how the atlas is sampled for one tile this frame.
// Glyphs are always smoothed. Icons are only sampled with nearest filtering when they are drawn
// pixel for pixel: not SDF, not scaled, camera still and flat.
func SelectAtlasFilter(kind ownmap.LabelKind, isSDF, rotating, zooming, iconNeedsLinear, transformed bool) gputypes.FilterMode {
	if kind == ownmap.LabelKindText {
		return gputypes.FilterModeLinear
	}

	if isSDF || rotating || zooming || iconNeedsLinear || transformed {
		return gputypes.FilterModeLinear
	}

	return gputypes.FilterModeNearest
}
