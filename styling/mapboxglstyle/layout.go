package mapboxglstyle

type Layout struct {
	Visibility            string                       `json:"visibility"`
	SymbolPlacement       string                       `json:"symbol-placement"`
	SymbolSortKey         *NumberOrFunctionWrapperType `json:"symbol-sort-key"`
	SymbolSpacing         float64                      `json:"symbol-spacing"`
	TextField             string                       `json:"text-field"`
	TextFont              []string                     `json:"text-font"`
	TextSize              *NumberOrFunctionWrapperType `json:"text-size"` // float64 or {"base": 1.4, "stops": [[10, 8], [20, 14]]}
	TextLetterSpacing     float64                      `json:"text-letter-spacing"`
	TextRotationAlignment string                       `json:"text-rotation-alignment"`
	TextPitchAlignment    string                       `json:"text-pitch-alignment"`
	TextKeepUpright       *bool                        `json:"text-keep-upright"`
	TextTransform         string                       `json:"text-transform"`
	TextAnchor            string                       `json:"text-anchor"`
	TextMaxWidth          float64                      `json:"text-max-width"`
	TextOffset            []float64                    `json:"text-offset"`
	TextPadding           float64                      `json:"text-padding"`
	IconImage             string                       `json:"icon-image"`
	IconSize              *NumberOrFunctionWrapperType `json:"icon-size"`
	IconRotationAlignment string                       `json:"icon-rotation-alignment"`
	IconPitchAlignment    string                       `json:"icon-pitch-alignment"`
	IconKeepUpright       *bool                        `json:"icon-keep-upright"`
}

const visibilityNone = "none"
