package mapboxglstyle

type Paint struct {
	BackgroundColor     *ColorOrFunctionWrapperType  `json:"background-color"`
	TextColor           *ColorOrFunctionWrapperType  `json:"text-color"`
	TextOpacity         *NumberOrFunctionWrapperType `json:"text-opacity"`
	TextHaloColor       *ColorOrFunctionWrapperType  `json:"text-halo-color"`
	TextHaloWidth       *NumberOrFunctionWrapperType `json:"text-halo-width"`
	TextTranslate       []float64                    `json:"text-translate"`
	TextTranslateAnchor string                       `json:"text-translate-anchor"`
	IconColor           *ColorOrFunctionWrapperType  `json:"icon-color"`
	IconOpacity         *NumberOrFunctionWrapperType `json:"icon-opacity"`
	IconHaloColor       *ColorOrFunctionWrapperType  `json:"icon-halo-color"`
	IconHaloWidth       *NumberOrFunctionWrapperType `json:"icon-halo-width"`
	IconTranslate       []float64                    `json:"icon-translate"`
	IconTranslateAnchor string                       `json:"icon-translate-anchor"`
}
