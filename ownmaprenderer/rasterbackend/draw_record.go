package rasterbackend

// DrawRecord describes one draw call, for the draw log of a frame.
type DrawRecord struct {
	Program  string    `json:"program"`
	LayerID  string    `json:"layerId"`
	Texture  string    `json:"texture"`
	Filter   string    `json:"filter"`
	IsHalo   *bool     `json:"isHalo,omitempty"`
	SortKeys []float64 `json:"sortKeys"`
	// Quads is the number of quads that reached the image
	Quads int `json:"quads"`
}
