package ownmapgl

// VertexArray is CPU-side vertex data waiting to be uploaded.
type VertexArray interface {
	Length() int
}

// IndexArray is CPU-side triangle index data waiting to be uploaded.
type IndexArray interface {
	Length() int
}

type VertexBuffer interface {
	Length() int
	// UpdateData replaces the buffer contents. Only valid for buffers created as dynamic.
	UpdateData(array VertexArray)
}

type IndexBuffer interface {
	Length() int
}

// Segment is a contiguous range of a vertex/index buffer pair that can be drawn with one call.
type Segment struct {
	VertexOffset    int
	PrimitiveOffset int
	VertexLength    int
	PrimitiveLength int
	// SortKey is the draw priority of the features in this segment. Nil means the segment is
	// drawn in iteration order.
	SortKey *float64
}

// SortKeyOrZero returns the sort key, with segments that have none sorting as 0.
func (s *Segment) SortKeyOrZero() float64 {
	if s.SortKey == nil {
		return 0
	}
	return *s.SortKey
}

type SegmentVector []*Segment

func NewSegmentVector(segments ...*Segment) SegmentVector {
	return SegmentVector(segments)
}

func (sv SegmentVector) Get() []*Segment {
	return sv
}
