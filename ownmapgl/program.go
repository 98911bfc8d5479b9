package ownmapgl

import (
	"fmt"
	"image/color"

	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/goutil/errorsx"
)

type ProgramName string

const (
	ProgramSymbolIcon ProgramName = "symbolIcon"
	ProgramSymbolSDF  ProgramName = "symbolSDF"
)

// UniformValues is the set of shader parameters for a single draw call.
type UniformValues interface {
	// Each visits every uniform, always in the same order.
	Each(fn func(name string, value interface{}))
}

// ProgramConfiguration holds the per-layer paint values that are bound as program attributes.
type ProgramConfiguration struct {
	CacheKey  string
	Color     color.Color
	HaloColor color.Color
	HaloWidth float64
	Opacity   float64
}

type DrawCall struct {
	Topology                  gputypes.PrimitiveTopology
	DepthMode                 DepthMode
	StencilMode               StencilMode
	ColorMode                 ColorMode
	CullFaceMode              CullFaceMode
	Uniforms                  UniformValues
	LayerID                   string
	LayoutVertexBuffer        VertexBuffer
	IndexBuffer               IndexBuffer
	Segments                  SegmentVector
	Zoom                      float64
	ProgramConfiguration      *ProgramConfiguration
	DynamicLayoutVertexBuffer VertexBuffer
}

type Program interface {
	Draw(ctx Context, call *DrawCall) errorsx.Error
}

type ProgramFactory func(name ProgramName, config *ProgramConfiguration) (Program, errorsx.Error)

// ProgramCache compiles each (program, configuration) pair once and hands out the cached
// program afterwards.
type ProgramCache struct {
	factory  ProgramFactory
	programs map[string]Program
}

func NewProgramCache(factory ProgramFactory) *ProgramCache {
	return &ProgramCache{factory, make(map[string]Program)}
}

func (pc *ProgramCache) Get(name ProgramName, config *ProgramConfiguration) (Program, errorsx.Error) {
	key := string(name)
	if config != nil {
		key = fmt.Sprintf("%s/%s", name, config.CacheKey)
	}

	program, ok := pc.programs[key]
	if ok {
		return program, nil
	}

	program, err := pc.factory(name, config)
	if err != nil {
		return nil, errorsx.Wrap(err, "program", key)
	}

	pc.programs[key] = program

	return program, nil
}
