package testmocks

import (
	"fmt"
	"image"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
)

type EventKind string

const (
	EventKindActiveTexture EventKind = "activeTexture"
	EventKindBindTexture   EventKind = "bindTexture"
	EventKindCreateProgram EventKind = "createProgram"
	EventKindDraw          EventKind = "draw"
)

type Event struct {
	Kind    EventKind
	Unit    int
	Texture string
	Filter  gputypes.FilterMode
	Program string
	Buffer  string
	// SortKeys holds the sort key of each segment in a draw, in order
	SortKeys []float64
	// IsHalo is nil for draws whose uniforms carry no halo flag
	IsHalo   *bool
	Topology gputypes.PrimitiveTopology
	CullMode gputypes.CullMode
	Uniforms ownmapgl.UniformValues
}

// String is a compact description, used for comparing draw sequences in tests.
func (e Event) String() string {
	switch e.Kind {
	case EventKindActiveTexture:
		return fmt.Sprintf("activeTexture(%d)", e.Unit)
	case EventKindBindTexture:
		return fmt.Sprintf("bindTexture(%s, %s)", e.Texture, filterName(e.Filter))
	case EventKindCreateProgram:
		return fmt.Sprintf("createProgram(%s)", e.Program)
	case EventKindDraw:
		pass := "draw"
		if e.IsHalo != nil {
			pass = "fill"
			if *e.IsHalo {
				pass = "halo"
			}
		}
		var keys []string
		for _, key := range e.SortKeys {
			keys = append(keys, fmt.Sprintf("%g", key))
		}
		return fmt.Sprintf("%s(%s, %s, keys=[%s])", pass, e.Program, e.Buffer, strings.Join(keys, ","))
	default:
		return string(e.Kind)
	}
}

func filterName(filter gputypes.FilterMode) string {
	switch filter {
	case gputypes.FilterModeLinear:
		return "linear"
	case gputypes.FilterModeNearest:
		return "nearest"
	default:
		return fmt.Sprintf("filter(%d)", filter)
	}
}

// Recorder is a fake GPU context. Everything asked of it is appended to Events.
type Recorder struct {
	Events []Event
	// DrawErr, when set, is returned from every draw
	DrawErr errorsx.Error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetActiveTexture(unit int) {
	r.Events = append(r.Events, Event{Kind: EventKindActiveTexture, Unit: unit})
}

func (r *Recorder) CreateVertexBuffer(array ownmapgl.VertexArray, dynamic bool) ownmapgl.VertexBuffer {
	return &VertexBuffer{Name: fmt.Sprintf("vertexbuffer-%d", array.Length()), length: array.Length()}
}

func (r *Recorder) CreateIndexBuffer(array ownmapgl.IndexArray) ownmapgl.IndexBuffer {
	return &IndexBuffer{length: array.Length()}
}

func (r *Recorder) NewTexture(name string, width, height int) *Texture {
	return &Texture{Name: name, size: [2]int{width, height}, recorder: r}
}

// CreateTexture creates a texture the size of img. The pixels are not kept.
func (r *Recorder) CreateTexture(name string, img image.Image) ownmapgl.Texture {
	size := img.Bounds().Size()
	return r.NewTexture(name, size.X, size.Y)
}

// ProgramFactory returns a factory creating programs that record their draws here.
func (r *Recorder) ProgramFactory() ownmapgl.ProgramFactory {
	return func(name ownmapgl.ProgramName, config *ownmapgl.ProgramConfiguration) (ownmapgl.Program, errorsx.Error) {
		r.Events = append(r.Events, Event{Kind: EventKindCreateProgram, Program: string(name)})
		return &Program{Name: string(name), recorder: r}, nil
	}
}

// Draws returns only the draw events.
func (r *Recorder) Draws() []Event {
	var draws []Event
	for _, event := range r.Events {
		if event.Kind == EventKindDraw {
			draws = append(draws, event)
		}
	}
	return draws
}

// DrawSequence returns the String form of every draw event, joined by newlines.
func (r *Recorder) DrawSequence() string {
	var lines []string
	for _, event := range r.Draws() {
		lines = append(lines, event.String())
	}
	return strings.Join(lines, "\n")
}

func (r *Recorder) Sequence() string {
	var lines []string
	for _, event := range r.Events {
		lines = append(lines, event.String())
	}
	return strings.Join(lines, "\n")
}

type Texture struct {
	Name     string
	size     [2]int
	recorder *Recorder
}

func (t *Texture) Size() [2]int {
	return t.size
}

func (t *Texture) Bind(filter gputypes.FilterMode, wrap gputypes.AddressMode) {
	t.recorder.Events = append(t.recorder.Events, Event{Kind: EventKindBindTexture, Texture: t.Name, Filter: filter})
}

type VertexBuffer struct {
	Name    string
	length  int
	Updates int
}

func NewVertexBuffer(name string, length int) *VertexBuffer {
	return &VertexBuffer{Name: name, length: length}
}

func (vb *VertexBuffer) Length() int {
	return vb.length
}

func (vb *VertexBuffer) UpdateData(array ownmapgl.VertexArray) {
	vb.length = array.Length()
	vb.Updates++
}

type IndexBuffer struct {
	length int
}

func NewIndexBuffer(length int) *IndexBuffer {
	return &IndexBuffer{length}
}

func (ib *IndexBuffer) Length() int {
	return ib.length
}

type Program struct {
	Name     string
	recorder *Recorder
}

func (p *Program) Draw(ctx ownmapgl.Context, call *ownmapgl.DrawCall) errorsx.Error {
	if p.recorder.DrawErr != nil {
		return p.recorder.DrawErr
	}

	event := Event{
		Kind:     EventKindDraw,
		Program:  p.Name,
		Topology: call.Topology,
		CullMode: call.CullFaceMode.Mode,
		Uniforms: call.Uniforms,
	}

	if vb, ok := call.LayoutVertexBuffer.(*VertexBuffer); ok {
		event.Buffer = vb.Name
	}

	for _, segment := range call.Segments {
		event.SortKeys = append(event.SortKeys, segment.SortKeyOrZero())
	}

	call.Uniforms.Each(func(name string, value interface{}) {
		if name != "u_is_halo" {
			return
		}
		isHalo, ok := value.(bool)
		if ok {
			event.IsHalo = &isHalo
		}
	})

	p.recorder.Events = append(p.recorder.Events, event)

	return nil
}
