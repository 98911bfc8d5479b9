package rasterbackend

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
)

// maxTextureUnits matches the minimum guaranteed by WebGL.
const maxTextureUnits = 8

// Context draws into an in-memory image. Like a GPU context it isn't safe for concurrent use.
type Context struct {
	img           *image.RGBA
	activeTexture int
	bound         [maxTextureUnits]boundTexture
	draws         []*DrawRecord
}

type boundTexture struct {
	texture *Texture
	filter  gputypes.FilterMode
}

func NewContext(size image.Rectangle, background color.Color) *Context {
	return &Context{
		img: NewImageWithBackground(size, background),
	}
}

func NewImageWithBackground(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(r)

	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	return img
}

func (c *Context) Image() *image.RGBA {
	return c.img
}

// Draws lists every draw call issued so far, in order.
func (c *Context) Draws() []*DrawRecord {
	return c.draws
}

// SetActiveTexture panics for a unit outside [0, maxTextureUnits), like a GL_INVALID_ENUM.
func (c *Context) SetActiveTexture(unit int) {
	if unit < 0 || unit >= maxTextureUnits {
		panic(fmt.Sprintf("rasterbackend: texture unit %d out of range [0, %d)", unit, maxTextureUnits))
	}
	c.activeTexture = unit
}

func (c *Context) boundTexture() boundTexture {
	return c.bound[c.activeTexture]
}

func (c *Context) CreateVertexBuffer(array ownmapgl.VertexArray, dynamic bool) ownmapgl.VertexBuffer {
	vb := &VertexBuffer{dynamic: dynamic}
	vb.setData(array)
	return vb
}

func (c *Context) CreateIndexBuffer(array ownmapgl.IndexArray) ownmapgl.IndexBuffer {
	ib := &IndexBuffer{length: array.Length()}
	if triangles, ok := array.(ownmap.TriangleIndexArray); ok {
		ib.triangles = append(ownmap.TriangleIndexArray(nil), triangles...)
	}
	return ib
}

func (c *Context) CreateTexture(name string, img image.Image) ownmapgl.Texture {
	return &Texture{name: name, img: img, ctx: c}
}

// VertexBuffer keeps a copy of the vertices it was last given.
type VertexBuffer struct {
	dynamic       bool
	length        int
	layout        ownmap.SymbolLayoutArray
	dynamicLayout ownmap.SymbolDynamicLayoutArray
}

func (vb *VertexBuffer) Length() int {
	return vb.length
}

func (vb *VertexBuffer) UpdateData(array ownmapgl.VertexArray) {
	if !vb.dynamic {
		panic("rasterbackend: UpdateData called on a static vertex buffer")
	}
	vb.setData(array)
}

func (vb *VertexBuffer) setData(array ownmapgl.VertexArray) {
	vb.length = array.Length()
	switch vertices := array.(type) {
	case ownmap.SymbolLayoutArray:
		vb.layout = append(ownmap.SymbolLayoutArray(nil), vertices...)
	case ownmap.SymbolDynamicLayoutArray:
		vb.dynamicLayout = append(ownmap.SymbolDynamicLayoutArray(nil), vertices...)
	}
}

type IndexBuffer struct {
	length    int
	triangles ownmap.TriangleIndexArray
}

func (ib *IndexBuffer) Length() int {
	return ib.length
}

type Texture struct {
	name string
	img  image.Image
	ctx  *Context
}

func (t *Texture) Name() string {
	return t.name
}

func (t *Texture) Size() [2]int {
	size := t.img.Bounds().Size()
	return [2]int{size.X, size.Y}
}

// Bind binds the texture on the context's active unit. Sampling outside of the image always
// clamps to the edge, whatever wrap is asked for.
func (t *Texture) Bind(filter gputypes.FilterMode, wrap gputypes.AddressMode) {
	t.ctx.bound[t.ctx.activeTexture] = boundTexture{t, filter}
}
