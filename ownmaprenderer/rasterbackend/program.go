package rasterbackend

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ProgramFactory creates programs drawing on a *Context. Both symbol programs are supported.
func ProgramFactory() ownmapgl.ProgramFactory {
	return func(name ownmapgl.ProgramName, config *ownmapgl.ProgramConfiguration) (ownmapgl.Program, errorsx.Error) {
		switch name {
		case ownmapgl.ProgramSymbolIcon, ownmapgl.ProgramSymbolSDF:
			return &Program{name}, nil
		default:
			return nil, errorsx.Errorf("rasterbackend: unknown program %q", name)
		}
	}
}

// Program draws label quads the way the symbol shaders place them: every quad is scaled around
// its projected anchor, then sampled from the bound atlas.
// The glyph atlas holds coverage rather than distances, so halos are drawn by dilating the
// glyph coverage by the halo width.
type Program struct {
	name ownmapgl.ProgramName
}

func (p *Program) Draw(glCtx ownmapgl.Context, call *ownmapgl.DrawCall) errorsx.Error {
	ctx, ok := glCtx.(*Context)
	if !ok {
		return errorsx.Errorf("rasterbackend: program used with context of type %T", glCtx)
	}

	layoutBuffer, ok := call.LayoutVertexBuffer.(*VertexBuffer)
	if !ok {
		return errorsx.Errorf("rasterbackend: layout vertex buffer of type %T", call.LayoutVertexBuffer)
	}

	indexBuffer, ok := call.IndexBuffer.(*IndexBuffer)
	if !ok {
		return errorsx.Errorf("rasterbackend: index buffer of type %T", call.IndexBuffer)
	}

	bound := ctx.boundTexture()
	if bound.texture == nil {
		return errorsx.Errorf("rasterbackend: no texture bound on unit %d", ctx.activeTexture)
	}

	uniforms := readUniforms(call.Uniforms)
	paint := newPaintValues(call.ProgramConfiguration)

	var dynamicLayout ownmap.SymbolDynamicLayoutArray
	if dynamicBuffer, ok := call.DynamicLayoutVertexBuffer.(*VertexBuffer); ok && uniforms.labelPlaneMatrix == mgl32.Ident4() {
		// the label plane is the identity only for labels placed along lines
		dynamicLayout = dynamicBuffer.dynamicLayout
	}

	record := &DrawRecord{
		Program: string(p.name),
		LayerID: call.LayerID,
		Texture: bound.texture.name,
		Filter:  filterName(bound.filter),
	}
	if uniforms.hasHaloFlag {
		isHalo := uniforms.isHalo
		record.IsHalo = &isHalo
	}

	interpolator := interpolatorForFilter(bound.filter)

	for _, segment := range call.Segments.Get() {
		record.SortKeys = append(record.SortKeys, segment.SortKeyOrZero())

		// every quad is two triangles over four consecutive vertices: tl, tr, bl, br
		for i := 0; i+1 < segment.PrimitiveLength; i += 2 {
			triangleIndex := segment.PrimitiveOffset + i
			if triangleIndex >= len(indexBuffer.triangles) {
				return errorsx.Errorf("rasterbackend: triangle %d out of range (%d triangles)", triangleIndex, len(indexBuffer.triangles))
			}

			base := segment.VertexOffset + int(indexBuffer.triangles[triangleIndex][0])
			if base+3 >= len(layoutBuffer.layout) {
				return errorsx.Errorf("rasterbackend: vertex %d out of range (%d vertices)", base+3, len(layoutBuffer.layout))
			}

			var lineAngle *float64
			if base < len(dynamicLayout) {
				angle := -float64(dynamicLayout[base].Angle)
				lineAngle = &angle
			}

			q := quad{
				topLeft:     layoutBuffer.layout[base],
				bottomRight: layoutBuffer.layout[base+3],
				lineAngle:   lineAngle,
			}

			drawn := p.drawQuad(ctx, bound.texture, interpolator, uniforms, paint, q)
			if drawn {
				record.Quads++
			}
		}
	}

	ctx.draws = append(ctx.draws, record)

	return nil
}

type quad struct {
	topLeft, bottomRight ownmap.SymbolLayoutVertex
	// lineAngle is set for labels along lines, and is the screen angle in radians
	lineAngle *float64
}

// drawQuad reports whether any of the quad was on screen.
func (p *Program) drawQuad(ctx *Context, texture *Texture, interpolator draw.Interpolator, uniforms symbolUniforms, paint paintValues, q quad) bool {
	width, height := float64(ctx.img.Bounds().Dx()), float64(ctx.img.Bounds().Dy())

	anchorX, anchorY, w, ok := projectToScreen(uniforms.matrix, float64(q.topLeft.AnchorX), float64(q.topLeft.AnchorY), width, height)
	if !ok {
		// behind the camera
		return false
	}

	var distanceRatio float64
	if uniforms.pitchWithMap {
		distanceRatio = w / uniforms.cameraToCenterDistance
	} else {
		distanceRatio = uniforms.cameraToCenterDistance / w
	}
	perspectiveRatio := math.Max(0, math.Min(4, 0.5+0.5*distanceRatio))

	scale := uniforms.symbolScale() * perspectiveRatio

	var angle float64
	switch {
	case q.lineAngle != nil:
		angle = *q.lineAngle
	case uniforms.rotateSymbol:
		const probe = 64
		x, y, _, ok := projectToScreen(uniforms.matrix, float64(q.topLeft.AnchorX)+probe, float64(q.topLeft.AnchorY), width, height)
		if ok {
			angle = math.Atan2(y-anchorY, x-anchorX)
		}
	}

	srcRect := image.Rect(int(q.topLeft.TexX), int(q.topLeft.TexY), int(q.bottomRight.TexX), int(q.bottomRight.TexY))
	if srcRect.Empty() {
		return false
	}

	s2d := quadTransform(q, srcRect, scale, angle, anchorX, anchorY)

	if p.name == ownmapgl.ProgramSymbolIcon {
		var options *draw.Options
		if paint.opacity < 1 {
			options = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(math.Round(paint.opacity * 0xff))})}
		}
		interpolator.Transform(ctx.img, s2d, texture.img, srcRect, draw.Over, options)
		return true
	}

	haloRadius := 0
	if uniforms.isHalo {
		haloRadius = int(math.Round(paint.haloWidth))
		if haloRadius <= 0 {
			return false
		}
	}

	box := transformedBounds(s2d, srcRect).Inset(-haloRadius - 1).Intersect(ctx.img.Bounds())
	if box.Empty() {
		return false
	}

	mask := image.NewAlpha(box)
	interpolator.Transform(mask, s2d, texture.img, srcRect, draw.Src, nil)

	fillColor := paint.color
	if uniforms.isHalo {
		mask = dilate(mask, haloRadius)
		fillColor = paint.haloColor
	}
	scaleAlpha(mask, paint.opacity)

	draw.DrawMask(ctx.img, box, image.NewUniform(fillColor), image.Point{}, mask, box.Min, draw.Over)

	return true
}

// projectToScreen projects a point in tile units into image pixels, with y going down.
func projectToScreen(matrix mgl32.Mat4, x, y, width, height float64) (screenX, screenY, w float64, ok bool) {
	projected := matrix.Mul4x1(mgl32.Vec4{float32(x), float32(y), 0, 1})
	w = float64(projected[3])
	if w <= 0 {
		return 0, 0, 0, false
	}

	ndcX := float64(projected[0]) / w
	ndcY := float64(projected[1]) / w

	return (ndcX + 1) / 2 * width, (1 - ndcY) / 2 * height, w, true
}

// quadTransform maps the atlas region of q onto the screen: scaled and rotated around the anchor.
func quadTransform(q quad, srcRect image.Rectangle, scale, angle, anchorX, anchorY float64) f64.Aff3 {
	scaleX := float64(q.bottomRight.OffsetX-q.topLeft.OffsetX) / float64(srcRect.Dx()) * scale
	scaleY := float64(q.bottomRight.OffsetY-q.topLeft.OffsetY) / float64(srcRect.Dy()) * scale

	offsetX := float64(q.topLeft.OffsetX)*scale - float64(srcRect.Min.X)*scaleX
	offsetY := float64(q.topLeft.OffsetY)*scale - float64(srcRect.Min.Y)*scaleY

	sin, cos := math.Sincos(angle)

	return f64.Aff3{
		cos * scaleX, -sin * scaleY, anchorX + cos*offsetX - sin*offsetY,
		sin * scaleX, cos * scaleY, anchorY + sin*offsetX + cos*offsetY,
	}
}

func transformedBounds(s2d f64.Aff3, r image.Rectangle) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, corner := range []image.Point{r.Min, {r.Max.X, r.Min.Y}, {r.Min.X, r.Max.Y}, r.Max} {
		x := s2d[0]*float64(corner.X) + s2d[1]*float64(corner.Y) + s2d[2]
		y := s2d[3]*float64(corner.X) + s2d[4]*float64(corner.Y) + s2d[5]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

func interpolatorForFilter(filter gputypes.FilterMode) draw.Interpolator {
	if filter == gputypes.FilterModeNearest {
		return draw.NearestNeighbor
	}
	return draw.BiLinear
}

func filterName(filter gputypes.FilterMode) string {
	if filter == gputypes.FilterModeNearest {
		return "nearest"
	}
	return "linear"
}

type paintValues struct {
	color     color.Color
	haloColor color.Color
	haloWidth float64
	opacity   float64
}

func newPaintValues(config *ownmapgl.ProgramConfiguration) paintValues {
	values := paintValues{
		color:     color.Black,
		haloColor: color.Transparent,
		opacity:   1,
	}
	if config == nil {
		return values
	}

	if config.Color != nil {
		values.color = config.Color
	}
	if config.HaloColor != nil {
		values.haloColor = config.HaloColor
	}
	values.haloWidth = config.HaloWidth
	values.opacity = math.Max(0, math.Min(1, config.Opacity))

	return values
}
