package ownmaprenderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-labels/ownmap"
	"github.com/jamesrr39/ownmap-labels/ownmapgl"
	"github.com/jamesrr39/ownmap-labels/styling"
)

type RenderPass string

const (
	RenderPassOffscreen   RenderPass = "offscreen"
	RenderPassOpaque      RenderPass = "opaque"
	RenderPassTranslucent RenderPass = "translucent"
)

const (
	numSublayers = 3
	depthEpsilon = 1.0 / (1 << 16)
)

// PainterOptions describe the camera motion of the frame being drawn.
type PainterOptions struct {
	Rotating         bool
	Zooming          bool
	DevicePixelRatio float64
}

// LineLabelProjector re-projects the glyphs of line labels for the current camera, writing the
// bucket's dynamic vertex buffer.
type LineLabelProjector interface {
	UpdateLineLabels(
		bucket *ownmap.SymbolBucket,
		posMatrix mgl32.Mat4,
		painter *Painter,
		kind ownmap.LabelKind,
		labelPlaneMatrix mgl32.Mat4,
		glCoordMatrix mgl32.Mat4,
		pitchWithMap bool,
		keepUpright bool,
	)
}

// Painter holds the state shared by everything drawn in one frame.
type Painter struct {
	Context    ownmapgl.Context
	Bindings   *ownmapgl.BindingState
	Programs   *ownmapgl.ProgramCache
	Transform  *ownmap.Transform
	RenderPass RenderPass
	Options    PainterOptions
	LineLabels LineLabelProjector
	Logger     *logpkg.Logger

	// CurrentLayer is the index of the style layer being drawn
	CurrentLayer int
	// OpaquePassCutoff is the index of the first layer that isn't drawn in the opaque pass
	OpaquePassCutoff int
}

func NewPainter(logger *logpkg.Logger, ctx ownmapgl.Context, programFactory ownmapgl.ProgramFactory, transform *ownmap.Transform, options PainterOptions) *Painter {
	if options.DevicePixelRatio == 0 {
		options.DevicePixelRatio = 1
	}

	return &Painter{
		Context:    ctx,
		Bindings:   ownmapgl.NewBindingState(ctx),
		Programs:   ownmapgl.NewProgramCache(programFactory),
		Transform:  transform,
		RenderPass: RenderPassTranslucent,
		Options:    options,
		LineLabels: NewAnchorLineLabelProjector(),
		Logger:     logger,
	}
}

func (p *Painter) UseProgram(name ownmapgl.ProgramName, config *ownmapgl.ProgramConfiguration) (ownmapgl.Program, errorsx.Error) {
	program, err := p.Programs.Get(name, config)
	if err != nil {
		return nil, err
	}

	p.Bindings.UseProgram(program)

	return program, nil
}

func (p *Painter) ColorModeForRenderPass() ownmapgl.ColorMode {
	if p.RenderPass == RenderPassTranslucent {
		return ownmapgl.ColorModeAlphaBlended()
	}
	return ownmapgl.ColorModeUnblended
}

// DepthModeForSublayer gives every layer (and each of its sublayers) its own depth value, so
// layers drawn in the opaque pass can occlude the ones below.
func (p *Painter) DepthModeForSublayer(n int, mask ownmapgl.DepthMask) ownmapgl.DepthMode {
	if p.CurrentLayer >= p.OpaquePassCutoff {
		return ownmapgl.DepthModeDisabled
	}

	depth := 1 - float64((1+p.CurrentLayer)*numSublayers+n)*depthEpsilon
	return ownmapgl.DepthMode{
		Func:  gputypes.CompareFunctionLessEqual,
		Mask:  mask,
		Range: [2]float64{depth, depth},
	}
}

// TranslatePosMatrix offsets matrix by translate pixels. With anchor "viewport" the offset is
// along the screen axes, with "map" along the map axes. inViewportPixelUnits is set for matrices
// that already work in screen pixels rather than tile units.
func (p *Painter) TranslatePosMatrix(
	matrix mgl32.Mat4,
	tileID *ownmap.OverscaledTileID,
	translate [2]float64,
	anchor styling.TranslateAnchor,
	inViewportPixelUnits bool,
) mgl32.Mat4 {
	if translate[0] == 0 && translate[1] == 0 {
		return matrix
	}

	var angle float64
	if inViewportPixelUnits {
		if anchor == styling.TranslateAnchorMap {
			angle = p.Transform.Angle
		}
	} else if anchor == styling.TranslateAnchorViewport {
		angle = -p.Transform.Angle
	}

	if angle != 0 {
		sinA, cosA := math.Sincos(angle)
		translate = [2]float64{
			translate[0]*cosA - translate[1]*sinA,
			translate[0]*sinA + translate[1]*cosA,
		}
	}

	x, y := translate[0], translate[1]
	if !inViewportPixelUnits {
		x = ownmap.PixelsToTileUnits(tileID, x, p.Transform.Zoom)
		y = ownmap.PixelsToTileUnits(tileID, y, p.Transform.Zoom)
	}

	return matrix.Mul4(mgl32.Translate3D(float32(x), float32(y), 0))
}
