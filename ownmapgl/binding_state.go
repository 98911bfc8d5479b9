package ownmapgl

import "github.com/gogpu/gputypes"

// BindingState tracks what is currently bound on the context, so that binding the same texture
// twice in a row does not reach the GPU. It is owned by one frame at a time.
type BindingState struct {
	ctx           Context
	activeTexture int
	texture       Texture
	filter        gputypes.FilterMode
	wrap          gputypes.AddressMode
	program       Program
}

func NewBindingState(ctx Context) *BindingState {
	return &BindingState{ctx: ctx, activeTexture: -1}
}

func (bs *BindingState) SetActiveTexture(unit int) {
	if bs.activeTexture == unit {
		return
	}
	bs.ctx.SetActiveTexture(unit)
	bs.activeTexture = unit

	// the texture bound on another unit says nothing about this one
	bs.texture = nil
}

// BindTexture binds texture on the active unit and reports whether a bind was issued.
func (bs *BindingState) BindTexture(texture Texture, filter gputypes.FilterMode, wrap gputypes.AddressMode) bool {
	if bs.texture == texture && bs.filter == filter && bs.wrap == wrap {
		return false
	}

	texture.Bind(filter, wrap)
	bs.texture = texture
	bs.filter = filter
	bs.wrap = wrap

	return true
}

func (bs *BindingState) UseProgram(program Program) {
	bs.program = program
}

func (bs *BindingState) Program() Program {
	return bs.program
}

// Invalidate forgets everything, forcing the next binds through to the context.
// Call it when something outside the renderer may have touched GPU state.
func (bs *BindingState) Invalidate() {
	bs.activeTexture = -1
	bs.texture = nil
	bs.program = nil
}
