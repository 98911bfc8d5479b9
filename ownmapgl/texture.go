package ownmapgl

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Texture is an uploaded image (for example a glyph or icon atlas).
type Texture interface {
	Size() [2]int
	Bind(filter gputypes.FilterMode, wrap gputypes.AddressMode)
}

// TextureFactory uploads images as textures.
type TextureFactory interface {
	CreateTexture(name string, img image.Image) Texture
}
