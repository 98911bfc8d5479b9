package ownmapdal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconAtlasBuilder_Build(t *testing.T) {
	builder := NewIconAtlasBuilder()
	names := []string{"cafe", "museum", "bus", "cafe", "park", "fuel", "bank", "pharmacy", "school", "zoo"}
	for _, name := range names {
		builder.AddIcon(name)
	}

	atlas := builder.Build()
	require.Len(t, atlas.Icons, 9)

	// two rows of eight columns
	assert.Equal(t, 8*(IconSize+1)+1, atlas.Image.Bounds().Dx())
	assert.Equal(t, 2*(IconSize+1)+1, atlas.Image.Bounds().Dy())

	seen := make(map[string]string)
	for name, rect := range atlas.Icons {
		assert.Equal(t, IconSize, rect.Dx())
		assert.Equal(t, IconSize, rect.Dy())
		assert.True(t, rect.In(atlas.Image.Bounds()))

		key := rect.String()
		other, ok := seen[key]
		assert.False(t, ok, "%s and %s share %s", name, other, key)
		seen[key] = name

		center := atlas.Image.RGBAAt(rect.Min.X+IconSize/2, rect.Min.Y+IconSize/2)
		assert.Equal(t, iconColor(name), center, name)

		corner := atlas.Image.RGBAAt(rect.Min.X, rect.Min.Y)
		assert.Equal(t, uint8(0), corner.A, name)
	}
}

func Test_iconColor(t *testing.T) {
	assert.Equal(t, iconColor("cafe"), iconColor("cafe"))
	assert.NotEqual(t, iconColor("cafe"), iconColor("museum"))

	c := iconColor("park")
	assert.Equal(t, uint8(0xff), c.A)
	for _, level := range []uint8{c.R, c.G, c.B} {
		assert.GreaterOrEqual(t, level, uint8(iconColorMinLevel))
		assert.Less(t, level, uint8(0xc0))
	}
}
