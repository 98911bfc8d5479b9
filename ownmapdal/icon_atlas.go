package ownmapdal

import (
	"hash/fnv"
	"image"
	"image/color"
	"sort"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
)

const (
	// IconSize is the size of every icon in the icon atlas, in pixels
	IconSize          = 16
	iconAtlasColumns  = 8
	iconCellSize      = IconSize + atlasGutter
	iconOutlineWidth  = 2
	iconColorMinLevel = 0x20
)

// IconAtlas holds one generated marker per icon name: a filled circle in a colour derived from
// the name.
type IconAtlas struct {
	Image *image.RGBA
	Icons map[string]image.Rectangle
}

type IconAtlasBuilder struct {
	names map[string]bool
}

func NewIconAtlasBuilder() *IconAtlasBuilder {
	return &IconAtlasBuilder{make(map[string]bool)}
}

func (b *IconAtlasBuilder) AddIcon(name string) {
	b.names[name] = true
}

func (b *IconAtlasBuilder) Build() *IconAtlas {
	var names []string
	for name := range b.names {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := (len(names) + iconAtlasColumns - 1) / iconAtlasColumns
	columns := iconAtlasColumns
	if len(names) < columns {
		columns = len(names)
	}

	img := image.NewRGBA(image.Rect(0, 0, columns*iconCellSize+atlasGutter, rows*iconCellSize+atlasGutter))
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetStrokeColor(color.White)
	gc.SetLineWidth(iconOutlineWidth)

	icons := make(map[string]image.Rectangle)
	for i, name := range names {
		min := image.Pt(atlasGutter+(i%iconAtlasColumns)*iconCellSize, atlasGutter+(i/iconAtlasColumns)*iconCellSize)
		rect := image.Rectangle{Min: min, Max: min.Add(image.Pt(IconSize, IconSize))}

		gc.BeginPath()
		gc.SetFillColor(iconColor(name))
		draw2dkit.Circle(gc, float64(min.X)+IconSize/2, float64(min.Y)+IconSize/2, (IconSize-iconOutlineWidth)/2)
		gc.FillStroke()

		icons[name] = rect
	}

	return &IconAtlas{img, icons}
}

func iconColor(name string) color.RGBA {
	hash := fnv.New32a()
	hash.Write([]byte(name))
	sum := hash.Sum32()

	level := func(b uint32) uint8 {
		return uint8(iconColorMinLevel + b%(0xc0-iconColorMinLevel))
	}

	return color.RGBA{level(sum & 0xff), level((sum >> 8) & 0xff), level((sum >> 16) & 0xff), 0xff}
}
