package rasterbackend

import (
	"image"
	"math"
)

// dilate grows the covered area of mask by radius pixels in every direction, keeping the
// strongest coverage found within a square of the radius.
func dilate(mask *image.Alpha, radius int) *image.Alpha {
	if radius <= 0 {
		return mask
	}

	bounds := mask.Bounds()

	horizontal := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var max uint8
			for nx := maxInt(bounds.Min.X, x-radius); nx <= minInt(bounds.Max.X-1, x+radius); nx++ {
				if a := mask.AlphaAt(nx, y).A; a > max {
					max = a
				}
			}
			horizontal.Pix[horizontal.PixOffset(x, y)] = max
		}
	}

	dilated := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var max uint8
			for ny := maxInt(bounds.Min.Y, y-radius); ny <= minInt(bounds.Max.Y-1, y+radius); ny++ {
				if a := horizontal.AlphaAt(x, ny).A; a > max {
					max = a
				}
			}
			dilated.Pix[dilated.PixOffset(x, y)] = max
		}
	}

	return dilated
}

// scaleAlpha multiplies every pixel of mask by opacity, in place.
func scaleAlpha(mask *image.Alpha, opacity float64) {
	if opacity >= 1 {
		return
	}

	for i, a := range mask.Pix {
		mask.Pix[i] = uint8(math.Round(float64(a) * opacity))
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
