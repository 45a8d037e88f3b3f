package renderer

import (
	"image"
	"image/color"

	"github.com/bircni/Raytracing/tracer"
	"github.com/chewxy/math32"
)

const invGamma float32 = 1.0 / 2.2

// ToneMap resolves the accumulated linear radiance into a displayable
// 8-bit image: exponential exposure mapping followed by gamma
// correction. This is the boundary handed to external image writers;
// the framebuffer itself stays linear.
func ToneMap(fb *tracer.Framebuffer, exposure float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(fb.W), int(fb.H)))

	for y := uint32(0); y < fb.H; y++ {
		for x := uint32(0); x < fb.W; x++ {
			c := fb.At(x, y)
			img.SetRGBA(int(x), int(y), color.RGBA{
				R: toneChannel(c[0], exposure),
				G: toneChannel(c[1], exposure),
				B: toneChannel(c[2], exposure),
				A: 0xff,
			})
		}
	}
	return img
}

func toneChannel(v, exposure float32) uint8 {
	if v < 0 {
		v = 0
	}
	mapped := 1.0 - math32.Exp(-v*exposure)
	return uint8(math32.Pow(mapped, invGamma)*255.0 + 0.5)
}
