package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SampleTexture filters tex bilinearly at uv with wrapping. UV origin is
// the bottom-left corner, so V is flipped against image rows.
func SampleTexture(tex *image.NRGBA, uv mgl32.Vec2) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	fx := wrap(float64(uv[0])) * float64(w-1)
	fy := (1 - wrap(float64(uv[1]))) * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	ch := func(k int) uint8 {
		v := float64(pix[i00+k])*w00 + float64(pix[i10+k])*w10 + float64(pix[i01+k])*w01 + float64(pix[i11+k])*w11
		return uint8(v + 0.5)
	}
	return ch(0), ch(1), ch(2), ch(3)
}

// wrap maps t into [0, 1). Non-finite input maps to 0.
func wrap(t float64) float64 {
	t -= math.Floor(t)
	if !(t >= 0 && t < 1) {
		return 0
	}
	return t
}
