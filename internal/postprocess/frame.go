package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// AlphaBounds returns the smallest rectangle holding every pixel with
// non-zero alpha. It is empty when the image is fully transparent.
func AlphaBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	r := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			r = r.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return r
}

// Fit crops img to its visible pixels and centers them on a size x size
// canvas, scaled so the longer side spans fill of the canvas.
func Fit(img *image.NRGBA, size int, fill float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	crop := AlphaBounds(img)
	if crop.Empty() {
		return canvas
	}
	if fill <= 0 || fill > 1 {
		fill = 1
	}

	k := float64(size) * fill / math.Max(float64(crop.Dx()), float64(crop.Dy()))
	w := max(1, int(float64(crop.Dx())*k+0.5))
	h := max(1, int(float64(crop.Dy())*k+0.5))

	scaled := resample(img, crop, image.Rect(0, 0, w, h))
	off := image.Pt((size-w)/2, (size-h)/2)
	draw.Draw(canvas, scaled.Bounds().Add(off), scaled, image.Point{}, draw.Src)
	return canvas
}
