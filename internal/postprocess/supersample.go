package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks a supersampled render to size x size. Filtering runs on
// premultiplied alpha so transparent edges do not bleed dark halos.
func Downsample(img *image.NRGBA, size int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return img
	}
	return resample(img, b, image.Rect(0, 0, size, size))
}

// resample scales the src region of img into a new image of dst's size.
func resample(img *image.NRGBA, src, dst image.Rectangle) *image.NRGBA {
	scaled := image.NewRGBA(dst)
	draw.CatmullRom.Scale(scaled, dst, premultiply(img), src, draw.Src, nil)
	return unpremultiply(scaled)
}

func premultiply(img *image.NRGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := out.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255
			out.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			out.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			out.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			out.Pix[di+3] = img.Pix[si+3]
		}
	}
	return out
}

func unpremultiply(img *image.RGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := out.PixOffset(x, y)
			a := float64(img.Pix[si+3])
			if a > 1 {
				inv := 255 / a
				out.Pix[di] = clamp8(float64(img.Pix[si]) * inv)
				out.Pix[di+1] = clamp8(float64(img.Pix[si+1]) * inv)
				out.Pix[di+2] = clamp8(float64(img.Pix[si+2]) * inv)
			}
			out.Pix[di+3] = img.Pix[si+3]
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
