package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is a projected triangle corner: X and Y in pixels, Z depth with
// larger values nearer the camera.
type Vertex struct {
	Pos mgl64.Vec3
	UV  mgl32.Vec2
}

// RasterizeTriangle fills one flat-shaded triangle with z-buffering. The
// texture is sampled when tex is non-nil and hasUV is set; otherwise base
// is used. Texels with almost no alpha are discarded.
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, hasUV bool, tex *image.NRGBA, base color.NRGBA, lc *LightConfig) {
	p0, p1, p2 := v[0].Pos, v[1].Pos, v[2].Pos

	n := p1.Sub(p0).Cross(p2.Sub(p0))
	nl := n.Len()
	if nl < 1e-8 {
		return
	}
	shade := lc.ComputeShade(n.Mul(1 / nl))
	textured := hasUV && tex != nil

	minX := max(int(math.Min(math.Min(p0[0], p1[0]), p2[0])), 0)
	maxX := min(int(math.Max(math.Max(p0[0], p1[0]), p2[0]))+1, fb.Width-1)
	minY := max(int(math.Min(math.Min(p0[1], p1[1]), p2[1])), 0)
	maxY := min(int(math.Max(math.Max(p0[1], p1[1]), p2[1]))+1, fb.Height-1)
	if minX >= maxX || minY >= maxY {
		return
	}

	det := (p1[1]-p2[1])*(p0[0]-p2[0]) + (p2[0]-p1[0])*(p0[1]-p2[1])
	if math.Abs(det) < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := p1[1] - p2[1]
	dx21 := p2[0] - p1[0]
	dy20 := p2[1] - p0[1]
	dx02 := p0[0] - p2[0]

	// Hot path: no allocations below.
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - p2[1]
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - p2[0]
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*p0[2] + w1*p1[2] + w2*p2[2]
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			c := base
			if textured {
				uv := v[0].UV.Mul(float32(w0)).Add(v[1].UV.Mul(float32(w1))).Add(v[2].UV.Mul(float32(w2)))
				c.R, c.G, c.B, c.A = SampleTexture(tex, uv)
			}
			if c.A < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			px := zIdx * 4
			fb.Color[px] = lc.shadePixel(c.R, shade)
			fb.Color[px+1] = lc.shadePixel(c.G, shade)
			fb.Color[px+2] = lc.shadePixel(c.B, shade)
			fb.Color[px+3] = c.A
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
