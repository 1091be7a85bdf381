package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir mgl64.Vec3
	RimDir   mgl64.Vec3
	ViewDir  mgl64.Vec3
	HalfMain mgl64.Vec3 // Blinn-Phong half vector
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig is a key light from the upper right, a cool rim from
// behind and a camera slightly above the subject.
func DefaultLightConfig() LightConfig {
	lightDir := mgl64.Vec3{180, 260, 140}.Normalize()
	rimDir := mgl64.Vec3{-160, 130, -210}.Normalize()
	viewDir := mgl64.Vec3{0, -110, -400}.Normalize()

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		ViewDir:  viewDir,
		HalfMain: lightDir.Sub(viewDir).Normalize(),
		Ambient:  0.55,
		Hemi:     0.50,
		Direct:   1.50,
		Rim:      0.60,
		SpecInt:  0.45,
		SpecPow:  12.0,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a unit face normal.
// Faces are lit from both sides.
func (lc *LightConfig) ComputeShade(normal mgl64.Vec3) float64 {
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	hemi := (1.0-math.Abs(normal[1]))*0.5 + 0.5

	ndh := math.Max(normal.Dot(lc.HalfMain), 0)
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi*lc.Hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// srgbToLinear decodes 8-bit sRGB channels.
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadePixel lights an sRGB texel and encodes it back to sRGB.
func (lc *LightConfig) shadePixel(c uint8, shade float64) uint8 {
	lin := srgbToLinear[c] * shade * lc.Exposure
	return clamp255(math.Pow(ACESTonemap(lin), lc.InvGamma) * 255)
}
