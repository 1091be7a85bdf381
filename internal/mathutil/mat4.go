package mathutil

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Translation builds a homogeneous translation matrix.
func Translation(v r3.Vec) mgl64.Mat4 {
	return mgl64.Translate3D(v.X, v.Y, v.Z)
}

// Scaling builds a homogeneous scale matrix.
func Scaling(v r3.Vec) mgl64.Mat4 {
	return mgl64.Scale3D(v.X, v.Y, v.Z)
}

// TranslationInverse is the inverse of Translation(v), built directly so
// the pivot terms cancel exactly.
func TranslationInverse(v r3.Vec) mgl64.Mat4 {
	return mgl64.Translate3D(-v.X, -v.Y, -v.Z)
}

// IsIdentity checks if the matrix is approximately identity.
func IsIdentity(m mgl64.Mat4) bool {
	id := mgl64.Ident4()
	for i := 0; i < 16; i++ {
		d := m[i] - id[i]
		if d > 1e-8 || d < -1e-8 {
			return false
		}
	}
	return true
}
