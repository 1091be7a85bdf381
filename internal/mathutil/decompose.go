package mathutil

import "github.com/go-gl/mathgl/mgl64"

// ScaleEpsilon replaces a zero scale axis during decomposition.
const ScaleEpsilon = 1e-8

// DecomposeFlags reports lossy cases hit by Decompose.
type DecomposeFlags uint8

const (
	// ZeroScale: an axis had (near) zero length; ScaleEpsilon was used
	// and the rotation fell back to identity.
	ZeroScale DecomposeFlags = 1 << iota
	// NegativeScale: the linear part mirrors; scale was negated so the
	// remaining rotation is proper.
	NegativeScale
)

// Decompose splits an affine matrix into translation, rotation and scale.
// With shear or non-uniform scale under rotation the quaternion is an
// approximation of the orthogonal part.
func Decompose(m mgl64.Mat4) (t mgl64.Vec3, q mgl64.Quat, s mgl64.Vec3, f DecomposeFlags) {
	t = m.Col(3).Vec3()

	cols := [3]mgl64.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	for i, c := range cols {
		s[i] = c.Len()
		if s[i] < ScaleEpsilon {
			s[i] = ScaleEpsilon
			f |= ZeroScale
		}
	}
	if f&ZeroScale != 0 {
		return t, mgl64.QuatIdent(), s, f
	}

	if m.Mat3().Det() < 0 {
		s = s.Mul(-1)
		f |= NegativeScale
	}

	rot := mgl64.Mat3FromCols(cols[0].Mul(1/s[0]), cols[1].Mul(1/s[1]), cols[2].Mul(1/s[2]))
	q = mgl64.Mat4ToQuat(rot.Mat4()).Normalize()
	return t, q, s, f
}
