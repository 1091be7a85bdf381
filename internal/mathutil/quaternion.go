package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// QuatToEulerXYZ converts a rotation to Euler angles in degrees such that
// EulerXYZ(QuatToEulerXYZ(q)) reproduces q's rotation.
func QuatToEulerXYZ(q mgl64.Quat) r3.Vec {
	m := q.Normalize().Mat4()
	sy := -m.At(2, 0)
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	y := math.Asin(sy)

	var x, z float64
	if math.Abs(sy) > 1-1e-9 {
		// Gimbal lock: fold all of X into Z.
		x = 0
		z = math.Atan2(-m.At(0, 1), m.At(1, 1))
	} else {
		x = math.Atan2(m.At(2, 1), m.At(2, 2))
		z = math.Atan2(m.At(1, 0), m.At(0, 0))
	}
	return r3.Vec{X: Rad2Deg(x), Y: Rad2Deg(y), Z: Rad2Deg(z)}
}
