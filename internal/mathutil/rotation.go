package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// RotX returns a homogeneous rotation around the X axis. Angle in radians.
func RotX(a float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(a)
}

// RotY returns a homogeneous rotation around the Y axis.
func RotY(a float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DY(a)
}

// RotZ returns a homogeneous rotation around the Z axis.
func RotZ(a float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(a)
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}

// EulerXYZ builds the rotation for Euler angles in degrees applied X first,
// then Y, then Z: Rz · Ry · Rx.
func EulerXYZ(deg r3.Vec) mgl64.Mat4 {
	if deg == (r3.Vec{}) {
		return mgl64.Ident4()
	}
	return RotZ(Deg2Rad(deg.Z)).Mul4(RotY(Deg2Rad(deg.Y))).Mul4(RotX(Deg2Rad(deg.X)))
}
