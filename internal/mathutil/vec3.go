package mathutil

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec converts a source-side vector to mgl64.
func Vec(v r3.Vec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// R3 converts back to the source-side representation.
func R3(v mgl64.Vec3) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// Vec3f narrows to the engine's float32 vectors.
func Vec3f(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Quatf narrows a quaternion to float32.
func Quatf(q mgl64.Quat) mgl32.Quat {
	return mgl32.Quat{W: float32(q.W), V: Vec3f(q.V)}
}
