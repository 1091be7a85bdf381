package transform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"fbx-scene-import/internal/diag"
	"fbx-scene-import/internal/mathutil"
	"fbx-scene-import/internal/scene"
)

// Resolved is a node's local transform collapsed to translation, rotation
// and scale.
type Resolved struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
	// Matrix is the composed local matrix the triple was extracted from.
	Matrix mgl64.Mat4
}

// Identity returns the zero translation, identity rotation, unit scale triple.
func Identity() Resolved {
	return Resolved{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		Matrix:   mgl64.Ident4(),
	}
}

// Options controls diagnostics emitted by Resolve.
type Options struct {
	// LogResolved reports the resolved triple of every node at info level.
	LogResolved bool
}

// Matrix composes the node's decomposed components into one local matrix:
//
//	T · Roff · Rp · Rpre · R · Rpost · Rp⁻¹ · Soff · Sp · S · Sp⁻¹
func Matrix(n *scene.Node) mgl64.Mat4 {
	t := mathutil.Translation(n.LclTranslation)
	rOff := mathutil.Translation(n.RotationOffset)
	rPiv := mathutil.Translation(n.RotationPivot)
	rPre := mathutil.EulerXYZ(n.PreRotation)
	r := mathutil.EulerXYZ(n.LclRotation)
	rPost := mathutil.EulerXYZ(n.PostRotation)
	rPivInv := mathutil.TranslationInverse(n.RotationPivot)
	sOff := mathutil.Translation(n.ScalingOffset)
	sPiv := mathutil.Translation(n.ScalingPivot)
	s := mathutil.Scaling(n.LclScaling)
	sPivInv := mathutil.TranslationInverse(n.ScalingPivot)

	return t.
		Mul4(rOff).
		Mul4(rPiv).
		Mul4(rPre).
		Mul4(r).
		Mul4(rPost).
		Mul4(rPivInv).
		Mul4(sOff).
		Mul4(sPiv).
		Mul4(s).
		Mul4(sPivInv)
}

// Resolve collapses the node's transform. It never fails; lossy cases are
// reported to sink as warnings.
func Resolve(n *scene.Node, sink diag.Sink) Resolved {
	return ResolveWith(n, Options{}, sink)
}

// ResolveWith is Resolve with explicit options.
func ResolveWith(n *scene.Node, opt Options, sink diag.Sink) Resolved {
	if n == nil {
		return Identity()
	}
	sink = diag.Or(sink)
	ctx := diag.At(n.Name)

	m := Matrix(n)
	t, q, s, flags := mathutil.Decompose(m)

	if flags&mathutil.ZeroScale != 0 {
		sink.Report(diag.Warning, ctx, fmt.Sprintf("zero scale axis, substituted %g and identity rotation", mathutil.ScaleEpsilon))
	}
	if flags&mathutil.NegativeScale != 0 {
		sink.Report(diag.Warning, ctx, "negative determinant, mirrored scale folded into rotation approximately")
	}

	res := Resolved{Translation: t, Rotation: q, Scale: s, Matrix: m}
	if opt.LogResolved {
		sink.Report(diag.Info, ctx, fmt.Sprintf("Lcl : T(%s) R(%s) S(%s)",
			fmtVec(res.Translation), fmtQuat(res.Rotation), fmtVec(res.Scale)))
	}
	return res
}

func fmtVec(v mgl64.Vec3) string {
	return fmt.Sprintf("%g, %g, %g", v[0], v[1], v[2])
}

func fmtQuat(q mgl64.Quat) string {
	return fmt.Sprintf("%g, %g, %g, %g", q.V[0], q.V[1], q.V[2], q.W)
}
