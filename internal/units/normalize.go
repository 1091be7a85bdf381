package units

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"

	"fbx-scene-import/internal/diag"
	"fbx-scene-import/internal/scene"
)

// FactorTolerance is how close to 1 a factor must be to skip the rescale.
const FactorTolerance = 1e-12

// Target is the fixed convention imported scenes are brought to.
type Target struct {
	Unit scene.SystemUnit
	Axis scene.AxisSystem
}

// EngineTarget is meters with Y up, Z forward, left handed.
var EngineTarget = Target{Unit: scene.Meter, Axis: scene.EngineAxis}

// ComputeScaleFactor returns the factor that converts lengths in the
// scene's unit into target.
func ComputeScaleFactor(s *scene.Scene, target scene.SystemUnit) float64 {
	if s == nil {
		return 1
	}
	return s.Settings.SystemUnit.ConversionFactorTo(target)
}

// IsIdentityFactor reports whether rescaling by f would be a no-op.
func IsIdentityFactor(f float64) bool {
	return scalar.EqualWithinAbs(f, 1, FactorTolerance)
}

// RescaleTree multiplies every node translation and every mesh control
// point by factor, breadth first from the root. It returns the number of
// nodes visited; 0 when the factor is 1 and nothing was touched.
func RescaleTree(s *scene.Scene, factor float64) int {
	if s == nil || s.Root == nil || IsIdentityFactor(factor) {
		return 0
	}

	visited := 0
	queue := []*scene.Node{s.Root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		visited++

		t := n.LclTranslation
		t.X *= factor
		t.Y *= factor
		t.Z *= factor
		n.LclTranslation = t

		if m := n.Mesh; m != nil {
			for i, p := range m.ControlPoints {
				m.ControlPoints[i] = r3.Scale(factor, p)
			}
		}

		queue = append(queue, n.Children...)
	}
	return visited
}

// CheckAxis compares the scene's axis system with want. A mismatch is
// reported as a warning; no corrective transform is applied.
func CheckAxis(s *scene.Scene, want scene.AxisSystem, sink diag.Sink) bool {
	got := s.Settings.AxisSystem
	if got == want {
		return true
	}
	diag.Or(sink).Report(diag.Warning, diag.Context{Scene: s.Name, Channel: diag.NoChannel},
		fmt.Sprintf("file axis system does not match target, expected %s found %s", want, got))
	return false
}

// Report summarises a Normalize pass.
type Report struct {
	Factor    float64
	Rescaled  int
	AxisMatch bool
}

// Normalize converts the scene to target's unit and checks its axis system.
// The rescale completes before Normalize returns.
func Normalize(s *scene.Scene, target Target, sink diag.Sink) Report {
	sink = diag.Or(sink)
	ctx := diag.Context{Scene: s.Name, Channel: diag.NoChannel}
	rep := Report{Factor: 1}

	src := s.Settings.SystemUnit
	if !src.Equal(target.Unit) {
		sink.Report(diag.Info, ctx, fmt.Sprintf("converting system unit to match target, expected %s found %s", target.Unit, src))
		rep.Factor = ComputeScaleFactor(s, target.Unit)
		rep.Rescaled = RescaleTree(s, rep.Factor)
	} else {
		sink.Report(diag.Info, ctx, fmt.Sprintf("file system unit %s", src))
	}

	rep.AxisMatch = CheckAxis(s, target.Axis, sink)
	return rep
}
