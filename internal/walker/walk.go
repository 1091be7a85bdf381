package walker

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"fbx-scene-import/internal/diag"
	"fbx-scene-import/internal/engine"
	"fbx-scene-import/internal/mathutil"
	"fbx-scene-import/internal/meshbuild"
	"fbx-scene-import/internal/scene"
	"fbx-scene-import/internal/transform"
)

// Options configures the per-node work done during the walk.
type Options struct {
	Mesh      meshbuild.Options
	Transform transform.Options
}

// WalkAndBuild creates one engine node per source node, depth first and
// pre-order, and returns the engine root with the number of nodes created.
// A mesh that fails to build is reported and its node kept transform-only.
func WalkAndBuild(root *scene.Node, opt Options, sink diag.Sink) (*engine.Node, int) {
	if root == nil {
		return nil, 0
	}
	w := &walk{opt: opt, sink: diag.Or(sink)}
	out := w.node(root, nil)
	return out, w.count
}

type walk struct {
	opt   Options
	sink  diag.Sink
	count int
}

func (w *walk) node(src *scene.Node, parent *engine.Node) *engine.Node {
	n := engine.NewNode(nodeName(src.Name))
	w.count++
	if parent != nil {
		n.SetParent(parent)
	}

	r := transform.ResolveWith(src, w.opt.Transform, w.sink)
	n.LocalPosition = mathutil.Vec3f(r.Translation)
	n.LocalRotation = mathutil.Quatf(r.Rotation)
	n.LocalScale = mathutil.Vec3f(r.Scale)

	mesh, err := meshbuild.Build(src, w.opt.Mesh, w.sink)
	if err != nil {
		w.sink.Report(diag.Error, diag.At(src.Name), fmt.Sprintf("mesh skipped: %v", err))
	} else if mesh != nil {
		n.Mesh = mesh
	}

	for i := 0; i < src.ChildCount(); i++ {
		w.node(src.Child(i), n)
	}
	return n
}

// nodeName keeps UTF-8 names as they are; anything else is taken to be a
// Windows-1252 name from an older exporter.
func nodeName(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	dec, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return dec
}
