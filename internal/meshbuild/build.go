package meshbuild

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"fbx-scene-import/internal/diag"
	"fbx-scene-import/internal/engine"
	"fbx-scene-import/internal/scene"
	"fbx-scene-import/internal/uv"
)

var (
	// ErrUnsupportedTopology: a polygon is not a triangle.
	ErrUnsupportedTopology = errors.New("unsupported topology")

	// ErrOutOfRange: a control point does not fit the engine's float32 range.
	ErrOutOfRange = errors.New("control point out of range")
)

// Options controls UV channel assignment.
type Options struct {
	// MaxUVs caps the number of channels filled, at most engine.MaxUVChannels.
	MaxUVs int
	// SecondaryFrom and SecondaryTo bound, half-open, the texture slots
	// searched on the first UV layer when only one channel was found.
	SecondaryFrom scene.ElementType
	SecondaryTo   scene.ElementType
}

// DefaultOptions fills four channels and searches emissive onwards.
func DefaultOptions() Options {
	return Options{
		MaxUVs:        engine.MaxUVChannels,
		SecondaryFrom: scene.TextureEmissive,
		SecondaryTo:   scene.TypeCount,
	}
}

func (o Options) normalize() Options {
	if o.MaxUVs <= 0 || o.MaxUVs > engine.MaxUVChannels {
		o.MaxUVs = engine.MaxUVChannels
	}
	if o.SecondaryFrom == 0 && o.SecondaryTo == 0 {
		o.SecondaryFrom = scene.TextureEmissive
		o.SecondaryTo = scene.TypeCount
	}
	if o.SecondaryTo > scene.TypeCount {
		o.SecondaryTo = scene.TypeCount
	}
	return o
}

// Build converts the node's mesh. It returns nil, nil when the node has no
// mesh. Topology and range errors fail the whole mesh; UV channel failures
// are reported to sink and leave that channel absent.
func Build(n *scene.Node, opt Options, sink diag.Sink) (*engine.Mesh, error) {
	if n == nil || n.Mesh == nil {
		return nil, nil
	}
	sink = diag.Or(sink)
	opt = opt.normalize()
	src := n.Mesh
	ctx := diag.At(n.Name)

	verts, err := controlPoints(src)
	if err != nil {
		return nil, err
	}
	tris, err := triangles(src)
	if err != nil {
		return nil, err
	}

	m := &engine.Mesh{Vertices: verts, Triangles: tris}
	assignUVs(m, src, opt, sink, ctx)
	return m, nil
}

func controlPoints(src *scene.Mesh) ([]mgl32.Vec3, error) {
	out := make([]mgl32.Vec3, src.ControlPointsCount())
	for i, p := range src.ControlPoints {
		for axis, v := range [3]float64{p.X, p.Y, p.Z} {
			if !fitsFloat32(v) {
				return nil, fmt.Errorf("meshbuild: control point %d axis %d = %g: %w", i, axis, v, ErrOutOfRange)
			}
		}
		out[i] = mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	return out, nil
}

// fitsFloat32 rejects NaN as well, like the range comparison it mirrors.
func fitsFloat32(v float64) bool {
	return v <= math.MaxFloat32 && v >= -math.MaxFloat32
}

func triangles(src *scene.Mesh) ([]int32, error) {
	out := make([]int32, 0, src.PolygonCount()*3)
	for p := 0; p < src.PolygonCount(); p++ {
		size := src.PolygonSize(p)
		if size != 3 {
			return nil, fmt.Errorf("meshbuild: polygon %d has %d vertices: %w", p, size, ErrUnsupportedTopology)
		}
		for v := 0; v < size; v++ {
			idx := src.PolygonVertex(p, v)
			if idx < 0 || idx >= src.ControlPointsCount() {
				return nil, fmt.Errorf("meshbuild: polygon %d references control point %d of %d: %w",
					p, idx, src.ControlPointsCount(), ErrOutOfRange)
			}
			out = append(out, int32(idx))
		}
	}
	return out, nil
}

// assignUVs fills channels from each layer's diffuse UV set in layer order,
// then tries the secondary-slot fallback on the first UV layer.
func assignUVs(m *engine.Mesh, src *scene.Mesh, opt Options, sink diag.Sink, ctx diag.Context) {
	indices := src.PolygonVertices()
	vertexCount := src.ControlPointsCount()

	decode := func(ch int, el *scene.UVElement) {
		chCtx := ctx.WithChannel(ch)
		uvs, err := uv.DecodeUVSet(el, indices, vertexCount, sink, chCtx)
		if err != nil {
			sink.Report(diag.Warning, chCtx, fmt.Sprintf("uv set %q skipped: %v", el.Name, err))
			return
		}
		m.UV[ch] = uvs
	}

	next := 0
	var firstLayer *scene.Layer
	for i := 0; i < src.LayerCount(); i++ {
		layer := src.Layer(i)
		if layer == nil {
			continue
		}
		set := layer.UVs()
		if set == nil {
			continue
		}
		if firstLayer == nil {
			firstLayer = layer
		}

		decode(next, set)
		next++
		if next == opt.MaxUVs {
			break
		}
	}

	if next != 1 || firstLayer == nil || opt.MaxUVs < 2 {
		return
	}
	if t, set := findSecondary(firstLayer, opt); set != nil {
		sink.Report(diag.Info, ctx.WithChannel(1), fmt.Sprintf("using %s uv set %q as secondary channel", t, set.Name))
		decode(1, set)
	}
}

// findSecondary returns the first UV set in [SecondaryFrom, SecondaryTo).
func findSecondary(layer *scene.Layer, opt Options) (scene.ElementType, *scene.UVElement) {
	for t := opt.SecondaryFrom; t < opt.SecondaryTo; t++ {
		if set := layer.UVsOf(t); set != nil {
			return t, set
		}
	}
	return 0, nil
}
