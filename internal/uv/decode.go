package uv

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"fbx-scene-import/internal/diag"
	"fbx-scene-import/internal/scene"
)

var (
	// ErrShapeMismatch: the layer's arrays do not line up with the mesh.
	ErrShapeMismatch = errors.New("uv shape mismatch")

	// ErrUnsupportedMapping: the mapping mode has no decoder.
	ErrUnsupportedMapping = errors.New("unsupported uv mapping mode")
)

// DecodeUVSet flattens a UV layer element into one value per polygon-vertex
// position. indices is the flattened polygon-vertex index list and
// vertexCount the mesh's control point count. On error nothing is returned;
// callers treat the channel as absent.
func DecodeUVSet(el *scene.UVElement, indices []int, vertexCount int, sink diag.Sink, ctx diag.Context) ([]mgl32.Vec2, error) {
	if el == nil {
		return nil, fmt.Errorf("uv: nil layer element: %w", ErrShapeMismatch)
	}
	sink = diag.Or(sink)

	switch el.MappingMode {
	case scene.ByControlPoint:
		switch el.ReferenceMode {
		case scene.Direct:
			return decodeByControlPoint(el, indices, vertexCount, directSlot, sink, ctx)
		case scene.Index, scene.IndexToDirect:
			return decodeByControlPoint(el, indices, vertexCount, indexedSlot, sink, ctx)
		}
		return nil, fmt.Errorf("uv: reference mode %s: %w", el.ReferenceMode, ErrUnsupportedMapping)
	case scene.AllSame:
		return decodeAllSame(el, len(indices), sink, ctx)
	}
	return nil, fmt.Errorf("uv: mapping mode %s: %w", el.MappingMode, ErrUnsupportedMapping)
}

// slotFunc resolves the direct-array slot for polygon-vertex position i.
type slotFunc func(el *scene.UVElement, indices []int, i int) (int, bool)

func directSlot(_ *scene.UVElement, indices []int, i int) (int, bool) {
	return indices[i], true
}

func indexedSlot(el *scene.UVElement, indices []int, i int) (int, bool) {
	if i >= len(el.Index) {
		return 0, false
	}
	j := el.Index[i]
	if j < 0 || j >= len(indices) {
		return 0, false
	}
	return indices[j], true
}

func decodeByControlPoint(el *scene.UVElement, indices []int, vertexCount int, slot slotFunc, sink diag.Sink, ctx diag.Context) ([]mgl32.Vec2, error) {
	if len(el.Direct) != vertexCount {
		return nil, fmt.Errorf("uv: %d direct values for %d control points: %w", len(el.Direct), vertexCount, ErrShapeMismatch)
	}

	out := make([]mgl32.Vec2, len(indices))
	for i := range indices {
		s, ok := slot(el, indices, i)
		if !ok || s < 0 || s >= len(el.Direct) {
			return nil, fmt.Errorf("uv: position %d resolves outside the direct array: %w", i, ErrShapeMismatch)
		}
		out[i] = sanitize(el.Direct[s], i, sink, ctx)
	}
	return out, nil
}

func decodeAllSame(el *scene.UVElement, indexCount int, sink diag.Sink, ctx diag.Context) ([]mgl32.Vec2, error) {
	if len(el.Direct) == 0 {
		return nil, fmt.Errorf("uv: all-same layer has no value: %w", ErrShapeMismatch)
	}
	v := sanitize(el.Direct[0], 0, sink, ctx)

	out := make([]mgl32.Vec2, indexCount)
	for i := range out {
		out[i] = v
	}
	return out, nil
}

// sanitize narrows a UV to float32, replacing NaN, infinite and
// out-of-float32-range values with (0,0).
func sanitize(v [2]float64, i int, sink diag.Sink, ctx diag.Context) mgl32.Vec2 {
	if !validUV(v[0]) || !validUV(v[1]) {
		sink.Report(diag.Warning, ctx, fmt.Sprintf("invalid UV detected at %d", i))
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{float32(v[0]), float32(v[1])}
}

func validUV(x float64) bool {
	return !math.IsNaN(x) && math.Abs(x) <= math.MaxFloat32
}
