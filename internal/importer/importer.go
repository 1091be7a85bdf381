// Package importer runs one scene file through the whole pipeline: load,
// unit normalization, then the walk that builds the engine tree.
package importer

import (
	"fmt"
	"path/filepath"

	"github.com/tiendc/go-deepcopy"

	"fbx-scene-import/internal/diag"
	"fbx-scene-import/internal/engine"
	"fbx-scene-import/internal/loader"
	"fbx-scene-import/internal/meshbuild"
	"fbx-scene-import/internal/scene"
	"fbx-scene-import/internal/units"
	"fbx-scene-import/internal/walker"
)

// Options configures an import.
type Options struct {
	Target units.Target
	Walk   walker.Options
	// PreserveSource normalizes a deep copy so Result.Source stays as loaded.
	PreserveSource bool
}

// DefaultOptions targets metres and the engine axis system.
func DefaultOptions() Options {
	return Options{
		Target: units.EngineTarget,
		Walk:   walker.Options{Mesh: meshbuild.DefaultOptions()},
	}
}

// Result describes one finished import. Count is zero when the import
// failed; Err then says why.
type Result struct {
	Root      *engine.Node
	Count     int
	SceneName string
	Factor    float64
	AxisMatch bool
	Source    *scene.Scene
	Err       error
}

// OK reports whether any node was created.
func (r Result) OK() bool { return r.Count > 0 }

// ImportAll opens path, imports its scene and builds the engine tree.
// Loader failures are reported to sink and return a zero Count.
func ImportAll(path string, opt Options, sink diag.Sink) Result {
	sink = diag.Or(sink)
	ctx := diag.At("").InScene(filepath.Base(path))

	im, err := loader.Open(path)
	if err != nil {
		sink.Report(diag.Error, ctx, err.Error())
		return Result{Err: err}
	}
	defer im.Close()

	s, err := im.Import()
	if err != nil {
		sink.Report(diag.Error, ctx, err.Error())
		return Result{Err: err}
	}
	return ImportScene(s, opt, diag.Scoped(sink, s.Name))
}

// ImportScene runs normalization and the walk on an already loaded scene.
func ImportScene(s *scene.Scene, opt Options, sink diag.Sink) Result {
	sink = diag.Or(sink)
	if s == nil || s.Root == nil {
		err := fmt.Errorf("importer: scene has no root: %w", loader.ErrImport)
		sink.Report(diag.Error, diag.At(""), err.Error())
		return Result{Err: err}
	}
	res := Result{SceneName: s.Name, Source: s}

	work := s
	if opt.PreserveSource {
		var cp *scene.Scene
		if err := deepcopy.Copy(&cp, s); err != nil {
			err = fmt.Errorf("importer: copy scene %s: %w", s.Name, err)
			sink.Report(diag.Error, diag.At(""), err.Error())
			res.Err = err
			return res
		}
		work = cp
	}

	rep := units.Normalize(work, opt.Target, sink)
	res.Factor = rep.Factor
	res.AxisMatch = rep.AxisMatch

	res.Root, res.Count = walker.WalkAndBuild(work.Root, opt.Walk, sink)
	return res
}
