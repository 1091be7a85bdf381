package loader

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"gonum.org/v1/gonum/spatial/r3"

	"fbx-scene-import/internal/scene"
)

const sampleDocument = `{
  "format": "fbx-scene",
  "version": 7400,
  "name": "crate",
  "settings": {"unit": "cm", "axis": {"up": "z", "front": "odd", "coord": "right"}},
  "root": {
    "name": "RootNode",
    "children": [{
      "name": "Box",
      "translation": [10, 0, 0],
      "rotation": [0, 90, 0],
      "rotation_pivot": [1, 2, 3],
      "mesh": {
        "control_points": [[0,0,0],[1,0,0],[0,1,0]],
        "polygons": [[0,1,2]],
        "layers": [{"uv": [
          {"name": "map1", "mapping": "by_control_point", "reference": "direct", "direct": [[0,0],[1,0],[0,1]]},
          {"slot": "emissive", "name": "lightmap", "mapping": "all_same", "direct": [[0.5,0.5]]}
        ]}]
      }
    }]
  }
}`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func importFile(t *testing.T, path string) *scene.Scene {
	t.Helper()
	im, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer im.Close()
	s, err := im.Import()
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	return s
}

func TestImportDocument(t *testing.T) {
	s := importFile(t, writeFile(t, "crate.json", sampleDocument))

	if s.Name != "crate" {
		t.Fatalf("name: %q", s.Name)
	}
	if !s.Settings.SystemUnit.Equal(scene.Centimeter) || s.Settings.AxisSystem != scene.MayaZUp {
		t.Fatalf("settings: %v %v", s.Settings.SystemUnit, s.Settings.AxisSystem)
	}
	box := s.Root.Child(0)
	if box.Name != "Box" || box.LclTranslation != (r3.Vec{X: 10}) || box.LclRotation != (r3.Vec{Y: 90}) {
		t.Fatalf("box: %+v", box)
	}
	if box.LclScaling != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Fatalf("missing scaling should default to one: %v", box.LclScaling)
	}
	if box.RotationPivot != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("pivot: %v", box.RotationPivot)
	}
	m := box.Mesh
	if m.ControlPointsCount() != 3 || m.PolygonCount() != 1 || m.LayerCount() != 1 {
		t.Fatalf("mesh shape: %d %d %d", m.ControlPointsCount(), m.PolygonCount(), m.LayerCount())
	}
	if uv := m.Layer(0).UVs(); uv == nil || uv.Name != "map1" || uv.MappingMode != scene.ByControlPoint {
		t.Fatalf("diffuse uv: %+v", uv)
	}
	if uv := m.Layer(0).UVsOf(scene.TextureEmissive); uv == nil || uv.MappingMode != scene.AllSame {
		t.Fatalf("emissive uv: %+v", uv)
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		want error
	}{
		{"unknown extension", "scene.obj", "", ErrInitialization},
		{"missing file", "", "", ErrInitialization},
		{"not json", "bad.json", "{", ErrInitialization},
		{"wrong format", "other.json", `{"format": "other", "version": 7400}`, ErrInitialization},
		{"too new", "new.json", `{"format": "fbx-scene", "version": 8000}`, ErrInvalidFileVersion},
		{"too old", "old.json", `{"format": "fbx-scene", "version": 6100}`, ErrInvalidFileVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.json")
			if tt.file != "" {
				path = writeFile(t, tt.file, tt.data)
			}
			if _, err := Open(path); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no root", `{"format": "fbx-scene", "version": 7400}`},
		{"bad unit", `{"format": "fbx-scene", "version": 7400, "settings": {"unit": "furlong"}, "root": {"name": "r"}}`},
		{"bad mapping", `{"format": "fbx-scene", "version": 7400, "root": {"name": "r", "mesh": {
			"control_points": [[0,0,0]], "polygons": [], "layers": [{"uv": [{"name": "u", "mapping": "sideways"}]}]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, err := Open(writeFile(t, "scene.json", tt.data))
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if _, err := im.Import(); !errors.Is(err, ErrImport) {
				t.Fatalf("expected ErrImport, got %v", err)
			}
		})
	}
}

func TestImportAfterClose(t *testing.T) {
	im, err := Open(writeFile(t, "crate.json", sampleDocument))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	im.Close()
	if _, err := im.Import(); !errors.Is(err, ErrImport) {
		t.Fatalf("expected ErrImport, got %v", err)
	}
}

func TestFileVersion(t *testing.T) {
	im, err := Open(writeFile(t, "crate.json", sampleDocument))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if im.FileVersion() != "7.4.0" || im.Format() != FormatJSON {
		t.Fatalf("version %s format %s", im.FileVersion(), im.Format())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	src := importFile(t, writeFile(t, "crate.json", sampleDocument))
	src.Root.Child(0).LclScaling = r3.Vec{X: 2, Y: 2, Z: 2}
	src.Settings.SystemUnit = scene.SystemUnit{ScaleFactor: 3, Multiplier: 1}

	path := filepath.Join(t.TempDir(), "copy.json")
	if err := Save(path, src); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := importFile(t, path)
	if got.Name != src.Name || got.Settings.AxisSystem != src.Settings.AxisSystem {
		t.Fatalf("header mismatch: %q %v", got.Name, got.Settings.AxisSystem)
	}
	if !got.Settings.SystemUnit.Equal(src.Settings.SystemUnit) {
		t.Fatalf("unit: %v", got.Settings.SystemUnit)
	}
	box := got.Root.Child(0)
	if box.LclScaling != (r3.Vec{X: 2, Y: 2, Z: 2}) || box.RotationPivot != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("box: %+v", box)
	}
	if box.Mesh.Layer(0).UVsOf(scene.TextureEmissive) == nil {
		t.Fatalf("emissive uv set lost")
	}
}

func TestSupported(t *testing.T) {
	for path, want := range map[string]bool{"a.json": true, "b.GLB": true, "c.gltf": true, "d.fbx": false} {
		if Supported(path) != want {
			t.Fatalf("%s: want %v", path, want)
		}
	}
}

func writeGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 2, 1, 3})
	tc := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}, {1, 1}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]uint32{gltf.POSITION: pos, gltf.TEXCOORD_0: tc},
		}},
	}}
	half := float32(math.Sqrt2 / 2)
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Translation: [3]float32{1, 2, 3}, Rotation: [4]float32{0, half, 0, half}, Scale: [3]float32{1, 1, 1}, Children: []uint32{1}},
		{Name: "child", Mesh: gltf.Index(0), Scale: [3]float32{2, 2, 2}},
	}
	doc.Scenes[0].Name = "level"
	doc.Scenes[0].Nodes = []uint32{0}

	path := filepath.Join(t.TempDir(), "level.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save glb: %v", err)
	}
	return path
}

func TestImportGLB(t *testing.T) {
	s := importFile(t, writeGLB(t))

	if s.Name != "level" || !s.Settings.SystemUnit.Equal(scene.Meter) {
		t.Fatalf("scene: %q %v", s.Name, s.Settings.SystemUnit)
	}
	if s.Root.Name != "RootNode" || s.Root.ChildCount() != 1 {
		t.Fatalf("root: %s with %d children", s.Root.Name, s.Root.ChildCount())
	}
	parent := s.Root.Child(0)
	if parent.LclTranslation != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("translation: %v", parent.LclTranslation)
	}
	if math.Abs(parent.LclRotation.Y-90) > 1e-3 || math.Abs(parent.LclRotation.X) > 1e-3 || math.Abs(parent.LclRotation.Z) > 1e-3 {
		t.Fatalf("rotation: %v", parent.LclRotation)
	}

	child := parent.Child(0)
	if child.LclScaling != (r3.Vec{X: 2, Y: 2, Z: 2}) {
		t.Fatalf("scale: %v", child.LclScaling)
	}
	m := child.Mesh
	if m == nil || m.ControlPointsCount() != 4 || m.PolygonCount() != 2 || m.PolygonSize(1) != 3 {
		t.Fatalf("mesh: %+v", m)
	}
	uv := m.Layer(0).UVs()
	if uv == nil || uv.MappingMode != scene.ByControlPoint || len(uv.Direct) != 4 {
		t.Fatalf("uv: %+v", uv)
	}
	// V is flipped to bottom-left origin.
	if uv.Direct[2] != [2]float64{0, 0} || uv.Direct[0] != [2]float64{0, 1} {
		t.Fatalf("uv values: %v", uv.Direct)
	}
}

func TestConvertGLTFMatrixNode(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{
		Name:   "placed",
		Matrix: [16]float32{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 4, 5, 6, 1},
	}}
	doc.Scenes[0].Nodes = []uint32{0}

	s, err := convertGLTF(doc)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	n := s.Root.Child(0)
	if n.LclTranslation != (r3.Vec{X: 4, Y: 5, Z: 6}) || n.LclScaling != (r3.Vec{X: 2, Y: 2, Z: 2}) {
		t.Fatalf("matrix not decomposed: T %v S %v", n.LclTranslation, n.LclScaling)
	}
}

func TestConvertGLTFBadIndices(t *testing.T) {
	cases := map[string]func(*gltf.Document){
		"child": func(d *gltf.Document) {
			d.Nodes = []*gltf.Node{{Name: "a", Children: []uint32{7}}}
		},
		"mesh": func(d *gltf.Document) {
			d.Nodes = []*gltf.Node{{Name: "a", Mesh: gltf.Index(3)}}
		},
		"accessor": func(d *gltf.Document) {
			d.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{Attributes: map[string]uint32{gltf.POSITION: 9}}}}}
			d.Nodes = []*gltf.Node{{Name: "a", Mesh: gltf.Index(0)}}
		},
		"cycle": func(d *gltf.Document) {
			d.Nodes = []*gltf.Node{{Name: "a", Children: []uint32{0}}}
		},
	}
	for name, mutate := range cases {
		doc := gltf.NewDocument()
		mutate(doc)
		doc.Scenes[0].Nodes = []uint32{0}
		if _, err := convertGLTF(doc); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestPolygonsByMode(t *testing.T) {
	idx := []uint32{0, 1, 2, 3}
	tests := []struct {
		mode gltf.PrimitiveMode
		want [][]int
	}{
		{gltf.PrimitiveTriangleStrip, [][]int{{0, 1, 2}, {2, 1, 3}}},
		{gltf.PrimitiveTriangleFan, [][]int{{0, 1, 2}, {0, 2, 3}}},
		{gltf.PrimitiveLines, [][]int{{0, 1}, {2, 3}}},
		{gltf.PrimitiveLineLoop, [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}},
	}
	for _, tt := range tests {
		got := polygons(tt.mode, idx)
		if len(got) != len(tt.want) {
			t.Fatalf("mode %v: %v", tt.mode, got)
		}
		for i := range got {
			for k := range got[i] {
				if got[i][k] != tt.want[i][k] {
					t.Fatalf("mode %v: %v", tt.mode, got)
				}
			}
		}
	}
}

func TestIsScene(t *testing.T) {
	cases := []struct {
		name, data string
		want       bool
	}{
		{"scene.json", sampleDocument, true},
		{"late.json", `{"name": "x", "format": "fbx-scene"}`, true},
		{"cut.json", `{"format": "fbx-scene", "root": {`, true},
		{"config.json", `{"input_dir": "scenes", "workers": 4}`, false},
		{"other.json", `{"format": "gltf"}`, false},
		{"list.json", `[1, 2]`, false},
		{"bad.json", `{not json`, false},
		{"notes.txt", `{"format": "fbx-scene"}`, false},
	}
	for _, c := range cases {
		if got := IsScene(writeFile(t, c.name, c.data)); got != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
	if !IsScene(filepath.Join(t.TempDir(), "level.glb")) {
		t.Fatalf("glTF files are scenes by extension")
	}
}
