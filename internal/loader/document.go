package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"fbx-scene-import/internal/scene"
)

// DocumentFormat is the value of the "format" key of a JSON scene document.
const DocumentFormat = "fbx-scene"

// File versions use the FBX header encoding: 7400 is 7.4.0.
const (
	MinFileVersion     = 7100
	MaxFileVersion     = 7700
	CurrentFileVersion = 7400
)

// Header is the first thing Open reads from a JSON document.
type Header struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
}

type document struct {
	Header
	Name     string       `json:"name,omitempty"`
	Settings settingsJSON `json:"settings"`
	Root     *nodeJSON    `json:"root"`
}

type settingsJSON struct {
	// Unit is a short name ("cm", "m", ...). UnitScale, in centimetres,
	// is used when Unit is empty.
	Unit      string    `json:"unit,omitempty"`
	UnitScale float64   `json:"unit_scale,omitempty"`
	Axis      *axisJSON `json:"axis,omitempty"`
}

type axisJSON struct {
	Up    string `json:"up"`
	Front string `json:"front"`
	Coord string `json:"coord"`
}

type nodeJSON struct {
	Name           string      `json:"name"`
	Translation    [3]float64  `json:"translation"`
	Rotation       [3]float64  `json:"rotation"`
	Scaling        *[3]float64 `json:"scaling,omitempty"`
	PreRotation    [3]float64  `json:"pre_rotation"`
	PostRotation   [3]float64  `json:"post_rotation"`
	RotationOffset [3]float64  `json:"rotation_offset"`
	RotationPivot  [3]float64  `json:"rotation_pivot"`
	ScalingOffset  [3]float64  `json:"scaling_offset"`
	ScalingPivot   [3]float64  `json:"scaling_pivot"`
	Mesh           *meshJSON   `json:"mesh,omitempty"`
	Children       []*nodeJSON `json:"children,omitempty"`
}

type meshJSON struct {
	ControlPoints [][3]float64 `json:"control_points"`
	Polygons      [][]int      `json:"polygons"`
	Layers        []layerJSON  `json:"layers,omitempty"`
}

type layerJSON struct {
	UV []uvJSON `json:"uv,omitempty"`
}

type uvJSON struct {
	// Slot is the texture slot name; empty means diffuse.
	Slot      string       `json:"slot,omitempty"`
	Name      string       `json:"name"`
	Mapping   string       `json:"mapping"`
	Reference string       `json:"reference"`
	Direct    [][2]float64 `json:"direct"`
	Index     []int        `json:"index,omitempty"`
}

func decodeDocument(raw []byte) (*scene.Scene, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("document has no root node")
	}

	s := &scene.Scene{Name: doc.Name}
	var err error
	if s.Settings, err = doc.Settings.decode(); err != nil {
		return nil, err
	}
	if s.Root, err = doc.Root.decode(); err != nil {
		return nil, err
	}
	return s, nil
}

func (st settingsJSON) decode() (scene.GlobalSettings, error) {
	gs := scene.GlobalSettings{SystemUnit: scene.Centimeter, AxisSystem: scene.MayaYUp}
	switch {
	case st.Unit != "":
		u, err := scene.ParseSystemUnit(st.Unit)
		if err != nil {
			return gs, err
		}
		gs.SystemUnit = u
	case st.UnitScale > 0:
		gs.SystemUnit = scene.SystemUnit{ScaleFactor: st.UnitScale, Multiplier: 1}
	}
	if st.Axis != nil {
		a, err := scene.ParseAxisSystem(st.Axis.Up, st.Axis.Front, st.Axis.Coord)
		if err != nil {
			return gs, err
		}
		gs.AxisSystem = a
	}
	return gs, nil
}

func vec(v [3]float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func arr(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func (nj *nodeJSON) decode() (*scene.Node, error) {
	n := scene.NewNode(nj.Name)
	n.LclTranslation = vec(nj.Translation)
	n.LclRotation = vec(nj.Rotation)
	if nj.Scaling != nil {
		n.LclScaling = vec(*nj.Scaling)
	}
	n.PreRotation = vec(nj.PreRotation)
	n.PostRotation = vec(nj.PostRotation)
	n.RotationOffset = vec(nj.RotationOffset)
	n.RotationPivot = vec(nj.RotationPivot)
	n.ScalingOffset = vec(nj.ScalingOffset)
	n.ScalingPivot = vec(nj.ScalingPivot)

	if nj.Mesh != nil {
		m, err := nj.Mesh.decode()
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nj.Name, err)
		}
		n.Mesh = m
	}
	for _, cj := range nj.Children {
		if cj == nil {
			continue
		}
		c, err := cj.decode()
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}
	return n, nil
}

func (mj *meshJSON) decode() (*scene.Mesh, error) {
	m := &scene.Mesh{Polygons: mj.Polygons}
	m.ControlPoints = make([]r3.Vec, len(mj.ControlPoints))
	for i, p := range mj.ControlPoints {
		m.ControlPoints[i] = vec(p)
	}
	for li, lj := range mj.Layers {
		layer := &scene.Layer{}
		for _, uj := range lj.UV {
			slot := scene.TextureDiffuse
			if uj.Slot != "" {
				t, err := scene.ParseElementType(uj.Slot)
				if err != nil {
					return nil, fmt.Errorf("layer %d: %w", li, err)
				}
				slot = t
			}
			el, err := uj.decode()
			if err != nil {
				return nil, fmt.Errorf("layer %d uv %q: %w", li, uj.Name, err)
			}
			layer.SetUVs(slot, el)
		}
		m.Layers = append(m.Layers, layer)
	}
	return m, nil
}

func (uj uvJSON) decode() (*scene.UVElement, error) {
	mm, err := scene.ParseMappingMode(uj.Mapping)
	if err != nil {
		return nil, err
	}
	rm := scene.Direct
	if uj.Reference != "" {
		if rm, err = scene.ParseReferenceMode(uj.Reference); err != nil {
			return nil, err
		}
	}
	return &scene.UVElement{
		Name:          uj.Name,
		MappingMode:   mm,
		ReferenceMode: rm,
		Direct:        uj.Direct,
		Index:         uj.Index,
	}, nil
}

// Save writes s as a JSON scene document at the current file version.
func Save(path string, s *scene.Scene) error {
	if s == nil || s.Root == nil {
		return fmt.Errorf("loader: save %s: scene has no root", path)
	}
	doc := document{
		Header:   Header{Format: DocumentFormat, Version: CurrentFileVersion},
		Name:     s.Name,
		Settings: encodeSettings(s.Settings),
		Root:     encodeNode(s.Root),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("loader: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("loader: write %s: %w", path, err)
	}
	return nil
}

func encodeSettings(gs scene.GlobalSettings) settingsJSON {
	u := gs.SystemUnit
	st := settingsJSON{UnitScale: u.ConversionFactorTo(scene.Centimeter)}
	if _, err := scene.ParseSystemUnit(u.String()); err == nil {
		st = settingsJSON{Unit: u.String()}
	}
	up, front, coord := gs.AxisSystem.Names()
	if up == "" || front == "" {
		up, front, coord = scene.MayaYUp.Names()
	}
	st.Axis = &axisJSON{Up: up, Front: front, Coord: coord}
	return st
}

func encodeNode(n *scene.Node) *nodeJSON {
	sc := arr(n.LclScaling)
	nj := &nodeJSON{
		Name:           n.Name,
		Translation:    arr(n.LclTranslation),
		Rotation:       arr(n.LclRotation),
		Scaling:        &sc,
		PreRotation:    arr(n.PreRotation),
		PostRotation:   arr(n.PostRotation),
		RotationOffset: arr(n.RotationOffset),
		RotationPivot:  arr(n.RotationPivot),
		ScalingOffset:  arr(n.ScalingOffset),
		ScalingPivot:   arr(n.ScalingPivot),
	}
	if m := n.Mesh; m != nil {
		mj := &meshJSON{Polygons: m.Polygons}
		mj.ControlPoints = make([][3]float64, len(m.ControlPoints))
		for i, p := range m.ControlPoints {
			mj.ControlPoints[i] = arr(p)
		}
		for _, l := range m.Layers {
			var lj layerJSON
			if l != nil {
				for t := scene.Unknown; t < scene.TypeCount; t++ {
					el := l.UVsOf(t)
					if el == nil {
						continue
					}
					lj.UV = append(lj.UV, uvJSON{
						Slot:      t.String(),
						Name:      el.Name,
						Mapping:   el.MappingMode.String(),
						Reference: el.ReferenceMode.String(),
						Direct:    el.Direct,
						Index:     el.Index,
					})
				}
			}
			mj.Layers = append(mj.Layers, lj)
		}
		nj.Mesh = mj
	}
	for _, c := range n.Children {
		nj.Children = append(nj.Children, encodeNode(c))
	}
	return nj
}
