package loader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"gonum.org/v1/gonum/spatial/r3"

	"fbx-scene-import/internal/mathutil"
	"fbx-scene-import/internal/scene"
)

// glTF files are metres, +Y up, +Z front, right handed.
var gltfSettings = scene.GlobalSettings{
	SystemUnit: scene.Meter,
	AxisSystem: scene.AxisSystem{Up: scene.YAxis, Front: scene.ParityOdd, Coord: scene.RightHanded},
}

// gltfRootName names the synthetic root that holds the scene's top nodes.
const gltfRootName = "RootNode"

func convertGLTF(doc *gltf.Document) (*scene.Scene, error) {
	s := &scene.Scene{Settings: gltfSettings}
	root := scene.NewNode(gltfRootName)
	s.Root = root

	var top []uint32
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil {
			idx = int(*doc.Scene)
		}
		if idx >= len(doc.Scenes) {
			return nil, fmt.Errorf("default scene %d out of range", idx)
		}
		s.Name = doc.Scenes[idx].Name
		top = doc.Scenes[idx].Nodes
	} else {
		top = orphanNodes(doc)
	}

	c := &gltfConverter{doc: doc, visiting: map[int]bool{}}
	for _, i := range top {
		n, err := c.node(int(i))
		if err != nil {
			return nil, err
		}
		root.AddChild(n)
	}
	return s, nil
}

// orphanNodes returns every node no other node lists as a child.
func orphanNodes(doc *gltf.Document) []uint32 {
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(child) {
				child[c] = true
			}
		}
	}
	var out []uint32
	for i := range doc.Nodes {
		if !child[i] {
			out = append(out, uint32(i))
		}
	}
	return out
}

type gltfConverter struct {
	doc      *gltf.Document
	visiting map[int]bool
}

func (c *gltfConverter) node(i int) (*scene.Node, error) {
	if i < 0 || i >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", i)
	}
	if c.visiting[i] {
		return nil, fmt.Errorf("node %d is its own ancestor", i)
	}
	c.visiting[i] = true
	defer delete(c.visiting, i)

	gn := c.doc.Nodes[i]
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node%d", i)
	}
	n := scene.NewNode(name)

	t, q, s := nodeTRS(gn)
	n.LclTranslation = mathutil.R3(t)
	n.LclRotation = mathutil.QuatToEulerXYZ(q)
	n.LclScaling = mathutil.R3(s)

	if gn.Mesh != nil {
		m, err := c.mesh(int(*gn.Mesh))
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		n.Mesh = m
	}
	for _, ci := range gn.Children {
		child, err := c.node(int(ci))
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// nodeTRS prefers the node matrix when one is set. Zero rotation and scale
// are read as unset.
func nodeTRS(gn *gltf.Node) (mgl64.Vec3, mgl64.Quat, mgl64.Vec3) {
	if gn.Matrix != [16]float32{} {
		var m mgl64.Mat4
		for i, v := range gn.Matrix {
			m[i] = float64(v)
		}
		if !mathutil.IsIdentity(m) {
			t, q, s, _ := mathutil.Decompose(m)
			return t, q, s
		}
	}
	t := vec3From32(gn.Translation)
	q := mgl64.QuatIdent()
	if r := gn.Rotation; r != [4]float32{} {
		q = mgl64.Quat{W: float64(r[3]), V: mgl64.Vec3{float64(r[0]), float64(r[1]), float64(r[2])}}.Normalize()
	}
	s := mgl64.Vec3{1, 1, 1}
	if gn.Scale != [3]float32{} {
		s = vec3From32(gn.Scale)
	}
	return t, q, s
}

func vec3From32(v [3]float32) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// mesh merges every primitive of a glTF mesh into one source mesh. Each
// TEXCOORD_n attribute becomes a by-control-point UV set on layer n.
// Nodes sharing a glTF mesh get their own copy so unit rescaling touches
// each control point once.
func (c *gltfConverter) mesh(i int) (*scene.Mesh, error) {
	if i < 0 || i >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", i)
	}
	gm := c.doc.Meshes[i]

	out := &scene.Mesh{}
	var uvs [][][2]float64
	for pi, p := range gm.Primitives {
		posIdx, ok := p.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		acc, err := c.accessor(posIdx)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d positions: %w", gm.Name, pi, err)
		}
		pos, err := modeler.ReadPosition(c.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d positions: %w", gm.Name, pi, err)
		}
		var indices []uint32
		if p.Indices != nil {
			if acc, err = c.accessor(*p.Indices); err == nil {
				indices, err = modeler.ReadIndices(c.doc, acc, nil)
			}
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d indices: %w", gm.Name, pi, err)
			}
		} else {
			indices = make([]uint32, len(pos))
			for k := range indices {
				indices[k] = uint32(k)
			}
		}

		base := len(out.ControlPoints)
		for _, v := range pos {
			out.ControlPoints = append(out.ControlPoints, r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
		}
		for _, poly := range polygons(p.Mode, indices) {
			for k := range poly {
				poly[k] += base
			}
			out.Polygons = append(out.Polygons, poly)
		}

		for set := 0; ; set++ {
			tcIdx, ok := p.Attributes[fmt.Sprintf("TEXCOORD_%d", set)]
			if !ok {
				break
			}
			acc, err := c.accessor(tcIdx)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d TEXCOORD_%d: %w", gm.Name, pi, set, err)
			}
			tc, err := modeler.ReadTextureCoord(c.doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d TEXCOORD_%d: %w", gm.Name, pi, set, err)
			}
			for len(uvs) <= set {
				uvs = append(uvs, nil)
			}
			// Primitives without this set contribute (0,0).
			for len(uvs[set]) < base {
				uvs[set] = append(uvs[set], [2]float64{})
			}
			for _, v := range tc {
				// glTF V runs downwards.
				uvs[set] = append(uvs[set], [2]float64{float64(v[0]), 1 - float64(v[1])})
			}
		}
	}

	for set, direct := range uvs {
		for len(direct) < len(out.ControlPoints) {
			direct = append(direct, [2]float64{})
		}
		layer := &scene.Layer{}
		layer.SetUVs(scene.TextureDiffuse, &scene.UVElement{
			Name:          fmt.Sprintf("TEXCOORD_%d", set),
			MappingMode:   scene.ByControlPoint,
			ReferenceMode: scene.Direct,
			Direct:        direct,
		})
		out.Layers = append(out.Layers, layer)
	}
	return out, nil
}

func (c *gltfConverter) accessor(i uint32) (*gltf.Accessor, error) {
	if int(i) >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", i)
	}
	return c.doc.Accessors[i], nil
}

// polygons splits an index stream into polygons by primitive mode. Strips
// and fans are unrolled into triangles; line modes yield two-vertex
// polygons.
func polygons(mode gltf.PrimitiveMode, idx []uint32) [][]int {
	var out [][]int
	poly := func(v ...uint32) {
		p := make([]int, len(v))
		for i, x := range v {
			p[i] = int(x)
		}
		out = append(out, p)
	}
	switch mode {
	case gltf.PrimitivePoints:
		for _, v := range idx {
			poly(v)
		}
	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(idx); i += 2 {
			poly(idx[i], idx[i+1])
		}
	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		for i := 0; i+1 < len(idx); i++ {
			poly(idx[i], idx[i+1])
		}
		if mode == gltf.PrimitiveLineLoop && len(idx) > 2 {
			poly(idx[len(idx)-1], idx[0])
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				poly(idx[i], idx[i+1], idx[i+2])
			} else {
				poly(idx[i+1], idx[i], idx[i+2])
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			poly(idx[0], idx[i], idx[i+1])
		}
	default:
		for i := 0; i+2 < len(idx); i += 3 {
			poly(idx[i], idx[i+1], idx[i+2])
		}
	}
	return out
}
