package scene

import "gonum.org/v1/gonum/spatial/r3"

// Scene is the parsed source file. The loader owns it for the duration of
// one import; the core only reads it, apart from the unit rescale pass.
type Scene struct {
	Name     string
	Root     *Node
	Settings GlobalSettings
}

// GlobalSettings carries the file-wide unit and axis conventions.
type GlobalSettings struct {
	SystemUnit SystemUnit
	AxisSystem AxisSystem
}

// Node is one entry of the source hierarchy.
//
// Rotations are Euler angles in degrees, applied X then Y then Z.
type Node struct {
	Name     string
	Children []*Node
	Mesh     *Mesh

	LclTranslation r3.Vec
	LclRotation    r3.Vec
	LclScaling     r3.Vec
	PreRotation    r3.Vec
	PostRotation   r3.Vec
	RotationOffset r3.Vec
	RotationPivot  r3.Vec
	ScalingOffset  r3.Vec
	ScalingPivot   r3.Vec
}

// NewNode returns a node with unit scaling and every other component zero.
func NewNode(name string) *Node {
	return &Node{Name: name, LclScaling: r3.Vec{X: 1, Y: 1, Z: 1}}
}

// AddChild appends c and returns it.
func (n *Node) AddChild(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}

// ChildCount mirrors the SDK accessor.
func (n *Node) ChildCount() int { return len(n.Children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.Children[i] }

// Mesh holds the control points, polygons and layers of one geometry.
type Mesh struct {
	ControlPoints []r3.Vec
	// Polygons lists control-point indices per polygon.
	Polygons [][]int
	Layers   []*Layer
}

func (m *Mesh) ControlPointsCount() int { return len(m.ControlPoints) }

func (m *Mesh) PolygonCount() int { return len(m.Polygons) }

func (m *Mesh) PolygonSize(p int) int { return len(m.Polygons[p]) }

func (m *Mesh) PolygonVertex(p, v int) int { return m.Polygons[p][v] }

// PolygonVertices flattens every polygon into one index list.
func (m *Mesh) PolygonVertices() []int {
	n := 0
	for _, p := range m.Polygons {
		n += len(p)
	}
	out := make([]int, 0, n)
	for _, p := range m.Polygons {
		out = append(out, p...)
	}
	return out
}

// LayerCount mirrors the SDK accessor.
func (m *Mesh) LayerCount() int { return len(m.Layers) }

// Layer returns layer i, or nil when i is out of range.
func (m *Mesh) Layer(i int) *Layer {
	if i < 0 || i >= len(m.Layers) {
		return nil
	}
	return m.Layers[i]
}

// Layer groups layer elements; UV sets are keyed by the texture slot they feed.
type Layer struct {
	UVSets map[ElementType]*UVElement
}

// UVs returns the diffuse UV set, or nil.
func (l *Layer) UVs() *UVElement {
	return l.UVsOf(TextureDiffuse)
}

// UVsOf returns the UV set feeding texture slot t, or nil.
func (l *Layer) UVsOf(t ElementType) *UVElement {
	if l == nil || l.UVSets == nil {
		return nil
	}
	return l.UVSets[t]
}

// SetUVs stores el under slot t.
func (l *Layer) SetUVs(t ElementType, el *UVElement) {
	if l.UVSets == nil {
		l.UVSets = make(map[ElementType]*UVElement)
	}
	l.UVSets[t] = el
}

// UVElement is one UV layer element.
type UVElement struct {
	Name          string
	ReferenceMode ReferenceMode
	MappingMode   MappingMode
	Direct        [][2]float64
	// Index is only consulted when ReferenceMode is not Direct.
	Index []int
}
