package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxUVChannels is the number of UV channels a Mesh can carry.
const MaxUVChannels = 4

// Node is one object of the target scene tree.
type Node struct {
	Name     string
	Parent   *Node
	Children []*Node

	LocalPosition mgl32.Vec3
	LocalRotation mgl32.Quat
	LocalScale    mgl32.Vec3

	Mesh *Mesh
}

// NewNode returns a detached node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:          name,
		LocalRotation: mgl32.QuatIdent(),
		LocalScale:    mgl32.Vec3{1, 1, 1},
	}
}

// SetParent moves n under p. A nil p detaches n.
func (n *Node) SetParent(p *Node) {
	if n.Parent == p {
		return
	}
	if n.Parent != nil {
		siblings := n.Parent.Children
		for i, c := range siblings {
			if c == n {
				n.Parent.Children = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	n.Parent = p
	if p != nil {
		p.Children = append(p.Children, n)
	}
}

// LocalMatrix composes T · R · S.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	p := n.LocalPosition
	s := n.LocalScale
	return mgl32.Translate3D(p[0], p[1], p[2]).
		Mul4(n.LocalRotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// WorldMatrix chains local matrices from the root down to n.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// Walk visits n and its descendants depth first, pre-order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}

// Find returns the first node in pre-order with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Path returns the slash-joined names from the root to n.
func (n *Node) Path() string {
	if n.Parent == nil {
		return n.Name
	}
	return n.Parent.Path() + "/" + n.Name
}

// Mesh is the engine-side geometry attached to a node.
type Mesh struct {
	Vertices  []mgl32.Vec3
	Triangles []int32
	// UV holds up to four channels aligned with Triangles; nil means absent.
	UV [MaxUVChannels][]mgl32.Vec2
}

// TriangleCount returns len(Triangles) / 3.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// ChannelCount returns how many UV channels are present.
func (m *Mesh) ChannelCount() int {
	n := 0
	for _, ch := range m.UV {
		if ch != nil {
			n++
		}
	}
	return n
}
