package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// nodeJSON is the on-disk form of a Node subtree.
type nodeJSON struct {
	Name     string      `json:"name"`
	Position [3]float32  `json:"position"`
	Rotation [4]float32  `json:"rotation"` // x, y, z, w
	Scale    [3]float32  `json:"scale"`
	Mesh     *meshJSON   `json:"mesh,omitempty"`
	Children []*nodeJSON `json:"children,omitempty"`
}

type meshJSON struct {
	Vertices  [][3]float32   `json:"vertices"`
	Triangles []int32        `json:"triangles"`
	UV        [][][2]float32 `json:"uv,omitempty"`
}

func toJSON(n *Node) *nodeJSON {
	q := n.LocalRotation
	out := &nodeJSON{
		Name:     n.Name,
		Position: n.LocalPosition,
		Rotation: [4]float32{q.V[0], q.V[1], q.V[2], q.W},
		Scale:    n.LocalScale,
	}
	if m := n.Mesh; m != nil {
		mj := &meshJSON{Triangles: m.Triangles}
		mj.Vertices = make([][3]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			mj.Vertices[i] = v
		}
		// Absent channels stay as null so indices keep their meaning.
		last := -1
		for ch := 0; ch < MaxUVChannels; ch++ {
			if m.UV[ch] != nil {
				last = ch
			}
		}
		for ch := 0; ch <= last; ch++ {
			var uvs [][2]float32
			if m.UV[ch] != nil {
				uvs = make([][2]float32, len(m.UV[ch]))
				for i, v := range m.UV[ch] {
					uvs[i] = v
				}
			}
			mj.UV = append(mj.UV, uvs)
		}
		out.Mesh = mj
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toJSON(c))
	}
	return out
}

// MarshalTree encodes the subtree rooted at n as indented JSON.
func MarshalTree(n *Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("engine: nil node")
	}
	return json.MarshalIndent(toJSON(n), "", "  ")
}

// WriteJSON writes the subtree rooted at n to path.
func WriteJSON(path string, n *Node) error {
	data, err := MarshalTree(n)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("engine: write %s: %w", path, err)
	}
	return nil
}
