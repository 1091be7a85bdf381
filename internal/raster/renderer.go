package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"fbx-scene-import/internal/engine"
	"fbx-scene-import/internal/mathutil"
	"fbx-scene-import/internal/texture"
)

// Options controls the preview camera and canvas.
type Options struct {
	// Size is the output edge in pixels before supersampling.
	Size        int
	Supersample int
	// Margin is kept free on every side, in output pixels.
	Margin int
	// Pitch and Yaw orbit the camera around the scene, in degrees.
	Pitch float64
	Yaw   float64
}

// DefaultOptions is a three-quarter view from slightly above.
func DefaultOptions() Options {
	return Options{Size: 256, Supersample: 2, Margin: 16, Pitch: 20, Yaw: -30}
}

// DefaultColor is used for meshes without a texture.
var DefaultColor = color.NRGBA{160, 160, 170, 255}

type drawable struct {
	node  *engine.Node
	verts []mgl64.Vec3 // view space
}

// Render draws every mesh in the tree rooted at root with an orthographic
// camera and returns a (Size*Supersample)² image. Textures are looked up
// by node name and sampled with UV channel 0.
func Render(root *engine.Node, tex texture.Resolver, opt Options) *image.NRGBA {
	if opt.Size <= 0 {
		opt.Size = DefaultOptions().Size
	}
	if opt.Supersample <= 0 {
		opt.Supersample = 1
	}
	renderSize := opt.Size * opt.Supersample
	if root == nil {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	view := mathutil.EulerXYZ(r3.Vec{X: opt.Pitch, Y: opt.Yaw})
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	var items []drawable
	root.Walk(func(n *engine.Node) bool {
		if n.Mesh == nil || len(n.Mesh.Vertices) == 0 {
			return true
		}
		world := n.WorldMatrix()
		d := drawable{node: n, verts: make([]mgl64.Vec3, len(n.Mesh.Vertices))}
		for i, v := range n.Mesh.Vertices {
			w := world.Mul4x1(v.Vec4(1))
			p := view.Mul4x1(mgl64.Vec4{float64(w[0]), float64(w[1]), float64(w[2]), 1}).Vec3()
			d.verts[i] = p
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], p[k])
				hi[k] = math.Max(hi[k], p[k])
			}
		}
		items = append(items, d)
		return true
	})
	if len(items) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	center := lo.Add(hi).Mul(0.5)
	span := math.Max(math.Max(hi[0]-lo[0], hi[1]-lo[1]), 0.001)
	margin := opt.Margin * opt.Supersample
	scale := float64(renderSize-2*margin) / span
	half := float64(renderSize) / 2

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for _, d := range items {
		m := d.node.Mesh
		var img *image.NRGBA
		if tex != nil {
			img = tex.Resolve(d.node.Name)
		}
		base := DefaultColor
		if img != nil {
			base = averageColor(img)
		}
		uvs := m.UV[0]
		hasUV := len(uvs) == len(m.Triangles)

		for t := 0; t+2 < len(m.Triangles); t += 3 {
			var tri [3]Vertex
			ok := true
			for k := 0; k < 3; k++ {
				vi := int(m.Triangles[t+k])
				if vi < 0 || vi >= len(d.verts) {
					ok = false
					break
				}
				p := d.verts[vi]
				// Screen Y runs down; the engine frame is left handed so
				// nearer points have smaller view Z.
				tri[k].Pos = mgl64.Vec3{(p[0]-center[0])*scale + half, half - (p[1]-center[1])*scale, -p[2]}
				if hasUV {
					tri[k].UV = uvs[t+k]
				}
			}
			if ok {
				RasterizeTriangle(fb, tri, hasUV, img, base, &lc)
			}
		}
	}
	return fb.Image()
}

func averageColor(tex *image.NRGBA) color.NRGBA {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return DefaultColor
	}

	var sum [3]float64
	for y := 0; y < h; y++ {
		off := y * tex.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sum[0] += float64(tex.Pix[i])
			sum[1] += float64(tex.Pix[i+1])
			sum[2] += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return color.NRGBA{uint8(sum[0]/n + 0.5), uint8(sum[1]/n + 0.5), uint8(sum[2]/n + 0.5), 255}
}
