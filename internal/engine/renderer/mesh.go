package renderer

import (
	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/pkg/math"
)

// floatsPerVertex is position, normal and color.
const floatsPerVertex = 9

// palette tints consecutive objects so neighbouring pieces stay apart.
var palette = [...][3]float32{
	{0.62, 0.64, 0.58},
	{0.74, 0.52, 0.36},
	{0.42, 0.58, 0.72},
	{0.55, 0.70, 0.45},
	{0.78, 0.70, 0.46},
	{0.60, 0.48, 0.68},
}

// Mesh is interleaved vertex data ready for a VBO.
type Mesh struct {
	Vertices []float32
	Count    int32 // Vertex count
}

// BuildMesh flattens triangles into flat-shaded vertices. owners, when
// non-nil, picks a palette color per triangle. Degenerate triangles are
// dropped.
func BuildMesh(tris []collision.Triangle, owners []int) Mesh {
	m := Mesh{Vertices: make([]float32, 0, len(tris)*3*floatsPerVertex)}
	for i, t := range tris {
		if t.Degenerate() {
			continue
		}
		n := t.Normal()
		c := palette[0]
		if i < len(owners) {
			c = palette[owners[i]%len(palette)]
		}
		for _, v := range [3]math.Vec3{t.A, t.B, t.C} {
			m.Vertices = append(m.Vertices,
				v.X, v.Y, v.Z,
				n.X, n.Y, n.Z,
				c[0], c[1], c[2])
		}
		m.Count += 3
	}
	return m
}
