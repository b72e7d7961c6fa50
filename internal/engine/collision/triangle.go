package collision

import (
	"github.com/Faultbox/groundwalk/pkg/math"
)

// degenerateArea2 is the squared doubled-area below which a triangle is
// treated as a sliver and skipped by Build.
const degenerateArea2 = 1e-16

// Triangle is a world-space triangle.
type Triangle struct {
	A, B, C math.Vec3
}

// Normal returns the unit face normal (counter-clockwise winding).
// Degenerate triangles return the zero vector.
func (t Triangle) Normal() math.Vec3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Normalize()
}

// Bounds returns the triangle's bounding box.
func (t Triangle) Bounds() AABB {
	return AABB{
		Min: t.A.Min(t.B).Min(t.C),
		Max: t.A.Max(t.B).Max(t.C),
	}
}

// Centroid returns the average of the three vertices.
func (t Triangle) Centroid() math.Vec3 {
	return t.A.Add(t.B).Add(t.C).Scale(1.0 / 3.0)
}

// Degenerate reports whether the triangle has (near) zero area.
func (t Triangle) Degenerate() bool {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).LengthSq() < degenerateArea2
}

// Transform returns the triangle with every vertex transformed by m.
func (t Triangle) Transform(m math.Mat4) Triangle {
	return Triangle{
		A: m.TransformVec3(t.A),
		B: m.TransformVec3(t.B),
		C: m.TransformVec3(t.C),
	}
}

// ClosestPoint returns the point on the triangle nearest to p.
// Follows the Voronoi-region walk from Ericson, Real-Time Collision
// Detection 5.1.5; degenerate triangles fall back to their edges.
func (t Triangle) ClosestPoint(p math.Vec3) math.Vec3 {
	a, b, c := t.A, t.B, t.C
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Scale(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Scale(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(w))
	}

	denom := va + vb + vc
	if denom == 0 {
		// Collinear or coincident vertices: nearest of the three edges.
		best := closestOnSegment(a, b, p)
		for _, q := range []math.Vec3{closestOnSegment(b, c, p), closestOnSegment(c, a, p)} {
			if q.DistanceSq(p) < best.DistanceSq(p) {
				best = q
			}
		}
		return best
	}
	v := vb / denom
	w := vc / denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}

// containsProjection reports whether p, assumed on the triangle's plane,
// lies inside the triangle (edges included).
func (t Triangle) containsProjection(p, n math.Vec3) bool {
	edges := [3][2]math.Vec3{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
	for _, e := range edges {
		if e[1].Sub(e[0]).Cross(p.Sub(e[0])).Dot(n) < -Epsilon*Epsilon {
			return false
		}
	}
	return true
}
