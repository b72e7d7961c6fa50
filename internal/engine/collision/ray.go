package collision

import (
	"github.com/Faultbox/groundwalk/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir math.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit describes the first triangle a ray meets.
type Hit struct {
	Index    int // Triangle index as passed to Build
	Point    math.Vec3
	Normal   math.Vec3
	Distance float32
}

// IntersectTriangle runs the Moller-Trumbore test. Both faces count.
func (r Ray) IntersectTriangle(tri Triangle) (t float32, ok bool) {
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < 1e-8 {
		return 0, false // Parallel to the triangle plane
	}
	inv := 1 / det
	s := r.Origin.Sub(tri.A)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false // Behind the origin
	}
	return t, true
}

// Raycast returns the nearest triangle hit within maxDist.
func (o *Octree) Raycast(r Ray, maxDist float32) (Hit, bool) {
	if o == nil || o.root == nil || r.Direction.IsZero() {
		return Hit{}, false
	}

	best := Hit{Index: -1, Distance: maxDist}
	var visit func(n *octreeNode)
	visit = func(n *octreeNode) {
		t, ok := n.bounds.IntersectRay(r.Origin, r.Direction)
		if !ok {
			return
		}
		// Inside the box the slab test returns the exit distance.
		if !n.bounds.Contains(r.Origin) && t > best.Distance {
			return
		}
		if n.children == nil {
			for _, j := range n.tris {
				if t, ok := r.IntersectTriangle(o.tris[j]); ok && t <= best.Distance {
					best = Hit{Index: int(j), Distance: t}
				}
			}
			return
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(o.root)

	if best.Index < 0 {
		return Hit{}, false
	}
	best.Point = r.At(best.Distance)
	best.Normal = o.tris[best.Index].Normal()
	if best.Normal.Dot(r.Direction) > 0 {
		best.Normal = best.Normal.Negate()
	}
	return best, true
}
