package collision

import (
	"github.com/Faultbox/groundwalk/pkg/math"
)

// Closest is the closest-point pair between a segment and a triangle.
type Closest struct {
	OnSegment  math.Vec3
	OnTriangle math.Vec3
	Distance   float32
	// Pierced is set when the segment passes through the triangle's interior.
	Pierced bool
}

// SegmentTriangle computes the minimum distance between segment p-q and a
// triangle. The piercing case is found from the plane crossing; otherwise
// the minimum is attained at a segment endpoint projected onto the triangle
// or between the segment and one of the three edges.
func SegmentTriangle(p, q math.Vec3, tri Triangle) Closest {
	n := tri.Normal()
	if !n.IsZero() {
		dp := p.Sub(tri.A).Dot(n)
		dq := q.Sub(tri.A).Dot(n)
		if (dp <= 0 && dq >= 0 || dp >= 0 && dq <= 0) && dp != dq {
			x := p.Lerp(q, dp/(dp-dq))
			if tri.containsProjection(x, n) {
				return Closest{OnSegment: x, OnTriangle: x, Pierced: dp != 0 && dq != 0}
			}
		}
	}

	var best Closest
	bestSq := float32(-1)
	consider := func(onSeg, onTri math.Vec3) {
		if d := onSeg.DistanceSq(onTri); bestSq < 0 || d < bestSq {
			bestSq = d
			best = Closest{OnSegment: onSeg, OnTriangle: onTri}
		}
	}

	consider(p, tri.ClosestPoint(p))
	consider(q, tri.ClosestPoint(q))
	for _, e := range [3][2]math.Vec3{{tri.A, tri.B}, {tri.B, tri.C}, {tri.C, tri.A}} {
		consider(closestSegmentSegment(p, q, e[0], e[1]))
	}

	best.Distance = math.Sqrt(bestSq)
	return best
}

// triangleContact returns the push-out for a capsule overlapping tri:
// translating the capsule by normal*depth separates it from the triangle.
func triangleContact(c Capsule, tri Triangle) (normal math.Vec3, depth float32, ok bool) {
	cl := SegmentTriangle(c.Start, c.End, tri)
	if cl.Distance >= c.Radius {
		return math.Vec3{}, 0, false
	}

	face := tri.Normal()
	ds := c.Start.Sub(tri.A).Dot(face)
	de := c.End.Sub(tri.A).Dot(face)

	switch {
	case cl.Pierced || (cl.Distance <= Epsilon && ds*de < 0):
		// Move the whole segment to one side of the plane, whichever is shorter.
		up := c.Radius - min(ds, de)
		down := c.Radius + max(ds, de)
		if up <= down {
			normal, depth = face, up
		} else {
			normal, depth = face.Negate(), down
		}
	case cl.Distance > Epsilon:
		normal = cl.OnSegment.Sub(cl.OnTriangle).Scale(1 / cl.Distance)
		depth = c.Radius - cl.Distance
	default:
		// Touching the surface: push along the face normal toward the segment.
		normal = face
		if ds+de < 0 {
			normal = face.Negate()
		}
		if normal.IsZero() {
			normal = math.Up
		}
		depth = c.Radius - cl.Distance
	}

	if depth <= Epsilon {
		return math.Vec3{}, 0, false
	}
	return normal, depth, true
}
