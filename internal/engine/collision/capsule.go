package collision

import (
	"errors"
	"fmt"

	"github.com/Faultbox/groundwalk/pkg/math"
)

// ErrInvalidRadius is returned when a capsule is built with radius <= 0.
var ErrInvalidRadius = errors.New("capsule radius must be positive")

// Capsule is a swept sphere: every point within Radius of the segment
// Start-End. End - Start is the capsule's up axis.
type Capsule struct {
	Start  math.Vec3
	End    math.Vec3
	Radius float32
}

// NewCapsule creates a capsule. The radius must be positive.
func NewCapsule(start, end math.Vec3, radius float32) (Capsule, error) {
	if !(radius > 0) {
		return Capsule{}, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	return Capsule{Start: start, End: end, Radius: radius}, nil
}

// Translate shifts both endpoints by v.
func (c *Capsule) Translate(v math.Vec3) {
	c.Start = c.Start.Add(v)
	c.End = c.End.Add(v)
}

// ClosestPointOnSegment returns the point of the Start-End segment nearest to p.
func (c Capsule) ClosestPointOnSegment(p math.Vec3) math.Vec3 {
	return closestOnSegment(c.Start, c.End, p)
}

// Axis returns End - Start.
func (c Capsule) Axis() math.Vec3 {
	return c.End.Sub(c.Start)
}

// Center returns the segment midpoint.
func (c Capsule) Center() math.Vec3 {
	return c.Start.Add(c.End).Scale(0.5)
}

// Bounds returns the box enclosing the capsule (endpoints +/- radius).
func (c Capsule) Bounds() AABB {
	return NewAABB(c.Start, c.End).Grow(c.Radius)
}

// closestOnSegment projects p onto segment a-b, clamped to the ends.
// A zero-length segment returns a.
func closestOnSegment(a, b, p math.Vec3) math.Vec3 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return a
	}
	t := math.Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Scale(t))
}

// closestSegmentSegment returns the closest points between segments p1-q1
// and p2-q2 (Ericson 5.1.9). Zero-length and parallel segments are handled
// by clamping instead of dividing.
func closestSegmentSegment(p1, q1, p2, q2 math.Vec3) (c1, c2 math.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.LengthSq()
	e := d2.LengthSq()
	f := d2.Dot(r)

	var s, t float32
	switch {
	case a <= Epsilon*Epsilon && e <= Epsilon*Epsilon:
		return p1, p2
	case a <= Epsilon*Epsilon:
		s = 0
		t = math.Clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= Epsilon*Epsilon {
			t = 0
			s = math.Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > 0 {
				s = math.Clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = math.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = math.Clamp((b-c)/a, 0, 1)
			}
		}
	}
	return p1.Add(d1.Scale(s)), p2.Add(d2.Scale(t))
}
