package collision

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/groundwalk/pkg/math"
)

func TestNewCapsuleRejectsBadRadius(t *testing.T) {
	for _, r := range []float32{0, -0.35, float32(gomath.NaN())} {
		if _, err := NewCapsule(math.Vec3{}, math.Vec3{Y: 1}, r); !errors.Is(err, ErrInvalidRadius) {
			t.Errorf("NewCapsule(radius=%v) error = %v, want ErrInvalidRadius", r, err)
		}
	}

	c, err := NewCapsule(math.Vec3{Y: 0.35}, math.Vec3{Y: 1.35}, 0.35)
	if err != nil {
		t.Fatalf("NewCapsule: %v", err)
	}
	if c.Radius != 0.35 {
		t.Errorf("Radius = %v, want 0.35", c.Radius)
	}
}

func TestCapsuleTranslateIsReversible(t *testing.T) {
	c := Capsule{Start: math.Vec3{X: 1, Y: 0.25, Z: -3}, End: math.Vec3{X: 1, Y: 1.25, Z: -3}, Radius: 0.5}
	orig := c
	v := math.Vec3{X: 0.5, Y: -1.25, Z: 2}

	c.Translate(v)
	if c.Start != orig.Start.Add(v) || c.End != orig.End.Add(v) {
		t.Fatalf("Translate moved to %v-%v", c.Start, c.End)
	}
	c.Translate(v.Negate())
	if c != orig {
		t.Errorf("after translate and back: %+v, want %+v", c, orig)
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	c := Capsule{Start: math.Vec3{}, End: math.Vec3{Y: 2}, Radius: 0.5}
	tests := []struct {
		name string
		p    math.Vec3
		want math.Vec3
	}{
		{"below start clamps", math.Vec3{X: 1, Y: -3}, math.Vec3{}},
		{"above end clamps", math.Vec3{Z: 1, Y: 7}, math.Vec3{Y: 2}},
		{"beside middle projects", math.Vec3{X: 4, Y: 1.5}, math.Vec3{Y: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ClosestPointOnSegment(tt.p); got.Distance(tt.want) > 1e-6 {
				t.Errorf("ClosestPointOnSegment(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	sphere := Capsule{Start: math.Vec3{X: 1}, End: math.Vec3{X: 1}, Radius: 1}
	if got := sphere.ClosestPointOnSegment(math.Vec3{Y: 5}); got != (math.Vec3{X: 1}) {
		t.Errorf("zero-length segment = %v, want its single point", got)
	}
}

func TestCapsuleBounds(t *testing.T) {
	c := Capsule{Start: math.Vec3{Y: 1}, End: math.Vec3{Y: 0}, Radius: 0.5}
	b := c.Bounds()
	want := AABB{Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, Max: math.Vec3{X: 0.5, Y: 1.5, Z: 0.5}}
	if b != want {
		t.Errorf("Bounds() = %+v, want %+v", b, want)
	}
}

func TestAABBOctantsTileParent(t *testing.T) {
	b := NewAABB(math.Vec3{X: -2, Y: 0, Z: 4}, math.Vec3{X: 2, Y: 8, Z: 0})
	var vol float32
	for i := range 8 {
		o := b.Octant(i)
		s := o.Size()
		vol += s.X * s.Y * s.Z
		if !b.Contains(o.Min) || !b.Contains(o.Max) {
			t.Errorf("octant %d %+v escapes parent", i, o)
		}
	}
	s := b.Size()
	if math.Abs(vol-s.X*s.Y*s.Z) > 1e-4 {
		t.Errorf("octant volume %v, want %v", vol, s.X*s.Y*s.Z)
	}
}

func TestAABBCube(t *testing.T) {
	b := NewAABB(math.Vec3{}, math.Vec3{X: 4, Y: 0, Z: 2})
	c := b.Cube()
	s := c.Size()
	if s.X != 4 || s.Y != 4 || s.Z != 4 {
		t.Errorf("Cube size = %v, want 4 on each axis", s)
	}
	if c.Center() != b.Center() {
		t.Errorf("Cube center %v, want %v", c.Center(), b.Center())
	}
}
