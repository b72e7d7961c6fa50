package collision

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/Faultbox/groundwalk/pkg/math"
)

// randomTriangles scatters small triangles through a 100-unit cube.
func randomTriangles(n int, seed int64) []Triangle {
	rng := rand.New(rand.NewSource(seed))
	pt := func() math.Vec3 {
		return math.Vec3{
			X: rng.Float32()*100 - 50,
			Y: rng.Float32()*100 - 50,
			Z: rng.Float32()*100 - 50,
		}
	}
	off := func() math.Vec3 {
		return math.Vec3{X: rng.Float32()*6 - 3, Y: rng.Float32()*6 - 3, Z: rng.Float32()*6 - 3}
	}
	tris := make([]Triangle, 0, n)
	for len(tris) < n {
		a := pt()
		t := Triangle{A: a, B: a.Add(off()), C: a.Add(off())}
		if !t.Degenerate() {
			tris = append(tris, t)
		}
	}
	return tris
}

func TestOctreeContainment(t *testing.T) {
	tests := []struct {
		name string
		n    int
		opts BuildOptions
	}{
		{"single leaf", 10, DefaultBuildOptions()},
		{"deep split", 2000, BuildOptions{MaxDepth: 8, LeafTriangles: 4}},
		{"depth capped", 2000, BuildOptions{MaxDepth: 2, LeafTriangles: 1}},
		{"flat leaves", 500, BuildOptions{MaxDepth: 6, LeafTriangles: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris := randomTriangles(tt.n, 42)
			o := Build(tris, tt.opts)

			for i, tri := range tris {
				got := o.Query(tri.Bounds())
				if _, found := slices.BinarySearch(got, i); !found {
					t.Fatalf("triangle %d missing from query of its own bounds", i)
				}
			}
		})
	}
}

func TestOctreeQueryMatchesBruteForce(t *testing.T) {
	tris := randomTriangles(1500, 7)
	o := Build(tris, BuildOptions{MaxDepth: 6, LeafTriangles: 8})

	rng := rand.New(rand.NewSource(99))
	for range 200 {
		c := math.Vec3{X: rng.Float32()*120 - 60, Y: rng.Float32()*120 - 60, Z: rng.Float32()*120 - 60}
		box := NewAABB(c, c.Add(math.Vec3{X: 5, Y: 5, Z: 5}))

		var want []int
		for i, tri := range tris {
			if tri.Bounds().Intersects(box) {
				want = append(want, i)
			}
		}
		got := o.Query(box)
		if !slices.Equal(got, want) {
			t.Fatalf("Query(%v) = %v, want %v", box, got, want)
		}
	}
}

func TestOctreeEmpty(t *testing.T) {
	o := Build(nil, DefaultBuildOptions())

	if got := o.Query(NewAABB(math.Vec3{X: -1e6}, math.Vec3{X: 1e6})); got != nil {
		t.Errorf("empty octree Query = %v, want nil", got)
	}
	if o.Len() != 0 {
		t.Errorf("Len() = %d, want 0", o.Len())
	}
	if !o.Bounds().IsEmpty() {
		t.Error("empty octree should report empty bounds")
	}
	c, _ := NewCapsule(math.Vec3{}, math.Vec3{Y: 1}, 0.5)
	if _, hit := Intersect(c, o); hit {
		t.Error("Intersect against empty octree should report no collision")
	}
}

func TestOctreeSkipsDegenerate(t *testing.T) {
	tris := []Triangle{
		{A: math.Vec3{}, B: math.Vec3{X: 1}, C: math.Vec3{Z: 1}},
		{A: math.Vec3{}, B: math.Vec3{X: 1}, C: math.Vec3{X: 2}}, // collinear
		{A: math.Vec3{Y: 1}, B: math.Vec3{Y: 1}, C: math.Vec3{Y: 1}},
	}
	o := Build(tris, DefaultBuildOptions())

	got := o.Query(NewAABB(math.Vec3{X: -5, Y: -5, Z: -5}, math.Vec3{X: 5, Y: 5, Z: 5}))
	if !slices.Equal(got, []int{0}) {
		t.Errorf("Query = %v, want [0]", got)
	}
	s := o.Stats()
	if s.Triangles != 3 || s.Indexed != 1 {
		t.Errorf("Stats = %+v, want 3 triangles with 1 indexed", s)
	}
}

func TestOctreeStats(t *testing.T) {
	tris := randomTriangles(1000, 3)
	o := Build(tris, BuildOptions{MaxDepth: 5, LeafTriangles: 10})
	s := o.Stats()

	if s.Depth > 5 {
		t.Errorf("Depth = %d, exceeds MaxDepth 5", s.Depth)
	}
	if s.Leaves == 0 || s.Nodes <= s.Leaves {
		t.Errorf("expected an internal root with leaves, got %+v", s)
	}
	if s.References < s.Indexed {
		t.Errorf("References %d < Indexed %d: triangles were dropped", s.References, s.Indexed)
	}
}

func TestOctreeLargeTriangleStopsSplitting(t *testing.T) {
	// Triangles covering the whole scene land in every octant; the build
	// must stop instead of copying them down to MaxDepth.
	big := Triangle{
		A: math.Vec3{X: -100, Z: -100},
		B: math.Vec3{X: -100, Y: 1, Z: 100},
		C: math.Vec3{X: 100, Z: 100},
	}
	tris := make([]Triangle, 40)
	for i := range tris {
		tris[i] = big
	}
	o := Build(tris, BuildOptions{MaxDepth: 10, LeafTriangles: 1})
	if s := o.Stats(); s.Nodes != 1 {
		t.Errorf("Nodes = %d, want a single leaf root", s.Nodes)
	}
	if got := o.Query(big.Bounds()); len(got) != 40 {
		t.Errorf("Query returned %d triangles, want 40", len(got))
	}
}

func TestRaycast(t *testing.T) {
	tris := Box(NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1}))
	o := Build(tris, DefaultBuildOptions())

	hit, ok := o.Raycast(NewRay(math.Vec3{X: 0.2, Y: -0.4, Z: 10}, math.Vec3{Z: -1}), 100)
	if !ok {
		t.Fatal("expected a hit on the +Z face")
	}
	if math.Abs(hit.Distance-9) > 1e-4 {
		t.Errorf("Distance = %v, want 9", hit.Distance)
	}
	if hit.Normal.Distance(math.Vec3{Z: 1}) > 1e-4 {
		t.Errorf("Normal = %v, want +Z", hit.Normal)
	}

	if _, ok := o.Raycast(NewRay(math.Vec3{X: 0.2, Y: -0.4, Z: 10}, math.Vec3{Z: -1}), 5); ok {
		t.Error("hit beyond maxDist should be ignored")
	}
	if _, ok := o.Raycast(NewRay(math.Vec3{X: 0.2, Y: -0.4, Z: 10}, math.Vec3{Z: 1}), 100); ok {
		t.Error("ray pointing away should miss")
	}

	// From inside the box the far wall is hit.
	hit, ok = o.Raycast(NewRay(math.Vec3{Y: 0.3, Z: 0.1}, math.Vec3{X: 1}), 100)
	if !ok || math.Abs(hit.Distance-1) > 1e-4 {
		t.Errorf("inside ray hit = %+v, %v; want distance 1", hit, ok)
	}
}
