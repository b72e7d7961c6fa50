package renderer

import (
	"testing"

	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/pkg/math"
)

func TestBuildMesh(t *testing.T) {
	tris := collision.Plane(2, 2)
	tris = append(tris, collision.Triangle{A: math.Vec3{}, B: math.Vec3{X: 1}, C: math.Vec3{X: 2}}) // Degenerate
	owners := []int{0, 1, 1}

	m := BuildMesh(tris, owners)
	if m.Count != 6 {
		t.Fatalf("Count = %d, want 6", m.Count)
	}
	if len(m.Vertices) != int(m.Count)*floatsPerVertex {
		t.Fatalf("got %d floats for %d vertices", len(m.Vertices), m.Count)
	}

	vertex := func(i int) []float32 { return m.Vertices[i*floatsPerVertex : (i+1)*floatsPerVertex] }
	for i := range int(m.Count) {
		v := vertex(i)
		if v[3] != 0 || v[4] != 1 || v[5] != 0 {
			t.Errorf("vertex %d normal = %v, want up", i, v[3:6])
		}
	}

	// Both vertices of a face share a color; the two owners differ.
	first, second := vertex(0)[6:9], vertex(3)[6:9]
	if [3]float32(first) != palette[0] || [3]float32(second) != palette[1] {
		t.Errorf("colors = %v / %v", first, second)
	}

	if want := tris[0].A; vertex(0)[0] != want.X || vertex(0)[2] != want.Z {
		t.Errorf("first vertex = %v, want %v", vertex(0)[:3], want)
	}
}

func TestBuildMeshWithoutOwners(t *testing.T) {
	m := BuildMesh(collision.Box(collision.NewAABB(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})), nil)
	if m.Count != 36 {
		t.Fatalf("Count = %d, want 36", m.Count)
	}
	if empty := BuildMesh(nil, nil); empty.Count != 0 || len(empty.Vertices) != 0 {
		t.Errorf("empty mesh = %+v", empty)
	}
}
