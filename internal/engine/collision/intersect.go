package collision

import (
	"github.com/Faultbox/groundwalk/pkg/math"
)

// Epsilon is the penetration (in world units) below which a contact is
// treated as resting rather than colliding.
const Epsilon = 1e-4

// MaxPasses bounds how many times Intersect sweeps the candidate triangles.
const MaxPasses = 4

// Result is the correction that resolves a capsule's overlap with the world:
// translating the capsule by Normal*Depth removes it.
type Result struct {
	Normal math.Vec3 // Unit push-out direction
	Depth  float32   // Push-out distance, always > Epsilon
}

// Correction returns Normal*Depth.
func (r Result) Correction() math.Vec3 {
	return r.Normal.Scale(r.Depth)
}

// Intersect tests a capsule against the index and returns the correction
// resolving every overlap, or false when nothing overlaps.
//
// Contacts are resolved one at a time on a working copy of the capsule, so
// later triangles are tested against the already corrected position. The
// sweep repeats until a pass finds no contact or MaxPasses is reached. The
// result is the summed displacement, normalized, with its length as depth.
func Intersect(c Capsule, idx *Octree) (Result, bool) {
	if idx == nil || idx.root == nil {
		return Result{}, false
	}

	work := c
	for range MaxPasses {
		moved := false
		for _, i := range idx.Query(work.Bounds()) {
			n, d, ok := triangleContact(work, idx.tris[i])
			if !ok {
				continue
			}
			work.Translate(n.Scale(d))
			moved = true
		}
		if !moved {
			break
		}
	}

	total := work.Start.Sub(c.Start)
	depth := total.Length()
	if depth <= Epsilon {
		return Result{}, false
	}
	return Result{Normal: total.Scale(1 / depth), Depth: depth}, true
}

// Penetration returns how far the capsule reaches into the nearest triangle
// (radius minus the smallest segment distance), or 0 when it is clear.
func Penetration(c Capsule, idx *Octree) float32 {
	if idx == nil || idx.root == nil {
		return 0
	}
	var worst float32
	for _, i := range idx.Query(c.Bounds()) {
		cl := SegmentTriangle(c.Start, c.End, idx.tris[i])
		if d := c.Radius - cl.Distance; d > worst {
			worst = d
		}
	}
	return worst
}
