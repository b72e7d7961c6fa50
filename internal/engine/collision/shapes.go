package collision

import (
	"github.com/Faultbox/groundwalk/pkg/math"
)

// Quad splits a counter-clockwise quad a-b-c-d into two triangles.
func Quad(a, b, c, d math.Vec3) [2]Triangle {
	return [2]Triangle{{a, b, c}, {a, c, d}}
}

// Plane returns an upward-facing rectangle of the given X/Z size centered
// on the origin.
func Plane(sizeX, sizeZ float32) []Triangle {
	hx, hz := sizeX/2, sizeZ/2
	q := Quad(
		math.Vec3{X: -hx, Z: -hz},
		math.Vec3{X: -hx, Z: hz},
		math.Vec3{X: hx, Z: hz},
		math.Vec3{X: hx, Z: -hz},
	)
	return q[:]
}

// Box returns the 12 outward-facing triangles of an axis-aligned box.
func Box(b AABB) []Triangle {
	x0, y0, z0 := b.Min.X, b.Min.Y, b.Min.Z
	x1, y1, z1 := b.Max.X, b.Max.Y, b.Max.Z
	v := func(x, y, z float32) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }

	faces := [6][2]Triangle{
		Quad(v(x0, y1, z0), v(x0, y1, z1), v(x1, y1, z1), v(x1, y1, z0)), // +Y
		Quad(v(x0, y0, z0), v(x1, y0, z0), v(x1, y0, z1), v(x0, y0, z1)), // -Y
		Quad(v(x1, y0, z0), v(x1, y1, z0), v(x1, y1, z1), v(x1, y0, z1)), // +X
		Quad(v(x0, y0, z0), v(x0, y0, z1), v(x0, y1, z1), v(x0, y1, z0)), // -X
		Quad(v(x0, y0, z1), v(x1, y0, z1), v(x1, y1, z1), v(x0, y1, z1)), // +Z
		Quad(v(x0, y0, z0), v(x0, y1, z0), v(x1, y1, z0), v(x1, y0, z0)), // -Z
	}
	out := make([]Triangle, 0, 12)
	for _, f := range faces {
		out = append(out, f[0], f[1])
	}
	return out
}

// Ramp returns a closed wedge centered on the origin whose slope rises
// from -X to +X.
func Ramp(size math.Vec3) []Triangle {
	hx, hy, hz := size.X/2, size.Y/2, size.Z/2
	v := func(x, y, z float32) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }

	slope := Quad(v(-hx, -hy, -hz), v(-hx, -hy, hz), v(hx, hy, hz), v(hx, hy, -hz))
	back := Quad(v(hx, -hy, -hz), v(hx, hy, -hz), v(hx, hy, hz), v(hx, -hy, hz))
	bottom := Quad(v(-hx, -hy, -hz), v(hx, -hy, -hz), v(hx, -hy, hz), v(-hx, -hy, hz))

	return []Triangle{
		slope[0], slope[1],
		back[0], back[1],
		bottom[0], bottom[1],
		{v(-hx, -hy, hz), v(hx, -hy, hz), v(hx, hy, hz)},
		{v(-hx, -hy, -hz), v(hx, hy, -hz), v(hx, -hy, -hz)},
	}
}
