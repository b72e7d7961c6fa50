// Package terrain turns GND ground grids into collision triangles.
package terrain

import (
	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/pkg/formats"
	"github.com/Faultbox/groundwalk/pkg/math"
)

// wallThreshold is the corner height difference (in GND units) above which
// a wall is emitted between neighbouring tiles.
const wallThreshold = 0.001

// Triangulate builds the ground surface of g: two triangles per tile top
// plus the vertical walls that close height steps between neighbours.
// The grid is centered on the origin and scaled by scale. GND altitude
// grows downward and is negated into world Y.
func Triangulate(g *formats.GND, scale float32) []collision.Triangle {
	if g == nil || len(g.Tiles) == 0 {
		return nil
	}
	ts := g.Zoom * scale
	offX := -float32(g.Width) * ts / 2
	offZ := -float32(g.Height) * ts / 2

	corner := func(t *formats.GNDTile, i, x, y int) math.Vec3 {
		// Corners: 0 bottom-left, 1 bottom-right, 2 top-left, 3 top-right.
		cx := x + i&1
		cy := y + 1 - i>>1
		return math.Vec3{
			X: offX + float32(cx)*ts,
			Y: -t.Altitude[i] * scale,
			Z: offZ + float32(cy)*ts,
		}
	}

	var tris []collision.Triangle
	for y := range int(g.Height) {
		for x := range int(g.Width) {
			tile := g.GetTile(x, y)
			bl, br := corner(tile, 0, x, y), corner(tile, 1, x, y)
			tl, tr := corner(tile, 2, x, y), corner(tile, 3, x, y)

			if tile.TopSurface >= 0 {
				tris = append(tris,
					collision.Triangle{A: bl, B: br, C: tl},
					collision.Triangle{A: tl, B: br, C: tr},
				)
			}

			// Front wall, toward the next row.
			if next := g.GetTile(x, y+1); next != nil && steps(tile.Altitude[0], next.Altitude[2], tile.Altitude[1], next.Altitude[3]) {
				nbl, nbr := corner(next, 2, x, y+1), corner(next, 3, x, y+1)
				tris = append(tris,
					collision.Triangle{A: bl, B: nbl, C: br},
					collision.Triangle{A: br, B: nbl, C: nbr},
				)
			}

			// Right wall, toward the next column.
			if next := g.GetTile(x+1, y); next != nil && steps(tile.Altitude[1], next.Altitude[0], tile.Altitude[3], next.Altitude[2]) {
				nbf, nbb := corner(next, 0, x+1, y), corner(next, 2, x+1, y)
				tris = append(tris,
					collision.Triangle{A: tr, B: br, C: nbb},
					collision.Triangle{A: br, B: nbf, C: nbb},
				)
			}
		}
	}
	return tris
}

func steps(a0, b0, a1, b1 float32) bool {
	return math.Abs(a0-b0) > wallThreshold || math.Abs(a1-b1) > wallThreshold
}
