package collision

import (
	"slices"
)

// BuildOptions controls octree subdivision.
type BuildOptions struct {
	MaxDepth      int // Deepest level a node may be split to (root = 0)
	LeafTriangles int // Nodes holding at most this many triangles stay leaves
}

// DefaultBuildOptions returns the subdivision limits used by the viewer.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MaxDepth:      8,
		LeafTriangles: 16,
	}
}

type octreeNode struct {
	bounds   AABB
	children []*octreeNode // nil for leaves; empty octants are omitted
	tris     []int32
}

// Octree is a static spatial index over world triangles. It is immutable
// after Build and safe for concurrent queries.
type Octree struct {
	root    *octreeNode
	tris    []Triangle
	boxes   []AABB
	indexed int
	opts    BuildOptions
}

// Stats describes the shape of a built octree.
type Stats struct {
	Triangles        int // Triangles passed to Build
	Indexed          int // Triangles kept after dropping degenerate ones
	Nodes            int
	Leaves           int
	Depth            int
	MaxLeafTriangles int
	References       int // Sum of leaf list lengths, duplicates included
}

// Build partitions tris into an octree. Degenerate triangles are skipped.
// Indices returned by queries refer to positions in tris.
func Build(tris []Triangle, opts BuildOptions) *Octree {
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}
	if opts.LeafTriangles < 1 {
		opts.LeafTriangles = 1
	}

	o := &Octree{
		tris:  slices.Clone(tris),
		boxes: make([]AABB, len(tris)),
		opts:  opts,
	}

	bounds := EmptyAABB()
	idxs := make([]int32, 0, len(tris))
	for i, t := range o.tris {
		o.boxes[i] = t.Bounds()
		if t.Degenerate() {
			continue
		}
		idxs = append(idxs, int32(i))
		bounds = bounds.Union(o.boxes[i])
	}
	o.indexed = len(idxs)
	if len(idxs) == 0 {
		return o
	}

	// A cube keeps octants well shaped even for flat scenes.
	root := bounds.Cube()
	root = root.Grow(max(root.Size().X*0.01, Epsilon))
	o.root = &octreeNode{bounds: root}
	o.split(o.root, idxs, 0)
	return o
}

func (o *Octree) split(n *octreeNode, idxs []int32, depth int) {
	if len(idxs) <= o.opts.LeafTriangles || depth >= o.opts.MaxDepth {
		n.tris = idxs
		return
	}

	var parts [8][]int32
	progress := false
	for i := range 8 {
		ob := n.bounds.Octant(i)
		for _, j := range idxs {
			if o.boxes[j].Intersects(ob) {
				parts[i] = append(parts[i], j)
			}
		}
		if len(parts[i]) > 0 && len(parts[i]) < len(idxs) {
			progress = true
		}
	}
	// Every octant got every triangle: splitting further only copies lists.
	if !progress {
		n.tris = idxs
		return
	}

	for i := range 8 {
		if len(parts[i]) == 0 {
			continue
		}
		child := &octreeNode{bounds: n.bounds.Octant(i)}
		o.split(child, parts[i], depth+1)
		n.children = append(n.children, child)
	}
}

// Len returns the number of triangles the index was built from.
func (o *Octree) Len() int {
	if o == nil {
		return 0
	}
	return len(o.tris)
}

// Triangle returns triangle i as passed to Build.
func (o *Octree) Triangle(i int) Triangle {
	return o.tris[i]
}

// Bounds returns the root cube. Empty indexes return an empty box.
func (o *Octree) Bounds() AABB {
	if o == nil || o.root == nil {
		return EmptyAABB()
	}
	return o.root.bounds
}

// Query returns the sorted indices of triangles whose bounds overlap box.
// An empty index returns nil.
func (o *Octree) Query(box AABB) []int {
	if o == nil || o.root == nil {
		return nil
	}

	var hits []int32
	stack := []*octreeNode{o.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !n.bounds.Intersects(box) {
			continue
		}
		if n.children == nil {
			for _, j := range n.tris {
				if o.boxes[j].Intersects(box) {
					hits = append(hits, j)
				}
			}
			continue
		}
		stack = append(stack, n.children...)
	}

	// Straddling triangles are listed in several leaves.
	slices.Sort(hits)
	hits = slices.Compact(hits)

	out := make([]int, len(hits))
	for i, j := range hits {
		out[i] = int(j)
	}
	return out
}

// Stats walks the tree and reports its shape.
func (o *Octree) Stats() Stats {
	s := Stats{Triangles: o.Len()}
	if o == nil || o.root == nil {
		return s
	}
	s.Indexed = o.indexed

	var walk func(n *octreeNode, depth int)
	walk = func(n *octreeNode, depth int) {
		s.Nodes++
		s.Depth = max(s.Depth, depth)
		if n.children == nil {
			s.Leaves++
			s.References += len(n.tris)
			s.MaxLeafTriangles = max(s.MaxLeafTriangles, len(n.tris))
			return
		}
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(o.root, 0)
	return s
}
