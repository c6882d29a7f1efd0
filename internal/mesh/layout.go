package mesh

import "proctree-renderer/internal/skeleton"

// Layout fixes where every node's rings and triangles land in the final
// buffers before anything is emitted. Disjoint ranges let subtrees be
// written concurrently with a result identical to the serial order.
type Layout struct {
	Segments  int
	VertexOff []int // first vertex of node i's first own ring
	TriOff    []int // first triangle of node i
	Rings     []int // rings emitted by node i
	Vertices  int
	Triangles int
}

// NewLayout computes the layout of sk with segments vertices per ring.
//
// The trunk emits a ring at every spine point and is capped at both ends.
// A branch skips the ring at its base, reusing the parent ring it is
// welded to, and is capped at its tip.
func NewLayout(sk *skeleton.Skeleton, segments int) *Layout {
	l := &Layout{
		Segments:  segments,
		VertexOff: make([]int, len(sk.Nodes)),
		TriOff:    make([]int, len(sk.Nodes)),
		Rings:     make([]int, len(sk.Nodes)),
	}
	capTris := segments - 2
	for i := range sk.Nodes {
		n := &sk.Nodes[i]
		bands := len(n.Spine) - 1
		rings := len(n.Spine)
		tris := bands*2*segments + capTris
		if n.Parent < 0 {
			tris += capTris
		} else {
			rings--
		}

		l.VertexOff[i] = l.Vertices
		l.TriOff[i] = l.Triangles
		l.Rings[i] = rings
		l.Vertices += rings * segments
		l.Triangles += tris
	}
	return l
}

// RingCount returns the total number of rings.
func (l *Layout) RingCount() int {
	return l.Vertices / l.Segments
}

// ringStart returns the first vertex of the ring at spine point j of
// node i. Callers must not ask for the welded base of a branch.
func (l *Layout) ringStart(sk *skeleton.Skeleton, i, j int) int {
	if sk.Nodes[i].Parent >= 0 {
		j--
	}
	return l.VertexOff[i] + j*l.Segments
}

// weldRing returns the first vertex of the parent ring closest to the
// origin of branch i.
func (l *Layout) weldRing(sk *skeleton.Skeleton, i int) int {
	n := &sk.Nodes[i]
	parent := &sk.Nodes[n.Parent]

	first := 0
	if parent.Parent >= 0 {
		first = 1
	}
	best, bestDist := first, -1.0
	for j := first; j < len(parent.Spine); j++ {
		d := parent.Spine[j].Position.Dist(n.Position)
		if bestDist < 0 || d < bestDist {
			best, bestDist = j, d
		}
	}
	return l.ringStart(sk, n.Parent, best)
}
