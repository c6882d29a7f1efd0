// Package skeleton grows the branch-node tree of a procedural tree.
//
// Nodes live in a flat arena (Skeleton.Nodes) and refer to each other by
// index, the way bone hierarchies do: Parent is -1 for the trunk and always
// smaller than the node's own index. The arena is filled in pre-order, so a
// node's index is also its position in depth-first traversal order.
package skeleton

import (
	"proctree-renderer/internal/mathutil"
	"proctree-renderer/internal/params"
)

const (
	// Epsilon is the shortest branch that is still grown. Shorter
	// branches are pruned together with everything they would carry.
	Epsilon = 1e-3

	// MinRadius floors every spine radius so rings never collapse.
	MinRadius = 1e-4

	// BranchSteps is the number of spine segments of a side branch.
	BranchSteps = 2
)

// SpinePoint is one centerline sample of a trunk or branch.
type SpinePoint struct {
	Position mathutil.Vec3
	Tangent  mathutil.Vec3 // unit
	Radius   float64
	Arc      float64 // centerline distance from the trunk base
}

// Node is one trunk or branch.
type Node struct {
	Parent    int   // -1 for the trunk
	Attach    int   // index into the parent's Spine this node grows from, -1 for the trunk
	Children  []int // in growth order
	Level     int   // 0 for the trunk
	Position  mathutil.Vec3
	Direction mathutil.Vec3 // unit
	Length    float64
	Radius    float64 // at the base
	Spine     []SpinePoint
}

// Terminal reports whether the node carries no children.
func (n *Node) Terminal() bool {
	return len(n.Children) == 0
}

// Tip returns the last spine point.
func (n *Node) Tip() SpinePoint {
	return n.Spine[len(n.Spine)-1]
}

// DegenerateWarning records a branch that was pruned because its computed
// length collapsed below Epsilon.
type DegenerateWarning struct {
	Parent int
	Level  int
	Length float64
}

// Skeleton is the result of one Build call. It is never mutated after
// Build returns; a parameter change builds a new one.
type Skeleton struct {
	Params   params.Tree
	Nodes    []Node
	Warnings []DegenerateWarning
}

// Root returns the trunk.
func (s *Skeleton) Root() *Node {
	return &s.Nodes[0]
}

// Depth returns the highest node level.
func (s *Skeleton) Depth() int {
	d := 0
	for i := range s.Nodes {
		if s.Nodes[i].Level > d {
			d = s.Nodes[i].Level
		}
	}
	return d
}

// Terminals returns the indices of childless nodes in traversal order.
func (s *Skeleton) Terminals() []int {
	var out []int
	for i := range s.Nodes {
		if s.Nodes[i].Terminal() {
			out = append(out, i)
		}
	}
	return out
}

// LevelCounts returns the number of nodes per level, index = level.
func (s *Skeleton) LevelCounts() []int {
	counts := make([]int, s.Depth()+1)
	for i := range s.Nodes {
		counts[s.Nodes[i].Level]++
	}
	return counts
}

// Subtree returns the indices of node i and all its descendants in
// traversal order.
func (s *Skeleton) Subtree(i int) []int {
	out := []int{i}
	for _, c := range s.Nodes[i].Children {
		out = append(out, s.Subtree(c)...)
	}
	return out
}

// Path returns the node indices from the trunk down to node i.
func (s *Skeleton) Path(i int) []int {
	var rev []int
	for ; i >= 0; i = s.Nodes[i].Parent {
		rev = append(rev, i)
	}
	out := make([]int, len(rev))
	for k := range rev {
		out[k] = rev[len(rev)-1-k]
	}
	return out
}
