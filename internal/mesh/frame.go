package mesh

import (
	"math"

	"proctree-renderer/internal/mathutil"
	"proctree-renderer/internal/skeleton"
)

// propagateFrames returns a reference normal for every spine point of
// every node, frames[node][point]. Each normal is perpendicular to its
// tangent and is carried from the previous point by the smallest rotation
// between the two tangents, so consecutive rings do not twist. A branch
// starts from its parent's frame at the attachment point.
//
// The arena is pre-order, so a parent's frames are always ready before its
// children are visited.
func propagateFrames(sk *skeleton.Skeleton) [][]mathutil.Vec3 {
	frames := make([][]mathutil.Vec3, len(sk.Nodes))
	for i := range sk.Nodes {
		n := &sk.Nodes[i]
		f := make([]mathutil.Vec3, len(n.Spine))

		var prev, from mathutil.Vec3
		if n.Parent < 0 {
			from = n.Spine[0].Tangent
			prev = from.Perpendicular()
		} else {
			from = sk.Nodes[n.Parent].Spine[n.Attach].Tangent
			prev = frames[n.Parent][n.Attach]
		}
		for j, sp := range n.Spine {
			prev = transport(prev, from, sp.Tangent)
			from = sp.Tangent
			f[j] = prev
		}
		frames[i] = f
	}
	return frames
}

// transport rotates normal by the rotation taking tangent from onto
// tangent to and projects the result onto the plane perpendicular to to.
// Projection alone loses the ring phase on turns near a right angle.
func transport(normal, from, to mathutil.Vec3) mathutil.Vec3 {
	axis := from.Cross(to)
	if sin := axis.Len(); sin > 1e-12 {
		normal = mathutil.RotateAxis(normal, axis.Scale(1/sin), math.Atan2(sin, from.Dot(to)))
	}
	projected := normal.Sub(to.Scale(normal.Dot(to)))
	if projected.Len() < 1e-6 {
		return to.Perpendicular()
	}
	return projected.Normalize()
}
