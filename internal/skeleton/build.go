package skeleton

import (
	"fmt"
	"math"

	"proctree-renderer/internal/logx"
	"proctree-renderer/internal/mathutil"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/sequence"
)

// Build validates p and grows the skeleton, drawing every random choice
// from seq in traversal order. seq must be fresh for this call.
func Build(p params.Tree, seq *sequence.Generator) (*Skeleton, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if seq == nil {
		return nil, fmt.Errorf("skeleton: nil sequence generator")
	}

	b := &builder{p: p, seq: seq, sk: &Skeleton{Params: p}}
	b.sk.Nodes = append(b.sk.Nodes, b.trunk())
	b.grow(0)
	return b.sk, nil
}

type builder struct {
	p   params.Tree
	seq *sequence.Generator
	sk  *Skeleton
}

// trunk builds the level-0 spine: TrunkSteps segments bent upward by
// ClimbRate and sideways by a kink whose heading twists about +Y.
func (b *builder) trunk() Node {
	p := b.p
	steps := p.TrunkSteps()
	stepLen := p.TrunkLength / float64(steps)

	pos := mathutil.Vec3{}
	dir := mathutil.UnitY
	spine := make([]SpinePoint, 0, steps+1)
	spine = append(spine, SpinePoint{Position: pos, Radius: trunkRadius(p, 0)})

	for i := 1; i <= steps; i++ {
		angle := 2 * math.Pi * p.TwistRate * float64(i) / float64(steps)
		heading := mathutil.Vec3{math.Sin(angle), 0, math.Cos(angle)}
		kink := heading.Scale(b.seq.Signed() * p.TrunkKink)

		dir = dir.Add(mathutil.Vec3{0, p.ClimbRate, 0}).Add(kink).NormalizeOr(dir)
		pos = pos.Add(dir.Scale(stepLen))
		spine = append(spine, SpinePoint{
			Position: pos,
			Radius:   trunkRadius(p, i),
			Arc:      float64(i) * stepLen,
		})
	}
	fillTangents(spine)

	return Node{
		Parent:    -1,
		Attach:    -1,
		Level:     0,
		Position:  spine[0].Position,
		Direction: spine[len(spine)-1].Position.Sub(spine[0].Position).NormalizeOr(mathutil.UnitY),
		Length:    p.TrunkLength,
		Radius:    spine[0].Radius,
		Spine:     spine,
	}
}

// trunkRadius is MaxRadius·TaperRate^i, floored at MinRadius.
func trunkRadius(p params.Tree, i int) float64 {
	return math.Max(p.MaxRadius*math.Pow(p.TaperRate, float64(i)), MinRadius)
}

// grow adds the children of node i and recurses into each one before
// drawing for the next sibling, so the arena stays in pre-order.
func (b *builder) grow(i int) {
	parent := b.sk.Nodes[i]
	if parent.Level >= b.p.Levels {
		return
	}
	count := b.p.ChildCount()
	if count == 0 {
		return
	}

	phase := b.seq.Next()
	for k := 0; k < count; k++ {
		r := b.seq.Next()
		r2 := b.seq.Next()

		child, ok := b.child(i, k, count, phase, r, r2)
		if !ok {
			continue
		}
		idx := len(b.sk.Nodes)
		b.sk.Nodes = append(b.sk.Nodes, child)
		b.sk.Nodes[i].Children = append(b.sk.Nodes[i].Children, idx)
		b.grow(idx)
	}
}

// child computes the k-th of count children of node i. ok is false when
// the branch length collapsed and the sub-path was pruned.
func (b *builder) child(i, k, count int, phase, r, r2 float64) (Node, bool) {
	p := b.p
	parent := &b.sk.Nodes[i]
	level := parent.Level + 1
	attach := len(parent.Spine) - 1
	base := parent.Spine[attach]

	length := p.InitialBranchLength
	if level > 1 {
		length = math.Pow(parent.Length, p.LengthFalloffPower) * p.LengthFalloffFactor
	}
	if !(length >= Epsilon) {
		b.sk.Warnings = append(b.sk.Warnings, DegenerateWarning{Parent: i, Level: level, Length: length})
		logx.Logger().Debug("skeleton: pruned degenerate branch",
			"parent", i, "level", level, "length", length)
		return Node{}, false
	}

	dir := b.direction(base.Tangent, level, k, count, phase, r, r2)

	radius := math.Min(base.Radius*p.RadiusFalloffRate, p.MaxRadius)
	radius = math.Max(radius, MinRadius)

	spine := make([]SpinePoint, BranchSteps+1)
	for j := 0; j <= BranchSteps; j++ {
		t := float64(j) / BranchSteps
		spine[j] = SpinePoint{
			Position: base.Position.Add(dir.Scale(length * t)),
			Tangent:  dir,
			Radius:   math.Max(radius*math.Pow(p.TaperRate, float64(j)), MinRadius),
			Arc:      base.Arc + length*t,
		}
	}

	return Node{
		Parent:    i,
		Attach:    attach,
		Level:     level,
		Position:  base.Position,
		Direction: dir,
		Length:    length,
		Radius:    radius,
		Spine:     spine,
	}, true
}

// direction blends an outward ray with the parent direction by the clump
// factor, then applies sweep, droop and lift for the child's level.
func (b *builder) direction(parentDir mathutil.Vec3, level, k, count int, phase, r, r2 float64) mathutil.Vec3 {
	p := b.p

	clump := p.ClumpMin + (p.ClumpMax-p.ClumpMin)*r
	jitter := (r2 - 0.5) * (1 - clump)
	azimuth := 2 * math.Pi * (float64(k) + phase + jitter) / float64(count)

	n := parentDir.Perpendicular()
	bi := parentDir.Cross(n)
	ray := n.Scale(math.Cos(azimuth)).Add(bi.Scale(math.Sin(azimuth)))

	dir := ray.Scale(1 - clump).Add(parentDir.Scale(clump)).NormalizeOr(parentDir)

	lvl := float64(level)
	remaining := float64(p.Levels-level) / float64(p.Levels)
	bias := mathutil.Vec3{
		p.SweepAmount * lvl,
		p.DropAmount*lvl + p.GrowAmount*remaining*remaining,
		0,
	}
	return dir.Add(bias).NormalizeOr(dir)
}

// fillTangents sets each tangent to the averaged direction of the
// segments meeting at that point.
func fillTangents(spine []SpinePoint) {
	n := len(spine)
	for i := range spine {
		var t mathutil.Vec3
		if i > 0 {
			t = t.Add(spine[i].Position.Sub(spine[i-1].Position).Normalize())
		}
		if i < n-1 {
			t = t.Add(spine[i+1].Position.Sub(spine[i].Position).Normalize())
		}
		fallback := mathutil.UnitY
		if i > 0 {
			fallback = spine[i-1].Tangent
		}
		spine[i].Tangent = t.NormalizeOr(fallback)
	}
}
