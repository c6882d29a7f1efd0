package params

import (
	"fmt"
	"math"
)

// ValidationError reports an out-of-domain parameter. It is returned before
// any generation work starts.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("params: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// floatRange is the closed domain [Min, Max] of a float field.
// OpenMin excludes Min itself.
type floatRange struct {
	Field   string
	Min     float64
	Max     float64
	OpenMin bool
}

// intRange is the closed domain of an integer field.
type intRange struct {
	Field string
	Min   int
	Max   int
}

var (
	levelsRange   = intRange{"levels", 0, 7}
	segmentsRange = intRange{"segments", 3, 64}
	stepsRange    = intRange{"treeSteps", 0, 35}
)

type floatField struct {
	r floatRange
	v float64
}

func (t Tree) floatFields() []floatField {
	return []floatField{
		{floatRange{"vMultiplier", 0, 10, true}, t.VMultiplier},
		{floatRange{"twigScale", 0, 1, false}, t.TwigScale},
		{floatRange{"initialBranchLength", 0, 1, true}, t.InitialBranchLength},
		{floatRange{"lengthFalloffFactor", 0.5, 1, false}, t.LengthFalloffFactor},
		{floatRange{"lengthFalloffPower", 0.1, 1.5, false}, t.LengthFalloffPower},
		{floatRange{"clumpMax", 0, 1, false}, t.ClumpMax},
		{floatRange{"clumpMin", 0, 1, false}, t.ClumpMin},
		{floatRange{"branchFactor", 0, 4, false}, t.BranchFactor},
		{floatRange{"dropAmount", -1, 1, false}, t.DropAmount},
		{floatRange{"growAmount", -0.5, 1, false}, t.GrowAmount},
		{floatRange{"sweepAmount", -1, 1, false}, t.SweepAmount},
		{floatRange{"maxRadius", 0.05, 0.35, false}, t.MaxRadius},
		{floatRange{"climbRate", 0.05, 1, false}, t.ClimbRate},
		{floatRange{"trunkKink", 0, 0.5, false}, t.TrunkKink},
		{floatRange{"taperRate", 0.7, 1, false}, t.TaperRate},
		{floatRange{"radiusFalloffRate", 0.5, 0.8, false}, t.RadiusFalloffRate},
		{floatRange{"twistRate", 0, 10, false}, t.TwistRate},
		{floatRange{"trunkLength", 0.1, 5, false}, t.TrunkLength},
	}
}

// Validate checks every field against its domain and returns the first
// violation in declaration order as a *ValidationError.
func (t Tree) Validate() error {
	for _, c := range []struct {
		r intRange
		v int
	}{
		{levelsRange, t.Levels},
		{segmentsRange, t.Segments},
		{stepsRange, t.TreeSteps},
	} {
		if err := c.r.check(c.v); err != nil {
			return err
		}
	}

	for _, c := range t.floatFields() {
		if err := c.r.check(c.v); err != nil {
			return err
		}
	}

	if t.ClumpMin > t.ClumpMax {
		return &ValidationError{
			Field:  "clumpMin",
			Value:  t.ClumpMin,
			Reason: fmt.Sprintf("must not exceed clumpMax (%v)", t.ClumpMax),
		}
	}
	return nil
}

func (r intRange) check(v int) error {
	if v < r.Min || v > r.Max {
		return &ValidationError{
			Field:  r.Field,
			Value:  float64(v),
			Reason: fmt.Sprintf("must be in [%d, %d]", r.Min, r.Max),
		}
	}
	return nil
}

func (r floatRange) check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: r.Field, Value: v, Reason: "must be finite"}
	}
	low := v < r.Min
	if r.OpenMin {
		low = v <= r.Min
	}
	if low || v > r.Max {
		open := "["
		if r.OpenMin {
			open = "("
		}
		return &ValidationError{
			Field:  r.Field,
			Value:  v,
			Reason: fmt.Sprintf("must be in %s%v, %v]", open, r.Min, r.Max),
		}
	}
	return nil
}
