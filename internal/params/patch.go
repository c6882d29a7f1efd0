package params

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Patch is a partial update from a control surface. Nil fields keep the
// value of the set they are merged onto.
type Patch struct {
	Seed        *int64   `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
	Levels      *int     `json:"levels,omitempty" yaml:"levels,omitempty" toml:"levels,omitempty"`
	Segments    *int     `json:"segments,omitempty" yaml:"segments,omitempty" toml:"segments,omitempty"`
	VMultiplier *float64 `json:"vMultiplier,omitempty" yaml:"vMultiplier,omitempty" toml:"vMultiplier,omitempty"`
	TwigScale   *float64 `json:"twigScale,omitempty" yaml:"twigScale,omitempty" toml:"twigScale,omitempty"`

	InitialBranchLength *float64 `json:"initialBranchLength,omitempty" yaml:"initialBranchLength,omitempty" toml:"initialBranchLength,omitempty"`
	LengthFalloffFactor *float64 `json:"lengthFalloffFactor,omitempty" yaml:"lengthFalloffFactor,omitempty" toml:"lengthFalloffFactor,omitempty"`
	LengthFalloffPower  *float64 `json:"lengthFalloffPower,omitempty" yaml:"lengthFalloffPower,omitempty" toml:"lengthFalloffPower,omitempty"`
	ClumpMax            *float64 `json:"clumpMax,omitempty" yaml:"clumpMax,omitempty" toml:"clumpMax,omitempty"`
	ClumpMin            *float64 `json:"clumpMin,omitempty" yaml:"clumpMin,omitempty" toml:"clumpMin,omitempty"`
	BranchFactor        *float64 `json:"branchFactor,omitempty" yaml:"branchFactor,omitempty" toml:"branchFactor,omitempty"`
	DropAmount          *float64 `json:"dropAmount,omitempty" yaml:"dropAmount,omitempty" toml:"dropAmount,omitempty"`
	GrowAmount          *float64 `json:"growAmount,omitempty" yaml:"growAmount,omitempty" toml:"growAmount,omitempty"`
	SweepAmount         *float64 `json:"sweepAmount,omitempty" yaml:"sweepAmount,omitempty" toml:"sweepAmount,omitempty"`

	MaxRadius         *float64 `json:"maxRadius,omitempty" yaml:"maxRadius,omitempty" toml:"maxRadius,omitempty"`
	ClimbRate         *float64 `json:"climbRate,omitempty" yaml:"climbRate,omitempty" toml:"climbRate,omitempty"`
	TrunkKink         *float64 `json:"trunkKink,omitempty" yaml:"trunkKink,omitempty" toml:"trunkKink,omitempty"`
	TreeSteps         *int     `json:"treeSteps,omitempty" yaml:"treeSteps,omitempty" toml:"treeSteps,omitempty"`
	TaperRate         *float64 `json:"taperRate,omitempty" yaml:"taperRate,omitempty" toml:"taperRate,omitempty"`
	RadiusFalloffRate *float64 `json:"radiusFalloffRate,omitempty" yaml:"radiusFalloffRate,omitempty" toml:"radiusFalloffRate,omitempty"`
	TwistRate         *float64 `json:"twistRate,omitempty" yaml:"twistRate,omitempty" toml:"twistRate,omitempty"`
	TrunkLength       *float64 `json:"trunkLength,omitempty" yaml:"trunkLength,omitempty" toml:"trunkLength,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Merge applies p onto base and validates the result. base is not modified.
// On a validation failure the merged set is still returned so callers can
// report it, but it must not be generated from.
func Merge(base Tree, p Patch) (Tree, error) {
	merged := base
	if err := copier.CopyWithOption(&merged, &p, copier.Option{IgnoreEmpty: true}); err != nil {
		return base, fmt.Errorf("params: merge patch: %w", err)
	}
	return merged, merged.Validate()
}
