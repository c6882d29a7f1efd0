// Package params defines the tree generation parameters, their valid
// domains, partial updates, and their on-disk forms.
package params

// Tree is the full, immutable input of one generation run.
// Integer fields are counts; everything else is a float tuning knob.
type Tree struct {
	Seed        int64   `json:"seed" yaml:"seed" toml:"seed"`
	Levels      int     `json:"levels" yaml:"levels" toml:"levels"`
	Segments    int     `json:"segments" yaml:"segments" toml:"segments"`
	VMultiplier float64 `json:"vMultiplier" yaml:"vMultiplier" toml:"vMultiplier"`
	TwigScale   float64 `json:"twigScale" yaml:"twigScale" toml:"twigScale"`

	// Branching
	InitialBranchLength float64 `json:"initialBranchLength" yaml:"initialBranchLength" toml:"initialBranchLength"`
	LengthFalloffFactor float64 `json:"lengthFalloffFactor" yaml:"lengthFalloffFactor" toml:"lengthFalloffFactor"`
	LengthFalloffPower  float64 `json:"lengthFalloffPower" yaml:"lengthFalloffPower" toml:"lengthFalloffPower"`
	ClumpMax            float64 `json:"clumpMax" yaml:"clumpMax" toml:"clumpMax"`
	ClumpMin            float64 `json:"clumpMin" yaml:"clumpMin" toml:"clumpMin"`
	BranchFactor        float64 `json:"branchFactor" yaml:"branchFactor" toml:"branchFactor"`
	DropAmount          float64 `json:"dropAmount" yaml:"dropAmount" toml:"dropAmount"`
	GrowAmount          float64 `json:"growAmount" yaml:"growAmount" toml:"growAmount"`
	SweepAmount         float64 `json:"sweepAmount" yaml:"sweepAmount" toml:"sweepAmount"`

	// Trunk
	MaxRadius         float64 `json:"maxRadius" yaml:"maxRadius" toml:"maxRadius"`
	ClimbRate         float64 `json:"climbRate" yaml:"climbRate" toml:"climbRate"`
	TrunkKink         float64 `json:"trunkKink" yaml:"trunkKink" toml:"trunkKink"`
	TreeSteps         int     `json:"treeSteps" yaml:"treeSteps" toml:"treeSteps"`
	TaperRate         float64 `json:"taperRate" yaml:"taperRate" toml:"taperRate"`
	RadiusFalloffRate float64 `json:"radiusFalloffRate" yaml:"radiusFalloffRate" toml:"radiusFalloffRate"`
	TwistRate         float64 `json:"twistRate" yaml:"twistRate" toml:"twistRate"`
	TrunkLength       float64 `json:"trunkLength" yaml:"trunkLength" toml:"trunkLength"`
}

// Defaults returns the documented default tree.
func Defaults() Tree {
	return Tree{
		Seed:                256,
		Levels:              5,
		Segments:            6,
		VMultiplier:         2.36,
		TwigScale:           0.39,
		InitialBranchLength: 0.49,
		LengthFalloffFactor: 0.85,
		LengthFalloffPower:  0.99,
		ClumpMax:            0.454,
		ClumpMin:            0.404,
		BranchFactor:        2.45,
		DropAmount:          -0.1,
		GrowAmount:          0.235,
		SweepAmount:         0.01,
		MaxRadius:           0.139,
		ClimbRate:           0.371,
		TrunkKink:           0.093,
		TreeSteps:           5,
		TaperRate:           0.947,
		RadiusFalloffRate:   0.73,
		TwistRate:           3.02,
		TrunkLength:         2,
	}
}

// ChildCount is the number of children every non-terminal node grows:
// BranchFactor rounded to the nearest integer, never negative.
func (t Tree) ChildCount() int {
	n := int(t.BranchFactor + 0.5)
	if n < 0 {
		return 0
	}
	return n
}

// TrunkSteps is the number of trunk spine segments. Zero steps still
// produce a single straight segment.
func (t Tree) TrunkSteps() int {
	if t.TreeSteps < 1 {
		return 1
	}
	return t.TreeSteps
}
