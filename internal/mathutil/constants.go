package mathutil

// Preview camera matrices.
var (
	// ViewDefault looks slightly down at the model: Rx(12°).
	// Y stays up so trees render upright.
	ViewDefault = RotX(Deg2Rad(12))

	// ViewTop looks straight down the Y axis for plan-view renders.
	ViewTop = RotX(Deg2Rad(90))
)
