package hexagon

type RoundingMode int

const (
	RoundNearestEven RoundingMode = iota
	RoundToZero
	RoundDown
	RoundUp
)

type Tininess int

const (
	TininessAfterRounding Tininess = iota
	TininessBeforeRounding
)

// FloatStatus is the softfloat configuration of a core.
type FloatStatus struct {
	Rounding   RoundingMode
	DefaultNaN bool
	Tininess   Tininess
}
