//go:build !ram64

package lifted

import "math"

// Val is the type of an element in a tuple. The default width is 32
// bits; building with the tag 'ram64' switches to 64 bits.
type Val = int32

// Lower and upper boundaries of the tuple domain.
const (
	MinVal Val = math.MinInt32
	MaxVal Val = math.MaxInt32
)
