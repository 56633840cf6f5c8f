//go:build ram64

package lifted

import "math"

// Val is the type of an element in a tuple, widened to 64 bits by the
// 'ram64' build tag.
type Val = int64

// Lower and upper boundaries of the tuple domain.
const (
	MinVal Val = math.MinInt64
	MaxVal Val = math.MaxInt64
)
