package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Displace returns the displacement vector b - a.
func Displace(a, b r3.Vec) r3.Vec {
	return r3.Sub(b, a)
}

// IsFinite reports whether no component of v is NaN or infinite.
func IsFinite(v r3.Vec) bool {
	return !(math.IsNaN(v.X) || math.IsInf(v.X, 0) ||
		math.IsNaN(v.Y) || math.IsInf(v.Y, 0) ||
		math.IsNaN(v.Z) || math.IsInf(v.Z, 0))
}

// Sum adds up vs.
func Sum(vs ...r3.Vec) r3.Vec {
	var s r3.Vec
	for _, v := range vs {
		s = r3.Add(s, v)
	}
	return s
}

// Zero clears every vector in buf.
func Zero(buf []r3.Vec) {
	for i := range buf {
		buf[i] = r3.Vec{}
	}
}

// clampCos pulls a cosine that drifted outside [-1, 1] through rounding
// back onto the interval. NaN passes through.
func clampCos(c float64) float64 {
	if c > 1 {
		return 1
	}
	if c < -1 {
		return -1
	}
	return c
}
