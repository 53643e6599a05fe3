// Package angle provides wraparound-safe arithmetic on degrees.
package angle

import "math"

// Normalize maps any angle into [0, 360).
func Normalize(deg float64) float64 {
	x := math.Mod(deg, 360)
	if x < 0 {
		x += 360
	}
	// -1e-15 + 360 rounds to 360.
	if x >= 360 {
		x = 0
	}
	return x
}

// SignedDelta returns the shortest signed rotation from -> to, in [-180, 180].
func SignedDelta(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

// Separation returns min(|a-b|, 360-|a-b|) for longitudes in [0, 360).
// Symmetric in its arguments.
func Separation(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
