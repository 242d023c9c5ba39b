// Package astro provides astronomical coordinate transformations and sky math.
package astro

import "math"

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Normalize360 reduces an angle to [0, 360).
func Normalize360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod of a tiny negative value can round back up to exactly 360.
	if a >= 360 {
		a -= 360
	}
	return a
}

// NormalizeSigned reduces an angle to (-180, 180].
func NormalizeSigned(a float64) float64 {
	a = Normalize360(a)
	if a > 180 {
		a -= 360
	}
	return a
}

// Separation returns the shorter angular distance between two ecliptic
// longitudes, folded into [0, 180].
//
// The fold uses |a-b| and 360-|a-b| directly instead of normalizing first,
// so exact inputs produce exact outputs (e.g. 0 and 8 give exactly 8).
func Separation(a, b float64) float64 {
	diff := math.Abs(a - b)
	if diff > 360 {
		diff = math.Mod(diff, 360)
	}
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// ForwardArc returns the counter-clockwise arc from longitude a to longitude
// b, in [0, 360).
func ForwardArc(a, b float64) float64 {
	return Normalize360(b - a)
}

// Midpoint returns the longitude halfway along the forward arc from a to b.
func Midpoint(a, b float64) float64 {
	return Normalize360(a + ForwardArc(a, b)/2)
}

// sind and friends keep the spherical trigonometry readable in degrees.
func sind(x float64) float64 { return math.Sin(DegToRad(x)) }
func cosd(x float64) float64 { return math.Cos(DegToRad(x)) }
