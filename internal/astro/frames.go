package astro

import (
	"math"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// KmToAU converts kilometers to Astronomical Units.
func KmToAU(km float64) float64 {
	return km / AU
}

// EclipticLatitude returns the ecliptic latitude in degrees for a vector.
func EclipticLatitude(v Vec3) float64 {
	r := v.Norm()
	if r == 0 {
		return 0
	}
	return RadToDeg(math.Asin(v.Z / r))
}

// EclipticLongitude returns the ecliptic longitude in degrees for a vector.
func EclipticLongitude(v Vec3) float64 {
	return Normalize360(RadToDeg(math.Atan2(v.Y, v.X)))
}

// ObliquityJ2000 is the Earth's axial tilt at the J2000 epoch in degrees.
const ObliquityJ2000 = 23.439291

// EquatorialToEcliptic converts equatorial XYZ to ecliptic XYZ for an
// obliquity given in degrees.
// Input is in any units (km, AU, etc); output is in the same units.
func EquatorialToEcliptic(eq Vec3, epsDeg float64) Vec3 {
	// Rotation matrix around X-axis by obliquity
	cosE := cosd(epsDeg)
	sinE := sind(epsDeg)

	return Vec3{
		X: eq.X,
		Y: eq.Y*cosE + eq.Z*sinE,
		Z: -eq.Y*sinE + eq.Z*cosE,
	}
}

// EclipticToEquatorial converts ecliptic XYZ to equatorial XYZ.
func EclipticToEquatorial(ecl Vec3, epsDeg float64) Vec3 {
	// Rotation matrix around X-axis by -obliquity
	cosE := cosd(epsDeg)
	sinE := sind(epsDeg)

	return Vec3{
		X: ecl.X,
		Y: ecl.Y*cosE - ecl.Z*sinE,
		Z: ecl.Y*sinE + ecl.Z*cosE,
	}
}

// OrbitalElements are classical Keplerian elements, angles in degrees.
type OrbitalElements struct {
	SemiMajorAU   float64 // a
	Eccentricity  float64 // e
	Inclination   float64 // I
	MeanLon       float64 // L
	LonPerihelion float64 // varpi
	LonNode       float64 // Omega
}

// HeliocentricPosition returns the heliocentric ecliptic position (J2000
// frame) in AU for a set of orbital elements.
func HeliocentricPosition(el OrbitalElements) Vec3 {
	omega := el.LonPerihelion - el.LonNode // argument of perihelion
	M := DegToRad(NormalizeSigned(el.MeanLon - el.LonPerihelion))
	e := el.Eccentricity

	E := SolveKepler(M, e)

	// Position in the orbital plane
	xp := el.SemiMajorAU * (math.Cos(E) - e)
	yp := el.SemiMajorAU * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := cosd(omega), sind(omega)
	cN, sN := cosd(el.LonNode), sind(el.LonNode)
	cI, sI := cosd(el.Inclination), sind(el.Inclination)

	return Vec3{
		X: (cw*cN-sw*sN*cI)*xp + (-sw*cN-cw*sN*cI)*yp,
		Y: (cw*sN+sw*cN*cI)*xp + (-sw*sN+cw*cN*cI)*yp,
		Z: (sw*sI)*xp + (cw*sI)*yp,
	}
}

// SolveKepler solves Kepler's equation E - e*sin(E) = M for the eccentric
// anomaly E (radians) by Newton iteration.
func SolveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for i := 0; i < 50; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}
