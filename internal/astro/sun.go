package astro

import "math"

// SunApparentLongitude calculates the apparent geocentric ecliptic longitude
// of the Sun in degrees (ecliptic of date) and its distance in AU.
// Uses a simplified solar ephemeris based on the Astronomical Almanac.
// Accuracy: ~0.01 degrees.
func SunApparentLongitude(jd float64) (lonDeg, distAU float64) {
	// Julian centuries from J2000.0
	T := JulianCenturies(jd)

	// Mean longitude of the Sun (degrees)
	L0 := Normalize360(280.46646 + 36000.76983*T + 0.0003032*T*T)

	// Mean anomaly of the Sun (degrees)
	M := Normalize360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := DegToRad(M)

	// Eccentricity of Earth's orbit
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T

	// Sun's equation of center (degrees)
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	// True longitude and true anomaly
	sunLon := L0 + C
	v := DegToRad(M + C)

	// Radius vector (AU)
	distAU = 1.000001018 * (1 - e*e) / (1 + e*math.Cos(v))

	// Apparent longitude (correcting for aberration and nutation)
	omega := 125.04 - 1934.136*T
	lonDeg = Normalize360(sunLon - 0.00569 - 0.00478*sind(omega))

	return lonDeg, distAU
}

// MeanLunarNode returns the longitude of the mean ascending node of the
// Moon's orbit in degrees (ecliptic of date).
func MeanLunarNode(jd float64) float64 {
	T := JulianCenturies(jd)
	omega := 125.0445479 -
		1934.1362891*T +
		0.0020754*T*T +
		T*T*T/467441.0 -
		T*T*T*T/60616000.0
	return Normalize360(omega)
}

// MoonPosition returns the geocentric ecliptic longitude and latitude of the
// Moon in degrees (ecliptic of date) and its distance in kilometers, using
// the largest periodic terms of the lunar theory. Accuracy: ~0.3 degrees.
func MoonPosition(jd float64) (lonDeg, latDeg, distKm float64) {
	T := JulianCenturies(jd)

	Lp := 218.3164477 + 481267.88123421*T // mean longitude
	D := 297.8501921 + 445267.1114034*T   // mean elongation
	M := 357.5291092 + 35999.0502909*T    // Sun's mean anomaly
	Mp := 134.9633964 + 477198.8675055*T  // Moon's mean anomaly
	F := 93.2720950 + 483202.0175233*T    // argument of latitude

	lon := Lp +
		6.288774*sind(Mp) +
		1.274027*sind(2*D-Mp) +
		0.658314*sind(2*D) +
		0.213618*sind(2*Mp) -
		0.185116*sind(M) -
		0.114332*sind(2*F) +
		0.058793*sind(2*D-2*Mp) +
		0.057066*sind(2*D-M-Mp) +
		0.053322*sind(2*D+Mp) +
		0.045758*sind(2*D-M) -
		0.040923*sind(M-Mp) -
		0.034720*sind(D) -
		0.030383*sind(M+Mp)

	lat := 5.128122*sind(F) +
		0.280602*sind(Mp+F) +
		0.277693*sind(Mp-F) +
		0.173237*sind(2*D-F) +
		0.055413*sind(2*D+F-Mp) +
		0.046271*sind(2*D-F-Mp)

	dist := 385000.56 -
		20905.355*cosd(Mp) -
		3699.111*cosd(2*D-Mp) -
		2955.968*cosd(2*D) -
		569.925*cosd(2*Mp)

	return Normalize360(lon), lat, dist
}
