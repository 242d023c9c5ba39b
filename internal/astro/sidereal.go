package astro

import "math"

// J2000 is the Julian Day of the J2000.0 epoch (2000-01-01 12:00 TT).
const J2000 = 2451545.0

// JulianCenturies returns Julian centuries elapsed since J2000.0.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

// GMST calculates Greenwich Mean Sidereal Time in degrees for a Julian Day (UT).
// Uses the IAU 1982 formula.
func GMST(jd float64) float64 {
	T := JulianCenturies(jd)

	// GMST = 280.46061837 + 360.98564736629*(JD-2451545) + 0.000387933*T^2 - T^3/38710000
	gmst := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return Normalize360(gmst)
}

// LocalSiderealTime returns the Local Sidereal Time in degrees for a Julian
// Day (UT) and an east-positive geographic longitude. In house computations
// this is the right ascension of the meridian (RAMC).
func LocalSiderealTime(jd, lonDeg float64) float64 {
	return Normalize360(GMST(jd) + lonDeg)
}

// MeanObliquity returns the mean obliquity of the ecliptic of date in degrees.
func MeanObliquity(jd float64) float64 {
	T := JulianCenturies(jd)
	return 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
}

// Midheaven returns the ecliptic longitude culminating on the meridian for
// the given RAMC and obliquity, both in degrees.
func Midheaven(ramc, eps float64) float64 {
	r := DegToRad(ramc)
	return Normalize360(RadToDeg(math.Atan2(math.Sin(r), math.Cos(r)*cosd(eps))))
}

// Ascendant returns the ecliptic longitude rising on the eastern horizon for
// the given RAMC, geographic latitude and obliquity, all in degrees.
//
// The same formula evaluated with a substitute pole height instead of the
// geographic latitude yields the intermediate cusps of the Regiomontanus,
// Campanus and Koch systems.
func Ascendant(ramc, lat, eps float64) float64 {
	r := DegToRad(ramc)
	y := math.Cos(r)
	x := -(math.Sin(r)*cosd(eps) + math.Tan(DegToRad(lat))*sind(eps))
	return Normalize360(RadToDeg(math.Atan2(y, x)))
}

// RightAscensionToLongitude converts a right ascension on the ecliptic
// (a point with zero ecliptic latitude) to its ecliptic longitude.
func RightAscensionToLongitude(ra, eps float64) float64 {
	r := DegToRad(ra)
	return Normalize360(RadToDeg(math.Atan2(math.Sin(r), math.Cos(r)*cosd(eps))))
}

// DeclinationOfLongitude returns the declination in degrees of the ecliptic
// point at the given longitude.
func DeclinationOfLongitude(lon, eps float64) float64 {
	return RadToDeg(math.Asin(sind(eps) * sind(lon)))
}
