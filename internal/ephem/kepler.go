package ephem

import (
	"context"
	"fmt"

	"github.com/litescript/ls-natal/internal/astro"
)

// Validity window of the mean elements below (1800-01-01 to 2050-12-31).
const (
	KeplerMinJD = 2378497.0
	KeplerMaxJD = 2470172.0
)

// precessionRate is the general precession in longitude, degrees per
// Julian century, used to move J2000 longitudes onto the ecliptic of date.
const precessionRate = 1.396971

// speedStep is the half-width in days of the central difference used for
// daily motion.
const speedStep = 0.5

// meanElements holds J2000 elements and their rates per Julian century.
type meanElements struct {
	base astro.OrbitalElements
	rate astro.OrbitalElements
}

func (m meanElements) at(T float64) astro.OrbitalElements {
	return astro.OrbitalElements{
		SemiMajorAU:   m.base.SemiMajorAU + m.rate.SemiMajorAU*T,
		Eccentricity:  m.base.Eccentricity + m.rate.Eccentricity*T,
		Inclination:   m.base.Inclination + m.rate.Inclination*T,
		MeanLon:       m.base.MeanLon + m.rate.MeanLon*T,
		LonPerihelion: m.base.LonPerihelion + m.rate.LonPerihelion*T,
		LonNode:       m.base.LonNode + m.rate.LonNode*T,
	}
}

// Approximate Keplerian elements for 1800-2050 (JPL, Standish).
var earthMoonBarycenter = meanElements{
	base: astro.OrbitalElements{SemiMajorAU: 1.00000261, Eccentricity: 0.01671123, Inclination: -0.00001531, MeanLon: 100.46457166, LonPerihelion: 102.93768193, LonNode: 0},
	rate: astro.OrbitalElements{SemiMajorAU: 0.00000562, Eccentricity: -0.00004392, Inclination: -0.01294668, MeanLon: 35999.37244981, LonPerihelion: 0.32327364, LonNode: 0},
}

var planetElements = map[Body]meanElements{
	Mercury: {
		base: astro.OrbitalElements{SemiMajorAU: 0.38709927, Eccentricity: 0.20563593, Inclination: 7.00497902, MeanLon: 252.25032350, LonPerihelion: 77.45779628, LonNode: 48.33076593},
		rate: astro.OrbitalElements{SemiMajorAU: 0.00000037, Eccentricity: 0.00001906, Inclination: -0.00594749, MeanLon: 149472.67411175, LonPerihelion: 0.16047689, LonNode: -0.12534081},
	},
	Venus: {
		base: astro.OrbitalElements{SemiMajorAU: 0.72333566, Eccentricity: 0.00677672, Inclination: 3.39467605, MeanLon: 181.97909950, LonPerihelion: 131.60246718, LonNode: 76.67984255},
		rate: astro.OrbitalElements{SemiMajorAU: 0.00000390, Eccentricity: -0.00004107, Inclination: -0.00078890, MeanLon: 58517.81538729, LonPerihelion: 0.00268329, LonNode: -0.27769418},
	},
	Mars: {
		base: astro.OrbitalElements{SemiMajorAU: 1.52371034, Eccentricity: 0.09339410, Inclination: 1.84969142, MeanLon: -4.55343205, LonPerihelion: -23.94362959, LonNode: 49.55953891},
		rate: astro.OrbitalElements{SemiMajorAU: 0.00001847, Eccentricity: 0.00007882, Inclination: -0.00813131, MeanLon: 19140.30268499, LonPerihelion: 0.44441088, LonNode: -0.29257343},
	},
	Jupiter: {
		base: astro.OrbitalElements{SemiMajorAU: 5.20288700, Eccentricity: 0.04838624, Inclination: 1.30439695, MeanLon: 34.39644051, LonPerihelion: 14.72847983, LonNode: 100.47390909},
		rate: astro.OrbitalElements{SemiMajorAU: -0.00011607, Eccentricity: -0.00013253, Inclination: -0.00183714, MeanLon: 3034.74612775, LonPerihelion: 0.21252668, LonNode: 0.20469106},
	},
	Saturn: {
		base: astro.OrbitalElements{SemiMajorAU: 9.53667594, Eccentricity: 0.05386179, Inclination: 2.48599187, MeanLon: 49.95424423, LonPerihelion: 92.59887831, LonNode: 113.66242448},
		rate: astro.OrbitalElements{SemiMajorAU: -0.00125060, Eccentricity: -0.00050991, Inclination: 0.00193609, MeanLon: 1222.49362201, LonPerihelion: -0.41897216, LonNode: -0.28867794},
	},
	Uranus: {
		base: astro.OrbitalElements{SemiMajorAU: 19.18916464, Eccentricity: 0.04725744, Inclination: 0.77263783, MeanLon: 313.23810451, LonPerihelion: 170.95427630, LonNode: 74.01692503},
		rate: astro.OrbitalElements{SemiMajorAU: -0.00196176, Eccentricity: -0.00004397, Inclination: -0.00242939, MeanLon: 428.48202785, LonPerihelion: 0.40805281, LonNode: 0.04240589},
	},
	Neptune: {
		base: astro.OrbitalElements{SemiMajorAU: 30.06992276, Eccentricity: 0.00859048, Inclination: 1.77004347, MeanLon: -55.12002969, LonPerihelion: 44.96476227, LonNode: 131.78422574},
		rate: astro.OrbitalElements{SemiMajorAU: 0.00026291, Eccentricity: 0.00005105, Inclination: 0.00035372, MeanLon: 218.45945325, LonPerihelion: -0.32241464, LonNode: -0.00508664},
	},
	Pluto: {
		base: astro.OrbitalElements{SemiMajorAU: 39.48211675, Eccentricity: 0.24882730, Inclination: 17.14001206, MeanLon: 238.92903833, LonPerihelion: 224.06891629, LonNode: 110.30393684},
		rate: astro.OrbitalElements{SemiMajorAU: -0.00031596, Eccentricity: 0.00005170, Inclination: 0.00004818, MeanLon: 145.20780515, LonPerihelion: -0.04062942, LonNode: -0.01183482},
	},
}

// KeplerProvider computes positions offline from mean orbital elements,
// the low-precision solar theory and the main lunar terms. Accuracy is a
// few arcminutes for the planets and a few tenths of a degree for the Moon.
type KeplerProvider struct{}

// NewKeplerProvider creates an offline provider.
func NewKeplerProvider() *KeplerProvider {
	return &KeplerProvider{}
}

// Name implements Provider.
func (p *KeplerProvider) Name() string {
	return "kepler"
}

// Available implements Provider. The South Node is derived by the chart
// resolver and never queried.
func (p *KeplerProvider) Available(body Body) bool {
	return body >= Sun && body <= NorthNode
}

// Query implements Provider.
func (p *KeplerProvider) Query(_ context.Context, jd float64, body Body) (Position, error) {
	if !p.Available(body) {
		return Position{}, fmt.Errorf("%w: kepler provider has no %s", ErrUnavailable, body)
	}
	if jd < KeplerMinJD || jd > KeplerMaxJD {
		return Position{}, fmt.Errorf("%w: JD %.4f outside %.1f-%.1f", ErrUnavailable, jd, KeplerMinJD, KeplerMaxJD)
	}

	lon, lat, dist := keplerPosition(jd, body)
	before, _, _ := keplerPosition(jd-speedStep, body)
	after, _, _ := keplerPosition(jd+speedStep, body)

	return Position{
		Longitude: lon,
		Latitude:  lat,
		Distance:  dist,
		Speed:     astro.NormalizeSigned(after-before) / (2 * speedStep),
	}, nil
}

// keplerPosition returns longitude and latitude in degrees (ecliptic of
// date) and distance in AU.
func keplerPosition(jd float64, body Body) (lon, lat, dist float64) {
	switch body {
	case Sun:
		lon, dist = astro.SunApparentLongitude(jd)
		return lon, 0, dist
	case Moon:
		lon, lat, km := astro.MoonPosition(jd)
		return lon, lat, astro.KmToAU(km)
	case NorthNode:
		return astro.MeanLunarNode(jd), 0, 0
	}

	T := astro.JulianCenturies(jd)
	planet := astro.HeliocentricPosition(planetElements[body].at(T))
	earth := astro.HeliocentricPosition(earthMoonBarycenter.at(T))
	geo := planet.Sub(earth)

	lon = astro.Normalize360(astro.EclipticLongitude(geo) + precessionRate*T)
	return lon, astro.EclipticLatitude(geo), geo.Norm()
}
