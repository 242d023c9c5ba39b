package chart

import (
	"time"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/houses"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// BodyPlacement is a body's resolved position with its zodiac placement.
type BodyPlacement struct {
	Body       ephem.Body  `json:"body"`
	Longitude  float64     `json:"longitude"` // [0, 360)
	Latitude   float64     `json:"latitude"`
	Distance   float64     `json:"distance"` // AU
	Speed      float64     `json:"speed"`    // deg/day
	Sign       zodiac.Sign `json:"sign"`
	Degree     float64     `json:"degree"` // [0, 30)
	Retrograde bool        `json:"retrograde"`
}

func newPlacement(body ephem.Body, pos ephem.Position) BodyPlacement {
	lon := astro.Normalize360(pos.Longitude)
	place := zodiac.Place(lon)
	return BodyPlacement{
		Body:       body,
		Longitude:  lon,
		Latitude:   pos.Latitude,
		Distance:   pos.Distance,
		Speed:      pos.Speed,
		Sign:       place.Sign,
		Degree:     place.Degree,
		Retrograde: pos.Speed < 0,
	}
}

// Position returns the sign and degree.
func (p BodyPlacement) Position() zodiac.Position {
	return zodiac.Position{Sign: p.Sign, Degree: p.Degree}
}

// HouseCusp is the starting longitude of one house.
type HouseCusp struct {
	House     int         `json:"house"`
	Longitude float64     `json:"longitude"`
	Sign      zodiac.Sign `json:"sign"`
	Degree    float64     `json:"degree"`
}

// AngularPoint is a chart angle such as the Ascendant.
type AngularPoint struct {
	Longitude float64     `json:"longitude"`
	Sign      zodiac.Sign `json:"sign"`
	Degree    float64     `json:"degree"`
}

func newAngularPoint(lon float64) AngularPoint {
	p := zodiac.Place(lon)
	return AngularPoint{Longitude: astro.Normalize360(lon), Sign: p.Sign, Degree: p.Degree}
}

// Position returns the sign and degree.
func (a AngularPoint) Position() zodiac.Position {
	return zodiac.Position{Sign: a.Sign, Degree: a.Degree}
}

// Subject is the birth moment together with its resolved instant.
type Subject struct {
	BirthMoment
	JD           float64   `json:"jd"`
	UTC          time.Time `json:"utc"`
	AppliedZone  string    `json:"applied_zone"`
	ZoneFallback bool      `json:"zone_fallback,omitempty"`
}

// ChartResult is a computed natal chart. It is not modified after
// CalculateAll returns.
type ChartResult struct {
	Subject         Subject                      `json:"subject"`
	Placements      map[ephem.Body]BodyPlacement `json:"placements"`
	Ascendant       AngularPoint                 `json:"ascendant"`
	Midheaven       AngularPoint                 `json:"midheaven"`
	Houses          map[int]HouseCusp            `json:"houses"`
	HouseSystem     houses.System                `json:"house_system"`
	RequestedSystem houses.System                `json:"requested_system"`
	Aspects         []aspect.Aspect              `json:"aspects"`
	Warnings        []Warning                    `json:"warnings,omitempty"`
}

// Placement returns the placement of body, if the chart has one.
func (r *ChartResult) Placement(body ephem.Body) (BodyPlacement, bool) {
	p, ok := r.Placements[body]
	return p, ok
}

// Cusps returns the twelve cusp longitudes, house 1 first.
func (r *ChartResult) Cusps() [12]float64 {
	var out [12]float64
	for i := range out {
		out[i] = r.Houses[i+1].Longitude
	}
	return out
}

// HouseOf returns the house a body falls in.
func (r *ChartResult) HouseOf(body ephem.Body) (int, bool) {
	p, ok := r.Placements[body]
	if !ok {
		return 0, false
	}
	return r.HouseOfLongitude(p.Longitude), true
}

// HouseOfLongitude returns the natal house containing lon.
func (r *ChartResult) HouseOfLongitude(lon float64) int {
	return houses.Lookup(lon, r.Cusps())
}

// Elements counts the ten planets by the element of their sign.
func (r *ChartResult) Elements() map[zodiac.Element]int {
	out := make(map[zodiac.Element]int, len(zodiac.Elements))
	for _, e := range zodiac.Elements {
		out[e] = 0
	}
	for _, b := range ephem.Planets() {
		if p, ok := r.Placements[b]; ok {
			out[p.Sign.Element()]++
		}
	}
	return out
}

// DominantElement returns the most populated element; ties go to the
// element listed first in zodiac.Elements.
func (r *ChartResult) DominantElement() zodiac.Element {
	counts := r.Elements()
	best := zodiac.Elements[0]
	for _, e := range zodiac.Elements[1:] {
		if counts[e] > counts[best] {
			best = e
		}
	}
	return best
}

// Points returns aspect points for the given bodies, in order, skipping
// any the chart does not contain.
func (r *ChartResult) Points(bodies []ephem.Body) []aspect.Point {
	return points(r.Placements, bodies)
}

func points(placements map[ephem.Body]BodyPlacement, bodies []ephem.Body) []aspect.Point {
	out := make([]aspect.Point, 0, len(bodies))
	for _, b := range bodies {
		if p, ok := placements[b]; ok {
			out = append(out, aspect.Point{Name: b.String(), Longitude: p.Longitude})
		}
	}
	return out
}

// TransitSnapshot holds body placements at one instant, without houses or
// aspects.
type TransitSnapshot struct {
	JD         float64                      `json:"jd"`
	UTC        time.Time                    `json:"utc"`
	Zone       string                       `json:"zone"`
	Placements map[ephem.Body]BodyPlacement `json:"placements"`
	Warnings   []Warning                    `json:"warnings,omitempty"`
}

// Points returns aspect points for the given bodies.
func (s *TransitSnapshot) Points(bodies []ephem.Body) []aspect.Point {
	return points(s.Placements, bodies)
}
