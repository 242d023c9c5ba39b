package chart

import (
	"sort"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/ephem"
)

// Defaults for fixed-star contacts.
const (
	DefaultStarOrb       = 1.0
	DefaultStarMagnitude = 2.0
)

// StarContact is a chart body in conjunction with a fixed star.
type StarContact struct {
	Star          string     `json:"star"`
	Magnitude     float64    `json:"magnitude"`
	Body          ephem.Body `json:"body"`
	StarLongitude float64    `json:"star_longitude"`
	Orb           float64    `json:"orb"`
}

// FixedStarContacts returns every conjunction within orb between a chart
// body and one of stars, with the star precessed to the chart's date.
// Contacts are ordered by orb, tightest first.
func FixedStarContacts(res *ChartResult, stars []astro.Star, orb float64) []StarContact {
	if res == nil || orb <= 0 {
		return nil
	}

	var out []StarContact
	for _, s := range stars {
		lon, _ := s.EclipticPosition(res.Subject.JD)
		for _, b := range ephem.ChartBodies() {
			p, ok := res.Placements[b]
			if !ok {
				continue
			}
			if d := astro.Separation(p.Longitude, lon); d <= orb {
				out = append(out, StarContact{
					Star:          s.Name,
					Magnitude:     s.Mag,
					Body:          b,
					StarLongitude: lon,
					Orb:           d,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Orb < out[j].Orb })
	return out
}
