// Package report renders charts, transits and fortunes as JSON or text
// tables.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// ChartExport is the JSON-serializable form of a chart, with ordered lists
// in place of maps.
type ChartExport struct {
	Subject     SubjectExport     `json:"subject"`
	HouseSystem string            `json:"house_system"`
	Requested   string            `json:"requested_system,omitempty"`
	Placements  []PlacementExport `json:"placements"`
	Angles      []AngleExport     `json:"angles"`
	Houses      []CuspExport      `json:"houses"`
	Aspects     []AspectExport    `json:"aspects"`
	Elements    map[string]int    `json:"elements"`
	FixedStars  []StarExport      `json:"fixed_stars,omitempty"`
	Warnings    []chart.Warning   `json:"warnings,omitempty"`
}

// SubjectExport describes who and when.
type SubjectExport struct {
	Name      string    `json:"name,omitempty"`
	Local     string    `json:"local"`
	Zone      string    `json:"zone"`
	UTC       time.Time `json:"utc"`
	JD        float64   `json:"jd"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// PlacementExport is a JSON-friendly body placement.
type PlacementExport struct {
	Body       string  `json:"body"`
	Glyph      string  `json:"glyph"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Speed      float64 `json:"speed"`
	Sign       string  `json:"sign"`
	Degree     float64 `json:"degree"`
	Position   string  `json:"position"`
	House      int     `json:"house,omitempty"`
	Retrograde bool    `json:"retrograde"`
}

// AngleExport is one chart angle.
type AngleExport struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
	Position  string  `json:"position"`
}

// CuspExport is one house cusp.
type CuspExport struct {
	House     int     `json:"house"`
	Longitude float64 `json:"longitude"`
	Position  string  `json:"position"`
}

// AspectExport is a JSON-friendly aspect.
type AspectExport struct {
	P1     string  `json:"p1"`
	P2     string  `json:"p2"`
	Type   string  `json:"type"`
	Symbol string  `json:"symbol"`
	Orb    float64 `json:"orb"`
	Exact  bool    `json:"exact"`
}

// StarExport is a fixed-star contact.
type StarExport struct {
	Star      string  `json:"star"`
	Magnitude float64 `json:"magnitude"`
	Body      string  `json:"body"`
	Position  string  `json:"position"`
	Orb       float64 `json:"orb"`
}

// ExportChart converts a chart to its exportable form.
func ExportChart(res *chart.ChartResult) *ChartExport {
	if res == nil {
		return &ChartExport{}
	}

	s := res.Subject
	export := &ChartExport{
		Subject: SubjectExport{
			Name:      s.Name,
			Local:     s.Civil().String(),
			Zone:      s.AppliedZone,
			UTC:       s.UTC,
			JD:        s.JD,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		},
		HouseSystem: res.HouseSystem.String(),
		Elements:    make(map[string]int),
		Warnings:    res.Warnings,
	}
	if res.RequestedSystem != res.HouseSystem {
		export.Requested = res.RequestedSystem.String()
	}

	for _, b := range ephem.ChartBodies() {
		p, ok := res.Placements[b]
		if !ok {
			continue
		}
		pe := exportPlacement(p)
		pe.House, _ = res.HouseOf(b)
		export.Placements = append(export.Placements, pe)
	}

	export.Angles = []AngleExport{
		angle("Ascendant", res.Ascendant.Longitude),
		angle("Midheaven", res.Midheaven.Longitude),
		angle("Descendant", astro.Normalize360(res.Ascendant.Longitude+180)),
		angle("Imum Coeli", astro.Normalize360(res.Midheaven.Longitude+180)),
	}

	for n := 1; n <= 12; n++ {
		c := res.Houses[n]
		export.Houses = append(export.Houses, CuspExport{
			House:     n,
			Longitude: c.Longitude,
			Position:  zodiac.Place(c.Longitude).String(),
		})
	}

	export.Aspects = ExportAspects(res.Aspects)

	for e, n := range res.Elements() {
		export.Elements[e.String()] = n
	}
	return export
}

// ExportStars converts fixed-star contacts, keeping their order.
func ExportStars(contacts []chart.StarContact) []StarExport {
	out := make([]StarExport, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, StarExport{
			Star:      c.Star,
			Magnitude: c.Magnitude,
			Body:      c.Body.String(),
			Position:  zodiac.Place(c.StarLongitude).String(),
			Orb:       c.Orb,
		})
	}
	return out
}

// ExportTransits converts a transit snapshot to placements in body order.
func ExportTransits(snap *chart.TransitSnapshot) []PlacementExport {
	if snap == nil {
		return nil
	}
	out := make([]PlacementExport, 0, len(snap.Placements))
	for _, b := range ephem.ChartBodies() {
		if p, ok := snap.Placements[b]; ok {
			out = append(out, exportPlacement(p))
		}
	}
	return out
}

// ExportAspects converts aspects, keeping their order.
func ExportAspects(aspects []aspect.Aspect) []AspectExport {
	out := make([]AspectExport, 0, len(aspects))
	for _, a := range aspects {
		out = append(out, AspectExport{
			P1:     a.P1,
			P2:     a.P2,
			Type:   a.Type.String(),
			Symbol: a.Type.Symbol(),
			Orb:    a.Orb,
			Exact:  a.Exact,
		})
	}
	return out
}

func exportPlacement(p chart.BodyPlacement) PlacementExport {
	return PlacementExport{
		Body:       p.Body.String(),
		Glyph:      p.Body.Info().Glyph,
		Longitude:  p.Longitude,
		Latitude:   p.Latitude,
		Speed:      p.Speed,
		Sign:       p.Sign.String(),
		Degree:     p.Degree,
		Position:   p.Position().String(),
		Retrograde: p.Retrograde,
	}
}

func angle(name string, lon float64) AngleExport {
	return AngleExport{Name: name, Longitude: lon, Position: zodiac.Place(lon).String()}
}

// WriteJSON writes the chart as indented JSON.
func (c *ChartExport) WriteJSON(w io.Writer) error {
	return WriteJSON(w, c)
}

// WriteJSON writes any value as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
