package fortune

import (
	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// SignNote is a sign placement with its keywords.
type SignNote struct {
	Sign    zodiac.Sign    `json:"sign"`
	Degree  float64        `json:"degree"`
	Traits  string         `json:"traits"`
	Meaning *PlanetMeaning `json:"meaning,omitempty"`
}

// PlanetNote is a natal planet with its house and meaning.
type PlanetNote struct {
	Planet  string        `json:"planet"`
	Sign    zodiac.Sign   `json:"sign"`
	House   int           `json:"house"`
	Meaning PlanetMeaning `json:"meaning"`
}

// HouseNote ties a planet to the life areas of its house.
type HouseNote struct {
	Planet string `json:"planet"`
	House  int    `json:"house"`
	Theme  string `json:"theme"`
}

// KeyAspect is a natal aspect that has an interpretation.
type KeyAspect struct {
	P1      string      `json:"p1"`
	P2      string      `json:"p2"`
	Type    aspect.Type `json:"type"`
	Orb     float64     `json:"orb"`
	Meaning string      `json:"meaning"`
}

// Reading is a birth chart interpretation.
type Reading struct {
	Title     string                 `json:"title"`
	Sun       SignNote               `json:"sun"`
	Moon      SignNote               `json:"moon"`
	Rising    SignNote               `json:"rising"`
	Emphasis  []PlanetNote           `json:"emphasis"`
	Houses    []HouseNote            `json:"houses"`
	Aspects   []KeyAspect            `json:"aspects"`
	Elements  map[zodiac.Element]int `json:"elements"`
	Element   zodiac.Element         `json:"element"`
	LifeTheme string                 `json:"life_theme"`
}

var angularHouses = map[int]bool{1: true, 4: true, 7: true, 10: true}

// keyAspectTypes are the aspects a reading comments on.
var keyAspectTypes = map[aspect.Type]bool{
	aspect.Conjunction: true,
	aspect.Opposition:  true,
	aspect.Square:      true,
	aspect.Trine:       true,
}

// BirthReading interprets a natal chart. It needs no transits.
func (r *Reader) BirthReading(natal *chart.ChartResult, lang string) *Reading {
	lang = langOf(lang)
	t := r.tables

	sun := natal.Placements[ephem.Sun]
	moon := natal.Placements[ephem.Moon]
	sunMeaning := t.Planet("Sun", lang)
	moonMeaning := t.Planet("Moon", lang)

	rd := &Reading{
		Title: t.Title("reading", lang),
		Sun: SignNote{
			Sign:    sun.Sign,
			Degree:  sun.Degree,
			Traits:  t.SignTraits(sun.Sign, lang),
			Meaning: &sunMeaning,
		},
		Moon: SignNote{
			Sign:    moon.Sign,
			Degree:  moon.Degree,
			Traits:  t.SignTraits(moon.Sign, lang),
			Meaning: &moonMeaning,
		},
		Rising: SignNote{
			Sign:   natal.Ascendant.Sign,
			Degree: natal.Ascendant.Degree,
			Traits: t.SignTraits(natal.Ascendant.Sign, lang),
		},
	}

	counts := make(map[zodiac.Element]int, len(zodiac.Elements))
	for _, e := range zodiac.Elements {
		counts[e] = 0
	}
	for _, b := range personal {
		p, ok := natal.Placements[b]
		if !ok {
			continue
		}
		house := natal.HouseOfLongitude(p.Longitude)
		counts[p.Sign.Element()]++

		if angularHouses[house] {
			rd.Emphasis = append(rd.Emphasis, PlanetNote{
				Planet:  b.String(),
				Sign:    p.Sign,
				House:   house,
				Meaning: t.Planet(b.String(), lang),
			})
		}
		rd.Houses = append(rd.Houses, HouseNote{
			Planet: b.String(),
			House:  house,
			Theme:  t.House(house, lang),
		})
	}

	for _, a := range natal.Aspects {
		if !keyAspectTypes[a.Type] {
			continue
		}
		text := t.Aspect(a.P1, a.P2, a.Type.String(), lang)
		if text == "" {
			continue
		}
		rd.Aspects = append(rd.Aspects, KeyAspect{P1: a.P1, P2: a.P2, Type: a.Type, Orb: a.Orb, Meaning: text})
	}

	rd.Elements = counts
	rd.Element = dominant(counts)
	rd.LifeTheme = t.Element(rd.Element, lang)
	return rd
}

// dominant returns the element with the highest count; ties go to the
// element listed first in zodiac.Elements.
func dominant(counts map[zodiac.Element]int) zodiac.Element {
	best := zodiac.Elements[0]
	for _, e := range zodiac.Elements[1:] {
		if counts[e] > counts[best] {
			best = e
		}
	}
	return best
}
