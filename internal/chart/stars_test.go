package chart

import (
	"testing"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/ephem"
)

func TestFixedStarContacts(t *testing.T) {
	regulus := astro.Star{Name: "Regulus", RAdeg: 152.093, DecDeg: 11.967, Mag: 1.35}
	spica := astro.Star{Name: "Spica", RAdeg: 201.298, DecDeg: -11.161, Mag: 0.97}
	regLon, _ := regulus.EclipticPosition(astro.J2000)

	res := &ChartResult{
		Subject: Subject{JD: astro.J2000},
		Placements: map[ephem.Body]BodyPlacement{
			ephem.Sun:   {Body: ephem.Sun, Longitude: astro.Normalize360(regLon + 0.3)},
			ephem.Venus: {Body: ephem.Venus, Longitude: astro.Normalize360(regLon - 0.8)},
			ephem.Mars:  {Body: ephem.Mars, Longitude: astro.Normalize360(regLon + 5)},
			ephem.Moon:  {Body: ephem.Moon, Longitude: 10},
		},
	}

	got := FixedStarContacts(res, []astro.Star{regulus, spica}, DefaultStarOrb)
	if len(got) != 2 {
		t.Fatalf("got %d contacts, want 2: %+v", len(got), got)
	}
	if got[0].Body != ephem.Sun || got[1].Body != ephem.Venus {
		t.Errorf("contacts not ordered by orb: %+v", got)
	}
	for _, c := range got {
		if c.Star != "Regulus" {
			t.Errorf("unexpected star %s", c.Star)
		}
		if c.Orb > DefaultStarOrb {
			t.Errorf("%v orb %v exceeds %v", c.Body, c.Orb, DefaultStarOrb)
		}
	}

	if got := FixedStarContacts(res, []astro.Star{regulus}, 0.1); len(got) != 0 {
		t.Errorf("orb 0.1: got %+v, want none", got)
	}
	if got := FixedStarContacts(nil, []astro.Star{regulus}, 1); got != nil {
		t.Errorf("nil chart: got %+v", got)
	}
}

func TestFixedStarContactsPrecessed(t *testing.T) {
	regulus := astro.Star{Name: "Regulus", RAdeg: 152.093, DecDeg: 11.967, Mag: 1.35}
	j2000, _ := regulus.EclipticPosition(astro.J2000)

	// Seventy years on the star has moved about a degree, off a body
	// placed on its J2000 position.
	res := &ChartResult{
		Subject: Subject{JD: astro.J2000 + 70*365.25},
		Placements: map[ephem.Body]BodyPlacement{
			ephem.Jupiter: {Body: ephem.Jupiter, Longitude: j2000},
		},
	}
	if got := FixedStarContacts(res, []astro.Star{regulus}, 0.5); len(got) != 0 {
		t.Errorf("got %+v, want no contact after precession", got)
	}
	if got := FixedStarContacts(res, []astro.Star{regulus}, 1.5); len(got) != 1 {
		t.Errorf("got %d contacts, want 1", len(got))
	}
}
