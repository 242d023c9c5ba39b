package aspect

import (
	"sort"

	"github.com/litescript/ls-natal/internal/astro"
)

// ExactOrb is the orb below which an aspect is flagged exact.
const ExactOrb = 1.0

// Point is a named ecliptic longitude.
type Point struct {
	Name      string
	Longitude float64
}

// Aspect is one detected relationship. In cross mode P1 comes from the
// first point set (e.g. the transiting chart).
type Aspect struct {
	P1         string  `json:"p1"`
	P2         string  `json:"p2"`
	Type       Type    `json:"type"`
	Angle      float64 `json:"angle"`
	Separation float64 `json:"separation"`
	Orb        float64 `json:"orb"`
	Exact      bool    `json:"exact"`
}

// Separation returns the shorter angular distance between two longitudes,
// in [0, 180].
func Separation(a, b float64) float64 {
	return astro.Separation(a, b)
}

// Detector finds aspects under one orb table. It holds no mutable state.
type Detector struct {
	orbs        OrbTable
	types       []Type
	bestPerPair bool
}

// Option configures a Detector.
type Option func(*Detector)

// WithBestPerPair keeps only the closest match for each pair when orbs
// overlap.
func WithBestPerPair(on bool) Option {
	return func(d *Detector) {
		d.bestPerPair = on
	}
}

// NewDetector creates a detector over a copy of orbs.
func NewDetector(orbs OrbTable, opts ...Option) *Detector {
	d := &Detector{orbs: orbs.Clone()}
	d.types = d.orbs.Types()
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Orbs returns a copy of the detector's orb table.
func (d *Detector) Orbs() OrbTable {
	return d.orbs.Clone()
}

// Find checks every unordered pair of distinct points once.
func (d *Detector) Find(points []Point) []Aspect {
	var out []Aspect
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			out = d.match(out, points[i], points[j])
		}
	}
	return sortByOrb(out)
}

// FindCross checks every (from, to) pair.
func (d *Detector) FindCross(from, to []Point) []Aspect {
	var out []Aspect
	for _, a := range from {
		for _, b := range to {
			out = d.match(out, a, b)
		}
	}
	return sortByOrb(out)
}

func (d *Detector) match(out []Aspect, a, b Point) []Aspect {
	sep := Separation(a.Longitude, b.Longitude)

	var best *Aspect
	for _, t := range d.types {
		orb := sep - t.Angle()
		if orb < 0 {
			orb = -orb
		}
		if orb > d.orbs[t] {
			continue
		}
		asp := Aspect{
			P1:         a.Name,
			P2:         b.Name,
			Type:       t,
			Angle:      t.Angle(),
			Separation: sep,
			Orb:        orb,
			Exact:      orb < ExactOrb,
		}
		if !d.bestPerPair {
			out = append(out, asp)
			continue
		}
		if best == nil || asp.Orb < best.Orb {
			best = &asp
		}
	}
	if best != nil {
		out = append(out, *best)
	}
	return out
}

func sortByOrb(a []Aspect) []Aspect {
	sort.SliceStable(a, func(i, j int) bool { return a[i].Orb < a[j].Orb })
	return a
}

// Top returns at most n aspects from the front of a sorted list.
func Top(aspects []Aspect, n int) []Aspect {
	if n < 0 {
		n = 0
	}
	if len(aspects) <= n {
		return aspects
	}
	return aspects[:n]
}
