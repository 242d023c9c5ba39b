// Package aspect finds angular relationships between chart points.
package aspect

import (
	"fmt"
	"sort"
	"strings"
)

// Type is an aspect kind.
type Type int

const (
	Conjunction Type = iota
	SemiSextile
	SemiSquare
	Sextile
	Square
	Trine
	Sesquiquadrate
	Quincunx
	Opposition
)

type typeInfo struct {
	name   string
	angle  float64
	symbol string
	major  bool
}

var types = [...]typeInfo{
	Conjunction:    {"Conjunction", 0, "☌", true},
	SemiSextile:    {"Semi-Sextile", 30, "⚺", false},
	SemiSquare:     {"Semi-Square", 45, "∠", false},
	Sextile:        {"Sextile", 60, "⚹", true},
	Square:         {"Square", 90, "□", true},
	Trine:          {"Trine", 120, "△", true},
	Sesquiquadrate: {"Sesquiquadrate", 135, "⚼", false},
	Quincunx:       {"Quincunx", 150, "⚻", false},
	Opposition:     {"Opposition", 180, "☍", true},
}

func (t Type) valid() bool {
	return t >= Conjunction && int(t) < len(types)
}

// String returns the aspect name.
func (t Type) String() string {
	if !t.valid() {
		return "Unknown"
	}
	return types[t].name
}

// Angle returns the exact angle of the aspect in degrees.
func (t Type) Angle() float64 {
	if !t.valid() {
		return 0
	}
	return types[t].angle
}

// Symbol returns the aspect glyph.
func (t Type) Symbol() string {
	if !t.valid() {
		return "?"
	}
	return types[t].symbol
}

// Major reports whether t is one of the five Ptolemaic aspects.
func (t Type) Major() bool {
	return t.valid() && types[t].major
}

// MarshalText encodes the type by name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func normalizeTypeName(s string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ParseType parses an aspect name; separators and case are ignored, so
// "semi_sextile", "Semi-Sextile" and "semisextile" are equivalent.
func ParseType(s string) (Type, error) {
	norm := normalizeTypeName(s)
	for i, info := range types {
		if normalizeTypeName(info.name) == norm {
			return Type(i), nil
		}
	}
	if norm == "inconjunct" {
		return Quincunx, nil
	}
	return Conjunction, fmt.Errorf("unknown aspect type %q", s)
}

// OrbTable maps each aspect type in use to its maximum orb in degrees.
// Types absent from the table are not detected.
type OrbTable map[Type]float64

// NatalOrbs are the orbs for aspects within one chart.
var NatalOrbs = OrbTable{
	Conjunction: 8,
	Sextile:     6,
	Square:      8,
	Trine:       10,
	Opposition:  12,
}

// TransitOrbs are the orbs for transiting-to-natal aspects.
var TransitOrbs = OrbTable{
	Conjunction: 8,
	Sextile:     5,
	Square:      7,
	Trine:       7,
	Opposition:  8,
}

// SynastryOrbs are the orbs for aspects between two natal charts.
var SynastryOrbs = OrbTable{
	Conjunction: 8,
	Sextile:     6,
	Square:      8,
	Trine:       8,
	Opposition:  8,
}

// Types returns the table's types in ascending angle order.
func (o OrbTable) Types() []Type {
	out := make([]Type, 0, len(o))
	for t := range o {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy.
func (o OrbTable) Clone() OrbTable {
	out := make(OrbTable, len(o))
	for t, v := range o {
		out[t] = v
	}
	return out
}

// Validate checks that every type is known and every orb is within
// [0, 15].
func (o OrbTable) Validate() error {
	if len(o) == 0 {
		return fmt.Errorf("orb table is empty")
	}
	for t, v := range o {
		if !t.valid() {
			return fmt.Errorf("unknown aspect type %d", int(t))
		}
		if v < 0 || v > 15 {
			return fmt.Errorf("%v orb %.2f outside [0, 15]", t, v)
		}
	}
	return nil
}
