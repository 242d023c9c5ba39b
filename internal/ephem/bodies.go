package ephem

import (
	"fmt"
	"strings"
)

// Body is a chart body.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	NorthNode // mean lunar ascending node
	SouthNode // derived, opposite the North Node
)

// BodyInfo contains naming and lookup information for a body.
type BodyInfo struct {
	Body     Body
	Name     string
	Glyph    string
	NAIFID   int    // NAIF SPICE ID, 0 for computed points
	HorizCmd string // Horizons COMMAND value, empty if Horizons has none
	Aliases  []string
}

// Catalog is the canonical list of bodies in chart order.
var Catalog = []BodyInfo{
	{Body: Sun, Name: "Sun", Glyph: "☉", NAIFID: 10, HorizCmd: "10"},
	{Body: Moon, Name: "Moon", Glyph: "☽", NAIFID: 301, HorizCmd: "301", Aliases: []string{"Luna"}},
	{Body: Mercury, Name: "Mercury", Glyph: "☿", NAIFID: 199, HorizCmd: "199"},
	{Body: Venus, Name: "Venus", Glyph: "♀", NAIFID: 299, HorizCmd: "299"},
	{Body: Mars, Name: "Mars", Glyph: "♂", NAIFID: 499, HorizCmd: "499"},
	{Body: Jupiter, Name: "Jupiter", Glyph: "♃", NAIFID: 599, HorizCmd: "599"},
	{Body: Saturn, Name: "Saturn", Glyph: "♄", NAIFID: 699, HorizCmd: "699"},
	{Body: Uranus, Name: "Uranus", Glyph: "♅", NAIFID: 799, HorizCmd: "799"},
	{Body: Neptune, Name: "Neptune", Glyph: "♆", NAIFID: 899, HorizCmd: "899"},
	{Body: Pluto, Name: "Pluto", Glyph: "♇", NAIFID: 999, HorizCmd: "999"},
	{Body: NorthNode, Name: "North Node", Glyph: "☊", Aliases: []string{"NN", "Rahu", "Mean Node"}},
	{Body: SouthNode, Name: "South Node", Glyph: "☋", Aliases: []string{"SN", "Ketu"}},
}

// BodiesByName maps lowercase names and aliases to bodies.
var BodiesByName = func() map[string]Body {
	m := make(map[string]Body, len(Catalog)*2)
	for _, info := range Catalog {
		m[normalizeName(info.Name)] = info.Body
		for _, alias := range info.Aliases {
			m[normalizeName(alias)] = info.Body
		}
	}
	return m
}()

// normalizeName lowercases and drops separators so "North Node",
// "north_node" and "northnode" all match.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Info returns the catalog entry for the body.
func (b Body) Info() BodyInfo {
	if b < Sun || int(b) >= len(Catalog) {
		return BodyInfo{Body: b, Name: "Unknown", Glyph: "?"}
	}
	return Catalog[b]
}

// String returns the body's display name.
func (b Body) String() string {
	return b.Info().Name
}

// Slug returns a lowercase file-safe name such as "north_node".
func (b Body) Slug() string {
	return strings.ReplaceAll(strings.ToLower(b.String()), " ", "_")
}

// IsNode reports whether the body is one of the lunar nodes.
func (b Body) IsNode() bool {
	return b == NorthNode || b == SouthNode
}

// MarshalText encodes the body by name.
func (b Body) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes a body name or alias.
func (b *Body) UnmarshalText(text []byte) error {
	v, err := ParseBody(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBody returns the body for a name or alias, case-insensitively.
func ParseBody(name string) (Body, error) {
	if b, ok := BodiesByName[normalizeName(name)]; ok {
		return b, nil
	}
	return Sun, fmt.Errorf("unknown body %q", name)
}

// Planets returns the ten classical chart planets, Sun through Pluto.
func Planets() []Body {
	return []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
}

// ChartBodies returns every body placed in a natal chart.
func ChartBodies() []Body {
	return append(Planets(), NorthNode, SouthNode)
}
