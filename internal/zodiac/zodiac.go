// Package zodiac maps ecliptic longitudes onto the tropical zodiac.
package zodiac

import (
	"fmt"
	"math"
	"strings"

	"github.com/litescript/ls-natal/internal/astro"
)

// Sign is one of the twelve 30° tropical signs, Aries first.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// SignCount is the number of signs in the zodiac.
const SignCount = 12

var signNames = [SignCount]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var signGlyphs = [SignCount]string{
	"♈", "♉", "♊", "♋", "♌", "♍", "♎", "♏", "♐", "♑", "♒", "♓",
}

// String returns the English sign name.
func (s Sign) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return signNames[s]
}

// Glyph returns the Unicode symbol for the sign.
func (s Sign) Glyph() string {
	if !s.Valid() {
		return "?"
	}
	return signGlyphs[s]
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool {
	return s >= Aries && s <= Pisces
}

// Start returns the ecliptic longitude where the sign begins.
func (s Sign) Start() float64 {
	return float64(s) * 30
}

// Element returns the sign's triplicity.
func (s Sign) Element() Element {
	return Element(int(s) % 4)
}

// Modality returns the sign's quadruplicity.
func (s Sign) Modality() Modality {
	return Modality(int(s) % 3)
}

// Ruler returns the name of the sign's ruling body, using the modern
// rulerships for Scorpio, Aquarius and Pisces.
func (s Sign) Ruler() string {
	if !s.Valid() {
		return ""
	}
	return rulers[s]
}

var rulers = [SignCount]string{
	"Mars", "Venus", "Mercury", "Moon", "Sun", "Mercury",
	"Venus", "Pluto", "Jupiter", "Saturn", "Uranus", "Neptune",
}

// MarshalText encodes the sign by name.
func (s Sign) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a sign name.
func (s *Sign) UnmarshalText(b []byte) error {
	v, err := ParseSign(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSign parses an English sign name, case-insensitively.
func ParseSign(name string) (Sign, error) {
	for i, n := range signNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Sign(i), nil
		}
	}
	return Aries, fmt.Errorf("unknown sign %q", name)
}

// Signs returns the twelve signs in zodiac order.
func Signs() []Sign {
	out := make([]Sign, SignCount)
	for i := range out {
		out[i] = Sign(i)
	}
	return out
}

// Element is a sign triplicity.
type Element int

const (
	Fire Element = iota
	Earth
	Air
	Water
)

// Elements lists the four elements in sign order.
var Elements = []Element{Fire, Earth, Air, Water}

// String returns the element name.
func (e Element) String() string {
	switch e {
	case Fire:
		return "Fire"
	case Earth:
		return "Earth"
	case Air:
		return "Air"
	case Water:
		return "Water"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the element by name.
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Modality is a sign quadruplicity.
type Modality int

const (
	Cardinal Modality = iota
	Fixed
	Mutable
)

// String returns the modality name.
func (m Modality) String() string {
	switch m {
	case Cardinal:
		return "Cardinal"
	case Fixed:
		return "Fixed"
	case Mutable:
		return "Mutable"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the modality by name.
func (m Modality) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Position is a longitude expressed as a sign and a degree within it.
type Position struct {
	Sign   Sign
	Degree float64 // [0, 30)
}

// Longitude returns the absolute ecliptic longitude of the position.
func (p Position) Longitude() float64 {
	return p.Sign.Start() + p.Degree
}

// String formats the position as e.g. "15°04' Leo".
func (p Position) String() string {
	d := math.Floor(p.Degree)
	m := math.Floor((p.Degree - d) * 60)
	return fmt.Sprintf("%2.0f°%02.0f' %s", d, m, p.Sign)
}

// Place splits an ecliptic longitude into sign and degree. The longitude is
// normalized first, so any finite input is accepted.
func Place(lon float64) Position {
	lon = astro.Normalize360(lon)
	idx := int(lon / 30)
	if idx >= SignCount {
		idx = SignCount - 1
	}
	deg := lon - float64(idx)*30
	if deg < 0 {
		deg = 0
	}
	return Position{Sign: Sign(idx), Degree: deg}
}

// SignOf returns the sign containing an ecliptic longitude.
func SignOf(lon float64) Sign {
	return Place(lon).Sign
}

// sunSignCutoffs holds, per month, the first day on which the Sun is in
// the next sign, together with the sign before and after that day.
var sunSignCutoffs = [12]struct {
	day           int
	before, after Sign
}{
	{20, Capricorn, Aquarius},
	{19, Aquarius, Pisces},
	{21, Pisces, Aries},
	{20, Aries, Taurus},
	{21, Taurus, Gemini},
	{21, Gemini, Cancer},
	{23, Cancer, Leo},
	{23, Leo, Virgo},
	{23, Virgo, Libra},
	{23, Libra, Scorpio},
	{22, Scorpio, Sagittarius},
	{22, Sagittarius, Capricorn},
}

// SunSignForDate returns the conventional Sun sign for a calendar date
// without computing an ephemeris. Births near a cusp date should use a full
// chart instead.
func SunSignForDate(month, day int) (Sign, error) {
	if month < 1 || month > 12 {
		return Aries, fmt.Errorf("month %d out of range", month)
	}
	if day < 1 || day > 31 {
		return Aries, fmt.Errorf("day %d out of range", day)
	}
	c := sunSignCutoffs[month-1]
	if day >= c.day {
		return c.after, nil
	}
	return c.before, nil
}
