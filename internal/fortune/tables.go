// Package fortune turns charts and transits into narrated readings using
// the embedded meaning tables.
package fortune

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-natal/internal/zodiac"
)

// DefaultLang is used when a lookup has no entry for the requested language.
const DefaultLang = "en"

//go:embed tables.yaml
var tablesYAML []byte

// Text is a phrase keyed by language code.
type Text map[string]string

// In returns the text for lang, falling back to DefaultLang.
func (t Text) In(lang string) string {
	if s, ok := t[lang]; ok && s != "" {
		return s
	}
	return t[DefaultLang]
}

// PlanetMeaning describes what a planet stands for in a natal chart.
type PlanetMeaning struct {
	Core       string `yaml:"core" json:"core"`
	Strengths  string `yaml:"strengths" json:"strengths"`
	Challenges string `yaml:"challenges" json:"challenges"`
}

// Tables holds every narrative lookup. Treat it as read-only once loaded.
type Tables struct {
	Titles   map[string]Text                     `yaml:"titles"`
	Phrases  map[string]Text                     `yaml:"phrases"`
	Planets  map[string]map[string]PlanetMeaning `yaml:"planets"`
	Transits map[string]Text                     `yaml:"transits"`
	Signs    map[string]Text                     `yaml:"signs"`
	Houses   map[int]Text                        `yaml:"houses"`
	Aspects  map[string]Text                     `yaml:"aspects"`
	Elements map[string]Text                     `yaml:"elements"`
	Lucky    struct {
		Colors   map[string]Text `yaml:"colors"`
		Numbers  map[string]Text `yaml:"numbers"`
		Days     map[string]Text `yaml:"days"`
		Defaults map[string]Text `yaml:"defaults"`
	} `yaml:"lucky"`
	Outlook map[string]Text `yaml:"outlook"`
}

// LoadTables decodes tables from YAML. Unknown keys are rejected.
func LoadTables(r io.Reader) (*Tables, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Tables
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding fortune tables: %w", err)
	}
	if len(t.Planets) == 0 || len(t.Houses) == 0 || len(t.Signs) == 0 {
		return nil, fmt.Errorf("fortune tables incomplete: %d planets, %d houses, %d signs",
			len(t.Planets), len(t.Houses), len(t.Signs))
	}
	return &t, nil
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// DefaultTables returns the embedded tables, parsed once.
func DefaultTables() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = LoadTables(bytes.NewReader(tablesYAML))
	})
	return defaultTables, defaultErr
}

// Title returns a section title such as "daily".
func (t *Tables) Title(key, lang string) string {
	return t.Titles[key].In(lang)
}

// Phrase fills the template named key with args. Templates use fmt verbs.
func (t *Tables) Phrase(key, lang string, args ...any) string {
	return fmt.Sprintf(t.Phrases[key].In(lang), args...)
}

// Planet returns the natal meaning of a planet.
func (t *Tables) Planet(name, lang string) PlanetMeaning {
	byLang := t.Planets[name]
	if m, ok := byLang[lang]; ok {
		return m
	}
	return byLang[DefaultLang]
}

// Transit returns the meaning of a transiting planet.
func (t *Tables) Transit(name, lang string) string {
	return t.Transits[name].In(lang)
}

// SignTraits returns the keywords for a sign.
func (t *Tables) SignTraits(s zodiac.Sign, lang string) string {
	return t.Signs[s.String()].In(lang)
}

// House returns the life areas of a house.
func (t *Tables) House(n int, lang string) string {
	return t.Houses[n].In(lang)
}

// Aspect returns the interpretation of an aspect between two points, or ""
// when the table has none. The points may be given in either order.
func (t *Tables) Aspect(p1, p2, typ, lang string) string {
	if txt, ok := t.Aspects[p1+"|"+p2+"|"+typ]; ok {
		return txt.In(lang)
	}
	return t.Aspects[p2+"|"+p1+"|"+typ].In(lang)
}

// Element returns the life theme for a dominant element.
func (t *Tables) Element(e zodiac.Element, lang string) string {
	return t.Elements[e.String()].In(lang)
}

// LuckyColor returns the colors for an element.
func (t *Tables) LuckyColor(e zodiac.Element, lang string) string {
	return t.lucky(t.Lucky.Colors, e.String(), "color", lang)
}

// LuckyNumber returns the numbers for an element.
func (t *Tables) LuckyNumber(e zodiac.Element, lang string) string {
	return t.lucky(t.Lucky.Numbers, e.String(), "number", lang)
}

// LuckyDay returns the weekday of a ruling planet. Outer planets have no
// weekday and get the default.
func (t *Tables) LuckyDay(ruler, lang string) string {
	return t.lucky(t.Lucky.Days, ruler, "day", lang)
}

func (t *Tables) lucky(table map[string]Text, key, fallback, lang string) string {
	if txt, ok := table[key]; ok {
		return txt.In(lang)
	}
	return t.Lucky.Defaults[fallback].In(lang)
}
