package fortune

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/timeconv"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// TransitSource supplies transit snapshots and transit aspects.
// *chart.Engine implements it.
type TransitSource interface {
	CurrentTransits(ctx context.Context, zone string) (*chart.TransitSnapshot, error)
	TransitsAt(ctx context.Context, c timeconv.Civil) (*chart.TransitSnapshot, error)
	TransitAspects(natal *chart.ChartResult, transiting *chart.TransitSnapshot) []aspect.Aspect
}

// personal are the planets used for daily notes and natal emphasis.
var personal = []ephem.Body{
	ephem.Sun, ephem.Moon, ephem.Mercury, ephem.Venus, ephem.Mars, ephem.Jupiter, ephem.Saturn,
}

// monthlyThemes are the planets whose mid-month signs set the month's tone.
var monthlyThemes = []ephem.Body{
	ephem.Sun, ephem.Mercury, ephem.Venus, ephem.Mars, ephem.Jupiter, ephem.Saturn,
}

// Reader narrates charts.
type Reader struct {
	src    TransitSource
	tables *Tables
	zone   string
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithZone sets the zone that dates are read in. By default a reading uses
// the natal chart's zone.
func WithZone(zone string) ReaderOption {
	return func(r *Reader) {
		r.zone = zone
	}
}

// NewReader creates a Reader.
func NewReader(src TransitSource, tables *Tables, opts ...ReaderOption) *Reader {
	r := &Reader{src: src, tables: tables}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reader) zoneFor(natal *chart.ChartResult) string {
	if r.zone != "" {
		return r.zone
	}
	return natal.Subject.AppliedZone
}

func langOf(lang string) string {
	if lang == "" {
		return DefaultLang
	}
	return lang
}

// TransitNote describes one transiting planet.
type TransitNote struct {
	Planet  string      `json:"planet"`
	Sign    zodiac.Sign `json:"sign"`
	Degree  float64     `json:"degree"`
	House   int         `json:"house"` // natal house the transit falls in
	Meaning string      `json:"meaning"`
}

// AspectNote describes one transiting-to-natal aspect.
type AspectNote struct {
	Transiting  string      `json:"transiting"`
	Natal       string      `json:"natal"`
	Type        aspect.Type `json:"type"`
	Orb         float64     `json:"orb"`
	Description string      `json:"description"`
}

// Lucky holds the day's lucky attributes.
type Lucky struct {
	Element zodiac.Element `json:"element"`
	Color   string         `json:"color"`
	Number  string         `json:"number"`
	Day     string         `json:"day"`
}

// Daily is a fortune for the current day.
type Daily struct {
	Date     string        `json:"date"`
	Title    string        `json:"title"`
	Overview string        `json:"overview"`
	Transits []TransitNote `json:"transits"`
	Aspects  []AspectNote  `json:"aspects"`
	Lucky    Lucky         `json:"lucky"`
}

// Daily reads today's transits against natal.
func (r *Reader) Daily(ctx context.Context, natal *chart.ChartResult, lang string) (*Daily, error) {
	lang = langOf(lang)
	zone := r.zoneFor(natal)

	snap, err := r.src.CurrentTransits(ctx, zone)
	if err != nil {
		return nil, err
	}

	sunSign := snap.Placements[ephem.Sun].Sign
	ruler := sunSign.Ruler()
	natalElement := natal.Placements[ephem.Sun].Sign.Element()

	d := &Daily{
		Date:     localDate(snap),
		Title:    r.tables.Title("daily", lang),
		Overview: r.tables.Phrase("daily_overview", lang, sunSign, r.tables.Transit(ruler, lang)),
		Lucky: Lucky{
			Element: natalElement,
			Color:   r.tables.LuckyColor(natalElement, lang),
			Number:  r.tables.LuckyNumber(natalElement, lang),
			Day:     r.tables.LuckyDay(ruler, lang),
		},
	}

	for _, b := range personal {
		p, ok := snap.Placements[b]
		if !ok {
			continue
		}
		d.Transits = append(d.Transits, TransitNote{
			Planet:  b.String(),
			Sign:    p.Sign,
			Degree:  p.Degree,
			House:   natal.HouseOfLongitude(p.Longitude),
			Meaning: r.tables.Transit(b.String(), lang),
		})
	}

	for _, a := range aspect.Top(r.src.TransitAspects(natal, snap), 5) {
		d.Aspects = append(d.Aspects, r.aspectNote(natal, snap, a))
	}
	return d, nil
}

func (r *Reader) aspectNote(natal *chart.ChartResult, snap *chart.TransitSnapshot, a aspect.Aspect) AspectNote {
	return AspectNote{
		Transiting: a.P1,
		Natal:      a.P2,
		Type:       a.Type,
		Orb:        a.Orb,
		Description: fmt.Sprintf("%s in %s %s %s in %s",
			a.P1, signByName(snap.Placements, a.P1), a.Type, a.P2, signByName(natal.Placements, a.P2)),
	}
}

func signByName(placements map[ephem.Body]chart.BodyPlacement, name string) zodiac.Sign {
	b, err := ephem.ParseBody(name)
	if err != nil {
		return zodiac.Aries
	}
	return placements[b].Sign
}

func localDate(snap *chart.TransitSnapshot) string {
	loc, err := time.LoadLocation(snap.Zone)
	if err != nil {
		loc = time.UTC
	}
	return snap.UTC.In(loc).Format("2006-01-02")
}

// Theme is a planet's sign for a period.
type Theme struct {
	Planet  string         `json:"planet"`
	Sign    zodiac.Sign    `json:"sign"`
	Element zodiac.Element `json:"element"`
	Meaning string         `json:"meaning"`
}

// Highlight is a notable aspect for a period.
type Highlight struct {
	Aspect      string `json:"aspect"`
	Description string `json:"description"`
}

// Monthly is an outlook for one calendar month.
type Monthly struct {
	Month      string      `json:"month"`
	Title      string      `json:"title"`
	Themes     []Theme     `json:"themes"`
	Highlights []Highlight `json:"highlights"`
	Advice     string      `json:"advice"`
}

// Monthly reads the transits of the 15th at noon against natal.
func (r *Reader) Monthly(ctx context.Context, natal *chart.ChartResult, year, month int, lang string) (*Monthly, error) {
	lang = langOf(lang)
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range", chart.ErrInvalidInput, month)
	}

	zone := r.zoneFor(natal)
	snap, err := r.src.TransitsAt(ctx, timeconv.Civil{Year: year, Month: month, Day: 15, Hour: 12, Zone: zone})
	if err != nil {
		return nil, err
	}

	m := &Monthly{
		Month: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		Title: r.tables.Title("monthly", lang),
	}
	for _, b := range monthlyThemes {
		p, ok := snap.Placements[b]
		if !ok {
			continue
		}
		m.Themes = append(m.Themes, Theme{
			Planet:  b.String(),
			Sign:    p.Sign,
			Element: p.Sign.Element(),
			Meaning: r.tables.Transit(b.String(), lang),
		})
	}
	for _, a := range aspect.Top(r.src.TransitAspects(natal, snap), 3) {
		m.Highlights = append(m.Highlights, Highlight{
			Aspect:      fmt.Sprintf("%s %s %s", a.P1, a.Type, a.P2),
			Description: fmt.Sprintf("%s in %s makes %s to natal %s", a.P1, signByName(snap.Placements, a.P1), a.Type, a.P2),
		})
	}
	m.Advice = r.tables.Phrase("monthly_advice", lang,
		snap.Placements[ephem.Jupiter].Sign, snap.Placements[ephem.Saturn].Sign)
	return m, nil
}

// Quarter samples the slow planets once per quarter.
type Quarter struct {
	Quarter string      `json:"quarter"`
	Month   string      `json:"month"`
	Jupiter zodiac.Sign `json:"jupiter"`
	Saturn  zodiac.Sign `json:"saturn"`
	Theme   string      `json:"theme"`
}

// MajorTransit is a slow planet's sign for the year.
type MajorTransit struct {
	Planet  string      `json:"planet"`
	Sign    zodiac.Sign `json:"sign"`
	Meaning string      `json:"meaning"`
}

// Yearly is an outlook for one calendar year.
type Yearly struct {
	Year          int            `json:"year"`
	Title         string         `json:"title"`
	Overview      string         `json:"overview"`
	Quarters      []Quarter      `json:"quarters"`
	MajorTransits []MajorTransit `json:"major_transits"`
}

var quarterMonths = [4]int{2, 5, 8, 11}

// Yearly samples Jupiter and Saturn on the 15th of February, May, August
// and November, and at mid-year.
func (r *Reader) Yearly(ctx context.Context, natal *chart.ChartResult, year int, lang string) (*Yearly, error) {
	lang = langOf(lang)
	zone := r.zoneFor(natal)

	y := &Yearly{Year: year, Title: r.tables.Title("yearly", lang)}
	for i, month := range quarterMonths {
		snap, err := r.src.TransitsAt(ctx, timeconv.Civil{Year: year, Month: month, Day: 15, Hour: 12, Zone: zone})
		if err != nil {
			return nil, err
		}
		jup := snap.Placements[ephem.Jupiter].Sign
		sat := snap.Placements[ephem.Saturn].Sign
		y.Quarters = append(y.Quarters, Quarter{
			Quarter: fmt.Sprintf("Q%d", i+1),
			Month:   fmt.Sprintf("%d/%02d", month, year%100),
			Jupiter: jup,
			Saturn:  sat,
			Theme:   r.tables.Phrase("quarter_theme", lang, jup, sat),
		})
	}

	mid, err := r.src.TransitsAt(ctx, timeconv.Civil{Year: year, Month: 6, Day: 15, Hour: 12, Zone: zone})
	if err != nil {
		return nil, err
	}
	jup := mid.Placements[ephem.Jupiter].Sign
	sat := mid.Placements[ephem.Saturn].Sign
	y.MajorTransits = []MajorTransit{
		{Planet: "Jupiter", Sign: jup, Meaning: r.tables.Outlook["jupiter"].In(lang)},
		{Planet: "Saturn", Sign: sat, Meaning: r.tables.Outlook["saturn"].In(lang)},
	}
	y.Overview = r.tables.Phrase("yearly_overview", lang, jup, sat)
	return y, nil
}
