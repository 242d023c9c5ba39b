package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/fortune"
	"github.com/litescript/ls-natal/internal/houses"
	"github.com/litescript/ls-natal/internal/zodiac"
)

const ruleWidth = 72

// Styles controls how text reports are decorated.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Row    lipgloss.Style
	Dim    lipgloss.Style
	Warn   lipgloss.Style
	Exact  lipgloss.Style
}

// DefaultStyles returns the colored terminal styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Row: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		Warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")),
		Exact: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),
	}
}

// PlainStyles returns styles that leave text untouched, for pipes and files.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Title: plain, Header: plain, Row: plain, Dim: plain, Warn: plain, Exact: plain}
}

func rule(w io.Writer, st Styles) {
	fmt.Fprintln(w, st.Dim.Render(strings.Repeat("─", ruleWidth)))
}

// WriteChart writes a natal chart as text tables.
func WriteChart(w io.Writer, res *chart.ChartResult, st Styles) {
	ex := ExportChart(res)

	title := "Natal Chart"
	if ex.Subject.Name != "" {
		title += ": " + ex.Subject.Name
	}
	fmt.Fprintln(w, st.Title.Render(title))
	fmt.Fprintln(w, st.Dim.Render(fmt.Sprintf("%s  (UTC %s, JD %.5f)  %.4f, %.4f",
		ex.Subject.Local, ex.Subject.UTC.Format(time.RFC3339), ex.Subject.JD,
		ex.Subject.Latitude, ex.Subject.Longitude)))
	for _, warn := range ex.Warnings {
		fmt.Fprintln(w, st.Warn.Render("! "+warn.Message))
	}
	fmt.Fprintln(w)

	writePlacements(w, "Planets", ex.Placements, true, st)

	fmt.Fprintln(w, st.Header.Render("Angles"))
	rule(w, st)
	for _, a := range ex.Angles {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-12s %-16s %8.3f°", a.Name, a.Position, a.Longitude)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.Header.Render("Houses ("+ex.HouseSystem+")"))
	rule(w, st)
	for _, c := range ex.Houses {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-12s %-16s %8.3f°", fmt.Sprintf("House %d", c.House), c.Position, c.Longitude)))
	}
	fmt.Fprintln(w)

	WriteAspects(w, "Aspects", res.Aspects, st)

	fmt.Fprintln(w, st.Header.Render("Elements"))
	rule(w, st)
	for _, e := range zodiac.Elements {
		n := ex.Elements[e.String()]
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-8s %2d %s", e, n, strings.Repeat("■", n))))
	}
}

func writePlacements(w io.Writer, title string, rows []PlacementExport, withHouse bool, st Styles) {
	fmt.Fprintln(w, st.Header.Render(title))
	rule(w, st)
	for _, p := range rows {
		retro := ""
		if p.Retrograde {
			retro = "℞"
		}
		line := fmt.Sprintf("%-2s %-11s %-16s %8.3f° %8.4f°/d %-2s", p.Glyph, p.Body, p.Position, p.Longitude, p.Speed, retro)
		if withHouse && p.House > 0 {
			line += fmt.Sprintf(" house %2d", p.House)
		}
		fmt.Fprintln(w, st.Row.Render(strings.TrimRight(line, " ")))
	}
	fmt.Fprintln(w)
}

// WriteTransits writes a transit snapshot.
func WriteTransits(w io.Writer, snap *chart.TransitSnapshot, st Styles) {
	fmt.Fprintln(w, st.Title.Render("Transits"))
	fmt.Fprintln(w, st.Dim.Render(fmt.Sprintf("%s  (JD %.5f, %s)", snap.UTC.Format(time.RFC3339), snap.JD, snap.Zone)))
	for _, warn := range snap.Warnings {
		fmt.Fprintln(w, st.Warn.Render("! "+warn.Message))
	}
	fmt.Fprintln(w)
	writePlacements(w, "Positions", ExportTransits(snap), false, st)
}

// WriteAspects writes an aspect table.
func WriteAspects(w io.Writer, title string, aspects []aspect.Aspect, st Styles) {
	fmt.Fprintln(w, st.Header.Render(title))
	rule(w, st)
	if len(aspects) == 0 {
		fmt.Fprintln(w, st.Dim.Render("No aspects within orb"))
		fmt.Fprintln(w)
		return
	}
	for _, a := range ExportAspects(aspects) {
		line := fmt.Sprintf("%-10s %-2s %-15s %-10s orb %5.2f°", a.P1, a.Symbol, a.Type, a.P2, a.Orb)
		style := st.Row
		if a.Exact {
			line += " exact"
			style = st.Exact
		}
		fmt.Fprintln(w, style.Render(line))
	}
	fmt.Fprintf(w, "\nTotal: %d aspects\n\n", len(aspects))
}

// WriteStars writes fixed-star contacts.
func WriteStars(w io.Writer, contacts []chart.StarContact, st Styles) {
	fmt.Fprintln(w, st.Header.Render("Fixed Stars"))
	rule(w, st)
	if len(contacts) == 0 {
		fmt.Fprintln(w, st.Dim.Render("No fixed-star contacts within orb"))
		return
	}
	for _, s := range ExportStars(contacts) {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-10s ☌ %-16s %-16s orb %4.2f°", s.Body, s.Star, s.Position, s.Orb)))
	}
}

// WriteHouses writes a bare house computation.
func WriteHouses(w io.Writer, r houses.Result, st Styles) {
	title := "Houses (" + r.System.String() + ")"
	fmt.Fprintln(w, st.Header.Render(title))
	if r.Fallback {
		fmt.Fprintln(w, st.Warn.Render(fmt.Sprintf("! %v is undefined here; Equal houses used", r.Requested)))
	}
	rule(w, st)
	fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-12s %-16s %8.3f°", "Ascendant", zodiac.Place(r.Ascendant), r.Ascendant)))
	fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-12s %-16s %8.3f°", "Midheaven", zodiac.Place(r.Midheaven), r.Midheaven)))
	for i, c := range r.Cusps {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-12s %-16s %8.3f°", fmt.Sprintf("House %d", i+1), zodiac.Place(c), c)))
	}
	fmt.Fprintln(w, st.Dim.Render(fmt.Sprintf("RAMC %.4f°  obliquity %.4f°", r.RAMC, r.Obliquity)))
}

// WriteFortune writes a daily, monthly or yearly fortune, or a birth
// reading.
func WriteFortune(w io.Writer, v any, st Styles) error {
	switch f := v.(type) {
	case *fortune.Daily:
		writeDaily(w, f, st)
	case *fortune.Monthly:
		writeMonthly(w, f, st)
	case *fortune.Yearly:
		writeYearly(w, f, st)
	case *fortune.Reading:
		writeReading(w, f, st)
	default:
		return fmt.Errorf("report: cannot render %T", v)
	}
	return nil
}

func writeDaily(w io.Writer, d *fortune.Daily, st Styles) {
	fmt.Fprintln(w, st.Title.Render(d.Title+" "+d.Date))
	fmt.Fprintln(w, d.Overview)
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.Header.Render("Transits"))
	rule(w, st)
	for _, n := range d.Transits {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-8s %-12s %5.1f°  house %2d", n.Planet, n.Sign, n.Degree, n.House)))
		fmt.Fprintln(w, st.Dim.Render("  "+n.Meaning))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.Header.Render("Aspects"))
	rule(w, st)
	for _, a := range d.Aspects {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%s (orb %.2f°)", a.Description, a.Orb)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.Header.Render("Lucky"))
	rule(w, st)
	fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("Element %s, color %s, number %s, day %s",
		d.Lucky.Element, d.Lucky.Color, d.Lucky.Number, d.Lucky.Day)))
}

func writeMonthly(w io.Writer, m *fortune.Monthly, st Styles) {
	fmt.Fprintln(w, st.Title.Render(m.Title+" "+m.Month))
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Header.Render("Themes"))
	rule(w, st)
	for _, th := range m.Themes {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-8s in %-12s (%s)", th.Planet, th.Sign, th.Element)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Header.Render("Highlights"))
	rule(w, st)
	for _, h := range m.Highlights {
		fmt.Fprintln(w, st.Row.Render(h.Description))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, m.Advice)
}

func writeYearly(w io.Writer, y *fortune.Yearly, st Styles) {
	fmt.Fprintln(w, st.Title.Render(fmt.Sprintf("%s %d", y.Title, y.Year)))
	fmt.Fprintln(w, y.Overview)
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Header.Render("Quarters"))
	rule(w, st)
	for _, q := range y.Quarters {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-3s %-6s %s", q.Quarter, q.Month, q.Theme)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Header.Render("Major transits"))
	rule(w, st)
	for _, mt := range y.MajorTransits {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-8s in %-12s %s", mt.Planet, mt.Sign, mt.Meaning)))
	}
}

func writeReading(w io.Writer, r *fortune.Reading, st Styles) {
	fmt.Fprintln(w, st.Title.Render(r.Title))
	fmt.Fprintln(w)

	signNote := func(label string, n fortune.SignNote) {
		fmt.Fprintln(w, st.Header.Render(fmt.Sprintf("%s: %s (%.1f°)", label, n.Sign, n.Degree)))
		if n.Traits != "" {
			fmt.Fprintln(w, st.Row.Render(n.Traits))
		}
		if n.Meaning != nil {
			fmt.Fprintln(w, st.Dim.Render(n.Meaning.Core))
		}
		fmt.Fprintln(w)
	}
	signNote("Sun", r.Sun)
	signNote("Moon", r.Moon)
	signNote("Rising", r.Rising)

	fmt.Fprintln(w, st.Header.Render("Planetary emphasis"))
	rule(w, st)
	if len(r.Emphasis) == 0 {
		fmt.Fprintln(w, st.Dim.Render("No personal planets in angular houses"))
	}
	for _, p := range r.Emphasis {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-8s in %-12s house %d: %s", p.Planet, p.Sign, p.House, p.Meaning.Strengths)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.Header.Render("House themes"))
	rule(w, st)
	for _, h := range r.Houses {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%-8s house %2d  %s", h.Planet, h.House, h.Theme)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.Header.Render("Key aspects"))
	rule(w, st)
	for _, a := range r.Aspects {
		fmt.Fprintln(w, st.Row.Render(fmt.Sprintf("%s %s %s: %s", a.P1, a.Type, a.P2, a.Meaning)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.Header.Render("Life theme ("+r.Element.String()+")"))
	fmt.Fprintln(w, r.LifeTheme)
}
