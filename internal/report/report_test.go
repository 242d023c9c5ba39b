package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/fortune"
	"github.com/litescript/ls-natal/internal/houses"
	"github.com/litescript/ls-natal/internal/zodiac"
)

func natalChart(t *testing.T) *chart.ChartResult {
	t.Helper()
	res, err := chart.NewEngine(ephem.NewKeplerProvider()).CalculateAll(context.Background(), chart.BirthMoment{
		Name:      "Sample",
		Year:      1990,
		Month:     6,
		Day:       15,
		Hour:      14,
		Minute:    30,
		Zone:      "Asia/Bangkok",
		Latitude:  13.75,
		Longitude: 100.5,
	})
	if err != nil {
		t.Fatalf("CalculateAll() error: %v", err)
	}
	return res
}

func TestExportChart(t *testing.T) {
	res := natalChart(t)
	export := ExportChart(res)

	if export.Subject.Name != "Sample" || export.Subject.Zone != "Asia/Bangkok" {
		t.Errorf("Subject = %+v", export.Subject)
	}
	if len(export.Placements) != 12 {
		t.Fatalf("Placements count = %d, want 12", len(export.Placements))
	}
	if export.Placements[0].Body != "Sun" || export.Placements[11].Body != "South Node" {
		t.Errorf("placements out of order: first %s, last %s", export.Placements[0].Body, export.Placements[11].Body)
	}
	if export.Placements[0].Sign != "Gemini" {
		t.Errorf("Sun sign = %s, want Gemini", export.Placements[0].Sign)
	}
	for _, p := range export.Placements {
		if p.House < 1 || p.House > 12 {
			t.Errorf("%s house = %d", p.Body, p.House)
		}
	}
	if len(export.Houses) != 12 || export.Houses[0].House != 1 {
		t.Errorf("Houses = %+v", export.Houses)
	}
	if len(export.Angles) != 4 || export.Angles[0].Longitude != res.Ascendant.Longitude {
		t.Errorf("Angles = %+v", export.Angles)
	}
	if len(export.Aspects) != len(res.Aspects) {
		t.Errorf("Aspects count = %d, want %d", len(export.Aspects), len(res.Aspects))
	}
	total := 0
	for _, n := range export.Elements {
		total += n
	}
	if total != 10 {
		t.Errorf("element counts sum to %d, want 10", total)
	}
	if export.HouseSystem != "Placidus" || export.Requested != "" {
		t.Errorf("HouseSystem = %q, Requested = %q", export.HouseSystem, export.Requested)
	}
}

func TestExportChart_Nil(t *testing.T) {
	export := ExportChart(nil)
	if len(export.Placements) != 0 || len(export.Houses) != 0 {
		t.Error("nil chart should export empty")
	}
}

func TestChartExport_WriteJSON(t *testing.T) {
	export := ExportChart(natalChart(t))

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var decoded ChartExport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Placements) != 12 || decoded.Placements[0].Body != "Sun" {
		t.Errorf("decoded placements = %+v", decoded.Placements)
	}
	if !strings.Contains(buf.String(), "\n  \"subject\"") {
		t.Error("output should be indented")
	}
}

func TestWriteChart(t *testing.T) {
	var buf bytes.Buffer
	WriteChart(&buf, natalChart(t), PlainStyles())
	out := buf.String()

	for _, want := range []string{
		"Natal Chart: Sample",
		"Planets",
		"Sun",
		"Gemini",
		"South Node",
		"Ascendant",
		"Imum Coeli",
		"Houses (Placidus)",
		"House 12",
		"Aspects",
		"Elements",
		"Water",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWriteAspects(t *testing.T) {
	var buf bytes.Buffer
	WriteAspects(&buf, "Synastry", nil, PlainStyles())
	if !strings.Contains(buf.String(), "No aspects within orb") {
		t.Errorf("empty table output = %q", buf.String())
	}

	buf.Reset()
	WriteAspects(&buf, "Synastry", []aspect.Aspect{
		{P1: "Sun", P2: "Moon", Type: aspect.Trine, Orb: 0.25, Exact: true},
		{P1: "Mars", P2: "Venus", Type: aspect.Square, Orb: 4.5},
	}, PlainStyles())
	out := buf.String()
	if !strings.Contains(out, "Trine") || !strings.Contains(out, "exact") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Total: 2 aspects") {
		t.Errorf("missing total in %q", out)
	}
}

func TestWriteHouses(t *testing.T) {
	r, err := houses.NewCalculator().Compute(2451545, 80, 0, houses.Placidus)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	var buf bytes.Buffer
	WriteHouses(&buf, r, PlainStyles())
	out := buf.String()
	if !strings.Contains(out, "Houses (Equal)") || !strings.Contains(out, "Placidus is undefined here") {
		t.Errorf("output = %q", out)
	}
	if strings.Count(out, "House ") != 12 {
		t.Errorf("want 12 cusp rows in %q", out)
	}
}

func TestWriteFortune(t *testing.T) {
	daily := &fortune.Daily{
		Date:     "2024-03-01",
		Title:    "Daily Fortune",
		Overview: "Today the Sun transits Pisces.",
		Transits: []fortune.TransitNote{{Planet: "Sun", Sign: zodiac.Pisces, Degree: 11, House: 9, Meaning: "vitality"}},
		Lucky:    fortune.Lucky{Element: zodiac.Air, Color: "Yellow", Number: "3, 7", Day: "Every day"},
	}

	var buf bytes.Buffer
	if err := WriteFortune(&buf, daily, PlainStyles()); err != nil {
		t.Fatalf("WriteFortune() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Daily Fortune 2024-03-01", "Pisces", "house  9", "Every day"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if err := WriteFortune(&buf, "not a fortune", PlainStyles()); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestWriteReading(t *testing.T) {
	tables, err := fortune.DefaultTables()
	if err != nil {
		t.Fatal(err)
	}
	rd := fortune.NewReader(nil, tables).BirthReading(natalChart(t), "en")

	var buf bytes.Buffer
	if err := WriteFortune(&buf, rd, PlainStyles()); err != nil {
		t.Fatalf("WriteFortune() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Your Birth Chart Reading", "Sun: Gemini", "House themes", "Life theme"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWriteStars(t *testing.T) {
	contacts := []chart.StarContact{
		{Star: "Regulus", Magnitude: 1.35, Body: ephem.Sun, StarLongitude: 150.2, Orb: 0.25},
	}

	exported := ExportStars(contacts)
	if len(exported) != 1 || exported[0].Body != "Sun" || exported[0].Position != zodiac.Place(150.2).String() {
		t.Errorf("ExportStars() = %+v", exported)
	}

	var buf bytes.Buffer
	WriteStars(&buf, contacts, PlainStyles())
	out := buf.String()
	for _, want := range []string{"Fixed Stars", "Sun", "Regulus", "orb 0.25°"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	WriteStars(&buf, nil, PlainStyles())
	if !strings.Contains(buf.String(), "No fixed-star contacts") {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestExportChart_FixedStars(t *testing.T) {
	res := natalChart(t)
	export := ExportChart(res)
	if export.FixedStars != nil {
		t.Errorf("FixedStars set without a request: %+v", export.FixedStars)
	}

	contacts := chart.FixedStarContacts(res, astro.BrightStars(chart.DefaultStarMagnitude), 360)
	export.FixedStars = ExportStars(contacts)
	if len(export.FixedStars) != len(contacts) || len(contacts) == 0 {
		t.Fatalf("got %d exported, %d contacts", len(export.FixedStars), len(contacts))
	}
	for i := 1; i < len(contacts); i++ {
		if contacts[i].Orb < contacts[i-1].Orb {
			t.Fatalf("contacts not sorted at %d", i)
		}
	}
}
