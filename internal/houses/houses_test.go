package houses

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-natal/internal/astro"
)

var sampleMoments = []float64{
	2451545.0,    // J2000
	2448057.8125, // 1990-06-15 07:30 UT
	2460389.25,   // 2024-03-20 18:00 UT
}

func TestComputeMonotonicRing(t *testing.T) {
	calc := NewCalculator(WithPolicy(FailDegenerate))

	for _, sys := range Systems() {
		for _, jd := range sampleMoments {
			for lat := -50.0; lat <= 50; lat += 25 {
				for _, lon := range []float64{-118.25, 0, 100.5} {
					res, err := calc.Compute(jd, lat, lon, sys)
					if err != nil {
						t.Fatalf("%v jd=%v lat=%v lon=%v: %v", sys, jd, lat, lon, err)
					}
					if err := Validate(res.Cusps); err != nil {
						t.Fatalf("%v jd=%v lat=%v: %v (cusps %v)", sys, jd, lat, err, res.Cusps)
					}
					if res.Fallback || res.System != sys {
						t.Fatalf("%v unexpectedly fell back at lat=%v", sys, lat)
					}
				}
			}
		}
	}
}

func TestAnglesMatchCusps(t *testing.T) {
	calc := NewCalculator()

	for _, sys := range Systems() {
		t.Run(sys.String(), func(t *testing.T) {
			res, err := calc.Compute(2448057.8125, 13.75, 100.5, sys)
			if err != nil {
				t.Fatal(err)
			}
			if sys != WholeSign && astro.Separation(res.Cusp(1), res.Ascendant) > 1e-9 {
				t.Errorf("cusp 1 = %v, Ascendant = %v", res.Cusp(1), res.Ascendant)
			}
			if sys.Quadrant() && astro.Separation(res.Cusp(10), res.Midheaven) > 1e-9 {
				t.Errorf("cusp 10 = %v, Midheaven = %v", res.Cusp(10), res.Midheaven)
			}
			for n := 1; n <= 6; n++ {
				if d := astro.Separation(res.Cusp(n), res.Cusp(n+6)); math.Abs(d-180) > 1e-9 {
					t.Errorf("cusps %d and %d are %v° apart", n, n+6, d)
				}
			}
		})
	}
}

func TestQuadrantSystemsAgreeAtEquator(t *testing.T) {
	calc := NewCalculator(WithPolicy(FailDegenerate))

	for _, jd := range sampleMoments {
		ref, err := calc.Compute(jd, 0, 30, Placidus)
		if err != nil {
			t.Fatal(err)
		}
		for _, sys := range []System{Koch, Regiomontanus, Campanus} {
			res, err := calc.Compute(jd, 0, 30, sys)
			if err != nil {
				t.Fatal(err)
			}
			for n := 1; n <= 12; n++ {
				if d := astro.Separation(res.Cusp(n), ref.Cusp(n)); d > 1e-6 {
					t.Errorf("jd=%v %v cusp %d = %v, Placidus %v", jd, sys, n, res.Cusp(n), ref.Cusp(n))
				}
			}
		}
	}
}

func TestPlacidusSemiArcCondition(t *testing.T) {
	const lat = 40.0
	res, err := NewCalculator(WithPolicy(FailDegenerate)).Compute(2451545.0, lat, -74, Placidus)
	if err != nil {
		t.Fatal(err)
	}

	// Cusp 11 sits one third of its diurnal semi-arc east of the meridian.
	c11 := res.Cusp(11)
	decl := astro.DeclinationOfLongitude(c11, res.Obliquity)
	ad := astro.RadToDeg(math.Asin(math.Tan(astro.DegToRad(lat)) * math.Tan(astro.DegToRad(decl))))
	dsa := 90 + ad

	eq := astro.EclipticToEquatorial(astro.Vec3{
		X: math.Cos(astro.DegToRad(c11)),
		Y: math.Sin(astro.DegToRad(c11)),
	}, res.Obliquity)
	ra := astro.Normalize360(astro.RadToDeg(math.Atan2(eq.Y, eq.X)))

	if d := astro.NormalizeSigned(ra - res.RAMC); math.Abs(d-dsa/3) > 1e-5 {
		t.Errorf("RA - RAMC = %v, want DSA/3 = %v", d, dsa/3)
	}
}

func TestEqualAndWholeSign(t *testing.T) {
	calc := NewCalculator()

	eq, err := calc.Compute(2451545.0, 51.5, -0.1, Equal)
	if err != nil {
		t.Fatal(err)
	}
	for n := 1; n <= 12; n++ {
		want := astro.Normalize360(eq.Ascendant + 30*float64(n-1))
		if astro.Separation(eq.Cusp(n), want) > 1e-9 {
			t.Errorf("Equal cusp %d = %v, want %v", n, eq.Cusp(n), want)
		}
	}

	ws, err := calc.Compute(2451545.0, 51.5, -0.1, WholeSign)
	if err != nil {
		t.Fatal(err)
	}
	start := math.Floor(ws.Ascendant/30) * 30
	if ws.Cusp(1) != start {
		t.Errorf("Whole Sign cusp 1 = %v, want %v", ws.Cusp(1), start)
	}
	if got := ws.House(ws.Ascendant); got != 1 {
		t.Errorf("Ascendant falls in house %d, want 1", got)
	}
}

func TestDegeneratePolarLatitude(t *testing.T) {
	for _, sys := range []System{Placidus, Koch} {
		t.Run(sys.String(), func(t *testing.T) {
			res, err := NewCalculator().Compute(2451545.0, 80, 20, sys)
			if err != nil {
				t.Fatalf("fallback policy returned error: %v", err)
			}
			if !res.Fallback || res.System != Equal || res.Requested != sys {
				t.Errorf("result = %+v, want Equal fallback for %v", res, sys)
			}
			if err := Validate(res.Cusps); err != nil {
				t.Errorf("fallback cusps invalid: %v", err)
			}

			_, err = NewCalculator(WithPolicy(FailDegenerate)).Compute(2451545.0, 80, 20, sys)
			if !errors.Is(err, ErrDegenerate) {
				t.Errorf("error = %v, want ErrDegenerate", err)
			}
		})
	}

	// Equal houses never degenerate.
	res, err := NewCalculator(WithPolicy(FailDegenerate)).Compute(2451545.0, 80, 20, Equal)
	if err != nil || res.Fallback {
		t.Errorf("Equal at 80°: %+v, %v", res, err)
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	calc := NewCalculator()
	if _, err := calc.Compute(2451545.0, 91, 0, Placidus); err == nil {
		t.Error("expected error for latitude 91")
	}
	if _, err := calc.Compute(2451545.0, 0, 181, Placidus); err == nil {
		t.Error("expected error for longitude 181")
	}
	if _, err := calc.Compute(2451545.0, 0, 0, System('X')); err == nil {
		t.Error("expected error for unknown system")
	}
}

func TestValidate(t *testing.T) {
	good := equalCusps(17)
	if err := Validate(good); err != nil {
		t.Errorf("Validate(equal) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *[12]float64)
	}{
		{"duplicate cusp", func(c *[12]float64) { c[3] = c[2] }},
		{"reversed pair", func(c *[12]float64) { c[3], c[4] = c[4], c[3] }},
		{"not finite", func(c *[12]float64) { c[5] = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			tt.mutate(&c)
			if err := Validate(c); !errors.Is(err, ErrDegenerate) {
				t.Errorf("Validate() = %v, want ErrDegenerate", err)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	// House 12 spans 350° -> 20° across Aries 0°.
	cusps := [12]float64{20, 50, 80, 110, 140, 170, 200, 230, 260, 290, 320, 350}

	tests := []struct {
		lon  float64
		want int
	}{
		{355, 12},
		{5, 12},
		{19.999, 12},
		{20, 1}, // exactly on a cusp: the house it opens
		{21, 1},
		{50, 2},
		{349.999, 11},
		{350, 12},
		{360, 12}, // normalizes to 0
		{-5, 12},
		{200, 7},
	}

	for _, tt := range tests {
		if got := Lookup(tt.lon, cusps); got != tt.want {
			t.Errorf("Lookup(%v) = %d, want %d", tt.lon, got, tt.want)
		}
	}
}

func TestLookupUnequalQuadrants(t *testing.T) {
	res, err := NewCalculator().Compute(2448057.8125, 13.75, 100.5, Placidus)
	if err != nil {
		t.Fatal(err)
	}
	for n := 1; n <= 12; n++ {
		mid := astro.Midpoint(res.Cusp(n), res.Cusp(n+1))
		if got := res.House(mid); got != n {
			t.Errorf("midpoint of house %d looked up as %d", n, got)
		}
		if got := res.House(res.Cusp(n)); got != n {
			t.Errorf("cusp %d looked up as %d", n, got)
		}
	}
}

func TestParseSystem(t *testing.T) {
	tests := []struct {
		in   string
		want System
	}{
		{"", Placidus},
		{"P", Placidus},
		{"k", Koch},
		{"O", Porphyry},
		{"regiomontanus", Regiomontanus},
		{"Campanus", Campanus},
		{"E", Equal},
		{"whole-sign", WholeSign},
		{"Whole Sign", WholeSign},
		{"W", WholeSign},
	}
	for _, tt := range tests {
		got, err := ParseSystem(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseSystem(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseSystem("topocentric"); err == nil {
		t.Error("expected error for unsupported system")
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("fail"); err != nil || p != FailDegenerate {
		t.Errorf("ParsePolicy(fail) = %v, %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != FallbackEqual {
		t.Errorf("ParsePolicy('') = %v, %v", p, err)
	}
	if _, err := ParsePolicy("ignore"); err == nil {
		t.Error("expected error")
	}
}
