package astro

import (
	"math"
	"testing"
)

func TestStarEclipticPosition(t *testing.T) {
	tests := []struct {
		name    string
		wantLon float64
		wantLat float64
	}{
		{"Regulus", 149.83, 0.46},
		{"Spica", 203.84, -2.05},
		{"Aldebaran", 69.79, -5.47},
		{"Antares", 249.76, -4.57},
	}

	stars := make(map[string]Star)
	for _, s := range BrightStars(2.5) {
		stars[s.Name] = s
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := stars[tt.name]
			if !ok {
				t.Fatalf("%s not in catalog", tt.name)
			}
			lon, lat := s.EclipticPosition(J2000)
			if d := Separation(lon, tt.wantLon); d > 0.1 {
				t.Errorf("longitude = %.3f°, want %.2f°", lon, tt.wantLon)
			}
			if math.Abs(lat-tt.wantLat) > 0.1 {
				t.Errorf("latitude = %.3f°, want %.2f°", lat, tt.wantLat)
			}
		})
	}
}

func TestStarPrecession(t *testing.T) {
	s := BrightStars(1.0)[0]
	a, _ := s.EclipticPosition(J2000)
	b, _ := s.EclipticPosition(J2000 + 36525)
	if d := NormalizeSigned(b - a); math.Abs(d-GeneralPrecession) > 1e-9 {
		t.Errorf("precession over a century = %v°, want %v°", d, GeneralPrecession)
	}
}

func TestBrightStars(t *testing.T) {
	all := BrightStars(99)
	if len(all) < 40 {
		t.Errorf("catalog has %d stars, want at least 40", len(all))
	}
	if all[0].Name != "Sirius" {
		t.Errorf("brightest star = %s, want Sirius", all[0].Name)
	}

	seen := make(map[string]bool)
	for _, s := range all {
		if seen[s.Name] {
			t.Errorf("duplicate star %s", s.Name)
		}
		seen[s.Name] = true
		if s.RAdeg < 0 || s.RAdeg >= 360 || s.DecDeg < -90 || s.DecDeg > 90 {
			t.Errorf("%s has invalid coordinates %v, %v", s.Name, s.RAdeg, s.DecDeg)
		}
	}

	for _, s := range BrightStars(1.0) {
		if s.Mag > 1.0 {
			t.Errorf("BrightStars(1.0) returned %s at mag %v", s.Name, s.Mag)
		}
	}
	if n := len(BrightStars(1.0)); n == 0 || n >= len(all) {
		t.Errorf("BrightStars(1.0) returned %d of %d stars", n, len(all))
	}
}
