package zodiac

import (
	"math"
	"testing"
)

func TestPlace(t *testing.T) {
	tests := []struct {
		name    string
		lon     float64
		want    Sign
		wantDeg float64
	}{
		{"start of Aries", 0, Aries, 0},
		{"mid Taurus", 45, Taurus, 15},
		{"exact Leo boundary", 120, Leo, 0},
		{"late Pisces", 359.5, Pisces, 29.5},
		{"full turn wraps", 360, Aries, 0},
		{"negative wraps", -15, Pisces, 15},
		{"several turns", 725, Aries, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(tt.lon)
			if got.Sign != tt.want {
				t.Errorf("Place(%v).Sign = %v, want %v", tt.lon, got.Sign, tt.want)
			}
			if math.Abs(got.Degree-tt.wantDeg) > 1e-9 {
				t.Errorf("Place(%v).Degree = %v, want %v", tt.lon, got.Degree, tt.wantDeg)
			}
		})
	}
}

func TestPlaceRoundTrip(t *testing.T) {
	for lon := 0.0; lon < 360; lon += 0.37 {
		p := Place(lon)
		if p.Degree < 0 || p.Degree >= 30 {
			t.Fatalf("Place(%v).Degree = %v, out of [0, 30)", lon, p.Degree)
		}
		if math.Abs(p.Longitude()-lon) > 1e-9 {
			t.Fatalf("Place(%v) reconstructs %v", lon, p.Longitude())
		}
	}
}

func TestSignAttributes(t *testing.T) {
	tests := []struct {
		sign     Sign
		element  Element
		modality Modality
		ruler    string
	}{
		{Aries, Fire, Cardinal, "Mars"},
		{Taurus, Earth, Fixed, "Venus"},
		{Gemini, Air, Mutable, "Mercury"},
		{Cancer, Water, Cardinal, "Moon"},
		{Leo, Fire, Fixed, "Sun"},
		{Scorpio, Water, Fixed, "Pluto"},
		{Capricorn, Earth, Cardinal, "Saturn"},
		{Pisces, Water, Mutable, "Neptune"},
	}

	for _, tt := range tests {
		t.Run(tt.sign.String(), func(t *testing.T) {
			if got := tt.sign.Element(); got != tt.element {
				t.Errorf("Element() = %v, want %v", got, tt.element)
			}
			if got := tt.sign.Modality(); got != tt.modality {
				t.Errorf("Modality() = %v, want %v", got, tt.modality)
			}
			if got := tt.sign.Ruler(); got != tt.ruler {
				t.Errorf("Ruler() = %v, want %v", got, tt.ruler)
			}
		})
	}
}

func TestParseSign(t *testing.T) {
	for _, s := range Signs() {
		got, err := ParseSign(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSign(%q) = %v, %v", s.String(), got, err)
		}
	}
	if got, err := ParseSign(" sagittarius "); err != nil || got != Sagittarius {
		t.Errorf("ParseSign is not case-insensitive: %v, %v", got, err)
	}
	if _, err := ParseSign("Ophiuchus"); err == nil {
		t.Error("expected error for unknown sign")
	}
}

func TestSunSignForDate(t *testing.T) {
	tests := []struct {
		month, day int
		want       Sign
	}{
		{1, 1, Capricorn},
		{1, 19, Capricorn},
		{1, 20, Aquarius},
		{2, 19, Pisces},
		{3, 20, Pisces},
		{3, 21, Aries},
		{6, 15, Gemini},
		{7, 23, Leo},
		{10, 23, Scorpio},
		{12, 21, Sagittarius},
		{12, 22, Capricorn},
		{12, 31, Capricorn},
	}

	for _, tt := range tests {
		got, err := SunSignForDate(tt.month, tt.day)
		if err != nil {
			t.Fatalf("SunSignForDate(%d, %d) error: %v", tt.month, tt.day, err)
		}
		if got != tt.want {
			t.Errorf("SunSignForDate(%d, %d) = %v, want %v", tt.month, tt.day, got, tt.want)
		}
	}

	if _, err := SunSignForDate(13, 1); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestPositionString(t *testing.T) {
	got := Place(135.5).String()
	want := "15°30' Leo"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
