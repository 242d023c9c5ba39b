package astro

import (
	"math"
	"testing"
)

func TestVec3Norm(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"zero", Vec3{0, 0, 0}, 0},
		{"unit x", Vec3{1, 0, 0}, 1},
		{"3-4-5", Vec3{3, 4, 0}, 5},
		{"negative", Vec3{-3, -4, 0}, 5},
		{"3D", Vec3{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Norm()
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Sub(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Sub(a); got.Norm() != 0 {
		t.Errorf("Sub(self) = %v", got)
	}
}

func TestKmToAU(t *testing.T) {
	if got := KmToAU(AU); math.Abs(got-1) > 1e-15 {
		t.Errorf("KmToAU(AU) = %v", got)
	}
	if got := KmToAU(384400); math.Abs(got-0.00256955) > 1e-8 {
		t.Errorf("KmToAU(lunar distance) = %v", got)
	}
}

func TestEquatorialToEcliptic(t *testing.T) {
	// The north celestial pole tilts toward +Y by the obliquity.
	northPole := Vec3{0, 0, 1}
	ecl := EquatorialToEcliptic(northPole, ObliquityJ2000)

	expectedY := math.Sin(DegToRad(ObliquityJ2000))
	expectedZ := math.Cos(DegToRad(ObliquityJ2000))

	if math.Abs(ecl.X) > 1e-10 {
		t.Errorf("X should be 0, got %v", ecl.X)
	}
	if math.Abs(ecl.Y-expectedY) > 1e-6 {
		t.Errorf("Y = %v, want %v", ecl.Y, expectedY)
	}
	if math.Abs(ecl.Z-expectedZ) > 1e-6 {
		t.Errorf("Z = %v, want %v", ecl.Z, expectedZ)
	}
}

func TestEclipticToEquatorialRoundtrip(t *testing.T) {
	original := Vec3{1, 2, 3}
	back := EclipticToEquatorial(EquatorialToEcliptic(original, 23.5), 23.5)

	if math.Abs(back.X-original.X) > 1e-10 ||
		math.Abs(back.Y-original.Y) > 1e-10 ||
		math.Abs(back.Z-original.Z) > 1e-10 {
		t.Errorf("Roundtrip failed: %v -> %v", original, back)
	}
}

func TestEclipticLongitudeLatitude(t *testing.T) {
	tests := []struct {
		v       Vec3
		wantLon float64
		wantLat float64
	}{
		{Vec3{1, 0, 0}, 0, 0},
		{Vec3{0, 1, 0}, 90, 0},
		{Vec3{-1, 0, 0}, 180, 0},
		{Vec3{0, -1, 0}, 270, 0},
		{Vec3{1, 1, 0}, 45, 0},
		{Vec3{1, 0, 1}, 0, 45},
	}

	for _, tt := range tests {
		if got := EclipticLongitude(tt.v); math.Abs(got-tt.wantLon) > 0.01 {
			t.Errorf("EclipticLongitude(%v) = %.2f°, want %.2f°", tt.v, got, tt.wantLon)
		}
		if got := EclipticLatitude(tt.v); math.Abs(got-tt.wantLat) > 0.01 {
			t.Errorf("EclipticLatitude(%v) = %.2f°, want %.2f°", tt.v, got, tt.wantLat)
		}
	}
}

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 0.0167, 0.2056, 0.7} {
		for M := -3.0; M <= 3.0; M += 0.5 {
			E := SolveKepler(M, e)
			if res := E - e*math.Sin(E) - M; math.Abs(res) > 1e-10 {
				t.Errorf("e=%v M=%v: residual %v", e, M, res)
			}
		}
	}
}

func TestHeliocentricPositionCircularOrbit(t *testing.T) {
	el := OrbitalElements{
		SemiMajorAU: 2,
		MeanLon:     90,
	}
	pos := HeliocentricPosition(el)

	if math.Abs(pos.Norm()-2) > 1e-9 {
		t.Errorf("radius = %v, want 2", pos.Norm())
	}
	if d := Separation(EclipticLongitude(pos), 90); d > 1e-6 {
		t.Errorf("longitude off by %v°", d)
	}
	if math.Abs(pos.Z) > 1e-12 {
		t.Errorf("Z = %v, want 0 for zero inclination", pos.Z)
	}
}
