package ephem

import "testing"

func TestParseBody(t *testing.T) {
	tests := []struct {
		name string
		want Body
	}{
		{"Sun", Sun},
		{"moon", Moon},
		{"Luna", Moon},
		{"MERCURY", Mercury},
		{"North Node", NorthNode},
		{"north_node", NorthNode},
		{"NN", NorthNode},
		{"Ketu", SouthNode},
		{"pluto", Pluto},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseBody(tc.name)
			if err != nil {
				t.Fatalf("ParseBody(%q) error: %v", tc.name, err)
			}
			if got != tc.want {
				t.Errorf("ParseBody(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}

	if _, err := ParseBody("Chiron"); err == nil {
		t.Error("expected error for unknown body")
	}
}

func TestCatalogOrder(t *testing.T) {
	// Catalog is indexed by Body.
	for i, info := range Catalog {
		if int(info.Body) != i {
			t.Errorf("Catalog[%d] holds %v", i, info.Body)
		}
		if got, err := ParseBody(info.Name); err != nil || got != info.Body {
			t.Errorf("name %q does not round-trip: %v, %v", info.Name, got, err)
		}
	}
}

func TestBodySets(t *testing.T) {
	if n := len(Planets()); n != 10 {
		t.Errorf("len(Planets()) = %d, want 10", n)
	}
	all := ChartBodies()
	if n := len(all); n != 12 {
		t.Errorf("len(ChartBodies()) = %d, want 12", n)
	}
	seen := make(map[Body]bool)
	for _, b := range all {
		if seen[b] {
			t.Errorf("duplicate body %v", b)
		}
		seen[b] = true
	}
	if got := NorthNode.Slug(); got != "north_node" {
		t.Errorf("Slug() = %q", got)
	}
	if Body(99).String() != "Unknown" {
		t.Errorf("out-of-range body should be Unknown")
	}
}
