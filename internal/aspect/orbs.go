package aspect

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// OrbSet holds the orb tables for the three comparison modes.
type OrbSet struct {
	Natal    OrbTable
	Transit  OrbTable
	Synastry OrbTable
}

// DefaultOrbSet returns copies of the built-in tables.
func DefaultOrbSet() OrbSet {
	return OrbSet{
		Natal:    NatalOrbs.Clone(),
		Transit:  TransitOrbs.Clone(),
		Synastry: SynastryOrbs.Clone(),
	}
}

// orbFile is the TOML layout:
//
//	[natal]
//	conjunction = 8
//	quincunx = 2
//
//	[transit]
//	...
//
// A section that is present replaces the built-in table for that mode;
// absent sections keep the default.
type orbFile struct {
	Natal    map[string]any `toml:"natal"`
	Transit  map[string]any `toml:"transit"`
	Synastry map[string]any `toml:"synastry"`
}

// LoadOrbSet reads orb tables from TOML.
func LoadOrbSet(r io.Reader) (OrbSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return OrbSet{}, fmt.Errorf("reading orb tables: %w", err)
	}

	var f orbFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return OrbSet{}, fmt.Errorf("parsing orb tables: %w", err)
	}

	set := DefaultOrbSet()
	sections := []struct {
		name string
		raw  map[string]any
		dst  *OrbTable
	}{
		{"natal", f.Natal, &set.Natal},
		{"transit", f.Transit, &set.Transit},
		{"synastry", f.Synastry, &set.Synastry},
	}
	for _, s := range sections {
		if s.raw == nil {
			continue
		}
		table := make(OrbTable, len(s.raw))
		for name, v := range s.raw {
			t, err := ParseType(name)
			if err != nil {
				return OrbSet{}, fmt.Errorf("[%s]: %w", s.name, err)
			}
			orb, ok := orbValue(v)
			if !ok {
				return OrbSet{}, fmt.Errorf("[%s] %s: orb must be a number, got %T", s.name, name, v)
			}
			table[t] = orb
		}
		if err := table.Validate(); err != nil {
			return OrbSet{}, fmt.Errorf("[%s]: %w", s.name, err)
		}
		*s.dst = table
	}
	return set, nil
}

// LoadOrbFile reads orb tables from a TOML file.
func LoadOrbFile(path string) (OrbSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return OrbSet{}, err
	}
	defer f.Close()

	set, err := LoadOrbSet(f)
	if err != nil {
		return OrbSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func orbValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
