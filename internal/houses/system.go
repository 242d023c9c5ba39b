// Package houses divides the ecliptic into twelve houses for a time and
// place.
package houses

import (
	"fmt"
	"strings"
)

// System identifies a house system by its conventional one-letter code.
type System byte

const (
	Placidus      System = 'P'
	Koch          System = 'K'
	Porphyry      System = 'O'
	Regiomontanus System = 'R'
	Campanus      System = 'C'
	Equal         System = 'E'
	WholeSign     System = 'W'
)

var systemNames = map[System]string{
	Placidus:      "Placidus",
	Koch:          "Koch",
	Porphyry:      "Porphyry",
	Regiomontanus: "Regiomontanus",
	Campanus:      "Campanus",
	Equal:         "Equal",
	WholeSign:     "Whole Sign",
}

// Systems lists the supported systems, default first.
func Systems() []System {
	return []System{Placidus, Koch, Porphyry, Regiomontanus, Campanus, Equal, WholeSign}
}

// String returns the system name.
func (s System) String() string {
	if name, ok := systemNames[s]; ok {
		return name
	}
	return fmt.Sprintf("System(%q)", byte(s))
}

// Code returns the one-letter code.
func (s System) Code() string {
	return string(rune(s))
}

// Valid reports whether s is a supported system.
func (s System) Valid() bool {
	_, ok := systemNames[s]
	return ok
}

// Quadrant reports whether the system divides the quadrants between the
// angles (as opposed to counting from the Ascendant).
func (s System) Quadrant() bool {
	switch s {
	case Placidus, Koch, Porphyry, Regiomontanus, Campanus:
		return true
	}
	return false
}

// MarshalText encodes the system as its name.
func (s System) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts a code or a name.
func (s *System) UnmarshalText(b []byte) error {
	v, err := ParseSystem(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSystem accepts a one-letter code ("P") or a name ("placidus",
// "whole sign", "whole-sign"). An empty string selects Placidus.
func ParseSystem(s string) (System, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placidus, nil
	}
	if len(s) == 1 {
		sys := System(strings.ToUpper(s)[0])
		if sys.Valid() {
			return sys, nil
		}
	}
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(s))
	for sys, name := range systemNames {
		if strings.ToLower(name) == norm {
			return sys, nil
		}
	}
	return Placidus, fmt.Errorf("unknown house system %q", s)
}

// Policy decides what happens when a system cannot be computed for the
// requested place.
type Policy int

const (
	// FallbackEqual returns Equal houses flagged as a fallback.
	FallbackEqual Policy = iota
	// FailDegenerate returns ErrDegenerate.
	FailDegenerate
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case FallbackEqual:
		return "fallback"
	case FailDegenerate:
		return "fail"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "fallback" or "fail".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fallback", "equal":
		return FallbackEqual, nil
	case "fail", "error":
		return FailDegenerate, nil
	default:
		return FallbackEqual, fmt.Errorf("unknown house policy %q", s)
	}
}
