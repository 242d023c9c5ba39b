// Package ephem provides geocentric ecliptic positions for the chart bodies.
package ephem

import (
	"context"
	"errors"

	"github.com/litescript/ls-natal/internal/houses"
)

// ErrUnavailable is returned when a provider cannot supply a position: the
// body is unsupported, the date is outside its range, or the remote
// service failed.
var ErrUnavailable = errors.New("ephemeris unavailable")

// Position is a geocentric position on the ecliptic of date.
type Position struct {
	Longitude float64 // degrees, [0, 360)
	Latitude  float64 // degrees
	Distance  float64 // AU
	Speed     float64 // degrees per day in longitude; negative when retrograde
}

// Provider defines the interface for ephemeris data sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Query returns the position of body at Julian Day jd (UT).
	// Errors wrap ErrUnavailable.
	Query(ctx context.Context, jd float64, body Body) (Position, error)

	// Available returns true if this provider can supply data for the body.
	Available(body Body) bool
}

// HouseSource computes house cusps and angles. houses.Calculator is the
// in-process implementation.
type HouseSource interface {
	Houses(jd, lat, lon float64, system houses.System) (houses.Result, error)
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeKepler   Mode = iota // Offline orbital elements (default)
	ModeHorizons             // Use JPL Horizons
	ModeTable                // Precomputed CSV tables
	ModeAuto                 // Try Horizons, fall back to Kepler
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeKepler:
		return "kepler"
	case ModeHorizons:
		return "horizons"
	case ModeTable:
		return "table"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string. Unknown strings select the offline
// provider.
func ParseMode(s string) Mode {
	switch s {
	case "kepler":
		return ModeKepler
	case "horizons":
		return ModeHorizons
	case "table":
		return ModeTable
	case "auto":
		return ModeAuto
	default:
		return ModeKepler
	}
}
