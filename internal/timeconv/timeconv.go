// Package timeconv converts civil birth moments into Julian Days (UT).
package timeconv

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // historical zone rules independent of the host

	"github.com/ncruces/julianday"

	"github.com/litescript/ls-natal/internal/logging"
)

// ErrInvalidInput reports an impossible date, an out-of-range clock value,
// or (in strict mode) an unknown time zone.
var ErrInvalidInput = errors.New("invalid time input")

// Civil is a wall-clock moment in a named IANA zone.
type Civil struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Zone   string
}

func (c Civil) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d %s", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Zone)
}

// Moment is a resolved instant.
type Moment struct {
	JD           float64   // Julian Day, UT
	UTC          time.Time // the same instant in UTC
	Zone         string    // zone actually applied
	ZoneFallback bool      // requested zone was unknown; UTC was used
}

// Converter turns civil input into Moments. The zero value is not usable;
// construct with New.
type Converter struct {
	strict bool
	clock  func() time.Time
	log    *logging.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithStrictZones makes unknown zones an error instead of a UTC fallback.
func WithStrictZones(strict bool) Option {
	return func(c *Converter) {
		c.strict = strict
	}
}

// WithClock replaces time.Now, for tests and replays.
func WithClock(clock func() time.Time) Option {
	return func(c *Converter) {
		c.clock = clock
	}
}

// WithLogger sets the logger used for zone fallback warnings.
func WithLogger(l *logging.Logger) Option {
	return func(c *Converter) {
		c.log = l
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		clock: time.Now,
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Strict reports whether unknown zones are rejected.
func (c *Converter) Strict() bool {
	return c.strict
}

// ToJulianDay validates the civil input, localizes it with the zone's
// historical offset rules, and converts it to a Julian Day in UT.
func (c *Converter) ToJulianDay(in Civil) (Moment, error) {
	if err := validateClock(in); err != nil {
		return Moment{}, err
	}

	loc, fallback, err := c.location(in.Zone)
	if err != nil {
		return Moment{}, err
	}

	wall := time.Date(in.Year, time.Month(in.Month), in.Day, in.Hour, in.Minute, 0, 0, time.UTC)
	if wall.Year() != in.Year || int(wall.Month()) != in.Month || wall.Day() != in.Day {
		return Moment{}, fmt.Errorf("%w: %04d-%02d-%02d is not a calendar date", ErrInvalidInput, in.Year, in.Month, in.Day)
	}

	m := FromTime(localize(wall, loc))
	m.Zone = loc.String()
	m.ZoneFallback = fallback
	return m, nil
}

// Now resolves the current instant as seen from the given zone.
func (c *Converter) Now(zone string) (Moment, error) {
	loc, fallback, err := c.location(zone)
	if err != nil {
		return Moment{}, err
	}
	m := FromTime(c.clock().In(loc))
	m.Zone = loc.String()
	m.ZoneFallback = fallback
	return m, nil
}

// CivilNow returns the wall clock in the given zone, truncated to the minute.
func (c *Converter) CivilNow(zone string) (Civil, error) {
	loc, _, err := c.location(zone)
	if err != nil {
		return Civil{}, err
	}
	t := c.clock().In(loc)
	return Civil{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Zone:   zone,
	}, nil
}

// localize reads the wall clock of wall (given in UTC) in loc. A reading
// that occurs twice when clocks go back, or never when they go forward,
// resolves to standard time.
func localize(wall time.Time, loc *time.Location) time.Time {
	t := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), 0, 0, loc)
	exists := sameWall(t, wall)
	if exists && !t.IsDST() {
		return t
	}

	std, ok := standardOffset(wall, loc)
	if !ok {
		return t
	}
	alt := wall.Add(-std)
	if !exists || sameWall(alt.In(loc), wall) {
		return alt
	}
	return t
}

// standardOffset finds the non-daylight offset in force a day either side
// of wall.
func standardOffset(wall time.Time, loc *time.Location) (time.Duration, bool) {
	for _, near := range []time.Time{wall.Add(-24 * time.Hour), wall.Add(24 * time.Hour)} {
		t := near.In(loc)
		if t.IsDST() {
			continue
		}
		_, off := t.Zone()
		return time.Duration(off) * time.Second, true
	}
	return 0, false
}

func sameWall(t, wall time.Time) bool {
	return t.Year() == wall.Year() && t.Month() == wall.Month() && t.Day() == wall.Day() &&
		t.Hour() == wall.Hour() && t.Minute() == wall.Minute()
}

func (c *Converter) location(zone string) (*time.Location, bool, error) {
	name := strings.TrimSpace(zone)
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, false, nil
	}
	if c.strict {
		return nil, false, fmt.Errorf("%w: unknown time zone %q", ErrInvalidInput, zone)
	}
	c.log.Warn("unknown time zone %q, falling back to UTC", zone)
	return time.UTC, true, nil
}

func validateClock(in Civil) error {
	if in.Month < 1 || in.Month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidInput, in.Month)
	}
	if in.Day < 1 || in.Day > 31 {
		return fmt.Errorf("%w: day %d out of range", ErrInvalidInput, in.Day)
	}
	if in.Hour < 0 || in.Hour > 23 {
		return fmt.Errorf("%w: hour %d out of range", ErrInvalidInput, in.Hour)
	}
	if in.Minute < 0 || in.Minute > 59 {
		return fmt.Errorf("%w: minute %d out of range", ErrInvalidInput, in.Minute)
	}
	return nil
}

// FromTime converts any instant to a Moment in UTC.
func FromTime(t time.Time) Moment {
	utc := t.UTC()
	return Moment{
		JD:   julianday.Float(utc),
		UTC:  utc,
		Zone: "UTC",
	}
}

// ToTime converts a Julian Day (UT) back to a UTC time.
func ToTime(jd float64) time.Time {
	return julianday.FloatTime(jd).UTC()
}
