package chart

import (
	"errors"
	"fmt"

	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/houses"
)

var (
	// ErrInvalidInput reports a birth moment that cannot describe a real
	// instant and place.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEphemerisUnavailable reports that no position could be obtained
	// for a body at the requested instant.
	ErrEphemerisUnavailable = ephem.ErrUnavailable

	// ErrHouseDegenerate reports a house system that cannot be computed at
	// the requested latitude under the fail policy.
	ErrHouseDegenerate = houses.ErrDegenerate
)

// Stage names one step of a chart computation.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageTime      Stage = "time"
	StageEphemeris Stage = "ephemeris"
	StageHouses    Stage = "houses"
	StageAspects   Stage = "aspects"
)

// StageError wraps a failure with the stage it happened in and a short
// description of the input being processed.
type StageError struct {
	Stage Stage
	Input string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Input, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, input string, err error) error {
	return &StageError{Stage: stage, Input: input, Err: err}
}

// InvalidInputError describes one rejected field.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s=%s: %s", e.Field, e.Value, e.Reason)
}

// Is makes every InvalidInputError match ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WarningCode identifies a recoverable condition.
type WarningCode string

const (
	// WarnTimezoneFallback: the zone name was not recognized and UTC was
	// used instead.
	WarnTimezoneFallback WarningCode = "timezone_fallback"
	// WarnHouseFallback: the requested house system was degenerate and
	// Equal houses were returned.
	WarnHouseFallback WarningCode = "house_fallback"
	// WarnEphemerisFallback: the preferred ephemeris failed for some
	// bodies and a lower-precision provider answered for them.
	WarnEphemerisFallback WarningCode = "ephemeris_fallback"
)

// Warning is attached to a result that was computed with a fallback.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
