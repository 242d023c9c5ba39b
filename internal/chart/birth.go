package chart

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/litescript/ls-natal/internal/timeconv"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// BirthMoment is the civil input for a natal chart: a wall-clock time in an
// IANA zone and a geographic position (east longitude positive).
type BirthMoment struct {
	Name      string  `json:"name,omitempty" yaml:"name" validate:"max=128"`
	Year      int     `json:"year" yaml:"year" validate:"gte=1,lte=9999"`
	Month     int     `json:"month" yaml:"month" validate:"gte=1,lte=12"`
	Day       int     `json:"day" yaml:"day" validate:"gte=1,lte=31"`
	Hour      int     `json:"hour" yaml:"hour" validate:"gte=0,lte=23"`
	Minute    int     `json:"minute" yaml:"minute" validate:"gte=0,lte=59"`
	Zone      string  `json:"zone" yaml:"zone" validate:"max=64"`
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
}

// Civil returns the time part of the moment.
func (b BirthMoment) Civil() timeconv.Civil {
	return timeconv.Civil{
		Year:   b.Year,
		Month:  b.Month,
		Day:    b.Day,
		Hour:   b.Hour,
		Minute: b.Minute,
		Zone:   b.Zone,
	}
}

func (b BirthMoment) String() string {
	s := fmt.Sprintf("%s @ %.4f,%.4f", b.Civil(), b.Latitude, b.Longitude)
	if b.Name != "" {
		s = b.Name + " " + s
	}
	return s
}

// Validate checks field ranges. The calendar date itself (e.g. February 30)
// is checked during time conversion. The returned error wraps one
// InvalidInputError per rejected field and matches ErrInvalidInput.
func (b BirthMoment) Validate() error {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &InvalidInputError{
			Field:  fe.Field(),
			Value:  fmt.Sprint(fe.Value()),
			Reason: reason(fe),
		})
	}
	return errors.Join(errs...)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag()
	}
}
