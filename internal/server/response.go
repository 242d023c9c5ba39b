package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/litescript/ls-natal/internal/chart"
)

// DataResponse writes the envelope with statusCode as both the HTTP status
// and the envelope status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	})
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// BadRequestResponse writes bad request error.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusBadRequest, data)
}

// ErrorResponse maps a chart error onto a status code and writes it.
func ErrorResponse(c echo.Context, err error) error {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		return DataResponse(c, status, "Something went wrong")
	}
	return DataResponse(c, status, errorDetails(err))
}

// StatusFor returns the HTTP status for a chart error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chart.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, chart.ErrHouseDegenerate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, chart.ErrEphemerisUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorDetails(err error) []ValidationError {
	var fields []*chart.InvalidInputError
	collectFields(err, &fields)
	if len(fields) == 0 {
		return []ValidationError{{Code: codeFor(err), Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fields))
	for _, f := range fields {
		out = append(out, ValidationError{
			Code:    "ERR_INVALID_INPUT",
			Field:   f.Field,
			Message: f.Field + " " + f.Reason,
			Params:  map[string]interface{}{"value": f.Value},
		})
	}
	return out
}

// collectFields walks single and joined wraps.
func collectFields(err error, out *[]*chart.InvalidInputError) {
	if err == nil {
		return
	}
	if f, ok := err.(*chart.InvalidInputError); ok {
		*out = append(*out, f)
		return
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			collectFields(e, out)
		}
	case interface{ Unwrap() error }:
		collectFields(u.Unwrap(), out)
	}
}

func codeFor(err error) string {
	switch StatusFor(err) {
	case http.StatusBadRequest:
		return "ERR_INVALID_INPUT"
	case http.StatusUnprocessableEntity:
		return "ERR_HOUSE_DEGENERATE"
	case http.StatusServiceUnavailable:
		return "ERR_EPHEMERIS_UNAVAILABLE"
	default:
		return "ERR_UNKNOWN"
	}
}
