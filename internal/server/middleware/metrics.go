package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestObserver receives one observation per served request.
// *metrics.Recorder implements it.
type RequestObserver interface {
	ObserveRequest(route, method string, status int, d time.Duration)
}

// Metrics records request counts and latency labelled by the templated
// route, so path parameters do not explode cardinality.
func Metrics(obs RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if err != nil && errors.As(err, &he) {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			obs.ObserveRequest(route, c.Request().Method, status, time.Since(start))
			return err
		}
	}
}
