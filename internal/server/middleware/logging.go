package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/litescript/ls-natal/internal/logging"
)

// RequestLogging logs HTTP requests. Server errors log at error level,
// everything else at debug.
func RequestLogging(log *logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)

			latency := time.Since(start)
			l := log.With("request_id", GetRequestID(c))
			if res.Status >= 500 {
				l.Error("[%s] %s %s - %d (%s)", req.Method, req.RequestURI, req.RemoteAddr, res.Status, latency)
			} else {
				l.Debug("[%s] %s %s - %d (%s)", req.Method, req.RequestURI, req.RemoteAddr, res.Status, latency)
			}

			return err
		}
	}
}
