package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/fortune"
	"github.com/litescript/ls-natal/internal/houses"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/report"
	"github.com/litescript/ls-natal/internal/timeconv"
	"github.com/litescript/ls-natal/internal/version"
)

// Handler serves the chart API. The engine can be swapped at runtime (orb
// table reload); requests in flight keep the engine they started with.
type Handler struct {
	engine atomic.Pointer[chart.Engine]
	tables *fortune.Tables
	log    *logging.Logger
}

// NewHandler creates a Handler.
func NewHandler(e *chart.Engine, tables *fortune.Tables, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Discard()
	}
	h := &Handler{tables: tables, log: log}
	h.engine.Store(e)
	return h
}

// Engine returns the engine currently serving requests.
func (h *Handler) Engine() *chart.Engine {
	return h.engine.Load()
}

// SetEngine replaces the engine for subsequent requests.
func (h *Handler) SetEngine(e *chart.Engine) {
	h.engine.Store(e)
}

// RegisterRoutes mounts the API on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.health)

	api := e.Group("/api")
	api.POST("/chart", h.chart)
	api.GET("/transits", h.transits)
	api.POST("/transits/aspects", h.transitAspects)
	api.POST("/synastry", h.synastry)

	f := api.Group("/fortune")
	f.POST("/daily", h.fortune(dailyFortune))
	f.POST("/monthly", h.fortune(monthlyFortune))
	f.POST("/yearly", h.fortune(yearlyFortune))
	f.POST("/reading", h.fortune(birthReading))
}

func (h *Handler) health(c echo.Context) error {
	eng := h.Engine()
	return SuccessResponse(c, Health{
		Status:   "ok",
		Version:  version.Version,
		Provider: eng.Provider().Name(),
		Houses:   eng.HouseSystem().String(),
	})
}

func (h *Handler) chart(c echo.Context) error {
	var req ChartRequest
	if errs := ReadAndValidateRequest(c, &req); errs != nil {
		return BadRequestResponse(c, errs)
	}

	eng := h.Engine()
	sys := eng.HouseSystem()
	if req.HouseSystem != "" {
		s, err := houses.ParseSystem(req.HouseSystem)
		if err != nil {
			return BadRequestResponse(c, []ValidationError{{
				Code:    "ERR_HOUSE_SYSTEM",
				Field:   "house_system",
				Message: err.Error(),
			}})
		}
		sys = s
	}

	res, err := eng.CalculateWithSystem(c.Request().Context(), req.BirthMoment, sys)
	if err != nil {
		return h.fail(c, err)
	}

	ex := report.ExportChart(res)
	if req.FixedStars {
		orb := req.StarOrb
		if orb == 0 {
			orb = chart.DefaultStarOrb
		}
		stars := astro.BrightStars(chart.DefaultStarMagnitude)
		ex.FixedStars = report.ExportStars(chart.FixedStarContacts(res, stars, orb))
	}
	return SuccessResponse(c, ex)
}

func (h *Handler) transits(c echo.Context) error {
	snap, err := h.Engine().CurrentTransits(c.Request().Context(), c.QueryParam("zone"))
	if err != nil {
		return h.fail(c, err)
	}
	return SuccessResponse(c, transitsResponse(snap, nil))
}

func (h *Handler) transitAspects(c echo.Context) error {
	var req TransitsRequest
	if errs := ReadAndValidateRequest(c, &req); errs != nil {
		return BadRequestResponse(c, errs)
	}

	ctx := c.Request().Context()
	eng := h.Engine()
	natal, err := eng.CalculateAll(ctx, req.Natal)
	if err != nil {
		return h.fail(c, err)
	}

	zone := req.Zone
	if zone == "" {
		zone = req.Natal.Zone
	}
	var snap *chart.TransitSnapshot
	if req.At != nil {
		at := timeconv.Civil{
			Year:   req.At.Year,
			Month:  req.At.Month,
			Day:    req.At.Day,
			Hour:   req.At.Hour,
			Minute: req.At.Minute,
			Zone:   req.At.Zone,
		}
		if at.Zone == "" {
			at.Zone = zone
		}
		snap, err = eng.TransitsAt(ctx, at)
	} else {
		snap, err = eng.CurrentTransits(ctx, zone)
	}
	if err != nil {
		return h.fail(c, err)
	}
	return SuccessResponse(c, transitsResponse(snap, report.ExportAspects(eng.TransitAspects(natal, snap))))
}

func (h *Handler) synastry(c echo.Context) error {
	var req SynastryRequest
	if errs := ReadAndValidateRequest(c, &req); errs != nil {
		return BadRequestResponse(c, errs)
	}

	a, b, aspects, err := h.Engine().SynastryCharts(c.Request().Context(), req.A, req.B)
	if err != nil {
		return h.fail(c, err)
	}
	return SuccessResponse(c, SynastryResponse{
		A:       report.ExportChart(a),
		B:       report.ExportChart(b),
		Aspects: report.ExportAspects(aspects),
	})
}

type fortuneFunc func(ctx context.Context, r *fortune.Reader, natal *chart.ChartResult, req FortuneRequest) (any, error)

func dailyFortune(ctx context.Context, r *fortune.Reader, natal *chart.ChartResult, req FortuneRequest) (any, error) {
	return r.Daily(ctx, natal, req.Lang)
}

func monthlyFortune(ctx context.Context, r *fortune.Reader, natal *chart.ChartResult, req FortuneRequest) (any, error) {
	return r.Monthly(ctx, natal, req.Year, req.Month, req.Lang)
}

func yearlyFortune(ctx context.Context, r *fortune.Reader, natal *chart.ChartResult, req FortuneRequest) (any, error) {
	return r.Yearly(ctx, natal, req.Year, req.Lang)
}

func birthReading(_ context.Context, r *fortune.Reader, natal *chart.ChartResult, req FortuneRequest) (any, error) {
	return r.BirthReading(natal, req.Lang), nil
}

func (h *Handler) fortune(fn fortuneFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req FortuneRequest
		if errs := ReadAndValidateRequest(c, &req); errs != nil {
			return BadRequestResponse(c, errs)
		}

		ctx := c.Request().Context()
		eng := h.Engine()
		natal, err := eng.CalculateAll(ctx, req.Birth)
		if err != nil {
			return h.fail(c, err)
		}

		if req.Year == 0 || req.Month == 0 {
			now, err := eng.Converter().CivilNow(natal.Subject.AppliedZone)
			if err != nil {
				return h.fail(c, err)
			}
			if req.Year == 0 {
				req.Year = now.Year
			}
			if req.Month == 0 {
				req.Month = now.Month
			}
		}

		out, err := fn(ctx, fortune.NewReader(eng, h.tables), natal, req)
		if err != nil {
			return h.fail(c, err)
		}
		return SuccessResponse(c, out)
	}
}

func (h *Handler) fail(c echo.Context, err error) error {
	status := StatusFor(err)
	if status >= 500 {
		h.log.Error("%s %s: %v", c.Request().Method, c.Path(), err)
	} else {
		h.log.Debug("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return ErrorResponse(c, err)
}

func transitsResponse(snap *chart.TransitSnapshot, aspects []report.AspectExport) TransitsResponse {
	return TransitsResponse{
		JD:         snap.JD,
		UTC:        snap.UTC.Format(time.RFC3339),
		Zone:       snap.Zone,
		Placements: report.ExportTransits(snap),
		Aspects:    aspects,
		Warnings:   snap.Warnings,
	}
}
