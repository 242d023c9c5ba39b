package server

import (
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/report"
)

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError represents one rejected field or a request-level error.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_GTE"`
	Field   string                 `json:"field,omitempty" example:"month"`
	Message string                 `json:"message,omitempty" example:"month must be at least 1"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// ChartRequest asks for a natal chart.
type ChartRequest struct {
	chart.BirthMoment
	HouseSystem string  `json:"house_system,omitempty" validate:"max=16"`
	FixedStars  bool    `json:"fixed_stars,omitempty"`
	StarOrb     float64 `json:"star_orb,omitempty" validate:"gte=0,lte=10"`
}

// TransitsRequest compares the sky at a moment with a natal chart. A zero
// At means now.
type TransitsRequest struct {
	Natal chart.BirthMoment `json:"natal"`
	Zone  string            `json:"zone,omitempty" validate:"max=64"`
	At    *MomentRequest    `json:"at,omitempty"`
}

// MomentRequest is a civil moment without a location.
type MomentRequest struct {
	Year   int    `json:"year" validate:"gte=1,lte=9999"`
	Month  int    `json:"month" validate:"gte=1,lte=12"`
	Day    int    `json:"day" validate:"gte=1,lte=31"`
	Hour   int    `json:"hour" validate:"gte=0,lte=23"`
	Minute int    `json:"minute" validate:"gte=0,lte=59"`
	Zone   string `json:"zone,omitempty" validate:"max=64"`
}

// SynastryRequest compares two people.
type SynastryRequest struct {
	A chart.BirthMoment `json:"a"`
	B chart.BirthMoment `json:"b"`
}

// FortuneRequest drives all fortune endpoints. Year and Month default to
// the current date in the birth zone.
type FortuneRequest struct {
	Birth chart.BirthMoment `json:"birth"`
	Lang  string            `json:"lang" default:"en" validate:"max=8"`
	Year  int               `json:"year,omitempty" validate:"omitempty,gte=1,lte=9999"`
	Month int               `json:"month,omitempty" validate:"omitempty,gte=1,lte=12"`
}

// TransitsResponse is the payload of the transit endpoints.
type TransitsResponse struct {
	JD         float64                  `json:"jd"`
	UTC        string                   `json:"utc"`
	Zone       string                   `json:"zone"`
	Placements []report.PlacementExport `json:"placements"`
	Aspects    []report.AspectExport    `json:"aspects,omitempty"`
	Warnings   []chart.Warning          `json:"warnings,omitempty"`
}

// SynastryResponse is the payload of POST /api/synastry.
type SynastryResponse struct {
	A       *report.ChartExport   `json:"a"`
	B       *report.ChartExport   `json:"b"`
	Aspects []report.AspectExport `json:"aspects"`
}

// Health is the payload of GET /healthz.
type Health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Provider string `json:"provider"`
	Houses   string `json:"house_system"`
}
