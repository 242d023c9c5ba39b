package chart

import (
	"time"

	"github.com/litescript/ls-natal/internal/ephem"
)

// Recorder receives computation measurements. internal/metrics provides a
// Prometheus implementation.
type Recorder interface {
	ObserveStage(stage Stage, d time.Duration)
	CountChart(kind string, err error)
	CountEphemeris(provider string, body ephem.Body, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(Stage, time.Duration)        {}
func (nopRecorder) CountChart(string, error)                 {}
func (nopRecorder) CountEphemeris(string, ephem.Body, error) {}
