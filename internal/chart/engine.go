// Package chart assembles natal charts, transit snapshots and synastry
// from the time, ephemeris, house and aspect packages.
package chart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/houses"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/timeconv"
)

// Engine computes charts. It holds only immutable collaborators and is safe
// for concurrent use.
type Engine struct {
	conv     *timeconv.Converter
	resolver *Resolver
	houses   ephem.HouseSource
	system   houses.System
	natal    *aspect.Detector
	transit  *aspect.Detector
	synastry *aspect.Detector
	rec      Recorder
	log      *logging.Logger

	provider    ephem.Provider
	orbs        aspect.OrbSet
	bestPerPair bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithConverter sets the time converter.
func WithConverter(c *timeconv.Converter) Option {
	return func(e *Engine) {
		e.conv = c
	}
}

// WithHouseSource replaces the in-process house calculator.
func WithHouseSource(h ephem.HouseSource) Option {
	return func(e *Engine) {
		e.houses = h
	}
}

// WithHouseSystem sets the house system for natal charts (default Placidus).
func WithHouseSystem(s houses.System) Option {
	return func(e *Engine) {
		e.system = s
	}
}

// WithOrbs sets the natal, transit and synastry orb tables.
func WithOrbs(set aspect.OrbSet) Option {
	return func(e *Engine) {
		e.orbs = set
	}
}

// WithBestPerPair keeps only the closest aspect for each pair.
func WithBestPerPair(on bool) Option {
	return func(e *Engine) {
		e.bestPerPair = on
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.rec = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine creates an engine reading positions from p.
func NewEngine(p ephem.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider: p,
		system:   houses.Placidus,
		orbs:     aspect.DefaultOrbSet(),
		rec:      nopRecorder{},
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.conv == nil {
		e.conv = timeconv.New(timeconv.WithLogger(e.log))
	}
	if e.houses == nil {
		e.houses = houses.NewCalculator(houses.WithLogger(e.log))
	}

	detOpts := []aspect.Option{aspect.WithBestPerPair(e.bestPerPair)}
	e.natal = aspect.NewDetector(e.orbs.Natal, detOpts...)
	e.transit = aspect.NewDetector(e.orbs.Transit, detOpts...)
	e.synastry = aspect.NewDetector(e.orbs.Synastry, detOpts...)
	e.resolver = NewResolver(p, e.rec)
	return e
}

// Provider returns the ephemeris provider.
func (e *Engine) Provider() ephem.Provider {
	return e.provider
}

// HouseSystem returns the configured house system.
func (e *Engine) HouseSystem() houses.System {
	return e.system
}

// Converter returns the time converter.
func (e *Engine) Converter() *timeconv.Converter {
	return e.conv
}

// CalculateAll computes the natal chart for b.
func (e *Engine) CalculateAll(ctx context.Context, b BirthMoment) (*ChartResult, error) {
	res, err := e.calculate(ctx, b, e.system)
	e.rec.CountChart("natal", err)
	return res, err
}

// CalculateWithSystem computes the natal chart for b with an explicit house
// system.
func (e *Engine) CalculateWithSystem(ctx context.Context, b BirthMoment, sys houses.System) (*ChartResult, error) {
	res, err := e.calculate(ctx, b, sys)
	e.rec.CountChart("natal", err)
	return res, err
}

func (e *Engine) calculate(ctx context.Context, b BirthMoment, sys houses.System) (*ChartResult, error) {
	input := b.String()

	done := e.stage(StageValidate)
	err := b.Validate()
	done()
	if err != nil {
		return nil, stageError(StageValidate, input, err)
	}

	done = e.stage(StageTime)
	m, err := e.toJulianDay(b.Civil())
	done()
	if err != nil {
		return nil, stageError(StageTime, input, err)
	}

	done = e.stage(StageEphemeris)
	tctx, trace := ephem.WithFallbackTrace(ctx)
	placements, err := e.resolver.ResolveAll(tctx, m.JD, ephem.ChartBodies())
	done()
	if err != nil {
		return nil, stageError(StageEphemeris, input, err)
	}

	done = e.stage(StageHouses)
	hr, err := e.houses.Houses(m.JD, b.Latitude, b.Longitude, sys)
	done()
	if err != nil {
		return nil, stageError(StageHouses, input, err)
	}

	res := &ChartResult{
		Subject: Subject{
			BirthMoment:  b,
			JD:           m.JD,
			UTC:          m.UTC,
			AppliedZone:  m.Zone,
			ZoneFallback: m.ZoneFallback,
		},
		Placements:      placements,
		Ascendant:       newAngularPoint(hr.Ascendant),
		Midheaven:       newAngularPoint(hr.Midheaven),
		Houses:          make(map[int]HouseCusp, 12),
		HouseSystem:     hr.System,
		RequestedSystem: hr.Requested,
	}
	for i, lon := range hr.Cusps {
		p := newAngularPoint(lon)
		res.Houses[i+1] = HouseCusp{House: i + 1, Longitude: p.Longitude, Sign: p.Sign, Degree: p.Degree}
	}

	done = e.stage(StageAspects)
	res.Aspects = e.natal.Find(res.Points(ephem.ChartBodies()))
	done()

	if m.ZoneFallback {
		res.Warnings = append(res.Warnings, zoneWarning(b.Zone))
	}
	if hr.Fallback {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnHouseFallback,
			Message: fmt.Sprintf("%v houses are undefined at latitude %.2f; Equal houses used", hr.Requested, b.Latitude),
		})
	}
	if w, ok := ephemerisWarning(trace); ok {
		res.Warnings = append(res.Warnings, w)
	}

	e.log.Debug("chart %s: JD %.5f, %d aspects, %v houses", input, m.JD, len(res.Aspects), res.HouseSystem)
	return res, nil
}

// CurrentTransits returns body placements for the current instant.
func (e *Engine) CurrentTransits(ctx context.Context, zone string) (*TransitSnapshot, error) {
	m, err := e.conv.Now(zone)
	if err != nil {
		return nil, stageError(StageTime, "now "+zone, invalid(err))
	}
	snap, err := e.snapshot(ctx, m, zone)
	e.rec.CountChart("transits", err)
	return snap, err
}

// TransitsAt returns body placements for a civil moment.
func (e *Engine) TransitsAt(ctx context.Context, c timeconv.Civil) (*TransitSnapshot, error) {
	m, err := e.toJulianDay(c)
	if err != nil {
		return nil, stageError(StageTime, c.String(), err)
	}
	snap, err := e.snapshot(ctx, m, c.Zone)
	e.rec.CountChart("transits", err)
	return snap, err
}

func (e *Engine) snapshot(ctx context.Context, m timeconv.Moment, zone string) (*TransitSnapshot, error) {
	done := e.stage(StageEphemeris)
	tctx, trace := ephem.WithFallbackTrace(ctx)
	placements, err := e.resolver.ResolveAll(tctx, m.JD, ephem.ChartBodies())
	done()
	if err != nil {
		return nil, stageError(StageEphemeris, fmt.Sprintf("JD %.5f", m.JD), err)
	}
	snap := &TransitSnapshot{
		JD:         m.JD,
		UTC:        m.UTC,
		Zone:       m.Zone,
		Placements: placements,
	}
	if m.ZoneFallback {
		snap.Warnings = append(snap.Warnings, zoneWarning(zone))
	}
	if w, ok := ephemerisWarning(trace); ok {
		snap.Warnings = append(snap.Warnings, w)
	}
	return snap, nil
}

// TransitAspects compares transiting planets (P1) with natal planets and
// lunar nodes (P2) under the transit orbs.
func (e *Engine) TransitAspects(natal *ChartResult, transiting *TransitSnapshot) []aspect.Aspect {
	return e.transit.FindCross(transiting.Points(ephem.Planets()), natal.Points(ephem.ChartBodies()))
}

// Synastry compares the planets of chart a (P1) with chart b (P2) under the
// synastry orbs.
func (e *Engine) Synastry(a, b *ChartResult) []aspect.Aspect {
	return e.synastry.FindCross(a.Points(ephem.Planets()), b.Points(ephem.Planets()))
}

// SynastryCharts computes both natal charts concurrently and compares them.
func (e *Engine) SynastryCharts(ctx context.Context, a, b BirthMoment) (*ChartResult, *ChartResult, []aspect.Aspect, error) {
	var (
		wg         sync.WaitGroup
		ra, rb     *ChartResult
		errA, errB error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ra, errA = e.CalculateAll(ctx, a)
	}()
	go func() {
		defer wg.Done()
		rb, errB = e.CalculateAll(ctx, b)
	}()
	wg.Wait()

	if err := errors.Join(errA, errB); err != nil {
		return nil, nil, nil, err
	}
	return ra, rb, e.Synastry(ra, rb), nil
}

func (e *Engine) toJulianDay(c timeconv.Civil) (timeconv.Moment, error) {
	m, err := e.conv.ToJulianDay(c)
	if err != nil {
		return timeconv.Moment{}, invalid(err)
	}
	return m, nil
}

// invalid tags time conversion failures as invalid input.
func invalid(err error) error {
	if errors.Is(err, timeconv.ErrInvalidInput) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func zoneWarning(zone string) Warning {
	return Warning{
		Code:    WarnTimezoneFallback,
		Message: fmt.Sprintf("unknown time zone %q; UTC used", zone),
	}
}

// ephemerisWarning summarizes the bodies a fallback provider answered.
func ephemerisWarning(trace *ephem.FallbackTrace) (Warning, bool) {
	subs := trace.Substitutions()
	if len(subs) == 0 {
		return Warning{}, false
	}
	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.Body.String()
	}
	msg := fmt.Sprintf("%s unavailable for %s; %s positions used",
		subs[0].Primary, strings.Join(names, ", "), subs[0].Secondary)
	return Warning{Code: WarnEphemerisFallback, Message: msg}, true
}

func (e *Engine) stage(s Stage) func() {
	start := time.Now()
	return func() {
		e.rec.ObserveStage(s, time.Since(start))
	}
}
