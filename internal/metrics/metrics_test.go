package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeOK},
		{"invalid", fmt.Errorf("validate: %w", chart.ErrInvalidInput), OutcomeInvalid},
		{"unavailable", fmt.Errorf("Pluto: %w", ephem.ErrUnavailable), OutcomeUnavailable},
		{"degenerate", fmt.Errorf("houses: %w", chart.ErrHouseDegenerate), OutcomeDegenerate},
		{"other", errors.New("boom"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Outcome(tt.err); got != tt.want {
				t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestRecorderCounts(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.CountChart("natal", nil)
	r.CountChart("natal", nil)
	r.CountChart("natal", chart.ErrInvalidInput)
	r.CountEphemeris("kepler", ephem.NorthNode, nil)

	if got := testutil.ToFloat64(r.charts.WithLabelValues("natal", OutcomeOK)); got != 2 {
		t.Errorf("natal ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.charts.WithLabelValues("natal", OutcomeInvalid)); got != 1 {
		t.Errorf("natal invalid = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ephemeris.WithLabelValues("kepler", "north_node", OutcomeOK)); got != 1 {
		t.Errorf("ephemeris north_node = %v, want 1", got)
	}
}

func TestRecorderWithEngine(t *testing.T) {
	r := New(prometheus.NewRegistry())
	e := chart.NewEngine(ephem.NewKeplerProvider(), chart.WithRecorder(r))

	b := chart.BirthMoment{
		Year: 1990, Month: 6, Day: 15, Hour: 14, Minute: 30,
		Zone: "Asia/Bangkok", Latitude: 13.75, Longitude: 100.5,
	}
	if _, err := e.CalculateAll(context.Background(), b); err != nil {
		t.Fatalf("CalculateAll() error: %v", err)
	}

	if got := testutil.ToFloat64(r.charts.WithLabelValues("natal", OutcomeOK)); got != 1 {
		t.Errorf("natal ok = %v, want 1", got)
	}
	// The South Node is derived, so only 11 bodies are queried.
	if got := testutil.CollectAndCount(r.ephemeris); got != 11 {
		t.Errorf("ephemeris series = %d, want 11", got)
	}
	if got := testutil.CollectAndCount(r.stages); got != 5 {
		t.Errorf("stage series = %d, want 5", got)
	}
}

func TestRecordersAreIndependent(t *testing.T) {
	a := New(nil)
	b := New(nil)
	a.CountChart("transits", nil)

	if got := testutil.ToFloat64(b.charts.WithLabelValues("transits", OutcomeOK)); got != 0 {
		t.Errorf("second recorder saw %v charts", got)
	}
}

func TestHandler(t *testing.T) {
	r := New(prometheus.NewRegistry())
	r.ObserveRequest("/api/chart", "POST", 200, 15*time.Millisecond)
	r.ObserveStage(chart.StageHouses, time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`lsnatal_http_requests_total{method="POST",route="/api/chart",status="200"} 1`,
		`lsnatal_stage_duration_seconds_count{stage="houses"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
