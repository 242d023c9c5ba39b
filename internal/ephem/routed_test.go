package ephem

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// stubProvider answers a fixed longitude for the bodies it holds.
type stubProvider struct {
	name   string
	bodies map[Body]bool
	lon    float64
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Available(b Body) bool { return s.bodies[b] }

func (s *stubProvider) Query(ctx context.Context, jd float64, b Body) (Position, error) {
	s.calls++
	if s.err != nil {
		return Position{}, s.err
	}
	return Position{Longitude: s.lon}, nil
}

func TestRoutedPicksFirstAvailable(t *testing.T) {
	planets := &stubProvider{name: "a", bodies: map[Body]bool{Sun: true, Mars: true}, lon: 10}
	nodes := &stubProvider{name: "b", bodies: map[Body]bool{Sun: true, NorthNode: true}, lon: 20}
	r := NewRouted(planets, nodes)

	if r.Name() != "a+b" {
		t.Errorf("Name() = %q", r.Name())
	}

	tests := []struct {
		body Body
		want float64
	}{
		{Sun, 10},
		{Mars, 10},
		{NorthNode, 20},
	}
	for _, tt := range tests {
		pos, err := r.Query(context.Background(), 0, tt.body)
		if err != nil {
			t.Fatalf("%v: %v", tt.body, err)
		}
		if pos.Longitude != tt.want {
			t.Errorf("%v routed to wrong provider: %v", tt.body, pos.Longitude)
		}
	}

	if _, err := r.Query(context.Background(), 0, Pluto); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Pluto: error = %v, want ErrUnavailable", err)
	}
	if r.Available(Pluto) {
		t.Error("Available(Pluto) = true")
	}
}

func TestFallback(t *testing.T) {
	all := map[Body]bool{Sun: true}

	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubProvider{name: "p", bodies: all, lon: 1}
		secondary := &stubProvider{name: "s", bodies: all, lon: 2}
		pos, err := NewFallback(primary, secondary, nil).Query(context.Background(), 0, Sun)
		if err != nil || pos.Longitude != 1 || secondary.calls != 0 {
			t.Errorf("pos=%v err=%v secondary calls=%d", pos, err, secondary.calls)
		}
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := &stubProvider{name: "p", bodies: all, err: fmt.Errorf("%w: down", ErrUnavailable)}
		secondary := &stubProvider{name: "s", bodies: all, lon: 2}
		pos, err := NewFallback(primary, secondary, nil).Query(context.Background(), 0, Sun)
		if err != nil || pos.Longitude != 2 {
			t.Errorf("pos=%v err=%v", pos, err)
		}
	})

	t.Run("cancellation is not masked", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		primary := &stubProvider{name: "p", bodies: all, err: fmt.Errorf("%w: %w", ErrUnavailable, context.Canceled)}
		secondary := &stubProvider{name: "s", bodies: all, lon: 2}
		_, err := NewFallback(primary, secondary, nil).Query(ctx, 0, Sun)
		if !errors.Is(err, context.Canceled) || secondary.calls != 0 {
			t.Errorf("err=%v secondary calls=%d", err, secondary.calls)
		}
	})

	t.Run("primary lacks body", func(t *testing.T) {
		primary := &stubProvider{name: "p", bodies: map[Body]bool{}}
		secondary := &stubProvider{name: "s", bodies: all, lon: 3}
		pos, err := NewFallback(primary, secondary, nil).Query(context.Background(), 0, Sun)
		if err != nil || pos.Longitude != 3 || primary.calls != 0 {
			t.Errorf("pos=%v err=%v primary calls=%d", pos, err, primary.calls)
		}
	})
}

func TestFallbackTrace(t *testing.T) {
	all := map[Body]bool{Sun: true, Moon: true}
	primary := &stubProvider{name: "p", bodies: map[Body]bool{Sun: true}, err: fmt.Errorf("%w: down", ErrUnavailable)}
	secondary := &stubProvider{name: "s", bodies: all, lon: 2}
	f := NewFallback(primary, secondary, nil)

	ctx, trace := WithFallbackTrace(context.Background())
	for _, b := range []Body{Sun, Moon} {
		if _, err := f.Query(ctx, 0, b); err != nil {
			t.Fatalf("%v: %v", b, err)
		}
	}

	subs := trace.Substitutions()
	if len(subs) != 1 {
		t.Fatalf("got %d substitutions, want 1 (Moon is not a substitution): %+v", len(subs), subs)
	}
	if subs[0].Body != Sun || subs[0].Primary != "p" || subs[0].Secondary != "s" || !errors.Is(subs[0].Err, ErrUnavailable) {
		t.Errorf("substitution = %+v", subs[0])
	}

	// Without a trace in the context the fallback still answers.
	if _, err := f.Query(context.Background(), 0, Sun); err != nil {
		t.Errorf("untraced query: %v", err)
	}
	if n := len(trace.Substitutions()); n != 1 {
		t.Errorf("trace grew to %d outside its context", n)
	}
}

func TestAutoModeCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	p, err := New(Config{Mode: ModeAuto, HorizonsURL: srv.URL, Timeout: 10 * time.Second})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	tctx, trace := WithFallbackTrace(ctx)

	pos, err := p.Query(tctx, 2451545.0, Mars)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, pos = %+v; want the deadline to surface", err, pos)
	}
	if subs := trace.Substitutions(); len(subs) != 0 {
		t.Errorf("substitutions after cancellation: %+v", subs)
	}
}

func TestAutoModeFallsBackWhenHorizonsFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := New(Config{Mode: ModeAuto, HorizonsURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}

	ctx, trace := WithFallbackTrace(context.Background())
	pos, err := p.Query(ctx, 2451545.0, Mars)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want, _ := NewKeplerProvider().Query(context.Background(), 2451545.0, Mars)
	if pos != want {
		t.Errorf("pos = %+v, want Kepler %+v", pos, want)
	}
	if subs := trace.Substitutions(); len(subs) != 1 || subs[0].Body != Mars || subs[0].Secondary != "kepler" {
		t.Errorf("substitutions = %+v", subs)
	}
}
