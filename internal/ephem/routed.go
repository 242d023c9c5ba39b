package ephem

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/litescript/ls-natal/internal/logging"
)

// Routed sends each body to the first provider that has it. A typical
// route is Horizons for the planets with Kepler for the lunar node.
type Routed struct {
	providers []Provider
}

// NewRouted creates a router over providers in priority order.
func NewRouted(providers ...Provider) *Routed {
	return &Routed{providers: providers}
}

// Name implements Provider.
func (r *Routed) Name() string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

// Available implements Provider.
func (r *Routed) Available(body Body) bool {
	return r.route(body) != nil
}

// Query implements Provider.
func (r *Routed) Query(ctx context.Context, jd float64, body Body) (Position, error) {
	p := r.route(body)
	if p == nil {
		return Position{}, fmt.Errorf("%w: no provider for %s", ErrUnavailable, body)
	}
	return p.Query(ctx, jd, body)
}

func (r *Routed) route(body Body) Provider {
	for _, p := range r.providers {
		if p.Available(body) {
			return p
		}
	}
	return nil
}

// Substitution records a body that the secondary provider of a Fallback
// answered because the primary failed.
type Substitution struct {
	Body      Body
	Primary   string
	Secondary string
	Err       error
}

type traceKey struct{}

// FallbackTrace collects the substitutions made while it is attached to a
// context. It is safe for concurrent use.
type FallbackTrace struct {
	mu   sync.Mutex
	subs []Substitution
}

// WithFallbackTrace returns a context that records Fallback substitutions
// into the returned trace.
func WithFallbackTrace(ctx context.Context) (context.Context, *FallbackTrace) {
	t := &FallbackTrace{}
	return context.WithValue(ctx, traceKey{}, t), t
}

// Substitutions returns the recorded substitutions in query order.
func (t *FallbackTrace) Substitutions() []Substitution {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Substitution(nil), t.subs...)
}

func (t *FallbackTrace) add(s Substitution) {
	t.mu.Lock()
	t.subs = append(t.subs, s)
	t.mu.Unlock()
}

// Fallback queries primary first and, when it fails, secondary.
// Once ctx is done the primary's error is returned as is and the
// fallback is not tried.
type Fallback struct {
	primary   Provider
	secondary Provider
	log       *logging.Logger
}

// NewFallback creates a fallback pair.
func NewFallback(primary, secondary Provider, log *logging.Logger) *Fallback {
	if log == nil {
		log = logging.Discard()
	}
	return &Fallback{primary: primary, secondary: secondary, log: log}
}

// Name implements Provider.
func (f *Fallback) Name() string {
	return f.primary.Name() + "|" + f.secondary.Name()
}

// Available implements Provider.
func (f *Fallback) Available(body Body) bool {
	return f.primary.Available(body) || f.secondary.Available(body)
}

// Query implements Provider.
func (f *Fallback) Query(ctx context.Context, jd float64, body Body) (Position, error) {
	if !f.primary.Available(body) {
		return f.secondary.Query(ctx, jd, body)
	}

	pos, perr := f.primary.Query(ctx, jd, body)
	if perr == nil {
		return pos, nil
	}
	if ctx.Err() != nil {
		return Position{}, perr
	}
	f.log.Warn("%s failed for %s at JD %.4f, using %s: %v", f.primary.Name(), body, jd, f.secondary.Name(), perr)

	pos, err := f.secondary.Query(ctx, jd, body)
	if err != nil {
		return Position{}, err
	}
	if t, ok := ctx.Value(traceKey{}).(*FallbackTrace); ok {
		t.add(Substitution{Body: body, Primary: f.primary.Name(), Secondary: f.secondary.Name(), Err: perr})
	}
	return pos, nil
}
