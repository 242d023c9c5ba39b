package chart

import (
	"context"
	"fmt"
	"math"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/ephem"
)

// Resolver turns provider positions into zodiac placements. Each body is
// resolved independently; nothing is cached between calls.
type Resolver struct {
	provider ephem.Provider
	rec      Recorder
}

// NewResolver creates a resolver over p. rec may be nil.
func NewResolver(p ephem.Provider, rec Recorder) *Resolver {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Resolver{provider: p, rec: rec}
}

// Resolve returns the placement of body at jd. The South Node is never
// queried; it is derived from the North Node.
func (r *Resolver) Resolve(ctx context.Context, jd float64, body ephem.Body) (BodyPlacement, error) {
	if body == ephem.SouthNode {
		north, err := r.Resolve(ctx, jd, ephem.NorthNode)
		if err != nil {
			return BodyPlacement{}, err
		}
		return southNode(north), nil
	}

	pos, err := r.provider.Query(ctx, jd, body)
	if err == nil && !finite(pos) {
		err = fmt.Errorf("%w: non-finite position", ephem.ErrUnavailable)
	}
	r.rec.CountEphemeris(r.provider.Name(), body, err)
	if err != nil {
		return BodyPlacement{}, fmt.Errorf("%v at JD %.5f: %w", body, jd, err)
	}
	return newPlacement(body, pos), nil
}

// ResolveAll resolves every body in order. A failure for any body fails
// the whole call.
func (r *Resolver) ResolveAll(ctx context.Context, jd float64, bodies []ephem.Body) (map[ephem.Body]BodyPlacement, error) {
	out := make(map[ephem.Body]BodyPlacement, len(bodies))
	for _, b := range bodies {
		if b == ephem.SouthNode {
			if north, ok := out[ephem.NorthNode]; ok {
				out[b] = southNode(north)
				continue
			}
		}
		p, err := r.Resolve(ctx, jd, b)
		if err != nil {
			return nil, err
		}
		out[b] = p
	}
	return out, nil
}

func southNode(north BodyPlacement) BodyPlacement {
	return newPlacementRetro(ephem.SouthNode, ephem.Position{
		Longitude: astro.Normalize360(north.Longitude + 180),
		Latitude:  -north.Latitude,
		Distance:  north.Distance,
		Speed:     north.Speed,
	})
}

// newPlacementRetro builds a placement that is always marked retrograde,
// as the lunar nodes are by convention.
func newPlacementRetro(body ephem.Body, pos ephem.Position) BodyPlacement {
	p := newPlacement(body, pos)
	p.Retrograde = true
	return p
}

func finite(p ephem.Position) bool {
	for _, v := range []float64{p.Longitude, p.Latitude, p.Distance, p.Speed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
