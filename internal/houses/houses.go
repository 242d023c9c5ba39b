package houses

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/logging"
)

// ErrDegenerate is returned when a system has no valid cusps at the
// requested place, typically inside the polar circles.
var ErrDegenerate = errors.New("house system degenerate")

const (
	placidusMaxIter   = 100
	placidusTolerance = 1e-7
)

// Result holds the twelve cusps and the angles of one computation.
type Result struct {
	System    System      // system the cusps were computed with
	Requested System      // system the caller asked for
	Fallback  bool        // Requested was degenerate; System is Equal
	Cusps     [12]float64 // Cusps[0] is house 1
	Ascendant float64
	Midheaven float64
	RAMC      float64
	Obliquity float64
}

// Cusp returns the longitude of house n (1-12).
func (r Result) Cusp(n int) float64 {
	return r.Cusps[(n-1+12)%12]
}

// Descendant returns the point opposite the Ascendant.
func (r Result) Descendant() float64 {
	return astro.Normalize360(r.Ascendant + 180)
}

// ImumCoeli returns the point opposite the Midheaven.
func (r Result) ImumCoeli() float64 {
	return astro.Normalize360(r.Midheaven + 180)
}

// House returns the house containing an ecliptic longitude.
func (r Result) House(lon float64) int {
	return Lookup(lon, r.Cusps)
}

// Calculator computes house cusps. It is stateless and safe for
// concurrent use.
type Calculator struct {
	policy Policy
	log    *logging.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithPolicy sets the degenerate-case policy.
func WithPolicy(p Policy) Option {
	return func(c *Calculator) {
		c.policy = p
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *logging.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCalculator creates a Calculator with the FallbackEqual policy unless
// configured otherwise.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		policy: FallbackEqual,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the configured degenerate-case policy.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Houses computes cusps; it is Compute under the name used by ephemeris
// house sources.
func (c *Calculator) Houses(jd, lat, lon float64, sys System) (Result, error) {
	return c.Compute(jd, lat, lon, sys)
}

// Compute returns the cusps and angles for Julian Day jd (UT) at the given
// geographic latitude and east longitude.
func (c *Calculator) Compute(jd, lat, lon float64, sys System) (Result, error) {
	if !sys.Valid() {
		return Result{}, fmt.Errorf("unknown house system %v", sys)
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Result{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Result{}, fmt.Errorf("longitude %v out of range", lon)
	}

	ramc := astro.LocalSiderealTime(jd, lon)
	eps := astro.MeanObliquity(jd)

	res := Result{
		System:    sys,
		Requested: sys,
		RAMC:      ramc,
		Obliquity: eps,
		Midheaven: astro.Midheaven(ramc, eps),
		Ascendant: astro.Ascendant(ramc, lat, eps),
	}

	cusps, err := cuspsFor(sys, ramc, lat, eps, res.Ascendant, res.Midheaven)
	if err == nil {
		err = Validate(cusps)
	}
	if err == nil {
		res.Cusps = cusps
		return res, nil
	}

	if c.policy == FailDegenerate {
		return Result{}, fmt.Errorf("%v at latitude %.4f: %w", sys, lat, err)
	}

	c.log.Warn("%v houses degenerate at latitude %.4f (%v), using Equal", sys, lat, err)
	res.System = Equal
	res.Fallback = true
	res.Cusps = equalCusps(res.Ascendant)
	return res, nil
}

// cuspsFor dispatches to the system's cusp construction.
func cuspsFor(sys System, ramc, lat, eps, asc, mc float64) ([12]float64, error) {
	switch sys {
	case Equal:
		return equalCusps(asc), nil
	case WholeSign:
		return wholeSignCusps(asc), nil
	case Porphyry:
		return porphyryCusps(asc, mc), nil
	}

	if sys == Placidus || sys == Koch {
		if math.Abs(lat) >= 90-eps {
			return [12]float64{}, fmt.Errorf("%w: inside the polar circle", ErrDegenerate)
		}
	}

	var c11, c12, c2, c3 float64
	switch sys {
	case Placidus:
		var err error
		if c11, err = placidusCusp(ramc, lat, eps, 11); err != nil {
			return [12]float64{}, err
		}
		if c12, err = placidusCusp(ramc, lat, eps, 12); err != nil {
			return [12]float64{}, err
		}
		if c2, err = placidusCusp(ramc, lat, eps, 2); err != nil {
			return [12]float64{}, err
		}
		if c3, err = placidusCusp(ramc, lat, eps, 3); err != nil {
			return [12]float64{}, err
		}
	case Koch:
		c11, c12, c2, c3 = kochCusps(ramc, lat, eps, mc)
	case Regiomontanus:
		c11, c12, c2, c3 = regiomontanusCusps(ramc, lat, eps)
	case Campanus:
		c11, c12, c2, c3 = campanusCusps(ramc, lat, eps)
	}

	return quadrantRing(asc, mc, c11, c12, c2, c3), nil
}

// quadrantRing fills the twelve cusps from the angles and the four
// intermediate cusps of the eastern half; the rest are their opposites.
func quadrantRing(asc, mc, c11, c12, c2, c3 float64) [12]float64 {
	var c [12]float64
	c[0] = asc
	c[1] = c2
	c[2] = c3
	c[9] = mc
	c[10] = c11
	c[11] = c12
	for i := 0; i < 3; i++ {
		c[i+3] = c[i+9] + 180 // 4, 5, 6 oppose 10, 11, 12
		c[i+6] = c[i] + 180   // 7, 8, 9 oppose 1, 2, 3
	}
	for i := range c {
		c[i] = astro.Normalize360(c[i])
	}
	return c
}

func equalCusps(asc float64) [12]float64 {
	var c [12]float64
	for i := range c {
		c[i] = astro.Normalize360(asc + 30*float64(i))
	}
	return c
}

func wholeSignCusps(asc float64) [12]float64 {
	start := math.Floor(astro.Normalize360(asc)/30) * 30
	var c [12]float64
	for i := range c {
		c[i] = astro.Normalize360(start + 30*float64(i))
	}
	return c
}

func porphyryCusps(asc, mc float64) [12]float64 {
	upper := astro.ForwardArc(mc, asc)
	lower := astro.ForwardArc(asc, mc+180)
	return quadrantRing(asc, mc,
		mc+upper/3, mc+2*upper/3,
		asc+lower/3, asc+2*lower/3)
}

// placidusCusp finds house cusp 11, 12, 2 or 3 by iterating on the
// semi-arc of the cusp's own declination.
func placidusCusp(ramc, lat, eps float64, house int) (float64, error) {
	var offset float64
	switch house {
	case 11:
		offset = 30
	case 12:
		offset = 60
	case 2:
		offset = 120
	case 3:
		offset = 150
	}
	lon := astro.RightAscensionToLongitude(ramc+offset, eps)
	tanLat := math.Tan(astro.DegToRad(lat))

	for i := 0; i < placidusMaxIter; i++ {
		decl := astro.DeclinationOfLongitude(lon, eps)
		x := tanLat * math.Tan(astro.DegToRad(decl))
		if math.Abs(x) > 1 {
			return 0, fmt.Errorf("%w: cusp %d does not rise", ErrDegenerate, house)
		}
		ad := astro.RadToDeg(math.Asin(x))
		dsa := 90 + ad
		nsa := 180 - dsa

		var ra float64
		switch house {
		case 11:
			ra = ramc + dsa/3
		case 12:
			ra = ramc + 2*dsa/3
		case 2:
			ra = ramc + 180 - 2*nsa/3
		case 3:
			ra = ramc + 180 - nsa/3
		}

		next := astro.RightAscensionToLongitude(ra, eps)
		if astro.Separation(next, lon) < placidusTolerance {
			return next, nil
		}
		lon = next
	}
	return 0, fmt.Errorf("%w: cusp %d did not converge", ErrDegenerate, house)
}

// ascAt is the ascendant for a point whose right ascension of the east
// point is x, at pole height f.
func ascAt(x, f, eps float64) float64 {
	return astro.Ascendant(x-90, f, eps)
}

func kochCusps(ramc, lat, eps, mc float64) (c11, c12, c2, c3 float64) {
	sina := math.Sin(astro.DegToRad(mc)) * math.Sin(astro.DegToRad(eps)) / math.Cos(astro.DegToRad(lat))
	sina = math.Max(-1, math.Min(1, sina))
	cosa := math.Sqrt(1 - sina*sina)
	c := astro.RadToDeg(math.Atan(math.Tan(astro.DegToRad(lat)) / cosa))
	ad3 := astro.RadToDeg(math.Asin(math.Sin(astro.DegToRad(c))*sina)) / 3

	c11 = ascAt(ramc+30-2*ad3, lat, eps)
	c12 = ascAt(ramc+60-ad3, lat, eps)
	c2 = ascAt(ramc+120+ad3, lat, eps)
	c3 = ascAt(ramc+150+2*ad3, lat, eps)
	return
}

func regiomontanusCusps(ramc, lat, eps float64) (c11, c12, c2, c3 float64) {
	tanLat := math.Tan(astro.DegToRad(lat))
	fh1 := astro.RadToDeg(math.Atan(tanLat * 0.5))
	fh2 := astro.RadToDeg(math.Atan(tanLat * math.Cos(astro.DegToRad(30))))

	c11 = ascAt(ramc+30, fh1, eps)
	c12 = ascAt(ramc+60, fh2, eps)
	c2 = ascAt(ramc+120, fh2, eps)
	c3 = ascAt(ramc+150, fh1, eps)
	return
}

func campanusCusps(ramc, lat, eps float64) (c11, c12, c2, c3 float64) {
	sinLat := math.Sin(astro.DegToRad(lat))
	cosLat := math.Cos(astro.DegToRad(lat))
	fh1 := astro.RadToDeg(math.Asin(sinLat / 2))
	fh2 := astro.RadToDeg(math.Asin(math.Sqrt(3) / 2 * sinLat))
	xh1 := astro.RadToDeg(math.Atan(math.Sqrt(3) / cosLat))
	xh2 := astro.RadToDeg(math.Atan(1 / math.Sqrt(3) / cosLat))

	c11 = ascAt(ramc+90-xh1, fh1, eps)
	c12 = ascAt(ramc+90-xh2, fh2, eps)
	c2 = ascAt(ramc+90+xh2, fh2, eps)
	c3 = ascAt(ramc+90+xh1, fh1, eps)
	return
}

// Validate checks that cusps form a monotonic ring: each cusp follows the
// previous one counter-clockwise by less than 180°, and the steps add up
// to exactly one turn.
func Validate(cusps [12]float64) error {
	total := 0.0
	for i := range cusps {
		a, b := cusps[i], cusps[(i+1)%12]
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("%w: cusp %d is not finite", ErrDegenerate, i+1)
		}
		step := astro.ForwardArc(a, b)
		if step <= 0 || step >= 180 {
			return fmt.Errorf("%w: cusp %d to %d spans %.4f°", ErrDegenerate, i+1, (i+1)%12+1, step)
		}
		total += step
	}
	if math.Abs(total-360) > 1e-6 {
		return fmt.Errorf("%w: cusps wind %.4f°", ErrDegenerate, total)
	}
	return nil
}

// Lookup returns the house (1-12) containing lon. Houses are half-open:
// a longitude exactly on a cusp belongs to the house that cusp opens.
// After sorting the cusps ascending, a longitude below the smallest or at
// or above the largest belongs to the house of the largest cusp, which is
// the house spanning 0° Aries.
func Lookup(lon float64, cusps [12]float64) int {
	lon = astro.Normalize360(lon)

	order := make([]int, 12)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cusps[order[a]] < cusps[order[b]]
	})

	house := order[11]
	for _, i := range order {
		if cusps[i] > lon {
			break
		}
		house = i
	}
	return house + 1
}
