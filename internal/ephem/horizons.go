package ephem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-natal/internal/astro"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// RequestTimeout is the default HTTP request timeout.
	RequestTimeout = 30 * time.Second
)

// HorizonsProvider queries JPL Horizons for apparent geocentric ecliptic
// positions of date (observer quantities 20 and 31).
type HorizonsProvider struct {
	client  *http.Client
	baseURL string

	mu    sync.RWMutex
	cache map[queryKey]Position
}

type queryKey struct {
	body Body
	jd   float64
}

// HorizonsOption configures a HorizonsProvider.
type HorizonsOption func(*HorizonsProvider)

// WithBaseURL points the provider at another endpoint.
func WithBaseURL(u string) HorizonsOption {
	return func(p *HorizonsProvider) {
		if u != "" {
			p.baseURL = u
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) HorizonsOption {
	return func(p *HorizonsProvider) {
		p.client = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HorizonsOption {
	return func(p *HorizonsProvider) {
		if d > 0 {
			p.client.Timeout = d
		}
	}
}

// NewHorizonsProvider creates a new Horizons API client.
func NewHorizonsProvider(opts ...HorizonsOption) *HorizonsProvider {
	p := &HorizonsProvider{
		client: &http.Client{
			Timeout: RequestTimeout,
		},
		baseURL: HorizonsAPIURL,
		cache:   make(map[queryKey]Position),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Provider.
func (p *HorizonsProvider) Name() string {
	return "horizons"
}

// Available implements Provider. Horizons has no lunar node targets.
func (p *HorizonsProvider) Available(body Body) bool {
	return body.Info().HorizCmd != ""
}

// Query implements Provider.
func (p *HorizonsProvider) Query(ctx context.Context, jd float64, body Body) (Position, error) {
	if !p.Available(body) {
		return Position{}, fmt.Errorf("%w: horizons has no target for %s", ErrUnavailable, body)
	}

	key := queryKey{body: body, jd: jd}
	p.mu.RLock()
	cached, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	rows, err := p.queryHorizons(ctx, body, jd)
	if err != nil {
		return Position{}, err
	}
	pos, err := positionFromRows(rows, jd)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %s: %v", ErrUnavailable, body, err)
	}

	p.mu.Lock()
	p.cache[key] = pos
	p.mu.Unlock()

	return pos, nil
}

// InvalidateCache drops all cached positions.
func (p *HorizonsProvider) InvalidateCache() {
	p.mu.Lock()
	p.cache = make(map[queryKey]Position)
	p.mu.Unlock()
}

// queryHorizons requests three rows centered on jd, one speedStep apart.
func (p *HorizonsProvider) queryHorizons(ctx context.Context, body Body, jd float64) ([]observerRow, error) {
	// Build request parameters - values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%s'", body.Info().HorizCmd))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "OBSERVER")
	params.Set("CENTER", "'500@399'") // geocenter
	params.Set("TIME_TYPE", "UT")
	params.Set("START_TIME", fmt.Sprintf("'JD%.6f'", jd-speedStep))
	params.Set("STOP_TIME", fmt.Sprintf("'JD%.6f'", jd+speedStep))
	params.Set("STEP_SIZE", "'2'") // two intervals, three rows
	params.Set("QUANTITIES", "'20,31'")
	params.Set("CAL_FORMAT", "JD")
	params.Set("ANG_FORMAT", "DEG")
	params.Set("CSV_FORMAT", "YES")

	reqURL := p.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: horizons request: %w", ErrUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: horizons request failed: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: horizons returned status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrUnavailable, err)
	}

	rows, err := parseHorizonsResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rows, nil
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// observerRow is one parsed line of the observer table.
type observerRow struct {
	JD       float64
	Delta    float64 // AU
	DeltaDot float64 // km/s
	Lon      float64
	Lat      float64
}

// parseHorizonsResponse parses the Horizons JSON response.
func parseHorizonsResponse(body []byte) ([]observerRow, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("horizons error: %s", strings.TrimSpace(resp.Error))
	}

	// The actual ephemeris data is in resp.Result as a text blob
	return parseObserverTable(resp.Result)
}

// parseObserverTable extracts rows between the $$SOE and $$EOE markers.
func parseObserverTable(result string) ([]observerRow, error) {
	soeIdx := strings.Index(result, "$$SOE")
	eoeIdx := strings.Index(result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return nil, fmt.Errorf("could not find ephemeris data markers")
	}

	var rows []observerRow
	for _, line := range strings.Split(result[soeIdx+5:eoeIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row, err := parseObserverLine(line)
		if err != nil {
			continue // Skip unparseable lines
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("ephemeris table is empty")
	}
	return rows, nil
}

// parseObserverLine parses one CSV row of quantities 20 and 31:
//
//	2451545.000000000, , ,  1.02345, -0.45, 271.2345, 1.2345,
//
// The columns after the JD are solar and lunar presence flags, which are
// often blank, followed by delta, deldot, ObsEcLon and ObsEcLat.
func parseObserverLine(line string) (observerRow, error) {
	var nums []float64
	for _, field := range strings.Split(line, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue // flag column such as "*" or "m"
		}
		nums = append(nums, val)
	}

	if len(nums) < 5 {
		return observerRow{}, fmt.Errorf("insufficient numeric fields: %d", len(nums))
	}

	return observerRow{
		JD:       nums[0],
		Delta:    nums[1],
		DeltaDot: nums[2],
		Lon:      astro.Normalize360(nums[3]),
		Lat:      nums[4],
	}, nil
}

// positionFromRows takes the row nearest jd and derives speed from the
// outermost rows.
func positionFromRows(rows []observerRow, jd float64) (Position, error) {
	if len(rows) == 0 {
		return Position{}, fmt.Errorf("no rows")
	}

	center := rows[0]
	for _, r := range rows[1:] {
		if math.Abs(r.JD-jd) < math.Abs(center.JD-jd) {
			center = r
		}
	}

	pos := Position{
		Longitude: center.Lon,
		Latitude:  center.Lat,
		Distance:  center.Delta,
	}

	first, last := rows[0], rows[len(rows)-1]
	if span := last.JD - first.JD; span > 0 {
		pos.Speed = astro.NormalizeSigned(last.Lon-first.Lon) / span
	}
	return pos, nil
}
