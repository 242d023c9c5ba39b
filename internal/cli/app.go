package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/houses"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/report"
	"github.com/litescript/ls-natal/internal/timeconv"
)

// app carries what every command needs once flags and config are read.
type app struct {
	cfgFile string
	format  string

	cfg config.Config
	log *logging.Logger
}

func (a *app) jsonOutput() bool {
	return a.format == "json"
}

// styles colors output only when w is a terminal.
func styles(w io.Writer) report.Styles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return report.DefaultStyles()
	}
	return report.PlainStyles()
}

func (a *app) converter() *timeconv.Converter {
	return timeconv.New(timeconv.WithStrictZones(a.cfg.Time.StrictZones), timeconv.WithLogger(a.log))
}

// provider builds the configured ephemeris source.
func (a *app) provider() (ephem.Provider, error) {
	return ephem.New(a.cfg.ProviderConfig(a.log))
}

// orbs returns the orb tables, from aspects.orbs_file when set.
func (a *app) orbs() (aspect.OrbSet, error) {
	if a.cfg.Aspects.OrbsFile == "" {
		return aspect.DefaultOrbSet(), nil
	}
	return aspect.LoadOrbFile(a.cfg.Aspects.OrbsFile)
}

// engine builds a chart engine from the configuration. extra options are
// applied last.
func (a *app) engine(extra ...chart.Option) (*chart.Engine, error) {
	p, err := a.provider()
	if err != nil {
		return nil, err
	}
	orbs, err := a.orbs()
	if err != nil {
		return nil, err
	}
	return a.engineWith(p, orbs, extra...), nil
}

func (a *app) engineWith(p ephem.Provider, orbs aspect.OrbSet, extra ...chart.Option) *chart.Engine {
	opts := []chart.Option{
		chart.WithLogger(a.log),
		chart.WithConverter(a.converter()),
		chart.WithHouseSource(houses.NewCalculator(houses.WithPolicy(a.cfg.HousePolicy()), houses.WithLogger(a.log))),
		chart.WithHouseSystem(a.cfg.HouseSystem()),
		chart.WithOrbs(orbs),
		chart.WithBestPerPair(a.cfg.Aspects.BestPerPair),
	}
	return chart.NewEngine(p, append(opts, extra...)...)
}

// birthInput collects a birth moment from flags or a YAML file.
type birthInput struct {
	file string
	name string
	date string
	time string
	zone string
	lat  float64
	lon  float64
}

func (b *birthInput) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&b.file, "file", "", "YAML file with the birth data (name, year, month, day, hour, minute, zone, latitude, longitude)")
	f.StringVar(&b.name, "name", "", "name of the person")
	f.StringVar(&b.date, "date", "", "birth date, YYYY-MM-DD")
	f.StringVar(&b.time, "time", "12:00", "birth time, HH:MM (24h)")
	f.StringVar(&b.zone, "zone", "", "IANA time zone of the birth place (default time.default_zone)")
	f.Float64Var(&b.lat, "lat", 0, "latitude in degrees, north positive")
	f.Float64Var(&b.lon, "lon", 0, "longitude in degrees, east positive")
}

func (b *birthInput) given() bool {
	return b.file != "" || b.date != ""
}

func (b *birthInput) moment(defaultZone string) (chart.BirthMoment, error) {
	if b.file != "" {
		return readBirthFile(b.file)
	}
	if b.date == "" {
		return chart.BirthMoment{}, fmt.Errorf("either --date or --file is required")
	}

	m := chart.BirthMoment{
		Name:      b.name,
		Zone:      b.zone,
		Latitude:  b.lat,
		Longitude: b.lon,
	}
	if m.Zone == "" {
		m.Zone = defaultZone
	}
	// Sscanf, not time.Parse: impossible dates reach the engine and are
	// reported as invalid input with the field that failed.
	if _, err := fmt.Sscanf(b.date, "%d-%d-%d", &m.Year, &m.Month, &m.Day); err != nil {
		return chart.BirthMoment{}, fmt.Errorf("--date %q: want YYYY-MM-DD", b.date)
	}
	if _, err := fmt.Sscanf(b.time, "%d:%d", &m.Hour, &m.Minute); err != nil {
		return chart.BirthMoment{}, fmt.Errorf("--time %q: want HH:MM", b.time)
	}
	return m, nil
}

func readBirthFile(path string) (chart.BirthMoment, error) {
	f, err := os.Open(path)
	if err != nil {
		return chart.BirthMoment{}, err
	}
	defer f.Close()

	var m chart.BirthMoment
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return chart.BirthMoment{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// parseMoment reads "YYYY-MM-DD HH:MM".
func parseMoment(s, zone string) (timeconv.Civil, error) {
	c := timeconv.Civil{Zone: zone}
	if _, err := fmt.Sscanf(s, "%d-%d-%d %d:%d", &c.Year, &c.Month, &c.Day, &c.Hour, &c.Minute); err != nil {
		return timeconv.Civil{}, fmt.Errorf("%q: want \"YYYY-MM-DD HH:MM\"", s)
	}
	return c, nil
}
