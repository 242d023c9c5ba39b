package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const aliceYAML = `name: Alice
year: 1990
month: 6
day: 15
hour: 14
minute: 30
zone: Asia/Bangkok
latitude: 13.75
longitude: 100.5
`

const bobYAML = `name: Bob
year: 1985
month: 11
day: 2
hour: 6
minute: 15
zone: Europe/London
latitude: 51.5
longitude: -0.12
`

// run executes the command line with an empty config file so the host's
// .ls-natal.yaml and LSNATAL_* variables cannot leak in.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfg, []byte("log_level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

var bangkokFlags = []string{"--date", "1990-06-15", "--time", "14:30", "--zone", "Asia/Bangkok", "--lat", "13.75", "--lon", "100.5"}

func TestChartCommand_Text(t *testing.T) {
	out, err := run(t, append([]string{"chart"}, bangkokFlags...)...)
	if err != nil {
		t.Fatalf("chart: %v\n%s", err, out)
	}
	for _, want := range []string{"Sun", "Gemini", "Ascendant", "House"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// Not a terminal: no ANSI escapes.
	if strings.Contains(out, "\x1b[") {
		t.Error("plain output contains escape sequences")
	}
}

func TestChartCommand_JSONFromFile(t *testing.T) {
	path := writeFile(t, "alice.yaml", aliceYAML)
	out, err := run(t, "--format", "json", "chart", "--file", path, "--system", "koch")
	if err != nil {
		t.Fatalf("chart: %v\n%s", err, out)
	}

	var got struct {
		Subject struct {
			Name string `json:"name"`
		} `json:"subject"`
		HouseSystem string            `json:"house_system"`
		Placements  []json.RawMessage `json:"placements"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Subject.Name != "Alice" || got.HouseSystem != "Koch" || len(got.Placements) != 12 {
		t.Errorf("chart = %+v", got)
	}
}

func TestChartCommand_Stars(t *testing.T) {
	out, err := run(t, append([]string{"chart", "--stars", "--star-orb", "10"}, bangkokFlags...)...)
	if err != nil {
		t.Fatalf("chart: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Fixed Stars") || !strings.Contains(out, "☌") {
		t.Errorf("output missing fixed-star section:\n%s", out)
	}

	out, err = run(t, append([]string{"--format", "json", "chart", "--stars", "--star-orb", "10"}, bangkokFlags...)...)
	if err != nil {
		t.Fatalf("chart: %v\n%s", err, out)
	}
	var got struct {
		FixedStars []struct {
			Star string  `json:"star"`
			Orb  float64 `json:"orb"`
		} `json:"fixed_stars"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got.FixedStars) == 0 {
		t.Error("no fixed-star contacts within 10°")
	}
}

func TestChartCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no birth data", []string{"chart"}, "--date or --file"},
		{"bad date", []string{"chart", "--date", "15/06/1990"}, "YYYY-MM-DD"},
		{"impossible date", []string{"chart", "--date", "1990-02-30"}, "invalid"},
		{"bad format", []string{"--format", "xml", "chart", "--date", "1990-06-15"}, "unknown format"},
		{"bad system", []string{"chart", "--date", "1990-06-15", "--system", "Z"}, "unknown house system"},
		{"unknown yaml field", []string{"chart", "--file", "BAD"}, "field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if args[len(args)-1] == "BAD" {
				args[len(args)-1] = writeFile(t, "bad.yaml", aliceYAML+"planet: Vulcan\n")
			}
			out, err := run(t, args...)
			if err == nil {
				t.Fatalf("expected error, got output:\n%s", out)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestTransitsCommand(t *testing.T) {
	path := writeFile(t, "alice.yaml", aliceYAML)
	out, err := run(t, "--format", "json", "transits", "--file", path, "--at", "2024-06-15 12:00", "--transit-zone", "UTC")
	if err != nil {
		t.Fatalf("transits: %v\n%s", err, out)
	}

	var got struct {
		JD         float64           `json:"jd"`
		Zone       string            `json:"zone"`
		Placements []json.RawMessage `json:"placements"`
		Aspects    []json.RawMessage `json:"aspects"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.JD != 2460477.0 {
		t.Errorf("jd = %v, want 2460477.0", got.JD)
	}
	if got.Zone != "UTC" || len(got.Placements) != 12 || len(got.Aspects) == 0 {
		t.Errorf("transits = zone %q, %d placements, %d aspects", got.Zone, len(got.Placements), len(got.Aspects))
	}
}

func TestTransitsCommand_Zone(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"transit zone flag", []string{"--transit-zone", "Europe/London"}, "Europe/London"},
		{"zone without natal data", []string{"--zone", "Europe/London"}, "Europe/London"},
		{"transit zone wins", []string{"--zone", "Asia/Bangkok", "--transit-zone", "Europe/London"}, "Europe/London"},
		{"default zone", nil, "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--format", "json", "transits", "--at", "2024-06-15 12:00"}, tt.args...)
			out, err := run(t, args...)
			if err != nil {
				t.Fatalf("transits: %v\n%s", err, out)
			}
			var got struct {
				Zone string `json:"zone"`
			}
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON: %v\n%s", err, out)
			}
			if got.Zone != tt.want {
				t.Errorf("zone = %q, want %q", got.Zone, tt.want)
			}
		})
	}

	// With natal data --zone belongs to the birth place.
	path := writeFile(t, "alice.yaml", aliceYAML)
	out, err := run(t, "--format", "json", "transits", "--file", path, "--zone", "Asia/Bangkok", "--at", "2024-06-15 12:00")
	if err != nil {
		t.Fatalf("transits: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"zone": "UTC"`) {
		t.Errorf("natal --zone leaked into the transit zone:\n%s", out)
	}
}

func TestSynastryCommand(t *testing.T) {
	a := writeFile(t, "alice.yaml", aliceYAML)
	b := writeFile(t, "bob.yaml", bobYAML)

	out, err := run(t, "synastry", a, b)
	if err != nil {
		t.Fatalf("synastry: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Synastry: Alice / Bob") {
		t.Errorf("missing title:\n%s", out)
	}

	if _, err := run(t, "synastry", a); err == nil {
		t.Error("synastry with one file should fail")
	}
}

func TestFortuneCommands(t *testing.T) {
	path := writeFile(t, "alice.yaml", aliceYAML)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"fortune", "reading", "--file", path}, "Gemini"},
		{[]string{"fortune", "monthly", "--file", path, "--year", "2024", "--month", "5"}, "May 2024"},
		{[]string{"fortune", "yearly", "--file", path, "--year", "2025"}, "2025"},
		{[]string{"fortune", "daily", "--file", path}, "Lucky"},
	}

	for _, tt := range tests {
		t.Run(tt.args[1], func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("%v: %v\n%s", tt.args, err, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}

	if _, err := run(t, "fortune", "monthly", "--file", path, "--month", "13"); err == nil {
		t.Error("month 13 should fail")
	}
}

func TestHousesCommand(t *testing.T) {
	out, err := run(t, append([]string{"houses", "--all"}, bangkokFlags...)...)
	if err != nil {
		t.Fatalf("houses: %v\n%s", err, out)
	}
	for _, want := range []string{"Houses (Placidus)", "Houses (Koch)", "Houses (Whole Sign)", "RAMC"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	polar := []string{"houses", "--date", "1990-06-15", "--zone", "UTC", "--lat", "80", "--lon", "0"}
	out, err = run(t, polar...)
	if err != nil {
		t.Fatalf("houses at 80N: %v", err)
	}
	if !strings.Contains(out, "Equal houses used") {
		t.Errorf("missing fallback note:\n%s", out)
	}
}

func TestEphemDump(t *testing.T) {
	out, err := run(t, "ephem", "dump", "--body", "sun", "--start", "2000-01-01", "--end", "2000-01-03")
	if err != nil {
		t.Fatalf("ephem dump: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), out)
	}
	if lines[0] != "jd,longitude,latitude,distance,speed" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2451544.50000000,") {
		t.Errorf("first row = %q", lines[1])
	}

	dir := t.TempDir()
	if _, err := run(t, "ephem", "dump", "--body", "moon,north node", "--start", "2000-01-01", "--end", "2000-01-02", "--out", dir); err != nil {
		t.Fatalf("ephem dump --out: %v", err)
	}
	for _, name := range []string{"moon.csv", "north_node.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "ls-natal ") {
		t.Errorf("version output = %q", out)
	}
}
