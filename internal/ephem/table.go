package ephem

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/litescript/ls-natal/internal/astro"
)

// tableHeader is the column layout of an ephemeris table file.
var tableHeader = []string{"jd", "longitude", "latitude", "distance", "speed"}

type tableRow struct {
	jd  float64
	pos Position
}

// TableProvider serves positions interpolated from precomputed CSV files,
// one per body, named "<slug>.csv" (e.g. "mars.csv", "north_node.csv").
// Files are read once at construction.
type TableProvider struct {
	dir    string
	tables map[Body][]tableRow
}

// NewTableProvider loads every body table found in dir. Bodies without a
// file are reported unavailable. It fails if dir holds no tables at all.
func NewTableProvider(dir string) (*TableProvider, error) {
	if dir == "" {
		return nil, fmt.Errorf("table provider: no directory configured")
	}

	p := &TableProvider{
		dir:    dir,
		tables: make(map[Body][]tableRow),
	}

	for _, body := range ChartBodies() {
		path := filepath.Join(dir, body.Slug()+".csv")
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		rows, err := readTable(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		p.tables[body] = rows
	}

	if len(p.tables) == 0 {
		return nil, fmt.Errorf("table provider: no ephemeris tables in %s", dir)
	}
	return p, nil
}

// readTable parses one CSV table. Rows must be in strictly increasing JD
// order.
func readTable(r io.Reader) ([]tableRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(tableHeader)
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	for i, name := range tableHeader {
		if header[i] != name {
			return nil, fmt.Errorf("column %d is %q, want %q", i+1, header[i], name)
		}
	}

	var rows []tableRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var vals [5]float64
		for i, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("line %d: %s: %w", line, tableHeader[i], err)
			}
			vals[i] = v
		}
		if n := len(rows); n > 0 && vals[0] <= rows[n-1].jd {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: jd %.6f not after %.6f", line, vals[0], rows[n-1].jd)
		}

		rows = append(rows, tableRow{
			jd: vals[0],
			pos: Position{
				Longitude: astro.Normalize360(vals[1]),
				Latitude:  vals[2],
				Distance:  vals[3],
				Speed:     vals[4],
			},
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return rows, nil
}

// Name implements Provider.
func (p *TableProvider) Name() string {
	return "table"
}

// Available implements Provider.
func (p *TableProvider) Available(body Body) bool {
	_, ok := p.tables[body]
	return ok
}

// Range returns the first and last JD tabulated for body.
func (p *TableProvider) Range(body Body) (start, end float64, ok bool) {
	rows, ok := p.tables[body]
	if !ok {
		return 0, 0, false
	}
	return rows[0].jd, rows[len(rows)-1].jd, true
}

// Query implements Provider. Values between rows are linearly interpolated;
// longitude is unwrapped across 0°.
func (p *TableProvider) Query(_ context.Context, jd float64, body Body) (Position, error) {
	rows, ok := p.tables[body]
	if !ok {
		return Position{}, fmt.Errorf("%w: no table for %s in %s", ErrUnavailable, body, p.dir)
	}
	if jd < rows[0].jd || jd > rows[len(rows)-1].jd {
		return Position{}, fmt.Errorf("%w: JD %.4f outside table range for %s", ErrUnavailable, jd, body)
	}

	// First row with row.jd >= jd.
	i := sort.Search(len(rows), func(i int) bool { return rows[i].jd >= jd })
	if rows[i].jd == jd {
		return rows[i].pos, nil
	}

	a, b := rows[i-1], rows[i]
	f := (jd - a.jd) / (b.jd - a.jd)
	lerp := func(x, y float64) float64 { return x + (y-x)*f }

	return Position{
		Longitude: astro.Normalize360(a.pos.Longitude + astro.NormalizeSigned(b.pos.Longitude-a.pos.Longitude)*f),
		Latitude:  lerp(a.pos.Latitude, b.pos.Latitude),
		Distance:  lerp(a.pos.Distance, b.pos.Distance),
		Speed:     lerp(a.pos.Speed, b.pos.Speed),
	}, nil
}

// WriteTable samples src for body from start to end (inclusive) every step
// days and writes a table file readable by NewTableProvider.
func WriteTable(ctx context.Context, w io.Writer, src Provider, body Body, start, end, step float64) error {
	if step <= 0 {
		return fmt.Errorf("step must be positive, got %v", step)
	}
	if end < start {
		return fmt.Errorf("end %.4f before start %.4f", end, start)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 8, 64) }

	n := int((end-start)/step + 1e-9)
	for k := 0; k <= n; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		jd := start + float64(k)*step
		pos, err := src.Query(ctx, jd, body)
		if err != nil {
			return fmt.Errorf("%s at JD %.4f: %w", body, jd, err)
		}
		rec := []string{format(jd), format(pos.Longitude), format(pos.Latitude), format(pos.Distance), format(pos.Speed)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
