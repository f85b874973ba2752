package loads

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexiusacademia/beamreport/internal/statics"
	"github.com/xuri/excelize/v2"
)

// Default header names expected in the input workbook
const (
	DefaultPositionColumn = "Position"
	DefaultForceColumn    = "Force"
)

var (
	// ErrMissingColumn is returned when a required header is absent
	ErrMissingColumn = errors.New("required column not found")

	// ErrNoRows is returned when the sheet has no header row
	ErrNoRows = errors.New("sheet is empty")
)

// Options selects the sheet and columns to read
type Options struct {
	Sheet          string // empty selects the first sheet
	PositionColumn string
	ForceColumn    string
}

// Row is one load read from the workbook
type Row struct {
	statics.Load
	Line int // 1-based spreadsheet row number
}

// Table is the ordered list of loads read from one sheet
type Table struct {
	Sheet          string
	PositionHeader string
	ForceHeader    string
	Rows           []Row
}

// Loads returns the loads in input order
func (t *Table) Loads() []statics.Load {
	out := make([]statics.Load, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Load
	}
	return out
}

// Length returns the span, taken as the largest load position.
// An empty table has length 0.
func (t *Table) Length() float64 {
	var length float64
	for i, r := range t.Rows {
		if i == 0 || r.Position > length {
			length = r.Position
		}
	}
	return length
}

func (o Options) withDefaults() Options {
	if o.PositionColumn == "" {
		o.PositionColumn = DefaultPositionColumn
	}
	if o.ForceColumn == "" {
		o.ForceColumn = DefaultForceColumn
	}
	return o
}

// ReadFile reads the load table from an .xlsx workbook on disk
func ReadFile(path string, opts Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	return readWorkbook(f, opts)
}

// Read reads the load table from an .xlsx stream
func Read(r io.Reader, opts Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, opts)
}

func readWorkbook(f *excelize.File, opts Options) (*Table, error) {
	opts = opts.withDefaults()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRows, sheet)
	}

	header := rows[0]
	posIdx := findColumn(header, opts.PositionColumn)
	if posIdx < 0 {
		return nil, fmt.Errorf("%w: %q in sheet %q (header: %s)", ErrMissingColumn, opts.PositionColumn, sheet, strings.Join(header, ", "))
	}
	forceIdx := findColumn(header, opts.ForceColumn)
	if forceIdx < 0 {
		return nil, fmt.Errorf("%w: %q in sheet %q (header: %s)", ErrMissingColumn, opts.ForceColumn, sheet, strings.Join(header, ", "))
	}

	t := &Table{
		Sheet:          sheet,
		PositionHeader: header[posIdx],
		ForceHeader:    header[forceIdx],
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		line := i + 1

		pos, err := cellFloat(row, posIdx)
		if err != nil {
			return nil, fmt.Errorf("row %d, column %q: %w", line, t.PositionHeader, err)
		}
		force, err := cellFloat(row, forceIdx)
		if err != nil {
			return nil, fmt.Errorf("row %d, column %q: %w", line, t.ForceHeader, err)
		}

		t.Rows = append(t.Rows, Row{
			Load: statics.Load{Position: pos, Magnitude: force},
			Line: line,
		})
	}

	return t, nil
}

// findColumn matches a header cell by name, ignoring case, surrounding
// whitespace and a trailing unit such as "Position (m)".
func findColumn(header []string, name string) int {
	want := normalizeHeader(name)
	for i, h := range header {
		if normalizeHeader(h) == want {
			return i
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "(["); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.ToLower(s)
}

func cellFloat(row []string, idx int) (float64, error) {
	if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
		return 0, errors.New("missing value")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", row[idx])
	}
	return v, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
