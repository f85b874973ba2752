package loads

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/beamreport/internal/statics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeSheet saves a single-sheet workbook with the given rows
func writeSheet(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if sheet != "" {
		require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	} else {
		sheet = f.GetSheetName(0)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "loads.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadFile_Basic(t *testing.T) {
	path := writeSheet(t, "", [][]interface{}{
		{"Position", "Force"},
		{0, 0},
		{2.5, 10},
		{5, 12.5},
		{2.5, 4},
	})

	table, err := ReadFile(path, Options{})
	require.NoError(t, err)

	want := []statics.Load{{Position: 0, Magnitude: 0}, {Position: 2.5, Magnitude: 10}, {Position: 5, Magnitude: 12.5}, {Position: 2.5, Magnitude: 4}}
	assert.Equal(t, want, table.Loads())
	assert.Equal(t, 5.0, table.Length())
	assert.Equal(t, 2, table.Rows[0].Line)
	assert.Equal(t, 5, table.Rows[3].Line)
}

func TestReadFile_HeaderMatching(t *testing.T) {
	path := writeSheet(t, "", [][]interface{}{
		{"Load ID", " force (kN) ", "POSITION (m)"},
		{"P1", 8, 1.5},
		{"P2", 6, 4},
	})

	table, err := ReadFile(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "POSITION (m)", table.PositionHeader)
	assert.Contains(t, table.ForceHeader, "force (kN)")
	assert.Equal(t, []statics.Load{{Position: 1.5, Magnitude: 8}, {Position: 4, Magnitude: 6}}, table.Loads())
}

func TestReadFile_IgnoresNumberFormats(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Position", "Force"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{2.5, 1500}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{7.25, 2250.75}))

	integer, err := f.NewStyle(&excelize.Style{NumFmt: 1})
	require.NoError(t, err)
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "A3", integer))
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B3", thousands))

	path := filepath.Join(t.TempDir(), "formatted.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []statics.Load{{Position: 2.5, Magnitude: 1500}, {Position: 7.25, Magnitude: 2250.75}}, table.Loads())
	assert.Equal(t, 7.25, table.Length())
}

func TestReadFile_CustomColumnsAndSheet(t *testing.T) {
	path := writeSheet(t, "Beam A", [][]interface{}{
		{"x", "P"},
		{3, 7},
	})

	table, err := ReadFile(path, Options{Sheet: "Beam A", PositionColumn: "x", ForceColumn: "P"})
	require.NoError(t, err)
	assert.Equal(t, "Beam A", table.Sheet)
	assert.Equal(t, []statics.Load{{Position: 3, Magnitude: 7}}, table.Loads())
}

func TestReadFile_SkipsBlankRows(t *testing.T) {
	path := writeSheet(t, "", [][]interface{}{
		{"Position", "Force"},
		{1, 2},
		{"", ""},
		{3, 4},
	})

	table, err := ReadFile(path, Options{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 4, table.Rows[1].Line)
}

func TestReadFile_Errors(t *testing.T) {
	t.Run("missing force column", func(t *testing.T) {
		path := writeSheet(t, "", [][]interface{}{
			{"Position", "Weight"},
			{1, 2},
		})
		_, err := ReadFile(path, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingColumn))
		assert.Contains(t, err.Error(), "Force")
	})

	t.Run("missing position column", func(t *testing.T) {
		path := writeSheet(t, "", [][]interface{}{
			{"Force"},
			{2},
		})
		_, err := ReadFile(path, Options{})
		assert.True(t, errors.Is(err, ErrMissingColumn))
	})

	t.Run("non numeric", func(t *testing.T) {
		path := writeSheet(t, "", [][]interface{}{
			{"Position", "Force"},
			{1, "ten"},
		})
		_, err := ReadFile(path, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("missing value", func(t *testing.T) {
		path := writeSheet(t, "", [][]interface{}{
			{"Position", "Force"},
			{1},
		})
		_, err := ReadFile(path, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing value")
	})

	t.Run("empty sheet", func(t *testing.T) {
		path := writeSheet(t, "", nil)
		_, err := ReadFile(path, Options{})
		assert.True(t, errors.Is(err, ErrNoRows))
	})

	t.Run("no file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "missing.xlsx"), Options{})
		assert.Error(t, err)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		path := writeSheet(t, "", [][]interface{}{{"Position", "Force"}})
		_, err := ReadFile(path, Options{Sheet: "Nope"})
		assert.Error(t, err)
	})
}

func TestTable_LengthEmpty(t *testing.T) {
	table := &Table{}
	assert.Zero(t, table.Length())
	assert.Empty(t, table.Loads())
}

func TestWriteTemplate_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "template.xlsx")
	require.NoError(t, WriteTemplate(path, nil))

	table, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Loads", table.Sheet)
	assert.Equal(t, SampleLoads, table.Loads())
	assert.Equal(t, 10.0, table.Length())
}

func TestRead_Stream(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Position", "Force"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{6, 9}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Read(bytes.NewReader(buf.Bytes()), Options{})
	require.NoError(t, err)
	assert.Equal(t, []statics.Load{{Position: 6, Magnitude: 9}}, table.Loads())
}
