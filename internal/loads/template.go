package loads

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexiusacademia/beamreport/internal/statics"
	"github.com/xuri/excelize/v2"
)

// SampleLoads is written by WriteTemplate when no loads are given
var SampleLoads = []statics.Load{
	{Position: 0, Magnitude: 0},
	{Position: 2, Magnitude: 10},
	{Position: 5, Magnitude: 15},
	{Position: 8, Magnitude: 10},
	{Position: 10, Magnitude: 0},
}

const templateSheet = "Loads"

// WriteTemplate writes an input workbook with the expected header row
func WriteTemplate(path string, loads []statics.Load) error {
	if len(loads) == 0 {
		loads = SampleLoads
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{DefaultPositionColumn, DefaultForceColumn}
	if err := f.SetSheetRow(templateSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, ld := range loads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{ld.Position, ld.Magnitude}
		if err := f.SetSheetRow(templateSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	// Create directory if needed
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
