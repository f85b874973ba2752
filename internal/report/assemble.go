package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexiusacademia/beamreport/internal/diagram"
	"github.com/alexiusacademia/beamreport/internal/loads"
	"github.com/alexiusacademia/beamreport/internal/statics"
)

// Default title page text
const (
	DefaultTitle  = "Engineering Report: Beam Analysis"
	DefaultAuthor = "Generated with beamreport"
)

// Input is everything the assembler places in the report
type Input struct {
	Title  string
	Author string
	Date   time.Time

	Source string // input workbook path, shown in the data source section
	Image  string // beam illustration
	Loads  *loads.Table
	Result *statics.Result
}

// Assemble lays out the report blocks in their fixed order
func Assemble(in Input) *Document {
	if in.Title == "" {
		in.Title = DefaultTitle
	}
	if in.Author == "" {
		in.Author = DefaultAuthor
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	doc := &Document{Title: in.Title, Author: in.Author, Date: in.Date}
	add := func(b ...Block) { doc.Blocks = append(doc.Blocks, b...) }

	add(TitlePage{Title: in.Title, Author: in.Author, Date: in.Date}, PageBreak{})
	add(Contents{}, PageBreak{})

	// Introduction
	add(
		Heading{Level: 1, Text: "Introduction"},
		Paragraph{Text: "This report presents an analysis of a simply supported beam subjected to given loading conditions."},
		Heading{Level: 2, Text: "Beam Description"},
		Figure{Path: in.Image, Caption: "Simply Supported Beam", Width: 0.8},
		Heading{Level: 2, Text: "Data Source"},
		Paragraph{Text: dataSourceText(in)},
	)

	// Input data
	add(
		Heading{Level: 1, Text: "Input Data: Force Table"},
		LoadTable(in.Loads),
	)

	// Analysis
	var x, shear, moment []float64
	if in.Result != nil {
		x, shear, moment = in.Result.X, in.Result.Shear, in.Result.Moment
	}
	add(
		PageBreak{},
		Heading{Level: 1, Text: "Analysis"},
		Heading{Level: 2, Text: "Shear Force Diagram"},
		Plot{Name: "shear", Color: "blue", Curve: diagram.ShearCurve(x, shear)},
		Heading{Level: 2, Text: "Bending Moment Diagram"},
		Plot{Name: "moment", Color: "red", Curve: diagram.MomentCurve(x, moment)},
	)

	// Results
	if in.Result != nil {
		add(
			Heading{Level: 1, Text: "Results"},
			Paragraph{Text: fmt.Sprintf("The beam spans %s m between supports at x = 0 and x = %s m and carries %d point load(s) totalling %s kN.",
				formatNumber(in.Result.Length), formatNumber(in.Result.Length), loadCount(in.Loads), formatFixed(totalLoad(in.Loads)))},
			ResultsTable(in.Result),
		)
	}

	// Summary
	add(
		Heading{Level: 1, Text: "Summary"},
		Paragraph{Text: "A Shear Force Diagram (SFD) shows how internal shear force varies along the beam."},
		Paragraph{Text: "A Bending Moment Diagram (BMD) shows how internal bending varies along the beam."},
	)

	return doc
}

// LoadTable lists every input load in its original order
func LoadTable(t *loads.Table) Table {
	tbl := Table{Header: []string{"Position (m)", "Force (kN)"}}
	if t == nil {
		return tbl
	}
	for _, r := range t.Rows {
		tbl.Rows = append(tbl.Rows, []string{formatNumber(r.Position), formatNumber(r.Magnitude)})
	}
	return tbl
}

// ResultsTable lists the reactions and peak internal forces
func ResultsTable(r *statics.Result) Table {
	v := r.MaxShear()
	m := r.MaxMoment()
	return Table{
		Header: []string{"Quantity", "Value"},
		Rows: [][]string{
			{"Reaction at left support, R1", formatFixed(r.R1) + " kN"},
			{"Reaction at right support, R2", formatFixed(r.R2) + " kN"},
			{"Maximum shear force, |V|max", fmt.Sprintf("%s kN at x = %s m", formatFixed(v.Value), formatFixed(v.Position))},
			{"Maximum bending moment, |M|max", fmt.Sprintf("%s kNm at x = %s m", formatFixed(m.Value), formatFixed(m.Position))},
		},
	}
}

func dataSourceText(in Input) string {
	if in.Source == "" {
		return "The loading data was read from the provided Excel file."
	}
	sheet := ""
	if in.Loads != nil && in.Loads.Sheet != "" {
		sheet = fmt.Sprintf(", sheet %s", in.Loads.Sheet)
	}
	return fmt.Sprintf("The loading data was read from the provided Excel file %s%s.", filepath.Base(in.Source), sheet)
}

func loadCount(t *loads.Table) int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func totalLoad(t *loads.Table) float64 {
	if t == nil {
		return 0
	}
	return statics.TotalLoad(t.Loads())
}

// formatNumber prints the shortest representation that reads back exactly
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFixed(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	if s == "-0.000" {
		return "0.000"
	}
	return s
}
