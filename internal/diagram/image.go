package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Line colours for each diagram
var (
	ShearColor  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	MomentColor = color.RGBA{R: 220, G: 0, B: 0, A: 255}
)

// Default image size for exported diagrams
const (
	DefaultWidth  = 14 * vg.Centimeter
	DefaultHeight = 6 * vg.Centimeter
)

// Curve describes one diagram to plot over the beam span
type Curve struct {
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Y      []float64
	Color  color.Color
}

// ShearCurve builds the shear-force diagram curve
func ShearCurve(x, shear []float64) Curve {
	return Curve{
		Title:  "Shear Force Diagram",
		XLabel: "Position (m)",
		YLabel: "Shear Force (kN)",
		X:      x,
		Y:      shear,
		Color:  ShearColor,
	}
}

// MomentCurve builds the bending-moment diagram curve
func MomentCurve(x, moment []float64) Curve {
	return Curve{
		Title:  "Bending Moment Diagram",
		XLabel: "Position (m)",
		YLabel: "Bending Moment (kNm)",
		X:      x,
		Y:      moment,
		Color:  MomentColor,
	}
}

// NewPlot builds the gonum plot for a curve
func NewPlot(c Curve) (*plot.Plot, error) {
	if len(c.X) != len(c.Y) {
		return nil, fmt.Errorf("curve %q: %d positions but %d values", c.Title, len(c.X), len(c.Y))
	}
	if len(c.X) == 0 {
		return nil, fmt.Errorf("curve %q: no points", c.Title)
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(c.X))
	for i := range c.X {
		pts[i] = plotter.XY{X: c.X[i], Y: c.Y[i]}
	}

	// Zero reference line along the beam axis
	axis, err := plotter.NewLine(plotter.XYs{
		{X: c.X[0], Y: 0},
		{X: c.X[len(c.X)-1], Y: 0},
	})
	if err != nil {
		return nil, err
	}
	axis.LineStyle.Width = vg.Points(1)
	axis.LineStyle.Color = color.Gray{Y: 96}
	p.Add(axis)

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = c.Color
	if line.LineStyle.Color == nil {
		line.LineStyle.Color = color.Black
	}
	p.Add(line)

	return p, nil
}

// Export saves the curve to an image file. The format follows the file
// extension; an unknown extension is saved as PNG with ".png" appended.
// It returns the path actually written.
func Export(c Curve, filename string) (string, error) {
	p, err := NewPlot(c)
	if err != nil {
		return "", err
	}

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
	default:
		filename += ".png"
	}

	if err := p.Save(DefaultWidth, DefaultHeight, filename); err != nil {
		return "", fmt.Errorf("save %s: %w", c.Title, err)
	}
	return filename, nil
}

// ExportShearDiagram exports the shear-force diagram to an image file
func ExportShearDiagram(x, shear []float64, filename string) (string, error) {
	return Export(ShearCurve(x, shear), filename)
}

// ExportMomentDiagram exports the bending-moment diagram to an image file
func ExportMomentDiagram(x, moment []float64, filename string) (string, error) {
	return Export(MomentCurve(x, moment), filename)
}
