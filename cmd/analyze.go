package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/beamreport/internal/diagram"
	"github.com/alexiusacademia/beamreport/internal/pipeline"
	"github.com/alexiusacademia/beamreport/internal/statics"
)

var (
	// Display options
	analyzeShowDiagram bool
	analyzeExportDir   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the beam and print the results",
	Long: `Read the load table and print the support reactions, peak shear
force and bending moment without producing a report.

Examples:
  # Results with terminal diagrams
  beamreport analyze -i loads.xlsx

  # Save the diagrams as images
  beamreport analyze -i loads.xlsx --export diagrams/`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeShowDiagram, "diagram", true, "Show ASCII shear and moment diagrams")
	analyzeCmd.Flags().StringVarP(&analyzeExportDir, "export", "e", "", "Export sfd.png and bmd.png to this directory")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := pipeline.Analyze(cfg, logger)
	if err != nil {
		return err
	}
	r := a.Result

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("          SIMPLY SUPPORTED BEAM - POINT LOAD ANALYSIS")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	// Input summary
	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Workbook:\t%s (sheet %s)\n", cfg.Input, a.Table.Sheet)
	fmt.Fprintf(w, "  Span (L):\t%.3f m\n", r.Length)
	fmt.Fprintf(w, "  Stations:\t%d\n", len(r.X))
	w.Flush()
	fmt.Println()

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tRow\tPosition (m)\tForce (kN)\n")
	fmt.Fprintf(w, "  ─\t───\t────────────\t──────────\n")
	for i, row := range a.Table.Rows {
		fmt.Fprintf(w, "  %d\t%d\t%g\t%g\n", i+1, row.Line, row.Position, row.Magnitude)
	}
	w.Flush()
	fmt.Println()

	// Reactions
	fmt.Println("SUPPORT REACTIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Total load (ΣP):\t%.3f kN\n", statics.TotalLoad(a.Table.Loads()))
	fmt.Fprintf(w, "  Left support (R1):\t%.3f kN\n", r.R1)
	fmt.Fprintf(w, "  Right support (R2):\t%.3f kN\n", r.R2)
	w.Flush()
	fmt.Println()

	// Peaks
	v := r.MaxShear()
	m := r.MaxMoment()
	fmt.Print(diagram.DrawSummaryBox("PEAK INTERNAL FORCES", []string{
		fmt.Sprintf("|V|max = %.3f kN at x = %.3f m", v.Value, v.Position),
		fmt.Sprintf("|M|max = %.3f kN-m at x = %.3f m", m.Value, m.Position),
	}))

	if analyzeShowDiagram {
		fmt.Println(diagram.ASCIIPlot(diagram.ShearCurve(r.X, r.Shear)))
		fmt.Println(diagram.ASCIIPlot(diagram.MomentCurve(r.X, r.Moment)))
	}

	if analyzeExportDir != "" {
		sfd, err := diagram.ExportShearDiagram(r.X, r.Shear, filepath.Join(analyzeExportDir, "sfd.png"))
		if err != nil {
			return err
		}
		bmd, err := diagram.ExportMomentDiagram(r.X, r.Moment, filepath.Join(analyzeExportDir, "bmd.png"))
		if err != nil {
			return err
		}
		logger.Info("Diagrams exported", zap.String("shear", sfd), zap.String("moment", bmd))
		fmt.Printf("  Diagrams exported to: %s, %s\n", sfd, bmd)
	}
	fmt.Println()
	return nil
}
