package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/beamreport/internal/config"
	"github.com/alexiusacademia/beamreport/internal/logging"
	"github.com/alexiusacademia/beamreport/internal/version"
)

var (
	// Shared inputs
	configFile string
	input      string
	sheet      string
	samples    int
	logLevel   string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "beamreport",
	Short: "Simply supported beam report generator",
	Long: `beamreport - Shear and Bending Moment Report Generator

A CLI tool that reads point loads on a simply supported beam from an
Excel workbook, computes the support reactions, shear force and bending
moment along the span, and produces a finished engineering report.

The report contains:
  - Title page and table of contents
  - Beam description with illustration
  - Input force table
  - Shear force and bending moment diagrams
  - Support reactions and peak values

Settings are read from an optional YAML file (--config), a .env file,
BEAMREPORT_* environment variables and command-line flags, in
increasing order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		applySharedFlags(cmd)

		logger, err = logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   beamreport v%-44s║\n", version.Version)
		fmt.Println("  ║   Shear and Bending Moment Report Generator               ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Reads point loads from an Excel workbook and reports the")
		fmt.Println("  reactions, shear force and bending moment of a simply")
		fmt.Println("  supported beam.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Support reactions by static equilibrium")
		fmt.Println("    • Shear force and bending moment diagrams")
		fmt.Println("    • PDF report, or LaTeX source compiled with pdflatex")
		fmt.Println("    • Starter input workbook")
		fmt.Println()
		fmt.Println("  Use 'beamreport --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML configuration file")
	flags.StringVarP(&input, "input", "i", "", "Input workbook (.xlsx) (default \"Book1.xlsx\")")
	flags.StringVar(&sheet, "sheet", "", "Worksheet name (default: first sheet)")
	flags.IntVarP(&samples, "samples", "n", 0, "Number of stations along the span (default 400)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default \"info\")")
}

// applySharedFlags overrides the loaded configuration with flags set on
// the command line
func applySharedFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = input
	}
	if flags.Changed("sheet") {
		cfg.Sheet = sheet
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
}
