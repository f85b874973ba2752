package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexiusacademia/beamreport/internal/config"
	"github.com/alexiusacademia/beamreport/internal/loads"
	"github.com/alexiusacademia/beamreport/internal/report"
	"github.com/alexiusacademia/beamreport/internal/statics"
)

// Analysis is the ingested load table and its statics result
type Analysis struct {
	Table  *loads.Table
	Result *statics.Result
}

// Analyze reads the workbook named in cfg and evaluates the beam
func Analyze(cfg *config.Config, log *zap.Logger) (*Analysis, error) {
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("Reading load table", zap.String("input", cfg.Input), zap.String("sheet", cfg.Sheet))
	table, err := loads.ReadFile(cfg.Input, cfg.LoadOptions())
	if err != nil {
		return nil, err
	}
	log.Info("Load table read", zap.String("sheet", table.Sheet), zap.Int("rows", len(table.Rows)))

	length := table.Length()
	res, err := statics.Compute(length, table.Loads(), cfg.Samples)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", cfg.Input, err)
	}
	log.Info("Beam evaluated",
		zap.Float64("length", res.Length),
		zap.Float64("r1", res.R1),
		zap.Float64("r2", res.R2),
		zap.Int("samples", len(res.X)))

	return &Analysis{Table: table, Result: res}, nil
}

// NewRenderer returns the backend for the configured output format
func NewRenderer(cfg *config.Config, log *zap.Logger) (report.Renderer, error) {
	switch cfg.Format {
	case config.FormatPDF:
		return &report.PDFRenderer{WorkDir: cfg.WorkDir, Logger: log}, nil
	case config.FormatLaTeX:
		return &report.LaTeXRenderer{Compiler: cfg.Compiler, Logger: log}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", cfg.Format)
	}
}

// Generate runs the whole pipeline and writes the report to cfg.Output
func Generate(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Analysis, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a, err := Analyze(cfg, log)
	if err != nil {
		return nil, err
	}

	doc := report.Assemble(report.Input{
		Title:  cfg.Title,
		Author: cfg.Author,
		Date:   time.Now(),
		Source: cfg.Input,
		Image:  cfg.Image,
		Loads:  a.Table,
		Result: a.Result,
	})
	log.Debug("Report assembled", zap.Int("blocks", len(doc.Blocks)))

	r, err := NewRenderer(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := r.Render(ctx, doc, cfg.Output); err != nil {
		return nil, fmt.Errorf("render %s: %w", cfg.Output, err)
	}
	return a, nil
}
