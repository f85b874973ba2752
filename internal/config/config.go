package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/beamreport/internal/loads"
	"github.com/alexiusacademia/beamreport/internal/report"
	"github.com/alexiusacademia/beamreport/internal/statics"
)

// EnvPrefix prefixes every environment override, e.g. BEAMREPORT_INPUT
const EnvPrefix = "BEAMREPORT_"

// Output formats
const (
	FormatPDF   = "pdf"
	FormatLaTeX = "latex"
)

// Config holds every setting of a report run
type Config struct {
	// Input workbook
	Input          string `yaml:"input"`
	Sheet          string `yaml:"sheet"`
	PositionColumn string `yaml:"position_column"`
	ForceColumn    string `yaml:"force_column"`

	// Report
	Image   string `yaml:"image"`
	Output  string `yaml:"output"`
	Format  string `yaml:"format"`   // pdf or latex
	Title   string `yaml:"title"`
	Author  string `yaml:"author"`
	WorkDir string `yaml:"work_dir"` // diagram images; temporary when empty

	// Compiler is the pdflatex executable for the latex format;
	// looked up on PATH when empty
	Compiler string `yaml:"compiler"`

	// Analysis
	Samples int `yaml:"samples"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Input:          "Book1.xlsx",
		PositionColumn: loads.DefaultPositionColumn,
		ForceColumn:    loads.DefaultForceColumn,
		Image:          "beam.png",
		Output:         "Engineering_Report.pdf",
		Format:         FormatPDF,
		Title:          report.DefaultTitle,
		Author:         report.DefaultAuthor,
		Samples:        statics.DefaultSamples,
		LogLevel:       "info",
	}
}

// Load builds the configuration from the defaults, the optional YAML
// file at path, a .env file in the working directory and the process
// environment, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional; Load does not override variables already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"INPUT":           &c.Input,
		"SHEET":           &c.Sheet,
		"POSITION_COLUMN": &c.PositionColumn,
		"FORCE_COLUMN":    &c.ForceColumn,
		"IMAGE":           &c.Image,
		"OUTPUT":          &c.Output,
		"FORMAT":          &c.Format,
		"TITLE":           &c.Title,
		"AUTHOR":          &c.Author,
		"WORK_DIR":        &c.WorkDir,
		"COMPILER":        &c.Compiler,
		"LOG_LEVEL":       &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "SAMPLES"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sSAMPLES: invalid integer %q", EnvPrefix, v)
		}
		c.Samples = n
	}
	return nil
}

// Validate checks the settings before a run
func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	switch c.Format {
	case FormatPDF, FormatLaTeX:
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", c.Format, FormatPDF, FormatLaTeX)
	}
	if c.Samples < 2 {
		return fmt.Errorf("samples must be at least 2, got %d", c.Samples)
	}
	if c.Input == "" {
		return errors.New("input workbook is required")
	}
	if c.Output == "" {
		return errors.New("output path is required")
	}
	return nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// LoadOptions returns the ingester options for this configuration
func (c *Config) LoadOptions() loads.Options {
	return loads.Options{
		Sheet:          c.Sheet,
		PositionColumn: c.PositionColumn,
		ForceColumn:    c.ForceColumn,
	}
}
