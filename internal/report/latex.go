package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultCompiler is looked up on PATH when no compiler path is configured
const DefaultCompiler = "pdflatex"

var (
	// ErrNoCompiler is returned when a PDF is requested but no LaTeX compiler is available
	ErrNoCompiler = errors.New("latex compiler not found")

	// ErrCompile is returned when the LaTeX compiler exits with an error
	ErrCompile = errors.New("latex compilation failed")
)

// LaTeXRenderer emits LaTeX source with pgfplots diagrams and, unless the
// output is a .tex file, compiles it with an external pdflatex.
type LaTeXRenderer struct {
	Compiler string // path to pdflatex; DefaultCompiler on PATH when empty
	Logger   *zap.Logger
}

// Render writes <output without extension>.tex and compiles it to output
func (r *LaTeXRenderer) Render(ctx context.Context, doc *Document, output string) error {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := checkFigures(doc); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteLaTeX(&buf, doc); err != nil {
		return err
	}

	ext := filepath.Ext(output)
	texPath := strings.TrimSuffix(output, ext) + ".tex"

	compileToPDF := !strings.EqualFold(ext, ".tex")
	var compiler string
	if compileToPDF {
		c, err := r.resolveCompiler()
		if err != nil {
			return err
		}
		compiler = c
	}

	if err := writeAtomic(texPath, func(f *os.File) error {
		_, err := f.Write(buf.Bytes())
		return err
	}); err != nil {
		return err
	}
	log.Info("LaTeX source written", zap.String("path", texPath))

	if !compileToPDF {
		return nil
	}

	// Build in a scratch directory so a failed run leaves no PDF behind
	buildDir, err := os.MkdirTemp(filepath.Dir(output), ".beamreport-latex-*")
	if err != nil {
		return fmt.Errorf("create build directory: %w", err)
	}
	defer os.RemoveAll(buildDir)

	// Two runs so the table of contents picks up section pages
	for run := 1; run <= 2; run++ {
		log.Debug("Running LaTeX compiler", zap.String("compiler", compiler), zap.Int("run", run))
		if err := compile(ctx, compiler, texPath, buildDir); err != nil {
			return err
		}
	}

	built := filepath.Join(buildDir, strings.TrimSuffix(filepath.Base(texPath), ".tex")+".pdf")
	if _, err := os.Stat(built); err != nil {
		return fmt.Errorf("%w: %s: no PDF produced", ErrCompile, filepath.Base(texPath))
	}
	if err := os.Rename(built, output); err != nil {
		return fmt.Errorf("move PDF into place: %w", err)
	}

	log.Info("PDF written", zap.String("path", output))
	return nil
}

func (r *LaTeXRenderer) resolveCompiler() (string, error) {
	name := r.Compiler
	if name == "" {
		name = DefaultCompiler
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNoCompiler, name, err)
	}
	return path, nil
}

func compile(ctx context.Context, compiler, texPath, outDir string) error {
	cmd := exec.CommandContext(ctx, compiler,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", outDir,
		texPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s: %v\n%s", ErrCompile, filepath.Base(texPath), err, tail(out, 20))
	}
	return nil
}

// tail returns the last n lines of compiler output
func tail(out []byte, n int) string {
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// WriteLaTeX emits the document as a LaTeX report
func WriteLaTeX(w io.Writer, doc *Document) error {
	var sb strings.Builder

	sb.WriteString("\\documentclass{report}\n")
	sb.WriteString("\\usepackage[T1]{fontenc}\n")
	sb.WriteString("\\usepackage[utf8]{inputenc}\n")
	sb.WriteString("\\usepackage{lmodern}\n")
	sb.WriteString("\\usepackage{graphicx}\n")
	sb.WriteString("\\usepackage{pgfplots}\n")
	sb.WriteString("\\pgfplotsset{compat=1.17}\n")
	fmt.Fprintf(&sb, "\\title{%s}\n", EscapeLaTeX(doc.Title))
	fmt.Fprintf(&sb, "\\author{%s}\n", EscapeLaTeX(doc.Author))
	sb.WriteString("\\date{\\today}\n")
	sb.WriteString("\\begin{document}\n")

	for _, b := range doc.Blocks {
		if err := writeLaTeXBlock(&sb, b); err != nil {
			return err
		}
	}

	sb.WriteString("\\end{document}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeLaTeXBlock(sb *strings.Builder, b Block) error {
	switch blk := b.(type) {
	case TitlePage:
		sb.WriteString("\\maketitle\n")

	case PageBreak:
		sb.WriteString("\\newpage\n")

	case Contents:
		sb.WriteString("\\tableofcontents\n")

	case Heading:
		cmd := "section"
		if blk.Level > 1 {
			cmd = "subsection"
		}
		fmt.Fprintf(sb, "\\%s{%s}\n", cmd, EscapeLaTeX(blk.Text))

	case Paragraph:
		fmt.Fprintf(sb, "%s\n\n", EscapeLaTeX(blk.Text))

	case Figure:
		width := blk.Width
		if width <= 0 || width > 1 {
			width = 1
		}
		path, err := filepath.Abs(blk.Path)
		if err != nil {
			return err
		}
		sb.WriteString("\\begin{figure}[h!]\n")
		sb.WriteString("\\centering\n")
		fmt.Fprintf(sb, "\\includegraphics[width=%s\\textwidth]{%s}\n", strconv.FormatFloat(width, 'f', -1, 64), filepath.ToSlash(path))
		fmt.Fprintf(sb, "\\caption{%s}\n", EscapeLaTeX(blk.Caption))
		sb.WriteString("\\end{figure}\n")

	case Table:
		cols := "|" + strings.Repeat("c|", len(blk.Header))
		fmt.Fprintf(sb, "\\begin{tabular}{%s}\n", cols)
		sb.WriteString("\\hline\n")
		header := make([]string, len(blk.Header))
		for i, h := range blk.Header {
			header[i] = "\\textbf{" + EscapeLaTeX(h) + "}"
		}
		sb.WriteString(strings.Join(header, " & ") + " \\\\\n")
		sb.WriteString("\\hline\n")
		for _, row := range blk.Rows {
			cells := make([]string, len(blk.Header))
			for i := range cells {
				if i < len(row) {
					cells[i] = EscapeLaTeX(row[i])
				}
			}
			sb.WriteString(strings.Join(cells, " & ") + " \\\\\n")
			sb.WriteString("\\hline\n")
		}
		sb.WriteString("\\end{tabular}\n\n")

	case Plot:
		color := blk.Color
		if color == "" {
			color = "black"
		}
		sb.WriteString("\\begin{tikzpicture}\n")
		sb.WriteString("\\begin{axis}[\n")
		sb.WriteString("    width=14cm,\n")
		sb.WriteString("    height=6cm,\n")
		sb.WriteString("    grid=both,\n")
		fmt.Fprintf(sb, "    xlabel={%s},\n", EscapeLaTeX(blk.Curve.XLabel))
		fmt.Fprintf(sb, "    ylabel={%s},\n", EscapeLaTeX(blk.Curve.YLabel))
		sb.WriteString("    thick,\n")
		sb.WriteString("]\n")
		fmt.Fprintf(sb, "\\addplot[%s, mark=none] coordinates {\n", color)
		sb.WriteString(Coordinates(blk.Curve.X, blk.Curve.Y))
		sb.WriteString("\n};\n")
		sb.WriteString("\\end{axis}\n")
		sb.WriteString("\\end{tikzpicture}\n\n")

	default:
		return fmt.Errorf("%w: %T", ErrUnknownBlock, b)
	}
	return nil
}

// Coordinates formats a series as pgfplots "(x,y)" pairs, one per line,
// rounded to three decimals.
func Coordinates(x, y []float64) string {
	n := min(len(x), len(y))
	lines := make([]string, n)
	for i := 0; i < n; i++ {
		lines[i] = "(" + round3(x[i]) + "," + round3(y[i]) + ")"
	}
	return strings.Join(lines, "\n")
}

func round3(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
	`|`, `\textbar{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
)

// EscapeLaTeX escapes the characters LaTeX treats specially in text
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}
