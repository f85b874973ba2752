package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/alexiusacademia/beamreport/internal/diagram"
)

// Page layout (mm)
const (
	pdfMargin     = 20.0
	pdfLineHeight = 6.0
	pdfFont       = "Helvetica"
)

// PDFRenderer writes the report directly as a PDF file
type PDFRenderer struct {
	// WorkDir receives the diagram images; a temporary directory is used when empty
	WorkDir string
	Logger  *zap.Logger
}

// Render draws the document and writes it to output. The file only
// appears once the whole document has been produced.
func (r *PDFRenderer) Render(ctx context.Context, doc *Document, output string) error {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := checkFigures(doc); err != nil {
		return err
	}

	workDir := r.WorkDir
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "beamreport-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		workDir = tmp
	}

	images, err := exportPlots(ctx, doc, workDir)
	if err != nil {
		return err
	}
	for name, path := range images {
		log.Debug("Diagram exported", zap.String("plot", name), zap.String("path", path))
	}

	// First pass finds the page of each heading for the contents page
	first, err := drawPDF(doc, images, nil)
	if err != nil {
		return err
	}
	final, err := drawPDF(doc, images, first.headingPages)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeAtomic(output, func(f *os.File) error { return final.pdf.Output(f) }); err != nil {
		return err
	}

	log.Info("PDF written", zap.String("path", output), zap.Int("pages", final.pdf.PageNo()))
	return nil
}

// checkFigures fails before any drawing when an image file is missing
func checkFigures(doc *Document) error {
	for _, b := range doc.Blocks {
		fig, ok := b.(Figure)
		if !ok {
			continue
		}
		if fig.Path == "" {
			return fmt.Errorf("%w: figure %q has no path", ErrMissingImage, fig.Caption)
		}
		if _, err := os.Stat(fig.Path); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingImage, fig.Path)
		}
	}
	return nil
}

// exportPlots saves every plot block as a PNG in dir
func exportPlots(ctx context.Context, doc *Document, dir string) (map[string]string, error) {
	images := make(map[string]string)
	for i, b := range doc.Blocks {
		p, ok := b.(Plot)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("plot%d", i)
		}
		path, err := diagram.Export(p.Curve, filepath.Join(dir, name+".png"))
		if err != nil {
			return nil, err
		}
		images[name] = path
	}
	return images, nil
}

type pdfDoc struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	images       map[string]string
	toc          []int // page of each heading from the previous pass
	headingPages []int
	counters     [2]int
	width        float64 // usable text width
}

func drawPDF(doc *Document, images map[string]string, toc []int) (*pdfDoc, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator("beamreport", true)

	pw, _ := pdf.GetPageSize()
	d := &pdfDoc{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		images: images,
		toc:    toc,
		width:  pw - 2*pdfMargin,
	}

	pdf.SetFooterFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	for i, b := range doc.Blocks {
		if err := d.draw(doc, i, b); err != nil {
			return nil, err
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("pdf block %d: %w", i, err)
		}
	}
	return d, nil
}

func (d *pdfDoc) draw(doc *Document, idx int, b Block) error {
	pdf := d.pdf

	switch blk := b.(type) {
	case TitlePage:
		pdf.SetY(90)
		pdf.SetFont(pdfFont, "B", 22)
		pdf.MultiCell(0, 11, d.tr(blk.Title), "", "C", false)
		pdf.Ln(10)
		pdf.SetFont(pdfFont, "", 13)
		pdf.CellFormat(0, 8, d.tr(blk.Author), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 8, blk.Date.Format("January 2, 2006"), "", 1, "C", false, 0, "")

	case PageBreak:
		pdf.AddPage()

	case Contents:
		pdf.SetFont(pdfFont, "B", 18)
		pdf.CellFormat(0, 12, "Contents", "", 1, "L", false, 0, "")
		pdf.Ln(4)
		var n [2]int
		for i, h := range doc.Sections() {
			label := sectionNumber(&n, h.Level) + "  " + h.Text
			indent := 0.0
			style := "B"
			if h.Level > 1 {
				indent = 8
				style = ""
			}
			page := ""
			if i < len(d.toc) {
				page = fmt.Sprintf("%d", d.toc[i])
			}
			pdf.SetFont(pdfFont, style, 11)
			pdf.SetX(pdfMargin + indent)
			pdf.CellFormat(d.width-indent-15, 7, d.tr(label), "", 0, "L", false, 0, "")
			pdf.CellFormat(15, 7, page, "", 1, "R", false, 0, "")
		}

	case Heading:
		size := 16.0
		if blk.Level > 1 {
			size = 13
		}
		pdf.Ln(4)
		label := sectionNumber(&d.counters, blk.Level) + "  " + blk.Text
		d.headingPages = append(d.headingPages, pdf.PageNo())
		pdf.Bookmark(d.tr(blk.Text), blk.Level-1, -1)
		pdf.SetFont(pdfFont, "B", size)
		pdf.CellFormat(0, 10, d.tr(label), "", 1, "L", false, 0, "")
		pdf.Ln(1)

	case Paragraph:
		pdf.SetFont(pdfFont, "", 11)
		pdf.MultiCell(0, pdfLineHeight, d.tr(blk.Text), "", "L", false)
		pdf.Ln(2)

	case Figure:
		width := d.width
		if blk.Width > 0 && blk.Width < 1 {
			width = d.width * blk.Width
		}
		d.image(blk.Path, width)
		pdf.SetFont(pdfFont, "I", 10)
		pdf.CellFormat(0, pdfLineHeight, d.tr("Figure: "+blk.Caption), "", 1, "C", false, 0, "")
		pdf.Ln(2)

	case Table:
		d.table(blk)

	case Plot:
		path, ok := d.images[blk.Name]
		if !ok {
			path, ok = d.images[fmt.Sprintf("plot%d", idx)]
		}
		if !ok {
			return fmt.Errorf("plot %q was not exported", blk.Curve.Title)
		}
		d.image(path, d.width)

	default:
		return fmt.Errorf("%w: %T", ErrUnknownBlock, b)
	}
	return nil
}

// image places a centred image scaled to width, keeping its aspect ratio
func (d *pdfDoc) image(path string, width float64) {
	pdf := d.pdf
	opts := fpdf.ImageOptions{ImageType: imageType(path), ReadDpi: true}
	info := pdf.RegisterImageOptions(path, opts)
	if info == nil || pdf.Err() {
		return
	}
	height := width * info.Height() / info.Width()

	_, ph := pdf.GetPageSize()
	if pdf.GetY()+height > ph-pdfMargin {
		pdf.AddPage()
	}
	x := pdfMargin + (d.width-width)/2
	pdf.ImageOptions(path, x, pdf.GetY(), width, height, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + height + 2)
}

func (d *pdfDoc) table(t Table) {
	pdf := d.pdf
	if len(t.Header) == 0 {
		return
	}
	widths := d.columnWidths(t)
	var total float64
	for _, w := range widths {
		total += w
	}
	left := pdfMargin + (d.width-total)/2

	pdf.SetFont(pdfFont, "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetX(left)
	for i, h := range t.Header {
		pdf.CellFormat(widths[i], 8, d.tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 11)
	for _, row := range t.Rows {
		pdf.SetX(left)
		for i := range t.Header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], 7, d.tr(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// columnWidths sizes each column to its widest cell, shrinking all
// columns proportionally when the table is wider than the page.
func (d *pdfDoc) columnWidths(t Table) []float64 {
	pdf := d.pdf
	widths := make([]float64, len(t.Header))

	pdf.SetFont(pdfFont, "B", 11)
	for i, h := range t.Header {
		widths[i] = pdf.GetStringWidth(d.tr(h))
	}
	pdf.SetFont(pdfFont, "", 11)
	for _, row := range t.Rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], pdf.GetStringWidth(d.tr(row[i])))
			}
		}
	}

	var total float64
	for i := range widths {
		widths[i] = max(widths[i]+8, 35)
		total += widths[i]
	}
	if total > d.width {
		for i := range widths {
			widths[i] *= d.width / total
		}
	}
	return widths
}

func imageType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

// sectionNumber advances the counters and returns "1" or "1.2"
func sectionNumber(n *[2]int, level int) string {
	if level <= 1 {
		n[0]++
		n[1] = 0
		return fmt.Sprintf("%d", n[0])
	}
	n[1]++
	return fmt.Sprintf("%d.%d", n[0], n[1])
}

// writeAtomic writes through a temporary file next to path and renames it
// into place only when write succeeds.
func writeAtomic(path string, write func(*os.File) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, ".beamreport-*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err = write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
