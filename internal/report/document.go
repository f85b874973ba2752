package report

import (
	"context"
	"errors"
	"time"

	"github.com/alexiusacademia/beamreport/internal/diagram"
)

var (
	// ErrMissingImage is returned when a figure references a file that does not exist
	ErrMissingImage = errors.New("image not found")

	// ErrUnknownBlock is returned by a renderer for a block type it cannot draw
	ErrUnknownBlock = errors.New("unsupported document block")
)

// Renderer turns an assembled document into a finished file
type Renderer interface {
	Render(ctx context.Context, doc *Document, output string) error
}

// Document is an ordered list of blocks plus title metadata
type Document struct {
	Title  string
	Author string
	Date   time.Time
	Blocks []Block
}

// Block is one element of the document body
type Block interface {
	block()
}

// TitlePage shows the document title, author and date
type TitlePage struct {
	Title  string
	Author string
	Date   time.Time
}

// PageBreak starts a new page
type PageBreak struct{}

// Contents is the table of contents
type Contents struct{}

// Heading opens a section (level 1) or subsection (level 2)
type Heading struct {
	Level int
	Text  string
}

// Paragraph is narrative text
type Paragraph struct {
	Text string
}

// Figure embeds an image file
type Figure struct {
	Path    string
	Caption string
	Width   float64 // fraction of the text width
}

// Table is a bordered grid with a bold header row
type Table struct {
	Header []string
	Rows   [][]string
}

// Plot is a line diagram drawn from sampled coordinates
type Plot struct {
	Name  string // file stem for rendered images
	Color string // colour name used by text backends
	Curve diagram.Curve
}

func (TitlePage) block() {}
func (PageBreak) block() {}
func (Contents) block()  {}
func (Heading) block()   {}
func (Paragraph) block() {}
func (Figure) block()    {}
func (Table) block()     {}
func (Plot) block()      {}

// Sections returns the headings in document order
func (d *Document) Sections() []Heading {
	var out []Heading
	for _, b := range d.Blocks {
		if h, ok := b.(Heading); ok {
			out = append(out, h)
		}
	}
	return out
}
