package document

import (
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/stypes"
)

const (
	// A4 portrait with 2 cm margins, in twentieths of a point.
	pageWidth   = 11906
	pageMargin  = 1134
	usableWidth = pageWidth - 2*pageMargin

	fontFace = "Times New Roman"

	headerFill = "D9D9D9"
)

// format collects the paragraph and run settings applied by line.
type format struct {
	bold   bool
	italic bool
	size   uint64 // points; 0 keeps the style default
	align  stypes.Justification
	after  uint64
}

type option func(*format)

func bold(f *format)    { f.bold = true }
func italic(f *format)  { f.italic = true }
func center(f *format)  { f.align = stypes.JustificationCenter }
func right(f *format)   { f.align = stypes.JustificationRight }
func justify(f *format) { f.align = stypes.JustificationBoth }

func size(points uint64) option {
	return func(f *format) { f.size = points }
}

func spaceAfter(twips uint64) option {
	return func(f *format) { f.after = twips }
}

func newFormat(opts []option) format {
	f := format{after: 60}
	for _, o := range opts {
		o(&f)
	}
	return f
}

func (f format) apply(p *docx.Paragraph) {
	if f.align != "" {
		p.Justification(f.align)
	}
	p.Spacing(0, f.after)
}

func (f format) run(r *docx.Run) {
	r.Font(fontFace)
	if f.bold {
		r.Bold(true)
	}
	if f.italic {
		r.Italic(true)
	}
	if f.size > 0 {
		r.Size(f.size)
	}
}

// line fills an empty paragraph with a single formatted run.
func line(p *docx.Paragraph, text string, opts ...option) *docx.Paragraph {
	f := newFormat(opts)
	f.apply(p)
	f.run(p.AddText(text))
	return p
}

// labelled writes a bold label followed by a plain value.
func labelled(p *docx.Paragraph, label, value string, opts ...option) *docx.Paragraph {
	f := newFormat(opts)
	f.apply(p)
	lf := f
	lf.bold = true
	lf.run(p.AddText(label))
	if value != "" {
		f.run(p.AddText(value))
	}
	return p
}

// grid is a table under construction with fixed column widths in twips.
type grid struct {
	tbl    *docx.Table
	widths []uint64
}

func newGrid(doc *docx.RootDoc, borderless bool, widths ...uint64) *grid {
	t := doc.AddTable()
	if borderless {
		t.Style("TableNormal")
	} else {
		t.Style("TableGrid")
	}
	var total uint64
	for _, w := range widths {
		total += w
	}
	t.Width(int(total), stypes.TableWidthDxa).Grid(widths...)
	return &grid{tbl: t, widths: widths}
}

// row appends a row and returns a function yielding its cells left to right.
// span widens a cell over several grid columns.
func (g *grid) row() func(span int) *docx.Cell {
	r := g.tbl.AddRow()
	col := 0
	return func(span int) *docx.Cell {
		if span < 1 {
			span = 1
		}
		var width uint64
		for i := col; i < col+span && i < len(g.widths); i++ {
			width += g.widths[i]
		}
		col += span
		c := r.AddCell().Width(int(width), stypes.TableWidthDxa)
		if span > 1 {
			c.ColSpan(span)
		}
		return c
	}
}

// texts appends a row of single-paragraph cells sharing the same format.
func (g *grid) texts(values []string, opts ...option) {
	cell := g.row()
	for _, v := range values {
		line(cell(1).AddEmptyPara(), v, opts...)
	}
}

// header appends a shaded, bold, centred heading row.
func (g *grid) header(values ...string) {
	cell := g.row()
	for _, v := range values {
		c := cell(1).BackgroundColor(headerFill)
		line(c.AddEmptyPara(), v, bold, center, spaceAfter(0))
	}
}
