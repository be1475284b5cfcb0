package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/stypes"
)

// Column widths in twips. Question tables span the usable page width.
var (
	questionCols = []uint64{1000, usableWidth - 1000 - 900 - 800 - 800, 900, 800, 800}
	coCols       = []uint64{1000, usableWidth - 1000}
	matrixCols   = []uint64{1300, 1150, 1150, 1150, 1150, 1150, 1150, usableWidth - 1300 - 6*1150}
	bandCols     = []uint64{1800, 1800, 1500, 2100, usableWidth - 1800 - 1800 - 1500 - 2100}
	checkCols    = []uint64{800, usableWidth - 800 - 1400, 1400}
	halfCols     = []uint64{usableWidth / 2, usableWidth - usableWidth/2}
)

const qrSize = units.Inch(0.8)

var romanSemesters = []string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII"}

func (w *Writer) layout(doc *docx.RootDoc, p *model.QuestionPaper, qrPath string) error {
	d := p.Distribution()

	if err := w.writeHeader(doc, p, qrPath); err != nil {
		return err
	}
	w.writeInstructions(doc)
	writeOutcomes(doc, p)
	writePartA(doc, p)
	writePartB(doc, p)
	writePartC(doc, p)
	line(doc.AddEmptyParagraph(), "* * * * *", center, bold)

	doc.AddPageBreak()
	w.writeChecklist(doc, p)
	writeDistribution(doc, &d)
	return nil
}

// ─── Front page ─────────────────────────────────────────────────────────────

func (w *Writer) writeHeader(doc *docx.RootDoc, p *model.QuestionPaper, qrPath string) error {
	top := newGrid(doc, true, usableWidth-1600, 1600)
	cell := top.row()
	info := cell(1)
	labelled(info.AddEmptyPara(), "Question Paper Code: ", paperCode(p))
	line(info.AddEmptyPara(), "Set by: "+orDash(p.FacultyName), italic, size(9))

	qr := cell(1).AddEmptyPara()
	qr.Justification(stypes.JustificationRight)
	if _, err := qr.AddPicture(qrPath, qrSize, qrSize); err != nil {
		return fmt.Errorf("embed verification code: %w", err)
	}

	regCols := []uint64{1400}
	for i := 0; i < 12; i++ {
		regCols = append(regCols, 450)
	}
	reg := newGrid(doc, false, regCols...).row()
	line(reg(1).AddEmptyPara(), "Reg. No.", bold, spaceAfter(0))
	for i := 0; i < 12; i++ {
		reg(1).AddEmptyPara()
	}

	line(doc.AddEmptyParagraph(), w.tmpl.Institution, bold, center, size(14), spaceAfter(0))
	line(doc.AddEmptyParagraph(), w.tmpl.Affiliation, italic, center, spaceAfter(120))
	line(doc.AddEmptyParagraph(), w.tmpl.ExamTitle, bold, center, size(12), spaceAfter(0))
	line(doc.AddEmptyParagraph(), strings.ToUpper(p.ExamMonthYear), bold, center, size(12))
	line(doc.AddEmptyParagraph(), semesterLine(p), center, spaceAfter(0))
	line(doc.AddEmptyParagraph(), p.CourseCode+" - "+p.CourseTitle, bold, center, size(12), spaceAfter(0))
	line(doc.AddEmptyParagraph(), "(Regulation "+orDash(p.RegulationName)+")", center)

	cell = newGrid(doc, true, halfCols...).row()
	labelled(cell(1).AddEmptyPara(), "Time: ", w.tmpl.Duration)
	labelled(cell(1).AddEmptyPara(), "Maximum: ", fmt.Sprintf("%d Marks", model.PaperMaxMarks), right)
	return nil
}

func (w *Writer) writeInstructions(doc *docx.RootDoc) {
	if len(w.tmpl.Instructions) == 0 {
		return
	}
	line(doc.AddEmptyParagraph(), "Instructions to candidates:", bold, spaceAfter(0))
	for i, text := range w.tmpl.Instructions {
		line(doc.AddEmptyParagraph(), fmt.Sprintf("%d. %s", i+1, text), spaceAfter(0))
	}
	doc.AddEmptyParagraph()
}

func writeOutcomes(doc *docx.RootDoc, p *model.QuestionPaper) {
	line(doc.AddEmptyParagraph(), "Course Outcomes", bold, center)
	g := newGrid(doc, false, coCols...)
	g.header("CO", "Course Outcome")
	for i, co := range model.CourseOutcomes {
		cell := g.row()
		line(cell(1).AddEmptyPara(), string(co), center)
		line(cell(1).AddEmptyPara(), orDash(p.CODescriptions[i]))
	}
}

// ─── Questions ──────────────────────────────────────────────────────────────

func questionGrid(doc *docx.RootDoc, part model.Part, count, marks int) *grid {
	line(doc.AddEmptyParagraph(), fmt.Sprintf("PART %s (%d x %d = %d Marks)", part, count, marks, count*marks),
		bold, center, spaceAfter(60))
	g := newGrid(doc, false, questionCols...)
	g.header("Q.No.", "Question", "Marks", "CO", "BL")
	return g
}

func questionRow(g *grid, number string, q *model.Question) {
	cell := g.row()
	line(cell(1).AddEmptyPara(), number, center)

	content := cell(1)
	line(content.AddEmptyPara(), q.Text, justify)
	for i, s := range q.Subdivisions {
		line(content.AddEmptyPara(), fmt.Sprintf("(%s) %s (%d)", roman(i+1), s.Text, s.Marks), justify)
	}

	line(cell(1).AddEmptyPara(), strconv.Itoa(q.Marks), center)
	line(cell(1).AddEmptyPara(), string(q.CourseOutcome), center)
	line(cell(1).AddEmptyPara(), string(q.BloomLevel), center)
}

func writePartA(doc *docx.RootDoc, p *model.QuestionPaper) {
	g := questionGrid(doc, model.PartA, model.PartAQuestions, model.PartAMarks)
	for _, q := range p.PartQuestions(model.PartA) {
		questionRow(g, fmt.Sprintf("%d.", q.Number), &q)
	}
}

func writePartB(doc *docx.RootDoc, p *model.QuestionPaper) {
	g := questionGrid(doc, model.PartB, model.PartBPairs, model.PartBMarks)

	pairs := map[int]bool{}
	var numbers []int
	for _, q := range p.PartQuestions(model.PartB) {
		if q.OrPair != nil && !pairs[*q.OrPair] {
			pairs[*q.OrPair] = true
			numbers = append(numbers, *q.OrPair)
		}
	}
	for _, n := range numbers {
		a, alt := p.OrPair(n)
		if a != nil {
			questionRow(g, fmt.Sprintf("%d. (a)", n), a)
		}
		if a != nil && alt != nil {
			line(g.row()(len(questionCols)).AddEmptyPara(), "(OR)", bold, center, spaceAfter(0))
		}
		if alt != nil {
			label := "(b)"
			if a == nil {
				label = fmt.Sprintf("%d. (b)", n)
			}
			questionRow(g, label, alt)
		}
	}
}

func writePartC(doc *docx.RootDoc, p *model.QuestionPaper) {
	g := questionGrid(doc, model.PartC, model.PartCQuestions, model.PartCMarks)
	for _, q := range p.PartQuestions(model.PartC) {
		questionRow(g, fmt.Sprintf("%d.", q.Number), &q)
	}
}

// ─── Faculty page ───────────────────────────────────────────────────────────

func (w *Writer) writeChecklist(doc *docx.RootDoc, p *model.QuestionPaper) {
	line(doc.AddEmptyParagraph(), "QUESTION PAPER SETTER'S CHECKLIST", bold, center, size(12))
	labelled(doc.AddEmptyParagraph(), "Course: ", p.CourseCode+" - "+p.CourseTitle, spaceAfter(0))
	labelled(doc.AddEmptyParagraph(), "Examination: ", strings.ToUpper(p.ExamMonthYear)+", "+semesterLine(p))

	g := newGrid(doc, false, checkCols...)
	g.header("S.No.", "Item", "Verified")
	for i, item := range w.tmpl.Checklist {
		cell := g.row()
		line(cell(1).AddEmptyPara(), strconv.Itoa(i+1), center)
		line(cell(1).AddEmptyPara(), item)
		line(cell(1).AddEmptyPara(), "Yes / No", center)
	}

	line(doc.AddEmptyParagraph(), "Declaration", bold)
	line(doc.AddEmptyParagraph(), w.tmpl.Declaration, justify, spaceAfter(240))

	submitted := "-"
	if p.SubmittedAt != nil {
		submitted = p.SubmittedAt.Format("02-01-2006")
	}
	sign := newGrid(doc, true, halfCols...)
	cell := sign.row()
	labelled(cell(1).AddEmptyPara(), "Name of the Faculty: ", orDash(p.FacultyName))
	labelled(cell(1).AddEmptyPara(), "Date: ", submitted, right)
	cell = sign.row()
	labelled(cell(1).AddEmptyPara(), "Signature: ", "")
	labelled(cell(1).AddEmptyPara(), "HOD Signature: ", "", right)
}

func writeDistribution(doc *docx.RootDoc, d *model.Distribution) {
	line(doc.AddEmptyParagraph(), "MARK DISTRIBUTION (COURSE OUTCOME vs BLOOM'S LEVEL)", bold, center)

	header := []string{"CO"}
	for _, l := range model.BloomLevels {
		header = append(header, string(l))
	}
	matrix := newGrid(doc, false, matrixCols...)
	matrix.header(append(header, "Total")...)

	for _, co := range model.CourseOutcomes {
		cell := matrix.row()
		line(cell(1).AddEmptyPara(), string(co), center, bold)
		for _, l := range model.BloomLevels {
			line(cell(1).AddEmptyPara(), strconv.Itoa(d.Matrix[co][l]), center)
		}
		line(cell(1).AddEmptyPara(), strconv.Itoa(d.ByCO[co]), center, bold)
	}
	total := []string{"Total"}
	for _, l := range model.BloomLevels {
		total = append(total, strconv.Itoa(d.ByBloom[l]))
	}
	matrix.texts(append(total, strconv.Itoa(d.TotalMarks)), center, bold)

	bands := newGrid(doc, false, bandCols...)
	bands.header("Band", "Levels", "Marks", "Percentage", "Prescribed")
	for _, band := range d.Bands {
		levels := make([]string, len(band.Levels))
		for i, l := range band.Levels {
			levels[i] = string(l)
		}
		prescribed := fmt.Sprintf("%d%% - %d%%", band.MinPercent, band.MaxPercent)
		if band.MaxPercent >= 100 {
			prescribed = fmt.Sprintf("%d%% and above", band.MinPercent)
		}
		cell := bands.row()
		line(cell(1).AddEmptyPara(), bandName(band.Band))
		line(cell(1).AddEmptyPara(), strings.Join(levels, ", "), center)
		line(cell(1).AddEmptyPara(), strconv.Itoa(band.Marks), center)
		line(cell(1).AddEmptyPara(), fmt.Sprintf("%.2f%%", band.Percent), center)
		line(cell(1).AddEmptyPara(), prescribed, center)
	}
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func paperCode(p *model.QuestionPaper) string {
	return strings.ToUpper(strings.ReplaceAll(p.ID.String(), "-", "")[:8])
}

func semesterLine(p *model.QuestionPaper) string {
	sem := strconv.Itoa(p.Semester)
	if p.Semester > 0 && p.Semester < len(romanSemesters) {
		sem = romanSemesters[p.Semester]
	}
	return fmt.Sprintf("Semester %s, Academic Year %s", sem, p.AcademicYear)
}

func bandName(b model.BloomBand) string {
	switch b {
	case model.BandLower:
		return "Lower order"
	case model.BandMiddle:
		return "Intermediate"
	default:
		return "Higher order"
	}
}

func roman(n int) string {
	if n > 0 && n < len(romanSemesters) {
		return strings.ToLower(romanSemesters[n])
	}
	return strconv.Itoa(n)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
