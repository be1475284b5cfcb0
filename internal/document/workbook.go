package document

import (
	"fmt"
	"io"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// WorkbookContentType is the MIME type of the distribution export.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	distributionSheet = "Distribution"
	questionsSheet    = "Questions"
)

// WriteDistributionWorkbook exports the CO × Bloom's level matrix, the band
// summary and the question list of a paper as an .xlsx workbook.
func WriteDistributionWorkbook(p *model.QuestionPaper, out io.Writer) error {
	if p == nil {
		return ErrNoPaper
	}
	d := p.Distribution()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), distributionSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(questionsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	set := func(sheet string, col, row int, v interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	boldRow := func(sheet string, row, cols int) {
		from, _ := excelize.CoordinatesToCellName(1, row)
		to, _ := excelize.CoordinatesToCellName(cols, row)
		_ = f.SetCellStyle(sheet, from, to, boldStyle)
	}

	// ─── Distribution sheet ────────────────────────────────────────────
	s := distributionSheet
	set(s, 1, 1, fmt.Sprintf("%s %s - %s", p.CourseCode, p.CourseTitle, p.ExamMonthYear))
	set(s, 1, 2, fmt.Sprintf("Status: %s", p.Status))
	boldRow(s, 1, 1)

	row := 4
	set(s, 1, row, "CO")
	for i, l := range model.BloomLevels {
		set(s, i+2, row, string(l))
	}
	set(s, len(model.BloomLevels)+2, row, "Total")
	boldRow(s, row, len(model.BloomLevels)+2)
	for _, co := range model.CourseOutcomes {
		row++
		set(s, 1, row, string(co))
		for i, l := range model.BloomLevels {
			set(s, i+2, row, d.Matrix[co][l])
		}
		set(s, len(model.BloomLevels)+2, row, d.ByCO[co])
	}
	row++
	set(s, 1, row, "Total")
	for i, l := range model.BloomLevels {
		set(s, i+2, row, d.ByBloom[l])
	}
	set(s, len(model.BloomLevels)+2, row, d.TotalMarks)
	boldRow(s, row, len(model.BloomLevels)+2)

	row += 2
	for i, h := range []string{"Band", "Marks", "Percent", "Min %", "Max %", "Within policy"} {
		set(s, i+1, row, h)
	}
	boldRow(s, row, 6)
	for _, band := range d.Bands {
		row++
		set(s, 1, row, string(band.Band))
		set(s, 2, row, band.Marks)
		set(s, 3, row, band.Percent)
		set(s, 4, row, band.MinPercent)
		set(s, 5, row, band.MaxPercent)
		set(s, 6, row, band.WithinPolicy)
	}

	if len(d.Violations) > 0 {
		row += 2
		set(s, 1, row, "Violations")
		boldRow(s, row, 1)
		for _, v := range d.Violations {
			row++
			set(s, 1, row, v)
		}
	}
	_ = f.SetColWidth(s, "A", "A", 16)
	_ = f.SetColWidth(s, "B", "H", 10)

	// ─── Questions sheet ───────────────────────────────────────────────
	s = questionsSheet
	for i, h := range []string{"Part", "Q.No.", "Option", "CO", "BL", "Marks", "Subdivisions", "Question"} {
		set(s, i+1, 1, h)
	}
	boldRow(s, 1, 8)
	for i, q := range model.SortedQuestions(p.Questions) {
		r := i + 2
		set(s, 1, r, string(q.Part))
		set(s, 2, r, q.Number)
		set(s, 3, r, q.Option)
		set(s, 4, r, string(q.CourseOutcome))
		set(s, 5, r, string(q.BloomLevel))
		set(s, 6, r, q.Marks)
		set(s, 7, r, len(q.Subdivisions))
		set(s, 8, r, q.Text)
	}
	_ = f.SetColWidth(s, "A", "G", 10)
	_ = f.SetColWidth(s, "H", "H", 80)

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
