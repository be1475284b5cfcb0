package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/campusdesk/erp-backend/internal/config"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

func samplePaper(t *testing.T) *model.QuestionPaper {
	t.Helper()
	now := time.Date(2024, 11, 4, 10, 30, 0, 0, time.UTC)
	p := model.NewQuestionPaper(12, model.PaperDetails{
		CourseID:       3,
		RegulationID:   1,
		AcademicYear:   "2024-2025",
		Semester:       3,
		ExamMonthYear:  "NOV/DEC 2024",
		CODescriptions: model.SampleCODescriptions,
	}, now)
	p.CourseCode = "CS3301"
	p.CourseTitle = "Data Structures"
	p.RegulationName = "R2021"
	p.FacultyName = "Dr. A. Kumar & Co"
	for _, q := range model.SampleQuestions() {
		if _, err := p.AddQuestion(q); err != nil {
			t.Fatalf("AddQuestion: %v", err)
		}
	}
	if err := p.Submit(now); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return p
}

func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(b)
	}
	return parts
}

// qrMediaPart is where godocx stores the first embedded picture.
const qrMediaPart = "word/media/image1.png"

func TestRender_PackageParts(t *testing.T) {
	w := NewWriter(config.DefaultDocumentTemplate())
	data, err := w.RenderBytes(samplePaper(t))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	parts := readParts(t, data)
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"word/document.xml",
		"word/styles.xml",
		"word/_rels/document.xml.rels",
		qrMediaPart,
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
	if !strings.HasPrefix(parts[qrMediaPart], "\x89PNG") {
		t.Error("verification image is not a PNG")
	}
	if !strings.Contains(parts["word/_rels/document.xml.rels"], "media/image1.png") {
		t.Error("verification image has no relationship")
	}

	core := parts[corePropsPart]
	for _, want := range []string{
		"2024-11-04T10:30:00Z",
		"<dc:title>CS3301 Data Structures NOV/DEC 2024</dc:title>",
		"<dc:creator>Dr. A. Kumar &amp; Co</dc:creator>",
	} {
		if !strings.Contains(core, want) {
			t.Errorf("core properties miss %q: %s", want, core)
		}
	}
	if strings.Contains(core, "godocx") {
		t.Error("core properties still carry the base template metadata")
	}
}

func TestRender_DocumentContent(t *testing.T) {
	tmpl := config.DefaultDocumentTemplate()
	tmpl.Institution = "Sri Example Engineering College"
	p := samplePaper(t)

	data, err := NewWriter(tmpl).RenderBytes(p)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := readParts(t, data)["word/document.xml"]

	ordered := []string{
		"Sri Example Engineering College",
		"NOV/DEC 2024",
		"CS3301 - Data Structures",
		"(Regulation R2021)",
		"Instructions to candidates:",
		"Course Outcomes",
		model.SampleCODescriptions[0],
		"PART A (10 x 2 = 20 Marks)",
		"Define an abstract data type with an example.",
		"PART B (5 x 13 = 65 Marks)",
		"11. (a)",
		"(OR)",
		"(i) Convert the expression (A + B) * (C - D) to postfix. (7)",
		"(ii) Evaluate 6 2 3 + - 3 8 2 / + * using a stack. (6)",
		"15. (a)",
		"PART C (1 x 15 = 15 Marks)",
		`<w:br w:type="page"></w:br>`,
		"QUESTION PAPER SETTER&#39;S CHECKLIST",
		"Declaration",
		"MARK DISTRIBUTION",
		"Lower order",
		"40% and above",
	}
	pos := 0
	for _, want := range ordered {
		idx := strings.Index(doc[pos:], want)
		if idx < 0 {
			t.Fatalf("document is missing %q after offset %d", want, pos)
		}
		pos += idx + len(want)
	}

	if !strings.Contains(doc, "Dr. A. Kumar &amp; Co") {
		t.Error("faculty name is not XML escaped")
	}
	if got := strings.Count(doc, "(OR)"); got != 5 {
		t.Errorf("found %d OR separators, want 5", got)
	}
	if !strings.Contains(doc, `r:embed="rId`) {
		t.Error("verification code image is not embedded")
	}
}

func TestRender_Deterministic(t *testing.T) {
	p := samplePaper(t)

	first, err := NewWriter(config.DefaultDocumentTemplate()).RenderBytes(p)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := NewWriter(config.DefaultDocumentTemplate()).RenderBytes(p)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("rendering the same paper twice produced different bytes")
	}
}

func TestRender_RemovesVerificationImage(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	before, err := filepath.Glob(filepath.Join(os.TempDir(), "paper-qr-*.png"))
	if err != nil {
		t.Fatal(err)
	}

	w := NewWriter(config.DefaultDocumentTemplate())
	if _, err := w.RenderBytes(samplePaper(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := w.Render(samplePaper(t), failingWriter{}); err == nil {
		t.Fatal("expected write failure to be reported")
	}

	after, err := filepath.Glob(filepath.Join(os.TempDir(), "paper-qr-*.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before) {
		t.Errorf("temporary images left behind: %v", after)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_Errors(t *testing.T) {
	w := NewWriter(config.DefaultDocumentTemplate())
	if err := w.Render(nil, io.Discard); !errors.Is(err, ErrNoPaper) {
		t.Errorf("Render(nil) = %v, want ErrNoPaper", err)
	}
	if err := w.Render(samplePaper(t), failingWriter{}); err == nil {
		t.Error("expected write failure to be reported")
	}
}

func TestFileName(t *testing.T) {
	p := samplePaper(t)
	if got := FileName(p); got != "CS3301_NOV_DEC_2024.docx" {
		t.Errorf("FileName = %q", got)
	}
	p.CourseCode, p.ExamMonthYear = "", ""
	if got := FileName(p); !strings.HasPrefix(got, "question_paper_") {
		t.Errorf("FileName without metadata = %q", got)
	}
}

func TestWriteDistributionWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDistributionWorkbook(samplePaper(t), &buf); err != nil {
		t.Fatalf("WriteDistributionWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != distributionSheet || sheets[1] != questionsSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	// Row 10 is the totals row under the five CO rows.
	total, err := f.GetCellValue(distributionSheet, "H10")
	if err != nil {
		t.Fatal(err)
	}
	if total != "100" {
		t.Errorf("total marks cell = %q, want 100", total)
	}

	rows, err := f.GetRows(questionsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1+21 {
		t.Errorf("question rows = %d, want 22", len(rows))
	}
}
