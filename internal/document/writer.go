// Package document renders question papers into Office Open XML files: the
// printable paper as .docx and its mark distribution as .xlsx.
package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/campusdesk/erp-backend/internal/config"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/gomutex/godocx"
	"github.com/skip2/go-qrcode"
)

// ContentType is the MIME type of a generated paper.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const corePropsPart = "docProps/core.xml"

var ErrNoPaper = errors.New("document: nil paper")

// Writer renders question papers using a fixed institution template.
type Writer struct {
	tmpl config.DocumentTemplate
}

func NewWriter(tmpl config.DocumentTemplate) *Writer {
	return &Writer{tmpl: tmpl}
}

// Render writes p as a .docx document to out. The output depends only on the
// paper and the template.
func (w *Writer) Render(p *model.QuestionPaper, out io.Writer) error {
	if p == nil {
		return ErrNoPaper
	}

	qrPath, err := w.writeQRCode(p)
	if err != nil {
		return err
	}
	defer os.Remove(qrPath)

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("open base document: %w", err)
	}
	defer doc.Close()

	if err := w.layout(doc, p, qrPath); err != nil {
		return err
	}

	core, err := coreProps(p)
	if err != nil {
		return fmt.Errorf("encode core properties: %w", err)
	}
	doc.FileMap.Store(corePropsPart, core)

	if err := doc.Write(out); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// RenderBytes is Render into memory.
func (w *Writer) RenderBytes(p *model.QuestionPaper) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Render(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeQRCode stores the verification code image in a temporary file and
// returns its path. godocx embeds pictures from disk only.
func (w *Writer) writeQRCode(p *model.QuestionPaper) (string, error) {
	png, err := qrcode.Encode(w.verificationCode(p), qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode verification code: %w", err)
	}

	f, err := os.CreateTemp("", "paper-qr-*.png")
	if err != nil {
		return "", fmt.Errorf("create verification image: %w", err)
	}
	if _, err := f.Write(png); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write verification image: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close verification image: %w", err)
	}
	return f.Name(), nil
}

func (w *Writer) verificationCode(p *model.QuestionPaper) string {
	return w.tmpl.VerificationURL + p.ID.String()
}

type dcTerm struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

type coreProperties struct {
	XMLName  xml.Name `xml:"cp:coreProperties"`
	CP       string   `xml:"xmlns:cp,attr"`
	DC       string   `xml:"xmlns:dc,attr"`
	DCTerms  string   `xml:"xmlns:dcterms,attr"`
	XSI      string   `xml:"xmlns:xsi,attr"`
	Title    string   `xml:"dc:title"`
	Subject  string   `xml:"dc:subject"`
	Creator  string   `xml:"dc:creator"`
	Created  dcTerm   `xml:"dcterms:created"`
	Modified dcTerm   `xml:"dcterms:modified"`
}

// coreProps replaces the base template's metadata so the package carries the
// paper's title, author and submission time instead of the library defaults.
func coreProps(p *model.QuestionPaper) ([]byte, error) {
	created := p.UpdatedAt
	if p.SubmittedAt != nil {
		created = *p.SubmittedAt
	}
	stamp := created.UTC().Format(time.RFC3339)

	out, err := xml.Marshal(coreProperties{
		CP:       "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		DC:       "http://purl.org/dc/elements/1.1/",
		DCTerms:  "http://purl.org/dc/terms/",
		XSI:      "http://www.w3.org/2001/XMLSchema-instance",
		Title:    strings.TrimSpace(p.CourseCode + " " + p.CourseTitle + " " + p.ExamMonthYear),
		Subject:  "Question paper " + p.ID.String(),
		Creator:  p.FacultyName,
		Created:  dcTerm{Type: "dcterms:W3CDTF", Value: stamp},
		Modified: dcTerm{Type: "dcterms:W3CDTF", Value: stamp},
	})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// FileName returns the download name of a paper, e.g. "CS3401_NOV_DEC_2024.docx".
func FileName(p *model.QuestionPaper) string {
	name := strings.Trim(unsafeName.ReplaceAllString(p.CourseCode+"_"+p.ExamMonthYear, "_"), "_")
	if name == "" {
		name = "question_paper_" + p.ID.String()
	}
	return name + ".docx"
}
