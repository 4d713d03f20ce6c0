package export

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin    = 10.0
	pdfRowHeight = 6.0
)

// PDFSink renders each table as a printable report at <Dir>/<destination>.pdf.
type PDFSink struct {
	Dir string
}

func NewPDFSink(dir string) *PDFSink {
	return &PDFSink{Dir: dir}
}

func (s *PDFSink) Name() string { return "pdf" }

// Path returns the file a destination is written to.
func (s *PDFSink) Path(destination string) (string, error) {
	name, err := SanitizeDestination(destination)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, name+".pdf"), nil
}

func (s *PDFSink) Write(ctx context.Context, destination string, t Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(destination)
	if err != nil {
		return err
	}
	data, err := RenderPDF(destination, t)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", destination, err)
	}
	return writeFileAtomic(s.Dir, path, data)
}

// RenderPDF lays t out as a landscape A4 table under title. Columns share the
// page width equally and the header repeats on every page.
func RenderPDF(title string, t Table) ([]byte, error) {
	if len(t.Header) == 0 {
		return nil, fmt.Errorf("table has no header")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	// Core fonts are cp1252; this maps UTF-8 input onto it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	colW := (pageW - 2*pdfMargin) / float64(len(t.Header))

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range t.Header {
			pdf.CellFormat(colW, pdfRowHeight+1, tr(col), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("%d rows", t.Len()), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(t.Header))
		}
		for _, cell := range row {
			pdf.CellFormat(colW, pdfRowHeight, tr(fitCell(pdf, cell, colW)), "1", 0, alignFor(cell), false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitCell truncates text that would overflow a column.
func fitCell(pdf *fpdf.Fpdf, text string, width float64) string {
	const pad = 2.0
	if pdf.GetStringWidth(text) <= width-pad {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width-pad {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// alignFor right-aligns numeric cells.
func alignFor(cell string) string {
	if cell == "" {
		return "L"
	}
	if strings.Trim(cell, "0123456789.-") == "" {
		return "R"
	}
	return "L"
}
