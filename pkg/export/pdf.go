package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Field is one labelled row of a profile sheet.
type Field struct {
	Label string
	Value string
}

// Document describes a single-profile PDF.
type Document struct {
	Title  string
	Fields []Field
	Photo  []byte // optional JPEG
}

const (
	labelWidth = 50.0
	valueWidth = 130.0
	rowHeight  = 7.0
	photoWidth = 45.0
)

// PDF renders doc as an A4 page: title, optional photo, then a two-column
// field table. Empty values are skipped.
func PDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string {
		return tr(strings.ReplaceAll(s, "₹", "Rs. "))
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(139, 30, 63)
	pdf.CellFormat(0, 12, text(doc.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(doc.Photo) > 0 {
		opts := fpdf.ImageOptions{ImageType: "JPG", ReadDpi: false}
		info := pdf.RegisterImageOptionsReader("photo", opts, bytes.NewReader(doc.Photo))
		if info != nil && pdf.Ok() {
			y := pdf.GetY()
			pdf.ImageOptions("photo", 15, y, photoWidth, 0, false, opts, 0, "")
			pdf.SetY(y + photoWidth*info.Height()/info.Width() + 4)
		} else {
			// skip unreadable photos
			pdf.ClearError()
		}
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 236, 239)
	for _, f := range doc.Fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelWidth, rowHeight, text(f.Label), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(valueWidth, rowHeight, text(f.Value), "1", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
