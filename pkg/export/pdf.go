package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 277.0

// WritePDF renders the dataset as a landscape table.
func WritePDF(w io.Writer, data Dataset) error {
	if err := data.validate(); err != nil {
		return err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(data.Title)), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	colWidth := pageWidth / float64(len(data.Headers))
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for _, value := range row {
			pdf.CellFormat(colWidth, 7, tr(truncate(value, colWidth)), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// Receipt is the content of a single payment receipt.
type Receipt struct {
	Brand      string
	Reference  string
	FullName   string
	Email      string
	Course     string
	Mode       string
	Amount     string
	Currency   string
	VerifiedAt time.Time
	Support    string
}

// WriteReceipt renders a one page payment receipt.
func WriteReceipt(w io.Writer, r Receipt) error {
	if r.Reference == "" {
		return fmt.Errorf("receipt requires a payment reference")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, tr(r.Brand), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, "Payment receipt", "", 1, "L", false, 0, "")
	pdf.Ln(6)

	lines := [][2]string{
		{"Reference", r.Reference},
		{"Student", r.FullName},
		{"Email", r.Email},
		{"Course", r.Course},
		{"Mode of learning", r.Mode},
		{"Amount paid", strings.TrimSpace(r.Currency + " " + r.Amount)},
	}
	if !r.VerifiedAt.IsZero() {
		lines = append(lines, [2]string{"Confirmed on", r.VerifiedAt.UTC().Format("2 January 2006 15:04 MST")})
	}
	for _, line := range lines {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 8, line[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, tr(line[1]), "B", 1, "L", false, 0, "")
	}

	if r.Support != "" {
		pdf.Ln(10)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, tr("Questions about this receipt? Contact "+r.Support+"."), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}

// truncate keeps cell text roughly within width mm at the table font size.
func truncate(value string, width float64) string {
	limit := int(width / 1.8)
	if limit < 4 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
