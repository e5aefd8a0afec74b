package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/seyi/unimark/internal/app/models"
)

// SessionPDF renders the report as a PDF document and writes it to w.
func SessionPDF(w io.Writer, report *models.SessionReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(report.CourseCode+" attendance report", false)
	pdf.AddPage()

	// title bar
	pdf.SetFillColor(41, 98, 255)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, fmt.Sprintf("Attendance Report - %s", report.CourseCode), "", 1, "C", true, 0, "")

	pdf.Ln(4)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Session date: "+report.SessionDate.Format("Mon, 02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Total present: "+strconv.Itoa(report.TotalPresent), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{12, 62, 42, 48, 26}
	headers := []string{"#", "Student Name", "Matric No", "Department", "Time In"}

	pdf.SetFillColor(41, 98, 255)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "", 9)
	for i, row := range report.Rows {
		// zebra striping
		if i%2 == 1 {
			pdf.SetFillColor(235, 240, 255)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		cells := []string{
			strconv.Itoa(i + 1),
			row.Name,
			row.MatricNo,
			row.Department,
			row.SignedInAt.Format("15:04:05"),
		}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 7, c, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering PDF: %w", err)
	}
	return nil
}
