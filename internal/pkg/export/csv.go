// Package export renders session reports as downloadable CSV and PDF files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/seyi/unimark/internal/app/models"
)

// SessionCSV writes the report to w as CSV, one row per present student in
// sign-in order.
func SessionCSV(w io.Writer, report *models.SessionReport) error {
	cw := csv.NewWriter(w)

	header := []string{"Student Name", "Matric No", "Department", "Time In"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, row := range report.Rows {
		record := []string{
			row.Name,
			row.MatricNo,
			row.Department,
			row.SignedInAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename builds the download name for an export, e.g.
// "CSC101_attendance_2026-03-12.csv".
func Filename(report *models.SessionReport, ext string) string {
	return fmt.Sprintf("%s_attendance_%s.%s", report.CourseCode, report.SessionDate.Format("2006-01-02"), ext)
}
