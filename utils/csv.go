// utils/csv.go - CSV report building
package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// ReportFilename builds the download name for a CSV export,
// e.g. "sanctioned-leads-2026-09-01.csv".
func ReportFilename(report string, date time.Time) string {
	return fmt.Sprintf("%s-%s.csv", report, date.Format("2006-01-02"))
}

// BuildCSV renders a header plus rows as RFC 4180 CSV. Values containing
// commas, quotes or newlines are quoted by encoding/csv, so embedded
// delimiters cannot break the row structure.
func BuildCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write csv header: %w", err)
		}
	}
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatDate renders a nullable timestamp for report cells.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// FormatAmount renders a nullable money value for report cells.
func FormatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
