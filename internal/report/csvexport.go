package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"projex/pkg/records"
)

// WriteCSV writes the table as UTF-8 CSV with a header row. Columns
// absent from the table are skipped entirely; cells missing from a row
// stay empty.
func WriteCSV(w io.Writer, cols []string, rows []records.Record) error {
	present := make([]string, 0, len(cols))
	for _, c := range cols {
		if records.HasColumn(rows, c) {
			present = append(present, c)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(present); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cells := make([]string, len(present))
	for _, r := range rows {
		for i, c := range present {
			cells[i] = formatCell(r[c])
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds the export filename for a view, carrying the
// generation timestamp: "<view>_20060102_150405.csv".
func Filename(view string, t time.Time) string {
	return view + "_" + t.Format("20060102_150405") + ".csv"
}

// DailyFilename is the date-only variant used by the full detail export:
// "<view>_20060102.csv".
func DailyFilename(view string, t time.Time) string {
	return view + "_" + t.Format("20060102") + ".csv"
}

// formatCell renders a value for CSV: floats print without exponent and
// without trailing zeros, times as dates, nil as empty.
func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return records.AsString(v)
	}
}
